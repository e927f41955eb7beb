package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/codequest-edu/codequest/core/curriculum"
)

type subjectRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r subjectRow) subject() curriculum.Subject {
	return curriculum.Subject{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description.String,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type difficultyRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	SubjectID string    `db:"subject_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r difficultyRow) difficulty() curriculum.Difficulty {
	return curriculum.Difficulty{
		ID:        r.ID,
		SubjectID: r.SubjectID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type sectionRow struct {
	ID           string         `db:"id"`
	Title        string         `db:"title"`
	Description  sql.NullString `db:"description"`
	Order        int            `db:"order"`
	DifficultyID string         `db:"difficulty_id"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r sectionRow) section() curriculum.Section {
	return curriculum.Section{
		ID:           r.ID,
		DifficultyID: r.DifficultyID,
		Title:        r.Title,
		Description:  r.Description.String,
		Order:        r.Order,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type challengeRow struct {
	ID           string         `db:"id"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	Instructions string         `db:"instructions"`
	StarterCode  sql.NullString `db:"starter_code"`
	Solution     sql.NullString `db:"solution"`
	Order        int            `db:"order"`
	SectionID    string         `db:"section_id"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r challengeRow) challenge() curriculum.Challenge {
	return curriculum.Challenge{
		ID:           r.ID,
		SectionID:    r.SectionID,
		Title:        r.Title,
		Description:  r.Description,
		Instructions: r.Instructions,
		StarterCode:  r.StarterCode.String,
		Solution:     r.Solution.String,
		Order:        r.Order,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type curriculumRepository struct {
	db *sqlx.DB
}

var _ curriculum.Repository = (*curriculumRepository)(nil) // interface compliance check

func NewCurriculumRepository(db *sql.DB) curriculum.Repository {
	return &curriculumRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *curriculumRepository) CreateSubject(ctx context.Context, sub curriculum.Subject) (curriculum.Subject, error) {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO subject (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := repo.db.ExecContext(ctx, query, sub.ID, sub.Name, nullString(sub.Description), sub.CreatedAt, sub.UpdatedAt)
	if err != nil {
		return curriculum.Subject{}, errors.Wrap(err, "creating subject")
	}
	return sub, nil
}

func (repo *curriculumRepository) QueryAllSubjects(ctx context.Context) ([]curriculum.Subject, error) {
	var rows []subjectRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM subject ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	subjects := make([]curriculum.Subject, 0, len(rows))
	for _, r := range rows {
		subjects = append(subjects, r.subject())
	}
	return subjects, nil
}

func (repo *curriculumRepository) GetSubjectByID(ctx context.Context, id string) (curriculum.Subject, error) {
	var r subjectRow
	if err := repo.db.GetContext(ctx, &r, `SELECT * FROM subject WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return curriculum.Subject{}, curriculum.ErrSubjectNotFound
		}
		return curriculum.Subject{}, errors.Wrap(err, "getting subject")
	}
	return r.subject(), nil
}

func (repo *curriculumRepository) UpdateSubject(ctx context.Context, sub curriculum.Subject) (curriculum.Subject, error) {
	const query = `
		UPDATE subject SET name = $2, description = $3, updated_at = $4 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, sub.ID, sub.Name, nullString(sub.Description), sub.UpdatedAt)
	if err != nil {
		return curriculum.Subject{}, errors.Wrap(err, "updating subject")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return curriculum.Subject{}, curriculum.ErrSubjectNotFound
	}
	return repo.GetSubjectByID(ctx, sub.ID)
}

func (repo *curriculumRepository) DeleteSubjectsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM subject WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting subjects")
	}
	return nil
}

func (repo *curriculumRepository) CreateDifficulty(ctx context.Context, diff curriculum.Difficulty) (curriculum.Difficulty, error) {
	if diff.ID == "" {
		diff.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO difficulty (id, name, subject_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := repo.db.ExecContext(ctx, query, diff.ID, diff.Name, diff.SubjectID, diff.CreatedAt, diff.UpdatedAt)
	if err != nil {
		return curriculum.Difficulty{}, errors.Wrap(err, "creating difficulty")
	}
	return diff, nil
}

func (repo *curriculumRepository) QuerySubjectDifficulties(ctx context.Context, subjectID string) ([]curriculum.Difficulty, error) {
	var rows []difficultyRow
	const query = `
		SELECT * FROM difficulty WHERE subject_id = $1 ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, query, subjectID); err != nil {
		return nil, errors.Wrap(err, "querying difficulties")
	}
	diffs := make([]curriculum.Difficulty, 0, len(rows))
	for _, r := range rows {
		diffs = append(diffs, r.difficulty())
	}
	return diffs, nil
}

func (repo *curriculumRepository) GetDifficultyByID(ctx context.Context, id string) (curriculum.Difficulty, error) {
	var r difficultyRow
	if err := repo.db.GetContext(ctx, &r, `SELECT * FROM difficulty WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return curriculum.Difficulty{}, curriculum.ErrDifficultyNotFound
		}
		return curriculum.Difficulty{}, errors.Wrap(err, "getting difficulty")
	}
	return r.difficulty(), nil
}

func (repo *curriculumRepository) DeleteDifficultiesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM difficulty WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting difficulties")
	}
	return nil
}

func (repo *curriculumRepository) CreateSection(ctx context.Context, sec curriculum.Section) (curriculum.Section, error) {
	if sec.ID == "" {
		sec.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO section (id, title, description, "order", difficulty_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(ctx, query,
		sec.ID, sec.Title, nullString(sec.Description), sec.Order, sec.DifficultyID, sec.CreatedAt, sec.UpdatedAt)
	if err != nil {
		return curriculum.Section{}, errors.Wrap(err, "creating section")
	}
	return sec, nil
}

func (repo *curriculumRepository) QueryDifficultySections(ctx context.Context, difficultyID string) ([]curriculum.Section, error) {
	var rows []sectionRow
	const query = `
		SELECT * FROM section WHERE difficulty_id = $1 ORDER BY "order", created_at`
	if err := repo.db.SelectContext(ctx, &rows, query, difficultyID); err != nil {
		return nil, errors.Wrap(err, "querying sections")
	}
	sections := make([]curriculum.Section, 0, len(rows))
	for _, r := range rows {
		sections = append(sections, r.section())
	}
	return sections, nil
}

func (repo *curriculumRepository) GetSectionByID(ctx context.Context, id string) (curriculum.Section, error) {
	var r sectionRow
	if err := repo.db.GetContext(ctx, &r, `SELECT * FROM section WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return curriculum.Section{}, curriculum.ErrSectionNotFound
		}
		return curriculum.Section{}, errors.Wrap(err, "getting section")
	}
	return r.section(), nil
}

func (repo *curriculumRepository) UpdateSection(ctx context.Context, sec curriculum.Section) (curriculum.Section, error) {
	const query = `
		UPDATE section SET title = $2, description = $3, "order" = $4, updated_at = $5 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query,
		sec.ID, sec.Title, nullString(sec.Description), sec.Order, sec.UpdatedAt)
	if err != nil {
		return curriculum.Section{}, errors.Wrap(err, "updating section")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return curriculum.Section{}, curriculum.ErrSectionNotFound
	}
	return repo.GetSectionByID(ctx, sec.ID)
}

func (repo *curriculumRepository) DeleteSectionsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM section WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting sections")
	}
	return nil
}

func (repo *curriculumRepository) CreateChallenge(ctx context.Context, ch curriculum.Challenge) (curriculum.Challenge, error) {
	if ch.ID == "" {
		ch.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO challenge (id, title, description, instructions, starter_code, solution, "order", section_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := repo.db.ExecContext(ctx, query,
		ch.ID, ch.Title, ch.Description, ch.Instructions, nullString(ch.StarterCode), nullString(ch.Solution),
		ch.Order, ch.SectionID, ch.CreatedAt, ch.UpdatedAt)
	if err != nil {
		return curriculum.Challenge{}, errors.Wrap(err, "creating challenge")
	}
	return ch, nil
}

func (repo *curriculumRepository) QuerySectionChallenges(ctx context.Context, sectionID string) ([]curriculum.Challenge, error) {
	var rows []challengeRow
	const query = `
		SELECT * FROM challenge WHERE section_id = $1 ORDER BY "order", created_at`
	if err := repo.db.SelectContext(ctx, &rows, query, sectionID); err != nil {
		return nil, errors.Wrap(err, "querying challenges")
	}
	challenges := make([]curriculum.Challenge, 0, len(rows))
	for _, r := range rows {
		challenges = append(challenges, r.challenge())
	}
	return challenges, nil
}

func (repo *curriculumRepository) GetChallengeByID(ctx context.Context, id string) (curriculum.Challenge, error) {
	var r challengeRow
	if err := repo.db.GetContext(ctx, &r, `SELECT * FROM challenge WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return curriculum.Challenge{}, curriculum.ErrChallengeNotFound
		}
		return curriculum.Challenge{}, errors.Wrap(err, "getting challenge")
	}
	return r.challenge(), nil
}

func (repo *curriculumRepository) UpdateChallenge(ctx context.Context, ch curriculum.Challenge) (curriculum.Challenge, error) {
	const query = `
		UPDATE challenge
		SET title = $2, description = $3, instructions = $4, starter_code = $5, solution = $6, "order" = $7, updated_at = $8
		WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query,
		ch.ID, ch.Title, ch.Description, ch.Instructions, nullString(ch.StarterCode), nullString(ch.Solution),
		ch.Order, ch.UpdatedAt)
	if err != nil {
		return curriculum.Challenge{}, errors.Wrap(err, "updating challenge")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return curriculum.Challenge{}, curriculum.ErrChallengeNotFound
	}
	return repo.GetChallengeByID(ctx, ch.ID)
}

func (repo *curriculumRepository) DeleteChallengesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM challenge WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting challenges")
	}
	return nil
}

// GetTree loads the four entity tables in one pass; the rollup engine
// builds its request-scoped index from this snapshot.
func (repo *curriculumRepository) GetTree(ctx context.Context) (curriculum.Tree, error) {
	var tree curriculum.Tree

	var err error
	if tree.Subjects, err = repo.QueryAllSubjects(ctx); err != nil {
		return curriculum.Tree{}, err
	}

	var diffRows []difficultyRow
	if err = repo.db.SelectContext(ctx, &diffRows, `SELECT * FROM difficulty ORDER BY created_at`); err != nil {
		return curriculum.Tree{}, errors.Wrap(err, "querying difficulties")
	}
	tree.Difficulties = make([]curriculum.Difficulty, 0, len(diffRows))
	for _, r := range diffRows {
		tree.Difficulties = append(tree.Difficulties, r.difficulty())
	}

	var secRows []sectionRow
	if err = repo.db.SelectContext(ctx, &secRows, `SELECT * FROM section ORDER BY "order", created_at`); err != nil {
		return curriculum.Tree{}, errors.Wrap(err, "querying sections")
	}
	tree.Sections = make([]curriculum.Section, 0, len(secRows))
	for _, r := range secRows {
		tree.Sections = append(tree.Sections, r.section())
	}

	var chRows []challengeRow
	if err = repo.db.SelectContext(ctx, &chRows, `SELECT * FROM challenge ORDER BY "order", created_at`); err != nil {
		return curriculum.Tree{}, errors.Wrap(err, "querying challenges")
	}
	tree.Challenges = make([]curriculum.Challenge, 0, len(chRows))
	for _, r := range chRows {
		tree.Challenges = append(tree.Challenges, r.challenge())
	}

	return tree, nil
}
