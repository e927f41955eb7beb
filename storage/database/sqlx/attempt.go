package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/codequest-edu/codequest/core/progress"
)

type attemptRow struct {
	ID            string         `db:"id"`
	UserID        string         `db:"user_id"`
	ChallengeID   string         `db:"challenge_id"`
	SubmittedCode string         `db:"submitted_code"`
	IsCorrect     bool           `db:"is_correct"`
	Feedback      sql.NullString `db:"feedback"`
	CreatedAt     time.Time      `db:"created_at"`
}

func (r attemptRow) attempt() progress.Attempt {
	return progress.Attempt{
		ID:            r.ID,
		UserID:        r.UserID,
		ChallengeID:   r.ChallengeID,
		SubmittedCode: r.SubmittedCode,
		IsCorrect:     r.IsCorrect,
		Feedback:      r.Feedback.String,
		CreatedAt:     r.CreatedAt,
	}
}

type attemptRepository struct {
	db *sqlx.DB
}

var _ progress.Repository = (*attemptRepository)(nil) // interface compliance check

func NewAttemptRepository(db *sql.DB) progress.Repository {
	return &attemptRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *attemptRepository) CreateAttempt(ctx context.Context, att progress.Attempt) (progress.Attempt, error) {
	if att.ID == "" {
		att.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO challenge_attempt (id, user_id, challenge_id, submitted_code, is_correct, feedback, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(ctx, query,
		att.ID, att.UserID, att.ChallengeID, att.SubmittedCode, att.IsCorrect, nullString(att.Feedback), att.CreatedAt)
	if err != nil {
		return progress.Attempt{}, errors.Wrap(err, "creating attempt")
	}
	return att, nil
}

func (repo *attemptRepository) GetUserAttempts(ctx context.Context, userID string) ([]progress.Attempt, error) {
	var rows []attemptRow
	const query = `
		SELECT * FROM challenge_attempt WHERE user_id = $1 ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, errors.Wrap(err, "querying attempts")
	}
	attempts := make([]progress.Attempt, 0, len(rows))
	for _, r := range rows {
		attempts = append(attempts, r.attempt())
	}
	return attempts, nil
}

func (repo *attemptRepository) FilterUserAttempts(ctx context.Context, userID string, filter progress.QueryFilter) ([]progress.Attempt, int, error) {
	where := "user_id = $1"
	args := []interface{}{userID}
	if filter.ChallengeID != "" {
		args = append(args, filter.ChallengeID)
		where += fmt.Sprintf(" AND challenge_id = $%d", len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM challenge_attempt WHERE " + where
	if err := repo.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting attempts")
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(
		"SELECT * FROM challenge_attempt WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)-1, len(args),
	)
	var rows []attemptRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying attempts")
	}
	attempts := make([]progress.Attempt, 0, len(rows))
	for _, r := range rows {
		attempts = append(attempts, r.attempt())
	}
	return attempts, total, nil
}

func (repo *attemptRepository) GetUserAttempt(ctx context.Context, userID, id string) (progress.Attempt, error) {
	var r attemptRow
	const query = `SELECT * FROM challenge_attempt WHERE id = $1 AND user_id = $2`
	if err := repo.db.GetContext(ctx, &r, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return progress.Attempt{}, progress.ErrAttemptNotFound
		}
		return progress.Attempt{}, errors.Wrap(err, "getting attempt")
	}
	return r.attempt(), nil
}
