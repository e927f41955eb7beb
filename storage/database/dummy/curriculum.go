package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/codequest-edu/codequest/core/curriculum"
)

type curriculumRepository struct {
	db *curriculumTables
}

var _ curriculum.Repository = (*curriculumRepository)(nil) // interface compliance check

func NewCurriculumRepository(db *DB) curriculum.Repository {
	return &curriculumRepository{db: db.curriculum}
}

func (repo *curriculumRepository) CreateSubject(_ context.Context, sub curriculum.Subject) (curriculum.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	repo.db.subjects[sub.ID] = &sub
	repo.db.subjectIDs = append(repo.db.subjectIDs, sub.ID)
	return sub, nil
}

func (repo *curriculumRepository) QueryAllSubjects(_ context.Context) ([]curriculum.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.querySubjects(), nil
}

func (repo *curriculumRepository) querySubjects() []curriculum.Subject {
	subjects := make([]curriculum.Subject, 0, len(repo.db.subjectIDs))
	for _, id := range repo.db.subjectIDs {
		subjects = append(subjects, *repo.db.subjects[id])
	}
	return subjects
}

func (repo *curriculumRepository) GetSubjectByID(_ context.Context, id string) (curriculum.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sub, ok := repo.db.subjects[id]; ok {
		return *sub, nil
	}
	return curriculum.Subject{}, curriculum.ErrSubjectNotFound
}

func (repo *curriculumRepository) UpdateSubject(_ context.Context, sub curriculum.Subject) (curriculum.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.subjects[sub.ID]
	if !ok {
		return curriculum.Subject{}, curriculum.ErrSubjectNotFound
	}
	if sub.Name != "" {
		orig.Name = sub.Name
	}
	if sub.Description != "" {
		orig.Description = sub.Description
	}
	orig.UpdatedAt = sub.UpdatedAt
	return *orig, nil
}

func (repo *curriculumRepository) DeleteSubjectsByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		if _, ok := repo.db.subjects[id]; !ok {
			continue
		}
		delete(repo.db.subjects, id)
		repo.db.subjectIDs = removeID(repo.db.subjectIDs, id)

		// cascade like the foreign keys do
		for _, diff := range repo.queryDifficulties() {
			if diff.SubjectID == id {
				repo.deleteDifficulty(diff.ID)
			}
		}
	}
	return nil
}

func (repo *curriculumRepository) CreateDifficulty(_ context.Context, diff curriculum.Difficulty) (curriculum.Difficulty, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if diff.ID == "" {
		diff.ID = uuid.New().String()
	}
	repo.db.difficulties[diff.ID] = &diff
	repo.db.difficultyIDs = append(repo.db.difficultyIDs, diff.ID)
	return diff, nil
}

func (repo *curriculumRepository) queryDifficulties() []curriculum.Difficulty {
	diffs := make([]curriculum.Difficulty, 0, len(repo.db.difficultyIDs))
	for _, id := range repo.db.difficultyIDs {
		diffs = append(diffs, *repo.db.difficulties[id])
	}
	return diffs
}

func (repo *curriculumRepository) QuerySubjectDifficulties(_ context.Context, subjectID string) ([]curriculum.Difficulty, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var diffs []curriculum.Difficulty
	for _, diff := range repo.queryDifficulties() {
		if diff.SubjectID == subjectID {
			diffs = append(diffs, diff)
		}
	}
	return diffs, nil
}

func (repo *curriculumRepository) GetDifficultyByID(_ context.Context, id string) (curriculum.Difficulty, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if diff, ok := repo.db.difficulties[id]; ok {
		return *diff, nil
	}
	return curriculum.Difficulty{}, curriculum.ErrDifficultyNotFound
}

func (repo *curriculumRepository) deleteDifficulty(id string) {
	delete(repo.db.difficulties, id)
	repo.db.difficultyIDs = removeID(repo.db.difficultyIDs, id)
	for _, sec := range repo.querySections() {
		if sec.DifficultyID == id {
			repo.deleteSection(sec.ID)
		}
	}
}

func (repo *curriculumRepository) DeleteDifficultiesByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		if _, ok := repo.db.difficulties[id]; ok {
			repo.deleteDifficulty(id)
		}
	}
	return nil
}

func (repo *curriculumRepository) CreateSection(_ context.Context, sec curriculum.Section) (curriculum.Section, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if sec.ID == "" {
		sec.ID = uuid.New().String()
	}
	repo.db.sections[sec.ID] = &sec
	repo.db.sectionIDs = append(repo.db.sectionIDs, sec.ID)
	return sec, nil
}

func (repo *curriculumRepository) querySections() []curriculum.Section {
	sections := make([]curriculum.Section, 0, len(repo.db.sectionIDs))
	for _, id := range repo.db.sectionIDs {
		sections = append(sections, *repo.db.sections[id])
	}
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].Order < sections[j].Order })
	return sections
}

func (repo *curriculumRepository) QueryDifficultySections(_ context.Context, difficultyID string) ([]curriculum.Section, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var sections []curriculum.Section
	for _, sec := range repo.querySections() {
		if sec.DifficultyID == difficultyID {
			sections = append(sections, sec)
		}
	}
	return sections, nil
}

func (repo *curriculumRepository) GetSectionByID(_ context.Context, id string) (curriculum.Section, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sec, ok := repo.db.sections[id]; ok {
		return *sec, nil
	}
	return curriculum.Section{}, curriculum.ErrSectionNotFound
}

func (repo *curriculumRepository) UpdateSection(_ context.Context, sec curriculum.Section) (curriculum.Section, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.sections[sec.ID]
	if !ok {
		return curriculum.Section{}, curriculum.ErrSectionNotFound
	}
	orig.Title = sec.Title
	orig.Description = sec.Description
	orig.Order = sec.Order
	orig.UpdatedAt = sec.UpdatedAt
	return *orig, nil
}

func (repo *curriculumRepository) deleteSection(id string) {
	delete(repo.db.sections, id)
	repo.db.sectionIDs = removeID(repo.db.sectionIDs, id)
	for _, ch := range repo.queryChallenges() {
		if ch.SectionID == id {
			delete(repo.db.challenges, ch.ID)
			repo.db.challengeIDs = removeID(repo.db.challengeIDs, ch.ID)
		}
	}
}

func (repo *curriculumRepository) DeleteSectionsByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		if _, ok := repo.db.sections[id]; ok {
			repo.deleteSection(id)
		}
	}
	return nil
}

func (repo *curriculumRepository) CreateChallenge(_ context.Context, ch curriculum.Challenge) (curriculum.Challenge, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if ch.ID == "" {
		ch.ID = uuid.New().String()
	}
	repo.db.challenges[ch.ID] = &ch
	repo.db.challengeIDs = append(repo.db.challengeIDs, ch.ID)
	return ch, nil
}

func (repo *curriculumRepository) queryChallenges() []curriculum.Challenge {
	challenges := make([]curriculum.Challenge, 0, len(repo.db.challengeIDs))
	for _, id := range repo.db.challengeIDs {
		challenges = append(challenges, *repo.db.challenges[id])
	}
	sort.SliceStable(challenges, func(i, j int) bool { return challenges[i].Order < challenges[j].Order })
	return challenges
}

func (repo *curriculumRepository) QuerySectionChallenges(_ context.Context, sectionID string) ([]curriculum.Challenge, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var challenges []curriculum.Challenge
	for _, ch := range repo.queryChallenges() {
		if ch.SectionID == sectionID {
			challenges = append(challenges, ch)
		}
	}
	return challenges, nil
}

func (repo *curriculumRepository) GetChallengeByID(_ context.Context, id string) (curriculum.Challenge, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ch, ok := repo.db.challenges[id]; ok {
		return *ch, nil
	}
	return curriculum.Challenge{}, curriculum.ErrChallengeNotFound
}

func (repo *curriculumRepository) UpdateChallenge(_ context.Context, ch curriculum.Challenge) (curriculum.Challenge, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.challenges[ch.ID]
	if !ok {
		return curriculum.Challenge{}, curriculum.ErrChallengeNotFound
	}
	orig.Title = ch.Title
	orig.Description = ch.Description
	orig.Instructions = ch.Instructions
	orig.StarterCode = ch.StarterCode
	orig.Solution = ch.Solution
	orig.Order = ch.Order
	orig.UpdatedAt = ch.UpdatedAt
	return *orig, nil
}

func (repo *curriculumRepository) DeleteChallengesByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.challenges, id)
		repo.db.challengeIDs = removeID(repo.db.challengeIDs, id)
	}
	return nil
}

func (repo *curriculumRepository) GetTree(_ context.Context) (curriculum.Tree, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return curriculum.Tree{
		Subjects:     repo.querySubjects(),
		Difficulties: repo.queryDifficulties(),
		Sections:     repo.querySections(),
		Challenges:   repo.queryChallenges(),
	}, nil
}

func removeID(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
