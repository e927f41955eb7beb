package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/codequest-edu/codequest/core/curriculum"
	"github.com/codequest-edu/codequest/core/progress"
)

type attemptRepository struct {
	db *attemptTable
}

var _ progress.Repository = (*attemptRepository)(nil) // interface compliance check

func NewAttemptRepository(db *DB) progress.Repository {
	return &attemptRepository{db: db.attempt}
}

func (repo *attemptRepository) CreateAttempt(_ context.Context, att progress.Attempt) (progress.Attempt, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if att.ID == "" {
		att.ID = uuid.New().String()
	}
	repo.db.table[att.ID] = &att
	repo.db.ids = append(repo.db.ids, att.ID)
	return att, nil
}

// queryUser returns a user's attempts newest first, insertion order
// breaking createdAt ties.
func (repo *attemptRepository) queryUser(userID string) []progress.Attempt {
	var attempts []progress.Attempt
	for _, id := range repo.db.ids {
		if att := repo.db.table[id]; att.UserID == userID {
			attempts = append(attempts, *att)
		}
	}
	sort.SliceStable(attempts, func(i, j int) bool { return attempts[i].CreatedAt.After(attempts[j].CreatedAt) })
	return attempts
}

func (repo *attemptRepository) GetUserAttempts(_ context.Context, userID string) ([]progress.Attempt, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.queryUser(userID), nil
}

func (repo *attemptRepository) FilterUserAttempts(_ context.Context, userID string, filter progress.QueryFilter) ([]progress.Attempt, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	attempts := repo.queryUser(userID)
	if filter.ChallengeID != "" {
		var filtered []progress.Attempt
		want := curriculum.CanonicalID(filter.ChallengeID)
		for _, att := range attempts {
			if curriculum.CanonicalID(att.ChallengeID) == want {
				filtered = append(filtered, att)
			}
		}
		attempts = filtered
	}

	total := len(attempts)
	start := (filter.Page - 1) * filter.Limit
	if start >= total {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return attempts[start:end], total, nil
}

func (repo *attemptRepository) GetUserAttempt(_ context.Context, userID, id string) (progress.Attempt, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if att, ok := repo.db.table[id]; ok && att.UserID == userID {
		return *att, nil
	}
	return progress.Attempt{}, progress.ErrAttemptNotFound
}
