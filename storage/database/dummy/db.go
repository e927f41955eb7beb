package dummydb

import (
	"sync"

	"github.com/codequest-edu/codequest/core/curriculum"
	"github.com/codequest-edu/codequest/core/progress"
	"github.com/codequest-edu/codequest/core/user"
)

// Tables pair a map with an insertion-order id list so creation order
// survives map iteration.
type (
	DB struct {
		user       *userTable
		curriculum *curriculumTables
		attempt    *attemptTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
		ids   []string
		// profiles keyed by Profile.UserID; one per user
		profiles   map[string]*user.Profile
		profileIDs []string
	}

	curriculumTables struct {
		sync.RWMutex
		subjects      map[string]*curriculum.Subject
		subjectIDs    []string
		difficulties  map[string]*curriculum.Difficulty
		difficultyIDs []string
		sections      map[string]*curriculum.Section
		sectionIDs    []string
		challenges    map[string]*curriculum.Challenge
		challengeIDs  []string
	}

	attemptTable struct {
		sync.RWMutex
		table map[string]*progress.Attempt
		ids   []string
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User), profiles: make(map[string]*user.Profile)},
		curriculum: &curriculumTables{
			subjects:     make(map[string]*curriculum.Subject),
			difficulties: make(map[string]*curriculum.Difficulty),
			sections:     make(map[string]*curriculum.Section),
			challenges:   make(map[string]*curriculum.Challenge),
		},
		attempt: &attemptTable{table: make(map[string]*progress.Attempt)},
	}
	return db, nil
}
