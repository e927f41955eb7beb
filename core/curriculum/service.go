package curriculum

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrDifficultyNotFound = errors.New("difficulty not found")
	ErrSectionNotFound    = errors.New("section not found")
	ErrChallengeNotFound  = errors.New("challenge not found")
)

type (
	Repository interface {
		CreateSubject(ctx context.Context, sub Subject) (Subject, error)
		QueryAllSubjects(ctx context.Context) ([]Subject, error)
		GetSubjectByID(ctx context.Context, id string) (Subject, error)
		UpdateSubject(ctx context.Context, sub Subject) (Subject, error)
		DeleteSubjectsByID(ctx context.Context, ids ...string) error

		CreateDifficulty(ctx context.Context, diff Difficulty) (Difficulty, error)
		// QuerySubjectDifficulties returns a subject's difficulties in creation order.
		QuerySubjectDifficulties(ctx context.Context, subjectID string) ([]Difficulty, error)
		GetDifficultyByID(ctx context.Context, id string) (Difficulty, error)
		DeleteDifficultiesByID(ctx context.Context, ids ...string) error

		CreateSection(ctx context.Context, sec Section) (Section, error)
		// QueryDifficultySections returns a difficulty's sections ordered by
		// `order` ascending, creation order breaking ties.
		QueryDifficultySections(ctx context.Context, difficultyID string) ([]Section, error)
		GetSectionByID(ctx context.Context, id string) (Section, error)
		UpdateSection(ctx context.Context, sec Section) (Section, error)
		DeleteSectionsByID(ctx context.Context, ids ...string) error

		CreateChallenge(ctx context.Context, ch Challenge) (Challenge, error)
		// QuerySectionChallenges returns a section's challenges ordered by
		// `order` ascending, creation order breaking ties.
		QuerySectionChallenges(ctx context.Context, sectionID string) ([]Challenge, error)
		GetChallengeByID(ctx context.Context, id string) (Challenge, error)
		UpdateChallenge(ctx context.Context, ch Challenge) (Challenge, error)
		DeleteChallengesByID(ctx context.Context, ids ...string) error

		// GetTree loads all four entity tables in one pass.
		GetTree(ctx context.Context) (Tree, error)
	}

	Service interface {
		CreateSubject(ctx context.Context, ns NewSubject) (Subject, error)
		QueryAllSubjects(ctx context.Context) ([]Subject, error)
		GetSubjectByID(ctx context.Context, id string) (Subject, error)
		UpdateSubject(ctx context.Context, id string, us UpdateSubject) (Subject, error)
		DeleteSubjects(ctx context.Context, ids ...string) error

		CreateDifficulty(ctx context.Context, nd NewDifficulty) (Difficulty, error)
		QuerySubjectDifficulties(ctx context.Context, subjectID string) ([]Difficulty, error)
		GetDifficultyByID(ctx context.Context, id string) (Difficulty, error)
		DeleteDifficulties(ctx context.Context, ids ...string) error

		CreateSection(ctx context.Context, ns NewSection) (Section, error)
		QueryDifficultySections(ctx context.Context, difficultyID string) ([]Section, error)
		GetSectionByID(ctx context.Context, id string) (Section, error)
		UpdateSection(ctx context.Context, id string, us UpdateSection) (Section, error)
		DeleteSections(ctx context.Context, ids ...string) error

		CreateChallenge(ctx context.Context, nc NewChallenge) (Challenge, error)
		QuerySectionChallenges(ctx context.Context, sectionID string) ([]Challenge, error)
		GetChallengeByID(ctx context.Context, id string) (Challenge, error)
		UpdateChallenge(ctx context.Context, id string, uc UpdateChallenge) (Challenge, error)
		DeleteChallenges(ctx context.Context, ids ...string) error

		// LoadHierarchy builds a fresh request-scoped index of the whole tree.
		LoadHierarchy(ctx context.Context) (*Hierarchy, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CreateSubject(ctx context.Context, ns NewSubject) (Subject, error) {
	now := time.Now().UTC()
	return svc.repo.CreateSubject(ctx, Subject{
		Name:        ns.Name,
		Description: ns.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *service) QueryAllSubjects(ctx context.Context) ([]Subject, error) {
	return svc.repo.QueryAllSubjects(ctx)
}

func (svc *service) GetSubjectByID(ctx context.Context, id string) (Subject, error) {
	return svc.repo.GetSubjectByID(ctx, id)
}

func (svc *service) UpdateSubject(ctx context.Context, id string, us UpdateSubject) (Subject, error) {
	return svc.repo.UpdateSubject(ctx, Subject{
		ID:          id,
		Name:        us.Name,
		Description: us.Description,
		UpdatedAt:   time.Now().UTC(),
	})
}

func (svc *service) DeleteSubjects(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteSubjectsByID(ctx, ids...)
}

func (svc *service) CreateDifficulty(ctx context.Context, nd NewDifficulty) (Difficulty, error) {
	if _, err := svc.repo.GetSubjectByID(ctx, nd.SubjectID); err != nil {
		return Difficulty{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateDifficulty(ctx, Difficulty{
		SubjectID: nd.SubjectID,
		Name:      nd.Name,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) QuerySubjectDifficulties(ctx context.Context, subjectID string) ([]Difficulty, error) {
	return svc.repo.QuerySubjectDifficulties(ctx, subjectID)
}

func (svc *service) GetDifficultyByID(ctx context.Context, id string) (Difficulty, error) {
	return svc.repo.GetDifficultyByID(ctx, id)
}

func (svc *service) DeleteDifficulties(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteDifficultiesByID(ctx, ids...)
}

func (svc *service) CreateSection(ctx context.Context, ns NewSection) (Section, error) {
	if _, err := svc.repo.GetDifficultyByID(ctx, ns.DifficultyID); err != nil {
		return Section{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateSection(ctx, Section{
		DifficultyID: ns.DifficultyID,
		Title:        ns.Title,
		Description:  ns.Description,
		Order:        ns.Order,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (svc *service) QueryDifficultySections(ctx context.Context, difficultyID string) ([]Section, error) {
	return svc.repo.QueryDifficultySections(ctx, difficultyID)
}

func (svc *service) GetSectionByID(ctx context.Context, id string) (Section, error) {
	return svc.repo.GetSectionByID(ctx, id)
}

func (svc *service) UpdateSection(ctx context.Context, id string, us UpdateSection) (Section, error) {
	orig, err := svc.repo.GetSectionByID(ctx, id)
	if err != nil {
		return Section{}, err
	}
	sec := orig
	sec.Title = us.Title
	sec.Description = us.Description
	if us.Order != nil {
		sec.Order = *us.Order
	}
	sec.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSection(ctx, sec)
}

func (svc *service) DeleteSections(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteSectionsByID(ctx, ids...)
}

func (svc *service) CreateChallenge(ctx context.Context, nc NewChallenge) (Challenge, error) {
	if _, err := svc.repo.GetSectionByID(ctx, nc.SectionID); err != nil {
		return Challenge{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateChallenge(ctx, Challenge{
		SectionID:    nc.SectionID,
		Title:        nc.Title,
		Description:  nc.Description,
		Instructions: nc.Instructions,
		StarterCode:  nc.StarterCode,
		Solution:     nc.Solution,
		Order:        nc.Order,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (svc *service) QuerySectionChallenges(ctx context.Context, sectionID string) ([]Challenge, error) {
	return svc.repo.QuerySectionChallenges(ctx, sectionID)
}

func (svc *service) GetChallengeByID(ctx context.Context, id string) (Challenge, error) {
	return svc.repo.GetChallengeByID(ctx, id)
}

func (svc *service) UpdateChallenge(ctx context.Context, id string, uc UpdateChallenge) (Challenge, error) {
	orig, err := svc.repo.GetChallengeByID(ctx, id)
	if err != nil {
		return Challenge{}, err
	}
	ch := orig
	ch.Title = uc.Title
	ch.Description = uc.Description
	ch.Instructions = uc.Instructions
	if uc.StarterCode != "" {
		ch.StarterCode = uc.StarterCode
	}
	if uc.Solution != "" {
		ch.Solution = uc.Solution
	}
	if uc.Order != nil {
		ch.Order = *uc.Order
	}
	ch.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateChallenge(ctx, ch)
}

func (svc *service) DeleteChallenges(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteChallengesByID(ctx, ids...)
}

func (svc *service) LoadHierarchy(ctx context.Context) (*Hierarchy, error) {
	tree, err := svc.repo.GetTree(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading curriculum tree")
	}
	return NewHierarchy(tree), nil
}
