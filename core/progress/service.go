package progress

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/codequest-edu/codequest/core/curriculum"
)

var (
	// errors
	ErrAttemptNotFound = errors.New("attempt not found")
)

const recentAttemptsCount = 10

type (
	// CurriculumService is the slice of the curriculum service the
	// progress service consumes.
	CurriculumService interface {
		GetChallengeByID(ctx context.Context, id string) (curriculum.Challenge, error)
		LoadHierarchy(ctx context.Context) (*curriculum.Hierarchy, error)
	}

	Repository interface {
		CreateAttempt(ctx context.Context, att Attempt) (Attempt, error)
		// GetUserAttempts returns all of a user's attempts, newest first.
		GetUserAttempts(ctx context.Context, userID string) ([]Attempt, error)
		// FilterUserAttempts pages a user's attempts, newest first, and
		// returns the unpaged match count.
		FilterUserAttempts(ctx context.Context, userID string, filter QueryFilter) ([]Attempt, int, error)
		// GetUserAttempt is scoped to the owner: looking up another
		// user's attempt id yields ErrAttemptNotFound.
		GetUserAttempt(ctx context.Context, userID, id string) (Attempt, error)
	}

	Service interface {
		SubmitAttempt(ctx context.Context, userID string, na NewAttempt) (Attempt, error)
		MyAttempts(ctx context.Context, userID string, filter QueryFilter) (AttemptPage, error)
		GetAttempt(ctx context.Context, userID, id string) (Attempt, error)

		Overview(ctx context.Context, userID string) (Overview, error)
		ByChallenge(ctx context.Context, userID string) ([]ChallengeBreakdown, error)
		AllSectionStats(ctx context.Context, userID string) ([]SectionStats, error)
		SectionDetail(ctx context.Context, userID, sectionID string) (SectionDetail, error)
		AllDifficultyStats(ctx context.Context, userID string) ([]DifficultyStats, error)
		DifficultyDetail(ctx context.Context, userID, difficultyID string) (DifficultyDetail, error)
		AllSubjectStats(ctx context.Context, userID string) ([]SubjectStats, error)
		SubjectDetail(ctx context.Context, userID, subjectID string) (SubjectDetail, error)
	}

	service struct {
		repo    Repository
		currSvc CurriculumService
		grader  Grader
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, currSvc CurriculumService, grader Grader) Service {
	return &service{
		repo:    repo,
		currSvc: currSvc,
		grader:  grader,
	}
}

func (svc *service) SubmitAttempt(ctx context.Context, userID string, na NewAttempt) (Attempt, error) {
	ch, err := svc.currSvc.GetChallengeByID(ctx, na.ChallengeID)
	if err != nil {
		return Attempt{}, err
	}
	isCorrect, feedback := svc.grader.Grade(ch, na.SubmittedCode)
	att := Attempt{
		UserID:        userID,
		ChallengeID:   ch.ID,
		SubmittedCode: na.SubmittedCode,
		IsCorrect:     isCorrect,
		Feedback:      feedback,
		CreatedAt:     time.Now().UTC(),
	}
	return svc.repo.CreateAttempt(ctx, att)
}

func (svc *service) MyAttempts(ctx context.Context, userID string, filter QueryFilter) (AttemptPage, error) {
	filter.Clean()
	attempts, total, err := svc.repo.FilterUserAttempts(ctx, userID, filter)
	if err != nil {
		return AttemptPage{}, err
	}
	if attempts == nil {
		attempts = []Attempt{}
	}
	return AttemptPage{
		Attempts: attempts,
		Page:     filter.Page,
		Limit:    filter.Limit,
		Total:    total,
	}, nil
}

func (svc *service) GetAttempt(ctx context.Context, userID, id string) (Attempt, error) {
	return svc.repo.GetUserAttempt(ctx, userID, id)
}

// loadSnapshot loads the curriculum hierarchy and the user's attempt
// log concurrently; the two reads are independent. Either failure fails
// the whole request, there is no partial fallback.
func (svc *service) loadSnapshot(ctx context.Context, userID string) (*curriculum.Hierarchy, []Attempt, error) {
	var (
		h        *curriculum.Hierarchy
		attempts []Attempt
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		h, err = svc.currSvc.LoadHierarchy(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		attempts, err = svc.repo.GetUserAttempts(gctx, userID)
		return errors.Wrap(err, "loading attempts")
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return h, attempts, nil
}

func (svc *service) Overview(ctx context.Context, userID string) (Overview, error) {
	h, attempts, err := svc.loadSnapshot(ctx, userID)
	if err != nil {
		return Overview{}, err
	}

	summary := Summarize(attempts)
	cs := NewCompletionSet(attempts)

	// completed ids are tree-scoped: solved challenges deleted from the
	// curriculum no longer count, though their attempts remain in the
	// scalar totals above
	completedIDs := []string{}
	for _, id := range cs.IDs() {
		if h.HasChallenge(id) {
			completedIDs = append(completedIDs, id)
		}
	}

	recent := attempts
	if len(recent) > recentAttemptsCount {
		recent = recent[:recentAttemptsCount]
	}
	if recent == nil {
		recent = []Attempt{}
	}

	return Overview{
		TotalAttempts:         summary.TotalAttempts,
		TotalCorrect:          summary.TotalCorrect,
		Accuracy:              summary.Accuracy,
		CompletedChallenges:   len(completedIDs),
		CompletedChallengeIDs: completedIDs,
		RecentAttempts:        recent,
	}, nil
}

func (svc *service) ByChallenge(ctx context.Context, userID string) ([]ChallengeBreakdown, error) {
	attempts, err := svc.repo.GetUserAttempts(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "loading attempts")
	}
	return ChallengeBreakdowns(attempts), nil
}

func (svc *service) AllSectionStats(ctx context.Context, userID string) ([]SectionStats, error) {
	h, attempts, err := svc.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	cs := NewCompletionSet(attempts)

	secIDs := h.SectionIDs()
	stats := make([]SectionStats, 0, len(secIDs))
	for _, secID := range secIDs {
		stats = append(stats, ComputeSectionStats(h, cs, secID))
	}
	return stats, nil
}

func (svc *service) SectionDetail(ctx context.Context, userID, sectionID string) (SectionDetail, error) {
	h, attempts, err := svc.loadSnapshot(ctx, userID)
	if err != nil {
		return SectionDetail{}, err
	}
	sec, ok := h.Section(sectionID)
	if !ok {
		return SectionDetail{}, curriculum.ErrSectionNotFound
	}
	cs := NewCompletionSet(attempts)

	detail := SectionDetail{
		Section:   sec,
		Totals:    ComputeSectionStats(h, cs, sectionID),
		Completed: []curriculum.Challenge{},
		Remaining: []curriculum.Challenge{},
	}
	for _, chID := range h.SectionChallengeIDs(sectionID) {
		ch, ok := h.Challenge(chID)
		if !ok {
			continue
		}
		if cs.Contains(chID) {
			detail.Completed = append(detail.Completed, ch)
		} else {
			detail.Remaining = append(detail.Remaining, ch)
		}
	}
	return detail, nil
}

func (svc *service) AllDifficultyStats(ctx context.Context, userID string) ([]DifficultyStats, error) {
	h, attempts, err := svc.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	cs := NewCompletionSet(attempts)

	diffIDs := h.DifficultyIDs()
	stats := make([]DifficultyStats, 0, len(diffIDs))
	for _, diffID := range diffIDs {
		ds, _ := ComputeDifficultyStats(h, cs, diffID)
		stats = append(stats, ds)
	}
	return stats, nil
}

func (svc *service) DifficultyDetail(ctx context.Context, userID, difficultyID string) (DifficultyDetail, error) {
	h, attempts, err := svc.loadSnapshot(ctx, userID)
	if err != nil {
		return DifficultyDetail{}, err
	}
	diff, ok := h.Difficulty(difficultyID)
	if !ok {
		return DifficultyDetail{}, curriculum.ErrDifficultyNotFound
	}
	cs := NewCompletionSet(attempts)

	totals, sections := ComputeDifficultyStats(h, cs, difficultyID)
	detail := DifficultyDetail{
		Difficulty: diff,
		Totals:     totals,
		Finished:   []SectionStats{},
		Unfinished: []SectionStats{},
		Sections:   sections,
	}
	for _, ss := range sections {
		if ss.IsFinished {
			detail.Finished = append(detail.Finished, ss)
		} else {
			detail.Unfinished = append(detail.Unfinished, ss)
		}
	}
	return detail, nil
}

func (svc *service) AllSubjectStats(ctx context.Context, userID string) ([]SubjectStats, error) {
	h, attempts, err := svc.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	cs := NewCompletionSet(attempts)

	subIDs := h.SubjectIDs()
	stats := make([]SubjectStats, 0, len(subIDs))
	for _, subID := range subIDs {
		ss, _ := ComputeSubjectStats(h, cs, subID)
		stats = append(stats, ss)
	}
	return stats, nil
}

func (svc *service) SubjectDetail(ctx context.Context, userID, subjectID string) (SubjectDetail, error) {
	h, attempts, err := svc.loadSnapshot(ctx, userID)
	if err != nil {
		return SubjectDetail{}, err
	}
	sub, ok := h.Subject(subjectID)
	if !ok {
		return SubjectDetail{}, curriculum.ErrSubjectNotFound
	}
	cs := NewCompletionSet(attempts)

	totals, breakdowns := ComputeSubjectStats(h, cs, subjectID)
	detail := SubjectDetail{
		Subject:      sub,
		Totals:       totals,
		Difficulties: breakdowns,
		Finished:     []DifficultyStats{},
		Unfinished:   []DifficultyStats{},
	}
	for _, bd := range breakdowns {
		if bd.Totals.IsFinished {
			detail.Finished = append(detail.Finished, bd.Totals)
		} else {
			detail.Unfinished = append(detail.Unfinished, bd.Totals)
		}
	}
	return detail, nil
}
