package progress

import (
	"context"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/codequest-edu/codequest/core/curriculum"
)

type fakeCurriculum struct {
	tree curriculum.Tree
	err  error
}

func (f *fakeCurriculum) GetChallengeByID(ctx context.Context, id string) (curriculum.Challenge, error) {
	for _, ch := range f.tree.Challenges {
		if curriculum.CanonicalID(ch.ID) == curriculum.CanonicalID(id) {
			return ch, nil
		}
	}
	return curriculum.Challenge{}, curriculum.ErrChallengeNotFound
}

func (f *fakeCurriculum) LoadHierarchy(ctx context.Context) (*curriculum.Hierarchy, error) {
	if f.err != nil {
		return nil, f.err
	}
	return curriculum.NewHierarchy(f.tree), nil
}

type fakeAttemptRepo struct {
	attempts []Attempt
	err      error
}

func (f *fakeAttemptRepo) CreateAttempt(ctx context.Context, att Attempt) (Attempt, error) {
	if f.err != nil {
		return Attempt{}, f.err
	}
	att.ID = "att-" + strconv.Itoa(len(f.attempts)+1)
	f.attempts = append(f.attempts, att)
	return att, nil
}

func (f *fakeAttemptRepo) GetUserAttempts(ctx context.Context, userID string) ([]Attempt, error) {
	if f.err != nil {
		return nil, f.err
	}
	var res []Attempt
	for _, att := range f.attempts {
		if att.UserID == userID {
			res = append(res, att)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (f *fakeAttemptRepo) FilterUserAttempts(ctx context.Context, userID string, filter QueryFilter) ([]Attempt, int, error) {
	all, err := f.GetUserAttempts(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if filter.ChallengeID != "" {
		var filtered []Attempt
		for _, att := range all {
			if curriculum.CanonicalID(att.ChallengeID) == curriculum.CanonicalID(filter.ChallengeID) {
				filtered = append(filtered, att)
			}
		}
		all = filtered
	}
	total := len(all)
	start := (filter.Page - 1) * filter.Limit
	if start >= total {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (f *fakeAttemptRepo) GetUserAttempt(ctx context.Context, userID, id string) (Attempt, error) {
	for _, att := range f.attempts {
		if att.ID == id && att.UserID == userID {
			return att, nil
		}
	}
	return Attempt{}, ErrAttemptNotFound
}

const testUserID = "user-1"

func newTestService(repo *fakeAttemptRepo) Service {
	return NewService(repo, &fakeCurriculum{tree: testTree()}, ExactMatchGrader{})
}

// testTree mirrors testHierarchy from the rollup tests, with solutions.
func testTree() curriculum.Tree {
	at := func(min int) time.Time { return time.Date(2021, 5, 1, 9, min, 0, 0, time.UTC) }
	return curriculum.Tree{
		Subjects: []curriculum.Subject{
			{ID: "sub-1", Name: "JavaScript", CreatedAt: at(0)},
		},
		Difficulties: []curriculum.Difficulty{
			{ID: "diff-1", SubjectID: "sub-1", Name: curriculum.DifficultyBeginner, CreatedAt: at(1)},
			{ID: "diff-2", SubjectID: "sub-1", Name: curriculum.DifficultyIntermediate, CreatedAt: at(2)},
		},
		Sections: []curriculum.Section{
			{ID: "sec-1", DifficultyID: "diff-1", Title: "Variables", Order: 1, CreatedAt: at(3)},
			{ID: "sec-2", DifficultyID: "diff-2", Title: "Closures", Order: 1, CreatedAt: at(4)},
		},
		Challenges: []curriculum.Challenge{
			{ID: "ch-1", SectionID: "sec-1", Title: "Declare", Solution: "let x = 1", Order: 1, CreatedAt: at(5)},
			{ID: "ch-2", SectionID: "sec-1", Title: "Assign", Solution: "x = 2", Order: 2, CreatedAt: at(6)},
			{ID: "ch-3", SectionID: "sec-2", Title: "Counter", Solution: "return () => n++", Order: 1, CreatedAt: at(7)},
		},
	}
}

func storedAttempt(id, challengeID string, correct bool, min int) Attempt {
	return Attempt{
		ID:          id,
		UserID:      testUserID,
		ChallengeID: challengeID,
		IsCorrect:   correct,
		CreatedAt:   time.Date(2021, 6, 1, 12, min, 0, 0, time.UTC),
	}
}

func TestService_SubmitAttempt(t *testing.T) {
	ctx := context.Background()
	repo := &fakeAttemptRepo{}
	svc := newTestService(repo)

	att, err := svc.SubmitAttempt(ctx, testUserID, NewAttempt{ChallengeID: "ch-1", SubmittedCode: "let x = 1"})
	assert.NoError(t, err)
	assert.True(t, att.IsCorrect)
	assert.Equal(t, "Correct ✅", att.Feedback)
	assert.Equal(t, testUserID, att.UserID)
	assert.NotEmpty(t, att.ID)

	att, err = svc.SubmitAttempt(ctx, testUserID, NewAttempt{ChallengeID: "ch-1", SubmittedCode: "var x = 1"})
	assert.NoError(t, err)
	assert.False(t, att.IsCorrect)

	// a later incorrect attempt appends, never rewrites history
	assert.Len(t, repo.attempts, 2)
	assert.True(t, repo.attempts[0].IsCorrect)

	_, err = svc.SubmitAttempt(ctx, testUserID, NewAttempt{ChallengeID: "ch-gone", SubmittedCode: "x"})
	assert.Equal(t, curriculum.ErrChallengeNotFound, errors.Cause(err))
}

func TestService_Overview_noAttempts(t *testing.T) {
	svc := newTestService(&fakeAttemptRepo{})

	ov, err := svc.Overview(context.Background(), testUserID)
	assert.NoError(t, err)
	assert.Equal(t, Overview{
		CompletedChallengeIDs: []string{},
		RecentAttempts:        []Attempt{},
	}, ov)
}

func TestService_Overview(t *testing.T) {
	repo := &fakeAttemptRepo{attempts: []Attempt{
		storedAttempt("att-1", "ch-1", false, 0),
		storedAttempt("att-2", "ch-1", true, 1),
		storedAttempt("att-3", "ch-2", true, 2),
		storedAttempt("att-4", "ch-deleted", true, 3), // challenge since removed
	}}
	svc := newTestService(repo)

	ov, err := svc.Overview(context.Background(), testUserID)
	assert.NoError(t, err)
	assert.Equal(t, 4, ov.TotalAttempts)
	assert.Equal(t, 3, ov.TotalCorrect)
	assert.Equal(t, 75, ov.Accuracy)
	// the orphaned attempt counts above but is excluded from the
	// tree-scoped completion figures
	assert.Equal(t, 2, ov.CompletedChallenges)
	assert.Equal(t, []string{"ch-1", "ch-2"}, ov.CompletedChallengeIDs)
	// newest first
	assert.Equal(t, "att-4", ov.RecentAttempts[0].ID)
	assert.Equal(t, "att-1", ov.RecentAttempts[3].ID)
}

func TestService_Overview_recentAttemptsCapped(t *testing.T) {
	repo := &fakeAttemptRepo{}
	for i := 0; i < 15; i++ {
		repo.attempts = append(repo.attempts, storedAttempt("att-"+strconv.Itoa(i), "ch-1", false, i))
	}
	svc := newTestService(repo)

	ov, err := svc.Overview(context.Background(), testUserID)
	assert.NoError(t, err)
	assert.Len(t, ov.RecentAttempts, 10)
	assert.Equal(t, "att-14", ov.RecentAttempts[0].ID)
}

func TestService_Overview_idempotentCompletion(t *testing.T) {
	repo := &fakeAttemptRepo{attempts: []Attempt{
		storedAttempt("att-1", "ch-1", true, 0),
		storedAttempt("att-2", "ch-1", true, 1),
	}}
	svc := newTestService(repo)

	ov, err := svc.Overview(context.Background(), testUserID)
	assert.NoError(t, err)
	assert.Equal(t, 1, ov.CompletedChallenges)
}

func TestService_Overview_loadFailure(t *testing.T) {
	svc := NewService(&fakeAttemptRepo{}, &fakeCurriculum{err: errors.New("store down")}, ExactMatchGrader{})

	_, err := svc.Overview(context.Background(), testUserID)
	assert.Error(t, err)
}

func TestService_ByChallenge(t *testing.T) {
	repo := &fakeAttemptRepo{attempts: []Attempt{
		storedAttempt("att-1", "ch-1", false, 0),
		storedAttempt("att-2", "ch-1", true, 1),
		storedAttempt("att-3", "ch-2", false, 2),
	}}
	svc := newTestService(repo)

	got, err := svc.ByChallenge(context.Background(), testUserID)
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "ch-2", got[0].ChallengeID) // most recently attempted first
	assert.False(t, got[0].Completed)
	assert.Equal(t, "ch-1", got[1].ChallengeID)
	assert.True(t, got[1].Completed)
	assert.Equal(t, 50, got[1].Accuracy)
}

func TestService_MyAttempts(t *testing.T) {
	repo := &fakeAttemptRepo{}
	for i := 0; i < 5; i++ {
		repo.attempts = append(repo.attempts, storedAttempt("att-"+strconv.Itoa(i), "ch-1", false, i))
	}
	repo.attempts = append(repo.attempts, storedAttempt("other", "ch-1", false, 9))
	repo.attempts[5].UserID = "user-2"
	svc := newTestService(repo)
	ctx := context.Background()

	page, err := svc.MyAttempts(ctx, testUserID, QueryFilter{Page: 2, Limit: 2})
	assert.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Len(t, page.Attempts, 2)
	assert.Equal(t, "att-2", page.Attempts[0].ID)

	// pagination is clamped rather than rejected
	page, err = svc.MyAttempts(ctx, testUserID, QueryFilter{Page: -3, Limit: 1000})
	assert.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 100, page.Limit)
	assert.Len(t, page.Attempts, 5)

	// past the last page: empty, not an error
	page, err = svc.MyAttempts(ctx, testUserID, QueryFilter{Page: 99, Limit: 10})
	assert.NoError(t, err)
	assert.Empty(t, page.Attempts)
}

func TestService_GetAttempt_ownerScoped(t *testing.T) {
	repo := &fakeAttemptRepo{attempts: []Attempt{storedAttempt("att-1", "ch-1", true, 0)}}
	svc := newTestService(repo)
	ctx := context.Background()

	att, err := svc.GetAttempt(ctx, testUserID, "att-1")
	assert.NoError(t, err)
	assert.Equal(t, "att-1", att.ID)

	_, err = svc.GetAttempt(ctx, "user-2", "att-1")
	assert.Equal(t, ErrAttemptNotFound, errors.Cause(err))
}

func TestService_SectionDetail(t *testing.T) {
	repo := &fakeAttemptRepo{attempts: []Attempt{
		storedAttempt("att-1", "ch-1", true, 0),
		storedAttempt("att-2", "ch-2", false, 1),
	}}
	svc := newTestService(repo)
	ctx := context.Background()

	detail, err := svc.SectionDetail(ctx, testUserID, "sec-1")
	assert.NoError(t, err)
	assert.Equal(t, "sec-1", detail.Section.ID)
	assert.Equal(t, 2, detail.Totals.TotalChallenges)
	assert.Equal(t, 1, detail.Totals.CompletedChallenges)
	assert.Len(t, detail.Completed, 1)
	assert.Equal(t, "ch-1", detail.Completed[0].ID)
	assert.Len(t, detail.Remaining, 1)
	assert.Equal(t, "ch-2", detail.Remaining[0].ID)

	_, err = svc.SectionDetail(ctx, testUserID, "sec-gone")
	assert.Equal(t, curriculum.ErrSectionNotFound, errors.Cause(err))
}

func TestService_DifficultyDetail(t *testing.T) {
	repo := &fakeAttemptRepo{attempts: []Attempt{
		storedAttempt("att-1", "ch-1", true, 0),
		storedAttempt("att-2", "ch-2", true, 1),
	}}
	svc := newTestService(repo)
	ctx := context.Background()

	detail, err := svc.DifficultyDetail(ctx, testUserID, "diff-1")
	assert.NoError(t, err)
	assert.True(t, detail.Totals.IsFinished)
	assert.Len(t, detail.Finished, 1)
	assert.Empty(t, detail.Unfinished)

	_, err = svc.DifficultyDetail(ctx, testUserID, "diff-gone")
	assert.Equal(t, curriculum.ErrDifficultyNotFound, errors.Cause(err))
}

func TestService_SubjectDetail(t *testing.T) {
	// diff-1 finished, diff-2 not: the subject is not finished
	repo := &fakeAttemptRepo{attempts: []Attempt{
		storedAttempt("att-1", "ch-1", true, 0),
		storedAttempt("att-2", "ch-2", true, 1),
	}}
	svc := newTestService(repo)
	ctx := context.Background()

	detail, err := svc.SubjectDetail(ctx, testUserID, "sub-1")
	assert.NoError(t, err)
	assert.False(t, detail.Totals.IsFinished)
	assert.Equal(t, 1, detail.Totals.FinishedDifficulties)
	assert.Len(t, detail.Difficulties, 2)
	assert.Len(t, detail.Finished, 1)
	assert.Equal(t, "diff-1", detail.Finished[0].DifficultyID)
	assert.Len(t, detail.Unfinished, 1)

	_, err = svc.SubjectDetail(ctx, testUserID, "sub-gone")
	assert.Equal(t, curriculum.ErrSubjectNotFound, errors.Cause(err))
}

func TestService_listAndDetailAgree(t *testing.T) {
	repo := &fakeAttemptRepo{attempts: []Attempt{
		storedAttempt("att-1", "ch-1", true, 0),
	}}
	svc := newTestService(repo)
	ctx := context.Background()

	sections, err := svc.AllSectionStats(ctx, testUserID)
	assert.NoError(t, err)
	for _, ss := range sections {
		detail, err := svc.SectionDetail(ctx, testUserID, ss.SectionID)
		assert.NoError(t, err)
		assert.Equal(t, ss, detail.Totals)
	}

	difficulties, err := svc.AllDifficultyStats(ctx, testUserID)
	assert.NoError(t, err)
	for _, ds := range difficulties {
		detail, err := svc.DifficultyDetail(ctx, testUserID, ds.DifficultyID)
		assert.NoError(t, err)
		assert.Equal(t, ds, detail.Totals)
	}

	subjects, err := svc.AllSubjectStats(ctx, testUserID)
	assert.NoError(t, err)
	for _, ss := range subjects {
		detail, err := svc.SubjectDetail(ctx, testUserID, ss.SubjectID)
		assert.NoError(t, err)
		assert.Equal(t, ss, detail.Totals)
	}
}
