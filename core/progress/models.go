package progress

import (
	"time"

	"github.com/codequest-edu/codequest/core"
	"github.com/codequest-edu/codequest/core/curriculum"
)

// Attempt is one code submission against a challenge. Attempts are
// append-only: rows are never updated or deleted, and they outlive the
// challenge they reference.
type Attempt struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ChallengeID   string    `json:"challenge_id"`
	SubmittedCode string    `json:"submitted_code"`
	IsCorrect     bool      `json:"is_correct"`
	Feedback      string    `json:"feedback,omitempty"`
	CreatedAt     time.Time `json:"created_at"` // UTC
}

// NewAttempt contains information needed to submit an Attempt.
type NewAttempt struct {
	ChallengeID   string `json:"challenge_id" validate:"required"`
	SubmittedCode string `json:"submitted_code" validate:"required"`
}

func (na *NewAttempt) Validate() error {
	na.ChallengeID = core.CleanString(na.ChallengeID)
	return core.Validate.Struct(na)
}

// QueryFilter narrows an attempt listing.
type QueryFilter struct {
	ChallengeID string `query:"challenge_id"`
	Page        int    `query:"page"`
	Limit       int    `query:"limit"`
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Clean clamps pagination to page >= 1 and limit in [1, 100].
func (qf *QueryFilter) Clean() {
	qf.ChallengeID = core.CleanString(qf.ChallengeID)
	if qf.Page < 1 {
		qf.Page = 1
	}
	if qf.Limit < 1 {
		qf.Limit = defaultPageLimit
	} else if qf.Limit > maxPageLimit {
		qf.Limit = maxPageLimit
	}
}

// AttemptPage is one page of a user's attempt log, newest first.
type AttemptPage struct {
	Attempts []Attempt `json:"attempts"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
	Total    int       `json:"total"`
}

// Overview aggregates a user's whole attempt log.
type Overview struct {
	TotalAttempts         int       `json:"total_attempts"`
	TotalCorrect          int       `json:"total_correct"`
	Accuracy              int       `json:"accuracy"`
	CompletedChallenges   int       `json:"completed_challenges"`
	CompletedChallengeIDs []string  `json:"completed_challenge_ids"`
	RecentAttempts        []Attempt `json:"recent_attempts"`
}

// ChallengeBreakdown is the per-challenge view of a user's attempt log.
type ChallengeBreakdown struct {
	ChallengeID   string    `json:"challenge_id"`
	Attempts      int       `json:"attempts"`
	Correct       int       `json:"correct"`
	Accuracy      int       `json:"accuracy"`
	LastAttemptAt time.Time `json:"last_attempt_at"`
	Completed     bool      `json:"completed"`
}

// SectionStats is the single rollup building block: difficulty and
// subject rollups only ever aggregate these, so a challenge's completion
// is counted in exactly one place.
type SectionStats struct {
	SectionID           string `json:"section_id"`
	SectionName         string `json:"section_name"`
	DifficultyID        string `json:"difficulty_id"`
	DifficultyName      string `json:"difficulty_name"`
	TotalChallenges     int    `json:"total_challenges"`
	CompletedChallenges int    `json:"completed_challenges"`
	RemainingChallenges int    `json:"remaining_challenges"`
	CompletionPercent   int    `json:"completion_percent"`
	IsFinished          bool   `json:"is_finished"`
}

// SectionDetail is the drill-down view of one section: its stats plus
// the member challenges partitioned by completion.
type SectionDetail struct {
	Section   curriculum.Section     `json:"section"`
	Totals    SectionStats           `json:"totals"`
	Completed []curriculum.Challenge `json:"completed"`
	Remaining []curriculum.Challenge `json:"remaining"`
}

type DifficultyStats struct {
	DifficultyID        string  `json:"difficulty_id"`
	DifficultyName      string  `json:"difficulty_name"`
	SubjectID           string  `json:"subject_id"`
	SubjectName         *string `json:"subject_name"`
	TotalSections       int     `json:"total_sections"`
	FinishedSections    int     `json:"finished_sections"`
	TotalChallenges     int     `json:"total_challenges"`
	CompletedChallenges int     `json:"completed_challenges"`
	RemainingChallenges int     `json:"remaining_challenges"`
	CompletionPercent   int     `json:"completion_percent"`
	IsFinished          bool    `json:"is_finished"`
}

type DifficultyDetail struct {
	Difficulty curriculum.Difficulty `json:"difficulty"`
	Totals     DifficultyStats       `json:"totals"`
	Finished   []SectionStats        `json:"finished"`
	Unfinished []SectionStats        `json:"unfinished"`
	Sections   []SectionStats        `json:"sections"`
}

type SubjectStats struct {
	SubjectID            string `json:"subject_id"`
	SubjectName          string `json:"subject_name"`
	TotalDifficulties    int    `json:"total_difficulties"`
	FinishedDifficulties int    `json:"finished_difficulties"`
	TotalSections        int    `json:"total_sections"`
	FinishedSections     int    `json:"finished_sections"`
	TotalChallenges      int    `json:"total_challenges"`
	CompletedChallenges  int    `json:"completed_challenges"`
	RemainingChallenges  int    `json:"remaining_challenges"`
	CompletionPercent    int    `json:"completion_percent"`
	IsFinished           bool   `json:"is_finished"`
}

// SubjectDifficultyBreakdown nests each difficulty's stats with its
// section stats, composed from the same objects as the list views.
type SubjectDifficultyBreakdown struct {
	Totals   DifficultyStats `json:"totals"`
	Sections []SectionStats  `json:"sections"`
}

type SubjectDetail struct {
	Subject      curriculum.Subject           `json:"subject"`
	Totals       SubjectStats                 `json:"totals"`
	Difficulties []SubjectDifficultyBreakdown `json:"difficulties"`
	Finished     []DifficultyStats            `json:"finished"`
	Unfinished   []DifficultyStats            `json:"unfinished"`
}
