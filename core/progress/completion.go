package progress

import (
	"math"
	"sort"

	"github.com/codequest-edu/codequest/core/curriculum"
)

// CompletionSet holds the canonical ids of every challenge a user has
// solved correctly at least once. Membership is monotonic: later
// incorrect attempts never remove an id, and repeated correct attempts
// are no-ops.
type CompletionSet map[string]struct{}

// NewCompletionSet reduces an attempt log into a CompletionSet.
// Attempt order does not matter.
func NewCompletionSet(attempts []Attempt) CompletionSet {
	cs := make(CompletionSet)
	for _, att := range attempts {
		if att.IsCorrect {
			cs[curriculum.CanonicalID(att.ChallengeID)] = struct{}{}
		}
	}
	return cs
}

func (cs CompletionSet) Contains(challengeID string) bool {
	_, ok := cs[curriculum.CanonicalID(challengeID)]
	return ok
}

// IDs returns the member challenge ids sorted for deterministic output.
func (cs CompletionSet) IDs() []string {
	ids := make([]string, 0, len(cs))
	for id := range cs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Summary holds the scalar stats over a whole attempt log, orphaned
// attempts included.
type Summary struct {
	TotalAttempts int `json:"total_attempts"`
	TotalCorrect  int `json:"total_correct"`
	Accuracy      int `json:"accuracy"`
}

func Summarize(attempts []Attempt) Summary {
	s := Summary{TotalAttempts: len(attempts)}
	for _, att := range attempts {
		if att.IsCorrect {
			s.TotalCorrect++
		}
	}
	s.Accuracy = percent(s.TotalCorrect, s.TotalAttempts)
	return s
}

// ChallengeBreakdowns groups an attempt log per challenge. Attempts must
// be given newest first so that the first attempt seen per challenge is
// its most recent one. The result is sorted by last attempt descending.
func ChallengeBreakdowns(attempts []Attempt) []ChallengeBreakdown {
	byID := make(map[string]*ChallengeBreakdown)
	var out []*ChallengeBreakdown
	for _, att := range attempts {
		id := curriculum.CanonicalID(att.ChallengeID)
		bd, ok := byID[id]
		if !ok {
			bd = &ChallengeBreakdown{ChallengeID: id, LastAttemptAt: att.CreatedAt}
			byID[id] = bd
			out = append(out, bd)
		}
		bd.Attempts++
		if att.IsCorrect {
			bd.Correct++
			bd.Completed = true
		}
	}

	res := make([]ChallengeBreakdown, 0, len(out))
	for _, bd := range out {
		bd.Accuracy = percent(bd.Correct, bd.Attempts)
		res = append(res, *bd)
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].LastAttemptAt.After(res[j].LastAttemptAt) })
	return res
}

// percent rounds part/whole to a whole percentage; 0 when whole is 0.
func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
