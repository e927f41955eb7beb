package progress

import (
	"strings"

	"github.com/codequest-edu/codequest/core/curriculum"
)

// Grader decides whether a submission solves a challenge.
type Grader interface {
	Grade(ch curriculum.Challenge, submittedCode string) (isCorrect bool, feedback string)
}

// ExactMatchGrader is the placeholder grading strategy: normalized
// string equality against the stored solution. Meant to be replaced by
// a sandboxed test runner eventually.
type ExactMatchGrader struct{}

var _ Grader = (*ExactMatchGrader)(nil)

func (ExactMatchGrader) Grade(ch curriculum.Challenge, submittedCode string) (bool, string) {
	if normalizeCode(submittedCode) == normalizeCode(ch.Solution) {
		return true, "Correct ✅"
	}
	return false, "Incorrect ❌ (grading is basic for now)"
}

// normalizeCode strips leading/trailing whitespace and normalizes CRLF
// line endings so formatting differences don't fail a submission.
func normalizeCode(code string) string {
	return strings.ReplaceAll(strings.TrimSpace(code), "\r\n", "\n")
}
