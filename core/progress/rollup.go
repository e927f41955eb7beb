package progress

import (
	"github.com/codequest-edu/codequest/core/curriculum"
)

// The rollup functions are pure: they derive statistics from one
// Hierarchy snapshot and one CompletionSet, hold no state and perform
// no I/O. Challenge completion is decided once, by CompletionSet
// membership inside ComputeSectionStats; difficulty and subject rollups
// only aggregate section stats, never re-derive challenge facts.

// ComputeSectionStats rolls up one section's challenges against the
// completion set. A section with zero challenges reports 0% and is
// never finished.
func ComputeSectionStats(h *curriculum.Hierarchy, cs CompletionSet, sectionID string) SectionStats {
	stats := SectionStats{SectionID: curriculum.CanonicalID(sectionID)}
	sec, ok := h.Section(sectionID)
	if !ok {
		return stats
	}
	stats.SectionName = sec.DisplayName()
	stats.DifficultyID = curriculum.CanonicalID(sec.DifficultyID)
	if diff, ok := h.Difficulty(sec.DifficultyID); ok {
		stats.DifficultyName = diff.Name
	}

	chIDs := h.SectionChallengeIDs(sectionID)
	stats.TotalChallenges = len(chIDs)
	for _, chID := range chIDs {
		if cs.Contains(chID) {
			stats.CompletedChallenges++
		}
	}
	stats.RemainingChallenges = stats.TotalChallenges - stats.CompletedChallenges
	stats.CompletionPercent = percent(stats.CompletedChallenges, stats.TotalChallenges)
	stats.IsFinished = stats.TotalChallenges > 0 && stats.CompletedChallenges == stats.TotalChallenges
	return stats
}

// ComputeDifficultyStats sums section stats over one difficulty's
// sections and returns both the aggregate and the per-section stats it
// was computed from. A difficulty whose subject was deleted reports a
// nil subject name.
func ComputeDifficultyStats(h *curriculum.Hierarchy, cs CompletionSet, difficultyID string) (DifficultyStats, []SectionStats) {
	stats := DifficultyStats{DifficultyID: curriculum.CanonicalID(difficultyID)}
	diff, ok := h.Difficulty(difficultyID)
	if !ok {
		return stats, nil
	}
	stats.DifficultyName = diff.Name
	stats.SubjectID = curriculum.CanonicalID(diff.SubjectID)
	if sub, ok := h.Subject(diff.SubjectID); ok {
		name := sub.Name
		stats.SubjectName = &name
	}

	secIDs := h.DifficultySectionIDs(difficultyID)
	sections := make([]SectionStats, 0, len(secIDs))
	for _, secID := range secIDs {
		ss := ComputeSectionStats(h, cs, secID)
		sections = append(sections, ss)
		stats.TotalChallenges += ss.TotalChallenges
		stats.CompletedChallenges += ss.CompletedChallenges
		if ss.IsFinished {
			stats.FinishedSections++
		}
	}
	stats.TotalSections = len(secIDs)
	stats.RemainingChallenges = stats.TotalChallenges - stats.CompletedChallenges
	stats.CompletionPercent = percent(stats.CompletedChallenges, stats.TotalChallenges)
	stats.IsFinished = stats.TotalSections > 0 && stats.FinishedSections == stats.TotalSections
	return stats, sections
}

// ComputeSubjectStats sums difficulty stats over one subject's
// difficulties and returns the aggregate plus the nested difficulty to
// section breakdowns it was computed from.
func ComputeSubjectStats(h *curriculum.Hierarchy, cs CompletionSet, subjectID string) (SubjectStats, []SubjectDifficultyBreakdown) {
	stats := SubjectStats{SubjectID: curriculum.CanonicalID(subjectID)}
	sub, ok := h.Subject(subjectID)
	if !ok {
		return stats, nil
	}
	stats.SubjectName = sub.Name

	diffIDs := h.SubjectDifficultyIDs(subjectID)
	breakdowns := make([]SubjectDifficultyBreakdown, 0, len(diffIDs))
	for _, diffID := range diffIDs {
		ds, sections := ComputeDifficultyStats(h, cs, diffID)
		breakdowns = append(breakdowns, SubjectDifficultyBreakdown{Totals: ds, Sections: sections})
		stats.TotalSections += ds.TotalSections
		stats.FinishedSections += ds.FinishedSections
		stats.TotalChallenges += ds.TotalChallenges
		stats.CompletedChallenges += ds.CompletedChallenges
		if ds.IsFinished {
			stats.FinishedDifficulties++
		}
	}
	stats.TotalDifficulties = len(diffIDs)
	stats.RemainingChallenges = stats.TotalChallenges - stats.CompletedChallenges
	stats.CompletionPercent = percent(stats.CompletedChallenges, stats.TotalChallenges)
	stats.IsFinished = stats.TotalDifficulties > 0 && stats.FinishedDifficulties == stats.TotalDifficulties
	return stats, breakdowns
}
