package curriculum

import (
	"sort"
	"strings"
)

// CanonicalID normalizes an entity id so that textually-equal ids
// compare equal regardless of how they were produced.
func CanonicalID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Hierarchy is a request-scoped index over one curriculum Tree snapshot:
// id lookups for the four entity types plus parent to children adjacency.
// It is never cached across requests; build one per request with
// Service.LoadHierarchy and discard it.
type Hierarchy struct {
	subjects     map[string]Subject
	difficulties map[string]Difficulty
	sections     map[string]Section
	challenges   map[string]Challenge

	// traversal orders: subjects and difficulties in creation order,
	// sections and challenges by `order` ascending with creation order
	// breaking ties
	subjectIDs    []string
	difficultyIDs []string
	sectionIDs    []string
	challengeIDs  []string

	subjectDifficulties map[string][]string
	difficultySections  map[string][]string
	sectionChallenges   map[string][]string
}

func NewHierarchy(tree Tree) *Hierarchy {
	h := &Hierarchy{
		subjects:            make(map[string]Subject, len(tree.Subjects)),
		difficulties:        make(map[string]Difficulty, len(tree.Difficulties)),
		sections:            make(map[string]Section, len(tree.Sections)),
		challenges:          make(map[string]Challenge, len(tree.Challenges)),
		subjectDifficulties: make(map[string][]string),
		difficultySections:  make(map[string][]string),
		sectionChallenges:   make(map[string][]string),
	}

	subjects := append([]Subject(nil), tree.Subjects...)
	sort.SliceStable(subjects, func(i, j int) bool { return subjects[i].CreatedAt.Before(subjects[j].CreatedAt) })
	for _, sub := range subjects {
		id := CanonicalID(sub.ID)
		h.subjects[id] = sub
		h.subjectIDs = append(h.subjectIDs, id)
	}

	difficulties := append([]Difficulty(nil), tree.Difficulties...)
	sort.SliceStable(difficulties, func(i, j int) bool { return difficulties[i].CreatedAt.Before(difficulties[j].CreatedAt) })
	for _, diff := range difficulties {
		id := CanonicalID(diff.ID)
		h.difficulties[id] = diff
		h.difficultyIDs = append(h.difficultyIDs, id)
		parent := CanonicalID(diff.SubjectID)
		h.subjectDifficulties[parent] = append(h.subjectDifficulties[parent], id)
	}

	sections := append([]Section(nil), tree.Sections...)
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].CreatedAt.Before(sections[j].CreatedAt) })
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].Order < sections[j].Order })
	for _, sec := range sections {
		id := CanonicalID(sec.ID)
		h.sections[id] = sec
		h.sectionIDs = append(h.sectionIDs, id)
		parent := CanonicalID(sec.DifficultyID)
		h.difficultySections[parent] = append(h.difficultySections[parent], id)
	}

	challenges := append([]Challenge(nil), tree.Challenges...)
	sort.SliceStable(challenges, func(i, j int) bool { return challenges[i].CreatedAt.Before(challenges[j].CreatedAt) })
	sort.SliceStable(challenges, func(i, j int) bool { return challenges[i].Order < challenges[j].Order })
	for _, ch := range challenges {
		id := CanonicalID(ch.ID)
		h.challenges[id] = ch
		h.challengeIDs = append(h.challengeIDs, id)
		parent := CanonicalID(ch.SectionID)
		h.sectionChallenges[parent] = append(h.sectionChallenges[parent], id)
	}

	return h
}

func (h *Hierarchy) Subject(id string) (Subject, bool) {
	sub, ok := h.subjects[CanonicalID(id)]
	return sub, ok
}

func (h *Hierarchy) Difficulty(id string) (Difficulty, bool) {
	diff, ok := h.difficulties[CanonicalID(id)]
	return diff, ok
}

func (h *Hierarchy) Section(id string) (Section, bool) {
	sec, ok := h.sections[CanonicalID(id)]
	return sec, ok
}

func (h *Hierarchy) Challenge(id string) (Challenge, bool) {
	ch, ok := h.challenges[CanonicalID(id)]
	return ch, ok
}

func (h *Hierarchy) HasSubject(id string) bool    { _, ok := h.subjects[CanonicalID(id)]; return ok }
func (h *Hierarchy) HasDifficulty(id string) bool { _, ok := h.difficulties[CanonicalID(id)]; return ok }
func (h *Hierarchy) HasSection(id string) bool    { _, ok := h.sections[CanonicalID(id)]; return ok }
func (h *Hierarchy) HasChallenge(id string) bool  { _, ok := h.challenges[CanonicalID(id)]; return ok }

// SubjectIDs returns all subject ids in creation order.
func (h *Hierarchy) SubjectIDs() []string { return h.subjectIDs }

// DifficultyIDs returns all difficulty ids in creation order,
// including difficulties whose subject is gone.
func (h *Hierarchy) DifficultyIDs() []string { return h.difficultyIDs }

// SectionIDs returns all section ids ordered by `order` ascending,
// including sections whose difficulty is gone.
func (h *Hierarchy) SectionIDs() []string { return h.sectionIDs }

// ChallengeIDs returns all challenge ids ordered by `order` ascending.
func (h *Hierarchy) ChallengeIDs() []string { return h.challengeIDs }

// SubjectDifficultyIDs returns a subject's difficulty ids in creation order.
func (h *Hierarchy) SubjectDifficultyIDs(subjectID string) []string {
	return h.subjectDifficulties[CanonicalID(subjectID)]
}

// DifficultySectionIDs returns a difficulty's section ids by `order` ascending.
func (h *Hierarchy) DifficultySectionIDs(difficultyID string) []string {
	return h.difficultySections[CanonicalID(difficultyID)]
}

// SectionChallengeIDs returns a section's challenge ids by `order` ascending.
func (h *Hierarchy) SectionChallengeIDs(sectionID string) []string {
	return h.sectionChallenges[CanonicalID(sectionID)]
}
