package curriculum

import (
	"reflect"
	"testing"
	"time"
)

func TestCanonicalID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"ABC-123", "abc-123"},
		{"  e9b1c097  ", "e9b1c097"},
		{"E9B1C097", "e9b1c097"},
	}
	for _, tt := range tests {
		if got := CanonicalID(tt.in); got != tt.want {
			t.Errorf("CanonicalID(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewHierarchy(t *testing.T) {
	at := func(min int) time.Time { return time.Date(2021, 3, 1, 10, min, 0, 0, time.UTC) }

	tree := Tree{
		Subjects: []Subject{
			{ID: "SUB-2", Name: "Go", CreatedAt: at(5)},
			{ID: "sub-1", Name: "Python", CreatedAt: at(0)},
		},
		Difficulties: []Difficulty{
			{ID: "diff-2", SubjectID: "sub-1", Name: DifficultyIntermediate, CreatedAt: at(2)},
			{ID: "diff-1", SubjectID: "SUB-1", Name: DifficultyBeginner, CreatedAt: at(1)},
			{ID: "diff-3", SubjectID: "sub-gone", Name: DifficultyAdvanced, CreatedAt: at(3)},
		},
		Sections: []Section{
			{ID: "sec-b", DifficultyID: "diff-1", Title: "Loops", Order: 2, CreatedAt: at(1)},
			{ID: "sec-c", DifficultyID: "diff-1", Title: "Maps", Order: 1, CreatedAt: at(3)},
			{ID: "sec-a", DifficultyID: "diff-1", Title: "Basics", Order: 1, CreatedAt: at(2)},
		},
		Challenges: []Challenge{
			{ID: "ch-2", SectionID: "sec-a", Title: "Two", Order: 1, CreatedAt: at(2)},
			{ID: "ch-1", SectionID: "SEC-A", Title: "One", Order: 0, CreatedAt: at(1)},
		},
	}
	h := NewHierarchy(tree)

	// creation order
	if got, want := h.SubjectIDs(), []string{"sub-1", "sub-2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("SubjectIDs() = %v; want %v", got, want)
	}
	// dangling subject reference still indexed
	if got, want := h.DifficultyIDs(), []string{"diff-1", "diff-2", "diff-3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("DifficultyIDs() = %v; want %v", got, want)
	}
	// `order` ascending, creation order breaking the sec-a/sec-c tie
	if got, want := h.DifficultySectionIDs("diff-1"), []string{"sec-a", "sec-c", "sec-b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("DifficultySectionIDs() = %v; want %v", got, want)
	}
	if got, want := h.SectionChallengeIDs("sec-a"), []string{"ch-1", "ch-2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("SectionChallengeIDs() = %v; want %v", got, want)
	}

	// lookups are case-insensitive on ids
	if sub, ok := h.Subject(" SUB-1 "); !ok || sub.Name != "Python" {
		t.Errorf("Subject(\" SUB-1 \") = %+v, %t; want Python subject", sub, ok)
	}
	if !h.HasChallenge("CH-1") {
		t.Error("HasChallenge(\"CH-1\") = false; want true")
	}
	if h.HasSection("sec-gone") {
		t.Error("HasSection(\"sec-gone\") = true; want false")
	}

	if got := h.SubjectDifficultyIDs("sub-1"); !reflect.DeepEqual(got, []string{"diff-1", "diff-2"}) {
		t.Errorf("SubjectDifficultyIDs() = %v; want [diff-1 diff-2]", got)
	}
	if got := h.SubjectDifficultyIDs("nope"); got != nil {
		t.Errorf("SubjectDifficultyIDs(unknown) = %v; want nil", got)
	}
}

func TestSection_DisplayName(t *testing.T) {
	if got := (Section{Title: "Slices"}).DisplayName(); got != "Slices" {
		t.Errorf("DisplayName() = %q; want %q", got, "Slices")
	}
	if got := (Section{}).DisplayName(); got != "Untitled section" {
		t.Errorf("DisplayName() = %q; want %q", got, "Untitled section")
	}
}
