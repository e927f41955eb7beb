package curriculum

import (
	"time"

	"github.com/codequest-edu/codequest/core"
)

// Difficulty names are a fixed scale.
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

var DifficultyNames = []string{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

type Subject struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

type Difficulty struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subject_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type Section struct {
	ID           string    `json:"id"`
	DifficultyID string    `json:"difficulty_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Order        int       `json:"order"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

// DisplayName is the single place deciding what a Section is called
// when a human-readable name is needed.
func (s Section) DisplayName() string {
	if s.Title != "" {
		return s.Title
	}
	return "Untitled section"
}

type Challenge struct {
	ID           string    `json:"id"`
	SectionID    string    `json:"section_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Instructions string    `json:"instructions"`
	StarterCode  string    `json:"starter_code,omitempty"`
	Solution     string    `json:"solution,omitempty"`
	Order        int       `json:"order"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

// Tree is a full curriculum snapshot, loaded in one pass.
type Tree struct {
	Subjects     []Subject
	Difficulties []Difficulty
	Sections     []Section
	Challenges   []Challenge
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (ns *NewSubject) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Description = core.CleanString(ns.Description)
	return core.Validate.Struct(ns)
}

type UpdateSubject struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (us *UpdateSubject) Validate(orig Subject) error {
	us.Name = core.CleanString(us.Name)
	if us.Name == "" {
		us.Name = orig.Name
	}
	us.Description = core.CleanString(us.Description)
	if us.Description == "" {
		us.Description = orig.Description
	}
	return core.Validate.Struct(us)
}

type NewDifficulty struct {
	SubjectID string `json:"subject_id" validate:"required"`
	Name      string `json:"name" validate:"required,oneof=Beginner Intermediate Advanced"`
}

func (nd *NewDifficulty) Validate() error {
	nd.SubjectID = core.CleanString(nd.SubjectID)
	nd.Name = core.CleanString(nd.Name)
	return core.Validate.Struct(nd)
}

type NewSection struct {
	DifficultyID string `json:"difficulty_id" validate:"required"`
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description"`
	Order        int    `json:"order" validate:"min=0"`
}

func (ns *NewSection) Validate() error {
	ns.DifficultyID = core.CleanString(ns.DifficultyID)
	ns.Title = core.CleanString(ns.Title)
	ns.Description = core.CleanString(ns.Description)
	return core.Validate.Struct(ns)
}

type UpdateSection struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       *int   `json:"order" validate:"omitempty,min=0"`
}

func (us *UpdateSection) Validate(orig Section) error {
	us.Title = core.CleanString(us.Title)
	if us.Title == "" {
		us.Title = orig.Title
	}
	us.Description = core.CleanString(us.Description)
	if us.Description == "" {
		us.Description = orig.Description
	}
	return core.Validate.Struct(us)
}

type NewChallenge struct {
	SectionID    string `json:"section_id" validate:"required"`
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Instructions string `json:"instructions" validate:"required"`
	StarterCode  string `json:"starter_code"`
	Solution     string `json:"solution"`
	Order        int    `json:"order" validate:"min=0"`
}

func (nc *NewChallenge) Validate() error {
	nc.SectionID = core.CleanString(nc.SectionID)
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	nc.Instructions = core.CleanString(nc.Instructions)
	return core.Validate.Struct(nc)
}

type UpdateChallenge struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Instructions string `json:"instructions"`
	StarterCode  string `json:"starter_code"`
	Solution     string `json:"solution"`
	Order        *int   `json:"order" validate:"omitempty,min=0"`
}

func (uc *UpdateChallenge) Validate(orig Challenge) error {
	uc.Title = core.CleanString(uc.Title)
	if uc.Title == "" {
		uc.Title = orig.Title
	}
	uc.Description = core.CleanString(uc.Description)
	if uc.Description == "" {
		uc.Description = orig.Description
	}
	uc.Instructions = core.CleanString(uc.Instructions)
	if uc.Instructions == "" {
		uc.Instructions = orig.Instructions
	}
	return core.Validate.Struct(uc)
}
