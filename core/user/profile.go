package user

import (
	"time"

	"github.com/codequest-edu/codequest/core"
)

// Genders accepted on a Profile.
const (
	GenderMale           = "male"
	GenderFemale         = "female"
	GenderOther          = "other"
	GenderPreferNotToSay = "prefer_not_to_say"
)

// Profile holds a user's public-facing details. One per user.
type Profile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Username  string    `json:"username"`
	DOB       string    `json:"dob,omitempty"` // YYYY-MM-DD
	Gender    string    `json:"gender,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURI string    `json:"avatar_uri,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewProfile contains information needed to create a new Profile.
type NewProfile struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Username  string `json:"username" validate:"omitempty,min=6,alphanum_"`
	DOB       string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Gender    string `json:"gender" validate:"omitempty,oneof=male female other prefer_not_to_say"`
	Bio       string `json:"bio"`
	AvatarURI string `json:"avatar_uri" validate:"omitempty,uri"`
}

func (np *NewProfile) Validate() error {
	np.FirstName = core.CleanString(np.FirstName)
	np.LastName = core.CleanString(np.LastName)
	np.Username = core.CleanString(np.Username, true /* lower */)
	np.Bio = core.CleanString(np.Bio)
	return core.Validate.Struct(np)
}

// UpdateProfile defines what information may be provided to modify an existing Profile.
type UpdateProfile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username" validate:"omitempty,min=6,alphanum_"`
	DOB       string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Gender    string `json:"gender" validate:"omitempty,oneof=male female other prefer_not_to_say"`
	Bio       string `json:"bio"`
	AvatarURI string `json:"avatar_uri" validate:"omitempty,uri"`
}

func (up *UpdateProfile) Validate(orig Profile) error {
	firstName := core.CleanString(up.FirstName)
	if firstName != "" {
		up.FirstName = firstName
	} else {
		up.FirstName = orig.FirstName
	}

	lastName := core.CleanString(up.LastName)
	if lastName != "" {
		up.LastName = lastName
	} else {
		up.LastName = orig.LastName
	}

	uname := core.CleanString(up.Username, true /* lower */)
	if uname != "" {
		up.Username = uname
	} else {
		up.Username = orig.Username
	}

	if up.DOB == "" {
		up.DOB = orig.DOB
	}
	if up.Gender == "" {
		up.Gender = orig.Gender
	}
	if up.Bio == "" {
		up.Bio = orig.Bio
	}
	if up.AvatarURI == "" {
		up.AvatarURI = orig.AvatarURI
	}

	return core.Validate.Struct(up)
}
