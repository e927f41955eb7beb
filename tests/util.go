package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/codequest-edu/codequest/core/curriculum"
	"github.com/codequest-edu/codequest/core/progress"
	"github.com/codequest-edu/codequest/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateProfile(t *testing.T, repo user.Repository, userID, firstName, lastName string) user.Profile {
	now := time.Now().UTC()
	profile, err := repo.CreateProfile(user.Profile{
		UserID:    userID,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	return profile
}

func CreateSubject(t *testing.T, repo curriculum.Repository, name string) curriculum.Subject {
	now := time.Now().UTC()
	sub, err := repo.CreateSubject(context.Background(), curriculum.Subject{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return sub
}

func CreateDifficulty(t *testing.T, repo curriculum.Repository, subjectID, name string) curriculum.Difficulty {
	now := time.Now().UTC()
	diff, err := repo.CreateDifficulty(context.Background(), curriculum.Difficulty{
		SubjectID: subjectID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateDifficulty() failed: %v", err)
	}
	return diff
}

func CreateSection(t *testing.T, repo curriculum.Repository, difficultyID, title string, order int) curriculum.Section {
	now := time.Now().UTC()
	sec, err := repo.CreateSection(context.Background(), curriculum.Section{
		DifficultyID: difficultyID,
		Title:        title,
		Order:        order,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateSection() failed: %v", err)
	}
	return sec
}

func CreateChallenge(t *testing.T, repo curriculum.Repository, sectionID, title, solution string, order int) curriculum.Challenge {
	now := time.Now().UTC()
	ch, err := repo.CreateChallenge(context.Background(), curriculum.Challenge{
		SectionID:    sectionID,
		Title:        title,
		Description:  title,
		Instructions: "Write " + title,
		Solution:     solution,
		Order:        order,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateChallenge() failed: %v", err)
	}
	return ch
}

func CreateAttempt(
	t *testing.T,
	repo progress.Repository,
	userID, challengeID, code string,
	isCorrect bool,
	createdAt ...time.Time,
) progress.Attempt {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	att, err := repo.CreateAttempt(context.Background(), progress.Attempt{
		UserID:        userID,
		ChallengeID:   challengeID,
		SubmittedCode: code,
		IsCorrect:     isCorrect,
		CreatedAt:     tstamp,
	})
	if err != nil {
		t.Fatalf("CreateAttempt() failed: %v", err)
	}
	return att
}
