package dummydb

import (
	"strings"

	"github.com/google/uuid"

	"github.com/codequest-edu/codequest/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.ids))
	for _, id := range repo.db.ids {
		users = append(users, *repo.db.table[id])
	}
	return users
}

func (repo *userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	excluded := make(map[string]struct{}, len(excludedUsers))
	for _, usr := range excludedUsers {
		excluded[usr.ID] = struct{}{}
	}

	for _, usr := range repo.query() {
		if _, ok := excluded[usr.ID]; ok {
			continue
		}
		if username != "" && usr.Username == username {
			return user.ErrUsernameExists
		}
		if email != "" && usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}
	repo.db.table[usr.ID] = &usr
	repo.db.ids = append(repo.db.ids, usr.ID)
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByUsername(username string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.query() {
		if usr.Username == username {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.query() {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByUsernameOrEmail(username string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.query() {
		if (usr.Username == username) || (usr.Email == username) {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) FilterUsers(filter user.QueryFilter) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	users := repo.query()

	// users with search keyword matching any Name, Username or Email ?
	if filter.Search != "" {
		var filtered []user.User
		search := strings.ToLower(filter.Search)
		for _, u := range users {
			if strings.Contains(strings.ToLower(u.Username), search) ||
				strings.Contains(strings.ToLower(u.Email), search) ||
				strings.Contains(strings.ToLower(u.Name), search) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}
	// users with any of the specified roles
	if users != nil && len(filter.Roles) > 0 {
		var filtered []user.User
		for _, u := range users {
			for _, r := range filter.Roles {
				if u.RoleStartsWith(r) {
					filtered = append(filtered, u)
					break
				}
			}
		}
		users = filtered
	}
	if users != nil && filter.IsActive != nil {
		var filtered []user.User
		for _, u := range users {
			if u.IsActive == *filter.IsActive {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}
	if users != nil && !filter.CreatedFrom.IsZero() {
		var filtered []user.User
		timeUTC := filter.CreatedFrom.UTC()
		for _, u := range users {
			if u.CreatedAt.Equal(timeUTC) || u.CreatedAt.After(timeUTC) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}
	if users != nil && !filter.CreatedTo.IsZero() {
		var filtered []user.User
		timeUTC := filter.CreatedTo.UTC()
		for _, u := range users {
			if u.CreatedAt.Before(timeUTC) || u.CreatedAt.Equal(timeUTC) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	return users, nil
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	origUsr, ok := repo.db.table[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	if usr.Name != "" {
		origUsr.Name = usr.Name
	}
	if usr.Username != "" {
		origUsr.Username = usr.Username
	}
	if usr.Email != "" {
		origUsr.Email = usr.Email
	}
	if usr.Roles != nil {
		origUsr.Roles = usr.Roles
	}
	if usr.PasswordHash != nil {
		origUsr.PasswordHash = usr.PasswordHash
	}
	if !usr.LastLogin.IsZero() {
		origUsr.LastLogin = usr.LastLogin
	}
	if isActive != nil {
		origUsr.IsActive = *isActive
	}
	origUsr.UpdatedAt = usr.UpdatedAt

	return *origUsr, nil
}

func (repo *userRepository) CreateProfile(profile user.Profile) (user.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.profiles[profile.UserID]; ok {
		return user.Profile{}, user.ErrProfileExists
	}
	if profile.Username != "" {
		for _, p := range repo.db.profiles {
			if p.Username == profile.Username {
				return user.Profile{}, user.ErrUsernameExists
			}
		}
	}

	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	repo.db.profiles[profile.UserID] = &profile
	repo.db.profileIDs = append(repo.db.profileIDs, profile.UserID)
	return profile, nil
}

func (repo *userRepository) GetProfileByUserID(userID string) (user.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if profile, ok := repo.db.profiles[userID]; ok {
		return *profile, nil
	}
	return user.Profile{}, user.ErrProfileNotFound
}

func (repo *userRepository) UpdateProfile(profile user.Profile) (user.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.profiles[profile.UserID]
	if !ok {
		return user.Profile{}, user.ErrProfileNotFound
	}
	if profile.Username != "" {
		for userID, p := range repo.db.profiles {
			if userID != profile.UserID && p.Username == profile.Username {
				return user.Profile{}, user.ErrUsernameExists
			}
		}
	}

	// only save set fields
	if profile.FirstName != "" {
		orig.FirstName = profile.FirstName
	}
	if profile.LastName != "" {
		orig.LastName = profile.LastName
	}
	if profile.Username != "" {
		orig.Username = profile.Username
	}
	if profile.DOB != "" {
		orig.DOB = profile.DOB
	}
	if profile.Gender != "" {
		orig.Gender = profile.Gender
	}
	if profile.Bio != "" {
		orig.Bio = profile.Bio
	}
	if profile.AvatarURI != "" {
		orig.AvatarURI = profile.AvatarURI
	}
	orig.UpdatedAt = profile.UpdatedAt

	return *orig, nil
}

func (repo *userRepository) DeleteUsersByID(ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		if _, ok := repo.db.table[id]; !ok {
			continue
		}
		delete(repo.db.table, id)
		if _, ok := repo.db.profiles[id]; ok {
			delete(repo.db.profiles, id)
			for i, existing := range repo.db.profileIDs {
				if existing == id {
					repo.db.profileIDs = append(repo.db.profileIDs[:i], repo.db.profileIDs[i+1:]...)
					break
				}
			}
		}
		for i, existing := range repo.db.ids {
			if existing == id {
				repo.db.ids = append(repo.db.ids[:i], repo.db.ids[i+1:]...)
				break
			}
		}
	}
	return nil
}
