package sqlxrepos

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/codequest-edu/codequest/core/user"
)

type userRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Username     sql.NullString `db:"username"`
	Email        sql.NullString `db:"email"`
	IsActive     bool           `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	PasswordHash []byte         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    sql.NullTime   `db:"last_login"`
}

func (r userRow) user() user.User {
	return user.User{
		ID:           r.ID,
		Name:         r.Name,
		Username:     r.Username.String,
		Email:        r.Email.String,
		IsActive:     r.IsActive,
		Roles:        r.Roles,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastLogin:    r.LastLogin.Time,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sql.DB) user.Repository {
	return &userRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	exclIDs := make([]string, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		exclIDs = append(exclIDs, usr.ID)
	}

	check := func(column, value string, sentinel error) error {
		if value == "" {
			return nil
		}
		query := fmt.Sprintf(`SELECT COUNT(*) FROM "user" WHERE %s = $1`, column)
		args := []interface{}{value}
		if len(exclIDs) > 0 {
			query += " AND NOT (id = ANY($2))"
			args = append(args, pq.Array(exclIDs))
		}
		var count int
		if err := repo.db.Get(&count, query, args...); err != nil {
			return errors.Wrapf(err, "checking %s uniqueness", column)
		}
		if count > 0 {
			return sentinel
		}
		return nil
	}

	if err := check("username", username, user.ErrUsernameExists); err != nil {
		return err
	}
	return check("email", email, user.ErrEmailExists)
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO "user" (id, name, username, email, is_active, roles, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.Exec(query,
		usr.ID, usr.Name, nullString(usr.Username), nullString(usr.Email), usr.IsActive,
		pq.Array(usr.Roles), usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	var rows []userRow
	if err := repo.db.Select(&rows, `SELECT * FROM "user" ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.user())
	}
	return users, nil
}

func (repo *userRepository) getBy(clause string, args ...interface{}) (user.User, error) {
	var r userRow
	if err := repo.db.Get(&r, `SELECT * FROM "user" WHERE `+clause, args...); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return r.user(), nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	return repo.getBy("id = $1", id)
}

func (repo *userRepository) GetUserByUsername(username string) (user.User, error) {
	return repo.getBy("username = $1", username)
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	return repo.getBy("email = $1", email)
}

func (repo *userRepository) GetUserByUsernameOrEmail(username string) (user.User, error) {
	return repo.getBy("username = $1 OR email = $1", username)
}

func (repo *userRepository) FilterUsers(filter user.QueryFilter) ([]user.User, error) {
	query := `SELECT * FROM "user"`
	var clauses []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		clauses = append(clauses, fmt.Sprintf("(name ILIKE %[1]s OR username ILIKE %[1]s OR email ILIKE %[1]s)", p))
	}
	if len(filter.Roles) > 0 {
		clauses = append(clauses, fmt.Sprintf("roles && %s", arg(pq.Array(filter.Roles))))
	}
	if filter.IsActive != nil {
		clauses = append(clauses, fmt.Sprintf("is_active = %s", arg(*filter.IsActive)))
	}
	if !filter.CreatedFrom.IsZero() {
		clauses = append(clauses, fmt.Sprintf("created_at >= %s", arg(filter.CreatedFrom)))
	}
	if !filter.CreatedTo.IsZero() {
		clauses = append(clauses, fmt.Sprintf("created_at <= %s", arg(filter.CreatedTo)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at"

	var rows []userRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.user())
	}
	return users, nil
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	sets := []string{"updated_at = NOW()"}
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if usr.Name != "" {
		sets = append(sets, "name = "+arg(usr.Name))
	}
	if usr.Username != "" {
		sets = append(sets, "username = "+arg(usr.Username))
	}
	if usr.Email != "" {
		sets = append(sets, "email = "+arg(usr.Email))
	}
	if usr.Roles != nil {
		sets = append(sets, "roles = "+arg(pq.Array(usr.Roles)))
	}
	if usr.PasswordHash != nil {
		sets = append(sets, "password_hash = "+arg(usr.PasswordHash))
	}
	if !usr.LastLogin.IsZero() {
		sets = append(sets, "last_login = "+arg(usr.LastLogin))
	}
	if isActive != nil {
		sets = append(sets, "is_active = "+arg(*isActive))
	}

	query := fmt.Sprintf(`UPDATE "user" SET %s WHERE id = %s`, strings.Join(sets, ", "), arg(usr.ID))
	res, err := repo.db.Exec(query, args...)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(usr.ID)
}

type profileRow struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	FirstName string         `db:"first_name"`
	LastName  string         `db:"last_name"`
	Username  sql.NullString `db:"username"`
	DOB       sql.NullString `db:"dob"`
	Gender    sql.NullString `db:"gender"`
	Bio       sql.NullString `db:"bio"`
	AvatarURI sql.NullString `db:"avatar_uri"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r profileRow) profile() user.Profile {
	return user.Profile{
		ID:        r.ID,
		UserID:    r.UserID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Username:  r.Username.String,
		DOB:       r.DOB.String,
		Gender:    r.Gender.String,
		Bio:       r.Bio.String,
		AvatarURI: r.AvatarURI.String,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (repo *userRepository) CreateProfile(profile user.Profile) (user.Profile, error) {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}

	var count int
	if err := repo.db.Get(&count, `SELECT COUNT(*) FROM profile WHERE user_id = $1`, profile.UserID); err != nil {
		return user.Profile{}, errors.Wrap(err, "checking profile existence")
	}
	if count > 0 {
		return user.Profile{}, user.ErrProfileExists
	}
	if profile.Username != "" {
		if err := repo.db.Get(&count, `SELECT COUNT(*) FROM profile WHERE username = $1`, profile.Username); err != nil {
			return user.Profile{}, errors.Wrap(err, "checking profile username uniqueness")
		}
		if count > 0 {
			return user.Profile{}, user.ErrUsernameExists
		}
	}

	const query = `
		INSERT INTO profile (id, user_id, first_name, last_name, username, dob, gender, bio, avatar_uri, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := repo.db.Exec(query,
		profile.ID, profile.UserID, profile.FirstName, profile.LastName, nullString(profile.Username),
		nullString(profile.DOB), nullString(profile.Gender), nullString(profile.Bio), nullString(profile.AvatarURI),
		profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return user.Profile{}, errors.Wrap(err, "creating profile")
	}
	return profile, nil
}

func (repo *userRepository) GetProfileByUserID(userID string) (user.Profile, error) {
	// dob is a DATE column; read it back as text
	const query = `
		SELECT id, user_id, first_name, last_name, username, dob::TEXT AS dob,
		       gender, bio, avatar_uri, created_at, updated_at
		FROM profile WHERE user_id = $1`
	var r profileRow
	if err := repo.db.Get(&r, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return user.Profile{}, user.ErrProfileNotFound
		}
		return user.Profile{}, errors.Wrap(err, "getting profile")
	}
	return r.profile(), nil
}

func (repo *userRepository) UpdateProfile(profile user.Profile) (user.Profile, error) {
	if profile.Username != "" {
		var count int
		const query = `SELECT COUNT(*) FROM profile WHERE username = $1 AND user_id != $2`
		if err := repo.db.Get(&count, query, profile.Username, profile.UserID); err != nil {
			return user.Profile{}, errors.Wrap(err, "checking profile username uniqueness")
		}
		if count > 0 {
			return user.Profile{}, user.ErrUsernameExists
		}
	}

	sets := []string{"updated_at = NOW()"}
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if profile.FirstName != "" {
		sets = append(sets, "first_name = "+arg(profile.FirstName))
	}
	if profile.LastName != "" {
		sets = append(sets, "last_name = "+arg(profile.LastName))
	}
	if profile.Username != "" {
		sets = append(sets, "username = "+arg(profile.Username))
	}
	if profile.DOB != "" {
		sets = append(sets, "dob = "+arg(profile.DOB))
	}
	if profile.Gender != "" {
		sets = append(sets, "gender = "+arg(profile.Gender))
	}
	if profile.Bio != "" {
		sets = append(sets, "bio = "+arg(profile.Bio))
	}
	if profile.AvatarURI != "" {
		sets = append(sets, "avatar_uri = "+arg(profile.AvatarURI))
	}

	query := fmt.Sprintf(`UPDATE profile SET %s WHERE user_id = %s`, strings.Join(sets, ", "), arg(profile.UserID))
	res, err := repo.db.Exec(query, args...)
	if err != nil {
		return user.Profile{}, errors.Wrap(err, "updating profile")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.Profile{}, user.ErrProfileNotFound
	}
	return repo.GetProfileByUserID(profile.UserID)
}

func (repo *userRepository) DeleteUsersByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.db.Exec(`DELETE FROM "user" WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
