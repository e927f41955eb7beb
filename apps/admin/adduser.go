package main

import (
	"time"

	"github.com/pkg/errors"

	"github.com/codequest-edu/codequest/core"
	"github.com/codequest-edu/codequest/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(uname)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr, err = cli.usrRepo.GetUserByUsernameOrEmail(email)
	}

	active := true
	now := time.Now().UTC()

	switch {
	case err == nil: // existing user
		usr.Username = uname
		usr.Email = email
		if isAdmin {
			usr.Roles = user.AllRoles
		}
		usr.UpdatedAt = now
		if err := usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.UpdateUser(usr, &active)
		return err
	case errors.Cause(err) == user.ErrNotFound:
		usr = user.User{
			Username:  uname,
			Email:     email,
			IsActive:  active,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if isAdmin {
			usr.Roles = user.AllRoles
		}
		if err := usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(usr)
		return err
	default:
		return err
	}
}
