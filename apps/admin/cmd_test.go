package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/codequest-edu/codequest/core/curriculum"
	"github.com/codequest-edu/codequest/core/user"
	dummydb "github.com/codequest-edu/codequest/storage/database/dummy"
	testutil "github.com/codequest-edu/codequest/tests"
)

var (
	usrRepo  user.Repository
	currRepo curriculum.Repository
)

func setup(t *testing.T) *commandLine {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	usrRepo = dummydb.NewUserRepository(db)
	currRepo = dummydb.NewCurriculumRepository(db)

	return &commandLine{
		usrRepo:  usrRepo,
		currRepo: currRepo,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "challenge", "sql"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "awe123", "awe@test.cd", "mdr", nil, true)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "username required", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "password required", args: []string{"resetpassword", "-username", usr.Username}, wantErr: errHelp, extra: extra{pwd: ""}},
		{name: "unknown user", args: []string{"resetpassword", "-username", "ghost"}, wantErr: user.ErrNotFound, extra: extra{pwd: "newpass"}},
		{name: "reset by username", args: []string{"resetpassword", "-username", usr.Username}, extra: extra{pwd: "newpass"}},
		{name: "reset by email", args: []string{"resetpassword", "-username", usr.Email}, extra: extra{pwd: "newerpass"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		if e, ok := tt.extra.(extra); ok {
			readPasswordFunc = func(fd int) ([]byte, error) { return []byte(e.pwd), nil }
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("cli.run() unexpected error = %v", err)
			}

			e := tt.extra.(extra)
			got, err := usrRepo.GetUserByID(usr.ID)
			if err != nil {
				t.Fatalf("GetUserByID(): %v", err)
			}
			if err := got.CheckPassword(e.pwd); err != nil {
				t.Errorf("CheckPassword() failed: %v", err)
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("pass123"), nil }

	t.Run("creates a new admin", func(t *testing.T) {
		if err := cli.run([]string{"admin", "adduser", "-username", "root01", "-email", "root@test.cd", "-admin"}); err != nil {
			t.Fatalf("cli.run() unexpected error = %v", err)
		}
		usr, err := usrRepo.GetUserByUsername("root01")
		if err != nil {
			t.Fatalf("GetUserByUsername(): %v", err)
		}
		if !usr.IsAdmin() || !usr.IsActive {
			t.Errorf("failed! user = %+v", usr)
		}
		if err := usr.CheckPassword("pass123"); err != nil {
			t.Errorf("CheckPassword() failed: %v", err)
		}
	})

	t.Run("updates an existing user", func(t *testing.T) {
		readPasswordFunc = func(fd int) ([]byte, error) { return []byte("changed"), nil }
		if err := cli.run([]string{"admin", "adduser", "-username", "root01", "-email", "root@test.cd"}); err != nil {
			t.Fatalf("cli.run() unexpected error = %v", err)
		}
		usr, err := usrRepo.GetUserByUsername("root01")
		if err != nil {
			t.Fatalf("GetUserByUsername(): %v", err)
		}
		if err := usr.CheckPassword("changed"); err != nil {
			t.Errorf("CheckPassword() failed: %v", err)
		}
	})
}

func Test_commandLine_seed(t *testing.T) {
	cli := setup(t)

	if err := cli.run([]string{"admin", "seed"}); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}

	ctx := context.Background()
	tree, err := currRepo.GetTree(ctx)
	if err != nil {
		t.Fatalf("GetTree(): %v", err)
	}
	if len(tree.Subjects) != 1 {
		t.Fatalf("failed! got %d subjects; want 1", len(tree.Subjects))
	}
	if len(tree.Difficulties) != 2 {
		t.Errorf("failed! got %d difficulties; want 2", len(tree.Difficulties))
	}
	if len(tree.Sections) != 3 {
		t.Errorf("failed! got %d sections; want 3", len(tree.Sections))
	}
	if len(tree.Challenges) != 4 {
		t.Errorf("failed! got %d challenges; want 4", len(tree.Challenges))
	}
}
