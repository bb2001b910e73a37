package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/entity"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/storage"
	"github.com/trezcool/darasa/storage/database/seed"
	"github.com/trezcool/darasa/tests"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	backend := testutil.OpenStore(t, false)
	usrRepo = backend.UserRepo

	readPasswordFunc = func(fd int) ([]byte, error) { return nil, nil }
	gooseRunFunc = func(command string, db *sql.DB, args ...string) error { return nil }

	return &commandLine{
		backend: backend,
		usrSvc:  user.NewService(usrRepo),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func runCLI(t *testing.T, cli *commandLine, tt cliTest) error {
	err := cli.run(append([]string{"admin"}, tt.args...))
	switch {
	case tt.wantErr != nil:
		if err != tt.wantErr {
			t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	case tt.wantErrStr != "":
		if err == nil || err.Error() != tt.wantErrStr {
			t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
		}
	case err != nil:
		t.Errorf("cli.run() unexpected error = %v", err)
	}
	return err
}

func Test_commandLine_usage(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"deleteuser", "-lol"}, wantErr: errHelp},
		{name: "deleteuser: no id", args: []string{"deleteuser"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runCLI(t, cli, tt)
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	t.Run("memory store", func(t *testing.T) {
		cli := setup(t)
		runCLI(t, cli, cliTest{args: []string{"migrate", "up"}, wantErr: errNoDatabase})
	})

	cli := setup(t)
	cli.backend = &storage.Backend{
		Store:    cli.backend.Store,
		UserRepo: cli.backend.UserRepo,
		DB:       sqlx.NewDb(new(sql.DB), "postgres"),
	}

	var gotCommand string
	gooseRunFunc = func(command string, db *sql.DB, args ...string) error {
		gotCommand = command
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
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "attendance", "sql"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotCommand = ""
			runCLI(t, cli, tt)
			if len(tt.args) > 1 && gotCommand != tt.args[1] {
				t.Errorf("goose command = %q, want %q", gotCommand, tt.args[1])
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	existing := testutil.CreateUser(t, usrRepo, "Lucie", "Moreau", "lucie@test.cd", "old-pwd", user.RoleTeacher, false)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no email", args: []string{"adduser"}, wantErr: errHelp},
		{name: "bad role", args: []string{"adduser", "-email", "new@test.cd", "-role", "janitor"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-email", "new@test.cd"}, wantErr: errHelp},
		{
			name:  "create admin",
			args:  []string{"adduser", "-email", "New@Test.cd", "-first", "Paul", "-last", "Kabila"},
			extra: extra{pwd: "s3cret"},
		},
		{
			name:  "update existing",
			args:  []string{"adduser", "-email", existing.Email, "-last", "Moreau-Petit"},
			extra: extra{pwd: "n3w-pwd"},
		},
	}
	for _, tt := range tests {
		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			runCLI(t, cli, tt)
		})
	}

	created, err := cli.usrSvc.Authenticate(ctx, "new@test.cd", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if created.Role != user.RoleAdmin || created.FullName() != "Paul Kabila" {
		t.Errorf("created = %s %q, want admin %q", created.Role, created.FullName(), "Paul Kabila")
	}

	updated, err := cli.usrSvc.Authenticate(ctx, existing.Email, "n3w-pwd")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if updated.Role != user.RoleTeacher || updated.FullName() != "Lucie Moreau-Petit" {
		t.Errorf("updated = %s %q, want teacher %q", updated.Role, updated.FullName(), "Lucie Moreau-Petit")
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "Awe", "awe@test.cd", "mdr", user.RoleParent, true)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@test.cd"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.cd"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", usr.Email}, extra: extra{pwd: "lol"}},
		{name: "reset (case insensitive)", args: []string{"resetpassword", "-email", "AWE@test.cd"}, extra: extra{pwd: "lmao"}},
	}
	for _, tt := range tests {
		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			if err := runCLI(t, cli, tt); err == nil && tt.wantErr == nil {
				refreshedUsr, err := usrRepo.GetUserByID(context.Background(), usr.ID)
				if err != nil {
					t.Fatalf("GetUserByID() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
				usr = refreshedUsr
			}
		})
	}
}

func Test_commandLine_deleteUser(t *testing.T) {
	cli := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "Awe", "awe@test.cd", "mdr", user.RoleStudent, true)

	tests := []cliTest{
		{name: "unknown user", args: []string{"deleteuser", "-id", "lol"}, wantErr: user.ErrNotFound},
		{name: "delete", args: []string{"deleteuser", "-id", usr.ID}},
		{name: "already deleted", args: []string{"deleteuser", "-id", usr.ID}, wantErr: user.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runCLI(t, cli, tt)
		})
	}
}

func Test_commandLine_deleteUser_referenced(t *testing.T) {
	cli := setup(t)
	runCLI(t, cli, cliTest{args: []string{"seed"}})

	// parent-1 has a parent profile and sent msg-1
	err := cli.run([]string{"admin", "deleteuser", "-id", "parent-1"})
	if !core.IsInvalidRecord(err) {
		t.Fatalf("cli.run() error = %v, want invalid record", err)
	}
	vErr := errors.Cause(err).(*core.ValidationError)
	if len(vErr.Fields) != 2 {
		t.Errorf("cli.run() fields = %v, want profiles and messages", vErr.Fields)
	}

	if _, err = cli.usrSvc.GetByID(context.Background(), "parent-1"); err != nil {
		t.Errorf("parent-1 account deleted: %v", err)
	}
	snap, err := school.Load(context.Background(), cli.backend.Store)
	if err != nil {
		t.Fatalf("school.Load() error = %v", err)
	}
	if _, ok := snap.Parent("parent-1"); !ok {
		t.Error("parent-1 profile deleted")
	}
}

func Test_commandLine_seed(t *testing.T) {
	cli := setup(t)

	runCLI(t, cli, cliTest{args: []string{"seed"}})

	teachers, err := cli.backend.Store.List(context.Background(), entity.KindTeacher)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(teachers) == 0 {
		t.Error("seed did not load any teacher")
	}
	if _, err = cli.usrSvc.Authenticate(context.Background(), "admin@darasa.io", seed.DemoPassword); err != nil {
		t.Errorf("Authenticate(admin) error = %v", err)
	}

	if err = cli.run([]string{"admin", "seed"}); err == nil {
		t.Error("seeding twice should fail")
	}
}
