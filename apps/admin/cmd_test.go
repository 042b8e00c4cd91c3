package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/predict"
	"github.com/trezcool/edutrack/core/teacher"
	dummydb "github.com/trezcool/edutrack/storage/database/dummy"
)

var teacherRepo teacher.Repository

func setup(t *testing.T) *commandLine {
	t.Helper()

	conf, err := core.NewConfig(t.TempDir())
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	teacherRepo = dummydb.NewTeacherRepository(db)

	return &commandLine{
		conf:        conf,
		teacherRepo: teacherRepo,
		modelStore:  predict.NewMemArtifactStore(),
		dbPing:      func() error { return nil },
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func Test_commandLine_addTeacher(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"addteacher"}, wantErr: errHelp},
		{name: "name but no email", args: []string{"addteacher", "-name", "Jane"}, wantErr: errHelp},
		{name: "no password", args: []string{"addteacher", "-name", "Jane", "-email", "jane@test.cd"}, wantErr: errHelp},
		{name: "create", args: []string{"addteacher", "-name", "Jane", "-email", "jane@test.cd"}, pwd: "LePassword1"},
		{name: "update existing", args: []string{"addteacher", "-name", "Jane Doe", "-email", "jane@test.cd"}, pwd: "NewPassword1"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	tchr, err := teacherRepo.GetTeacherByEmail("jane@test.cd")
	if err != nil {
		t.Fatalf("GetTeacherByEmail() failed: %v", err)
	}
	if tchr.Name != "Jane Doe" {
		t.Errorf("addteacher did not update name: %q", tchr.Name)
	}
	if err = tchr.CheckPassword("NewPassword1"); err != nil {
		t.Errorf("addteacher did not update password: %v", err)
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	tchr := teacher.Teacher{Name: "Jane", Email: "jane@test.cd"}
	if err := tchr.SetPassword("LePassword1"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	tchr, err := teacherRepo.CreateTeacher(tchr)
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "jane@test.cd"}, wantErr: errHelp},
		{name: "teacher not found", args: []string{"resetpassword", "-email", "lol@test.cd"}, pwd: "lol", wantErr: teacher.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", "jane@test.cd"}, pwd: "NewPassword1"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshed, err := teacherRepo.GetTeacherByID(tchr.ID)
				if err != nil {
					t.Fatalf("GetTeacherByID() failed: %v", err)
				}
				if bytes.Equal(refreshed.PasswordHash, tchr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_resetModel(t *testing.T) {
	cli := setup(t)

	if err := cli.modelStore.Save(&predict.Artifact{Labels: []string{"A"}}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if err := cli.run([]string{"admin", "resetmodel"}); err != nil {
		t.Fatalf("cli.run() error = %v", err)
	}
	if cli.modelStore.Exists() {
		t.Error("model artifact still present after resetmodel")
	}

	// removing an absent artifact is not an error
	if err := cli.run([]string{"admin", "resetmodel"}); err != nil {
		t.Errorf("cli.run() error = %v", err)
	}
}

func Test_commandLine_initDB(t *testing.T) {
	cli := setup(t)

	if err := cli.run([]string{"admin", "initdb"}); err != nil {
		t.Errorf("cli.run() error = %v", err)
	}

	cli.dbPing = func() error { return errors.New("no file") }
	if err := cli.run([]string{"admin", "initdb"}); err == nil {
		t.Error("cli.run() expected error for unreachable database")
	}
}
