package main

import (
	"time"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/teacher"
)

// addTeacher updates or creates a teacher account.
func (cli *commandLine) addTeacher(name, email, pwd string) error {
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)
	now := time.Now().UTC()

	t, err := cli.teacherRepo.GetTeacherByEmail(email)
	if err != nil {
		if err != teacher.ErrNotFound {
			return err
		}
		t = teacher.Teacher{
			Name:      name,
			Email:     email,
			CreatedAt: now,
		}
		if err = t.SetPassword(pwd); err != nil {
			return err
		}
		t.UpdatedAt = now
		_, err = cli.teacherRepo.CreateTeacher(t)
		return err
	}

	t.Name = name
	if err = t.SetPassword(pwd); err != nil {
		return err
	}
	t.UpdatedAt = now
	_, err = cli.teacherRepo.UpdateTeacher(t)
	return err
}
