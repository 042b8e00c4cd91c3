package echoapi

import (
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core/school"
)

// ownership helpers: teachers may only touch their own classes and
// everything enrolled under them.

func classOwned(svc *school.Service, teacherID, classID int) (school.Class, error) {
	c, err := svc.GetClass(classID)
	if err != nil {
		if errors.Cause(err) == school.ErrClassNotFound {
			return school.Class{}, errHttpNotFound
		}
		return school.Class{}, errors.Wrap(err, "getting class")
	}
	if c.TeacherID != teacherID {
		return school.Class{}, errHttpNotFound
	}
	return c, nil
}

func subjectOwned(svc *school.Service, teacherID, subjectID int) (school.Subject, error) {
	s, err := svc.GetSubject(subjectID)
	if err != nil {
		if errors.Cause(err) == school.ErrSubjectNotFound {
			return school.Subject{}, errHttpNotFound
		}
		return school.Subject{}, errors.Wrap(err, "getting subject")
	}
	if _, err = classOwned(svc, teacherID, s.ClassID); err != nil {
		return school.Subject{}, err
	}
	return s, nil
}

func studentOwned(svc *school.Service, teacherID, studentID int) (school.Student, error) {
	s, err := svc.GetStudent(studentID)
	if err != nil {
		if errors.Cause(err) == school.ErrStudentNotFound {
			return school.Student{}, errHttpNotFound
		}
		return school.Student{}, errors.Wrap(err, "getting student")
	}
	if _, err = classOwned(svc, teacherID, s.ClassID); err != nil {
		return school.Student{}, err
	}
	return s, nil
}
