package school

import (
	"errors"
	"time"

	"github.com/trezcool/edutrack/core"
)

var (
	// errors
	ErrClassNotFound    = errors.New("class not found")
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrStudentNotFound  = errors.New("student not found")
	ErrRollNumberExists = errors.New("a student with this roll number already exists in this class")
)

type (
	Repository interface {
		CreateClass(c Class) (Class, error)
		GetClassByID(id int) (Class, error)
		// QueryTeacherClasses returns the teacher's classes, newest first.
		QueryTeacherClasses(teacherID int) ([]Class, error)
		QueryAllClasses() ([]Class, error)
		UpdateClass(c Class) (Class, error)
		DeleteClass(id int) error

		CreateSubject(s Subject) (Subject, error)
		GetSubjectByID(id int) (Subject, error)
		QueryClassSubjects(classID int) ([]Subject, error)
		UpdateSubject(s Subject) (Subject, error)
		DeleteSubject(id int) error

		CheckRollNumberUniqueness(classID int, rollNumber string, excluded ...Student) error
		CreateStudent(s Student) (Student, error)
		GetStudentByID(id int) (Student, error)
		GetStudentByRollNumber(classID int, rollNumber string) (Student, error)
		// QueryClassStudents returns the class roster ordered by roll number.
		QueryClassStudents(classID int) ([]Student, error)
		UpdateStudent(s Student) (Student, error)
		DeleteStudent(id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkRollNumberUniqueness(classID int, rollNumber string, excluded ...Student) error {
	if err := svc.repo.CheckRollNumberUniqueness(classID, rollNumber, excluded...); err != nil {
		if err == ErrRollNumberExists {
			return core.NewValidationError(err, core.FieldError{Field: "roll_number", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Classes

func (svc *Service) AddClass(teacherID int, nc NewClass) (Class, error) {
	return svc.repo.CreateClass(Class{
		TeacherID: teacherID,
		Name:      nc.Name,
		CreatedAt: time.Now().UTC(),
	})
}

func (svc *Service) GetClass(id int) (Class, error) {
	return svc.repo.GetClassByID(id)
}

func (svc *Service) QueryTeacherClasses(teacherID int) ([]Class, error) {
	return svc.repo.QueryTeacherClasses(teacherID)
}

func (svc *Service) QueryAllClasses() ([]Class, error) {
	return svc.repo.QueryAllClasses()
}

func (svc *Service) RenameClass(id int, nc NewClass) (Class, error) {
	c, err := svc.repo.GetClassByID(id)
	if err != nil {
		return Class{}, err
	}
	c.Name = nc.Name
	return svc.repo.UpdateClass(c)
}

func (svc *Service) DeleteClass(id int) error {
	return svc.repo.DeleteClass(id)
}

// Subjects

func (svc *Service) AddSubject(classID int, ns NewSubject) (Subject, error) {
	return svc.repo.CreateSubject(Subject{
		ClassID:   classID,
		Name:      ns.Name,
		CreatedAt: time.Now().UTC(),
	})
}

func (svc *Service) GetSubject(id int) (Subject, error) {
	return svc.repo.GetSubjectByID(id)
}

func (svc *Service) QueryClassSubjects(classID int) ([]Subject, error) {
	return svc.repo.QueryClassSubjects(classID)
}

func (svc *Service) RenameSubject(id int, ns NewSubject) (Subject, error) {
	s, err := svc.repo.GetSubjectByID(id)
	if err != nil {
		return Subject{}, err
	}
	s.Name = ns.Name
	return svc.repo.UpdateSubject(s)
}

func (svc *Service) DeleteSubject(id int) error {
	return svc.repo.DeleteSubject(id)
}

// Students

func (svc *Service) EnrollStudent(classID int, ns NewStudent) (Student, error) {
	return svc.repo.CreateStudent(Student{
		ClassID:    classID,
		Name:       ns.Name,
		RollNumber: ns.RollNumber,
		CreatedAt:  time.Now().UTC(),
	})
}

func (svc *Service) GetStudent(id int) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

// GetStudentByRollNumber is the student portal lookup: class + roll number.
func (svc *Service) GetStudentByRollNumber(classID int, rollNumber string) (Student, error) {
	return svc.repo.GetStudentByRollNumber(classID, core.CleanString(rollNumber))
}

func (svc *Service) QueryClassStudents(classID int) ([]Student, error) {
	return svc.repo.QueryClassStudents(classID)
}

func (svc *Service) UpdateStudent(id int, us UpdateStudent) (Student, error) {
	s, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	if us.Name != "" {
		s.Name = us.Name
	}
	if us.RollNumber != "" {
		s.RollNumber = us.RollNumber
	}
	return svc.repo.UpdateStudent(s)
}

func (svc *Service) DeleteStudent(id int) error {
	return svc.repo.DeleteStudent(id)
}
