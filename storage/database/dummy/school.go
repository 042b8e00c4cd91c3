package dummydb

import (
	"sort"

	"github.com/trezcool/edutrack/core/school"
)

type schoolRepository struct {
	class   *classTable
	subject *subjectTable
	student *studentTable
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{
		class:   db.class,
		subject: db.subject,
		student: db.student,
	}
}

// Classes

func (repo *schoolRepository) CreateClass(c school.Class) (school.Class, error) {
	repo.class.Lock()
	defer repo.class.Unlock()

	pkCount++
	c.ID = pkCount
	repo.class.table[c.ID] = &c
	return c, nil
}

func (repo *schoolRepository) GetClassByID(id int) (school.Class, error) {
	repo.class.RLock()
	defer repo.class.RUnlock()

	if c, ok := repo.class.table[id]; ok {
		return *c, nil
	}
	return school.Class{}, school.ErrClassNotFound
}

func (repo *schoolRepository) QueryTeacherClasses(teacherID int) ([]school.Class, error) {
	repo.class.RLock()
	defer repo.class.RUnlock()

	classes := make([]school.Class, 0)
	for _, c := range repo.class.table {
		if c.TeacherID == teacherID {
			classes = append(classes, *c)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID > classes[j].ID })
	return classes, nil
}

func (repo *schoolRepository) QueryAllClasses() ([]school.Class, error) {
	repo.class.RLock()
	defer repo.class.RUnlock()

	classes := make([]school.Class, 0, len(repo.class.table))
	for _, c := range repo.class.table {
		classes = append(classes, *c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}

func (repo *schoolRepository) UpdateClass(c school.Class) (school.Class, error) {
	repo.class.Lock()
	defer repo.class.Unlock()

	if _, ok := repo.class.table[c.ID]; !ok {
		return school.Class{}, school.ErrClassNotFound
	}
	repo.class.table[c.ID] = &c
	return c, nil
}

func (repo *schoolRepository) DeleteClass(id int) error {
	repo.class.Lock()
	delete(repo.class.table, id)
	repo.class.Unlock()

	// cascade
	repo.subject.Lock()
	for sid, s := range repo.subject.table {
		if s.ClassID == id {
			delete(repo.subject.table, sid)
		}
	}
	repo.subject.Unlock()

	repo.student.Lock()
	for sid, s := range repo.student.table {
		if s.ClassID == id {
			delete(repo.student.table, sid)
		}
	}
	repo.student.Unlock()
	return nil
}

// Subjects

func (repo *schoolRepository) CreateSubject(s school.Subject) (school.Subject, error) {
	repo.subject.Lock()
	defer repo.subject.Unlock()

	pkCount++
	s.ID = pkCount
	repo.subject.table[s.ID] = &s
	return s, nil
}

func (repo *schoolRepository) GetSubjectByID(id int) (school.Subject, error) {
	repo.subject.RLock()
	defer repo.subject.RUnlock()

	if s, ok := repo.subject.table[id]; ok {
		return *s, nil
	}
	return school.Subject{}, school.ErrSubjectNotFound
}

func (repo *schoolRepository) QueryClassSubjects(classID int) ([]school.Subject, error) {
	repo.subject.RLock()
	defer repo.subject.RUnlock()

	subjects := make([]school.Subject, 0)
	for _, s := range repo.subject.table {
		if s.ClassID == classID {
			subjects = append(subjects, *s)
		}
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects, nil
}

func (repo *schoolRepository) UpdateSubject(s school.Subject) (school.Subject, error) {
	repo.subject.Lock()
	defer repo.subject.Unlock()

	if _, ok := repo.subject.table[s.ID]; !ok {
		return school.Subject{}, school.ErrSubjectNotFound
	}
	repo.subject.table[s.ID] = &s
	return s, nil
}

func (repo *schoolRepository) DeleteSubject(id int) error {
	repo.subject.Lock()
	defer repo.subject.Unlock()
	delete(repo.subject.table, id)
	return nil
}

// Students

func (repo *schoolRepository) CheckRollNumberUniqueness(classID int, rollNumber string, excluded ...school.Student) error {
	repo.student.RLock()
	defer repo.student.RUnlock()

	exclLen := len(excluded)
	if exclLen > 1 {
		sort.Slice(excluded, func(i, j int) bool { return excluded[i].ID < excluded[j].ID })
	}

	for _, s := range repo.student.table {
		if s.ClassID == classID && s.RollNumber == rollNumber && !isExcludedStudent(*s, excluded, exclLen) {
			return school.ErrRollNumberExists
		}
	}
	return nil
}

func (repo *schoolRepository) CreateStudent(s school.Student) (school.Student, error) {
	repo.student.Lock()
	defer repo.student.Unlock()

	pkCount++
	s.ID = pkCount
	repo.student.table[s.ID] = &s
	return s, nil
}

func (repo *schoolRepository) GetStudentByID(id int) (school.Student, error) {
	repo.student.RLock()
	defer repo.student.RUnlock()

	if s, ok := repo.student.table[id]; ok {
		return *s, nil
	}
	return school.Student{}, school.ErrStudentNotFound
}

func (repo *schoolRepository) GetStudentByRollNumber(classID int, rollNumber string) (school.Student, error) {
	repo.student.RLock()
	defer repo.student.RUnlock()

	for _, s := range repo.student.table {
		if s.ClassID == classID && s.RollNumber == rollNumber {
			return *s, nil
		}
	}
	return school.Student{}, school.ErrStudentNotFound
}

func (repo *schoolRepository) QueryClassStudents(classID int) ([]school.Student, error) {
	repo.student.RLock()
	defer repo.student.RUnlock()

	students := make([]school.Student, 0)
	for _, s := range repo.student.table {
		if s.ClassID == classID {
			students = append(students, *s)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].RollNumber < students[j].RollNumber })
	return students, nil
}

func (repo *schoolRepository) UpdateStudent(s school.Student) (school.Student, error) {
	repo.student.Lock()
	defer repo.student.Unlock()

	if _, ok := repo.student.table[s.ID]; !ok {
		return school.Student{}, school.ErrStudentNotFound
	}
	repo.student.table[s.ID] = &s
	return s, nil
}

func (repo *schoolRepository) DeleteStudent(id int) error {
	repo.student.Lock()
	defer repo.student.Unlock()
	delete(repo.student.table, id)
	return nil
}

func isExcludedStudent(s school.Student, excluded []school.Student, exclLen int) bool {
	if exclLen == 0 {
		return false
	}
	idx := sort.Search(exclLen, func(i int) bool { return excluded[i].ID >= s.ID })
	return idx < exclLen && excluded[idx].ID == s.ID
}
