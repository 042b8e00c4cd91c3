package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core/school"
)

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sqlx.DB) school.Repository {
	return &schoolRepository{db: db}
}

// Classes

func (repo *schoolRepository) CreateClass(c school.Class) (school.Class, error) {
	res, err := repo.db.NamedExec(
		`INSERT INTO classes (teacher_id, name, created_at) VALUES (:teacher_id, :name, :created_at)`, c)
	if err != nil {
		return school.Class{}, errors.Wrap(err, "creating class")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return school.Class{}, errors.Wrap(err, "reading class id")
	}
	c.ID = int(id)
	return c, nil
}

func (repo *schoolRepository) GetClassByID(id int) (school.Class, error) {
	var c school.Class
	if err := repo.db.Get(&c, `SELECT * FROM classes WHERE id = ?`, id); err != nil {
		if err == sql.ErrNoRows {
			return school.Class{}, school.ErrClassNotFound
		}
		return school.Class{}, errors.Wrap(err, "getting class")
	}
	return c, nil
}

func (repo *schoolRepository) QueryTeacherClasses(teacherID int) ([]school.Class, error) {
	classes := make([]school.Class, 0)
	err := repo.db.Select(&classes,
		`SELECT * FROM classes WHERE teacher_id = ? ORDER BY created_at DESC, id DESC`, teacherID)
	if err != nil {
		return nil, errors.Wrap(err, "querying teacher classes")
	}
	return classes, nil
}

func (repo *schoolRepository) QueryAllClasses() ([]school.Class, error) {
	classes := make([]school.Class, 0)
	if err := repo.db.Select(&classes, `SELECT * FROM classes ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	return classes, nil
}

func (repo *schoolRepository) UpdateClass(c school.Class) (school.Class, error) {
	_, err := repo.db.NamedExec(`UPDATE classes SET name = :name WHERE id = :id`, c)
	if err != nil {
		return school.Class{}, errors.Wrap(err, "updating class")
	}
	return c, nil
}

func (repo *schoolRepository) DeleteClass(id int) error {
	_, err := repo.db.Exec(`DELETE FROM classes WHERE id = ?`, id)
	return errors.Wrap(err, "deleting class")
}

// Subjects

func (repo *schoolRepository) CreateSubject(s school.Subject) (school.Subject, error) {
	res, err := repo.db.NamedExec(
		`INSERT INTO subjects (class_id, name, created_at) VALUES (:class_id, :name, :created_at)`, s)
	if err != nil {
		return school.Subject{}, errors.Wrap(err, "creating subject")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return school.Subject{}, errors.Wrap(err, "reading subject id")
	}
	s.ID = int(id)
	return s, nil
}

func (repo *schoolRepository) GetSubjectByID(id int) (school.Subject, error) {
	var s school.Subject
	if err := repo.db.Get(&s, `SELECT * FROM subjects WHERE id = ?`, id); err != nil {
		if err == sql.ErrNoRows {
			return school.Subject{}, school.ErrSubjectNotFound
		}
		return school.Subject{}, errors.Wrap(err, "getting subject")
	}
	return s, nil
}

func (repo *schoolRepository) QueryClassSubjects(classID int) ([]school.Subject, error) {
	subjects := make([]school.Subject, 0)
	err := repo.db.Select(&subjects, `SELECT * FROM subjects WHERE class_id = ? ORDER BY name`, classID)
	if err != nil {
		return nil, errors.Wrap(err, "querying class subjects")
	}
	return subjects, nil
}

func (repo *schoolRepository) UpdateSubject(s school.Subject) (school.Subject, error) {
	_, err := repo.db.NamedExec(`UPDATE subjects SET name = :name WHERE id = :id`, s)
	if err != nil {
		return school.Subject{}, errors.Wrap(err, "updating subject")
	}
	return s, nil
}

func (repo *schoolRepository) DeleteSubject(id int) error {
	_, err := repo.db.Exec(`DELETE FROM subjects WHERE id = ?`, id)
	return errors.Wrap(err, "deleting subject")
}

// Students

func (repo *schoolRepository) CheckRollNumberUniqueness(classID int, rollNumber string, excluded ...school.Student) error {
	query := `SELECT COUNT(*) FROM students WHERE class_id = ? AND roll_number = ?`
	args := []interface{}{classID, rollNumber}
	if len(excluded) > 0 {
		ids := make([]int, 0, len(excluded))
		for _, s := range excluded {
			ids = append(ids, s.ID)
		}
		inQuery, inArgs, err := sqlx.In(query+` AND id NOT IN (?)`, classID, rollNumber, ids)
		if err != nil {
			return errors.Wrap(err, "building uniqueness query")
		}
		query, args = repo.db.Rebind(inQuery), inArgs
	}

	var count int
	if err := repo.db.Get(&count, query, args...); err != nil {
		return errors.Wrap(err, "checking roll number uniqueness")
	}
	if count > 0 {
		return school.ErrRollNumberExists
	}
	return nil
}

func (repo *schoolRepository) CreateStudent(s school.Student) (school.Student, error) {
	res, err := repo.db.NamedExec(
		`INSERT INTO students (class_id, name, roll_number, created_at)
		 VALUES (:class_id, :name, :roll_number, :created_at)`, s)
	if err != nil {
		return school.Student{}, errors.Wrap(err, "creating student")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return school.Student{}, errors.Wrap(err, "reading student id")
	}
	s.ID = int(id)
	return s, nil
}

func (repo *schoolRepository) GetStudentByID(id int) (school.Student, error) {
	var s school.Student
	if err := repo.db.Get(&s, `SELECT * FROM students WHERE id = ?`, id); err != nil {
		if err == sql.ErrNoRows {
			return school.Student{}, school.ErrStudentNotFound
		}
		return school.Student{}, errors.Wrap(err, "getting student")
	}
	return s, nil
}

func (repo *schoolRepository) GetStudentByRollNumber(classID int, rollNumber string) (school.Student, error) {
	var s school.Student
	err := repo.db.Get(&s, `SELECT * FROM students WHERE class_id = ? AND roll_number = ?`, classID, rollNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return school.Student{}, school.ErrStudentNotFound
		}
		return school.Student{}, errors.Wrap(err, "getting student by roll number")
	}
	return s, nil
}

func (repo *schoolRepository) QueryClassStudents(classID int) ([]school.Student, error) {
	students := make([]school.Student, 0)
	err := repo.db.Select(&students, `SELECT * FROM students WHERE class_id = ? ORDER BY roll_number`, classID)
	if err != nil {
		return nil, errors.Wrap(err, "querying class students")
	}
	return students, nil
}

func (repo *schoolRepository) UpdateStudent(s school.Student) (school.Student, error) {
	_, err := repo.db.NamedExec(
		`UPDATE students SET name = :name, roll_number = :roll_number WHERE id = :id`, s)
	if err != nil {
		return school.Student{}, errors.Wrap(err, "updating student")
	}
	return s, nil
}

func (repo *schoolRepository) DeleteStudent(id int) error {
	_, err := repo.db.Exec(`DELETE FROM students WHERE id = ?`, id)
	return errors.Wrap(err, "deleting student")
}
