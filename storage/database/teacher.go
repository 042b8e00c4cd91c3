package database

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core/teacher"
)

type teacherRepository struct {
	db *sqlx.DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *sqlx.DB) teacher.Repository {
	return &teacherRepository{db: db}
}

func (repo *teacherRepository) CheckEmailUniqueness(email string, excluded ...teacher.Teacher) error {
	query := `SELECT COUNT(*) FROM teachers WHERE email = ?`
	args := []interface{}{email}
	if len(excluded) > 0 {
		ids := make([]int, 0, len(excluded))
		for _, t := range excluded {
			ids = append(ids, t.ID)
		}
		inQuery, inArgs, err := sqlx.In(query+` AND id NOT IN (?)`, email, ids)
		if err != nil {
			return errors.Wrap(err, "building uniqueness query")
		}
		query, args = repo.db.Rebind(inQuery), inArgs
	}

	var count int
	if err := repo.db.Get(&count, query, args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if count > 0 {
		return teacher.ErrEmailExists
	}
	return nil
}

func (repo *teacherRepository) CreateTeacher(t teacher.Teacher) (teacher.Teacher, error) {
	res, err := repo.db.NamedExec(
		`INSERT INTO teachers (name, email, password_hash, created_at, updated_at, last_login)
		 VALUES (:name, :email, :password_hash, :created_at, :updated_at, :last_login)`, t)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "creating teacher")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "reading teacher id")
	}
	t.ID = int(id)
	return t, nil
}

func (repo *teacherRepository) GetTeacherByID(id int) (teacher.Teacher, error) {
	var t teacher.Teacher
	if err := repo.db.Get(&t, `SELECT * FROM teachers WHERE id = ?`, id); err != nil {
		if err == sql.ErrNoRows {
			return teacher.Teacher{}, teacher.ErrNotFound
		}
		return teacher.Teacher{}, errors.Wrap(err, "getting teacher by id")
	}
	return t, nil
}

func (repo *teacherRepository) GetTeacherByEmail(email string) (teacher.Teacher, error) {
	var t teacher.Teacher
	if err := repo.db.Get(&t, `SELECT * FROM teachers WHERE email = ?`, email); err != nil {
		if err == sql.ErrNoRows {
			return teacher.Teacher{}, teacher.ErrNotFound
		}
		return teacher.Teacher{}, errors.Wrap(err, "getting teacher by email")
	}
	return t, nil
}

func (repo *teacherRepository) UpdateTeacher(t teacher.Teacher) (teacher.Teacher, error) {
	current, err := repo.GetTeacherByID(t.ID)
	if err != nil {
		return teacher.Teacher{}, err
	}
	if t.Name == "" {
		t.Name = current.Name
	}
	if t.Email == "" {
		t.Email = current.Email
	}
	if t.PasswordHash == nil {
		t.PasswordHash = current.PasswordHash
	}
	t.CreatedAt = current.CreatedAt
	t.LastLogin = current.LastLogin

	_, err = repo.db.NamedExec(
		`UPDATE teachers SET name = :name, email = :email, password_hash = :password_hash,
		 updated_at = :updated_at WHERE id = :id`, t)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	return t, nil
}

func (repo *teacherRepository) SetLastLogin(t teacher.Teacher) (teacher.Teacher, error) {
	t.LastLogin = time.Now().UTC()
	_, err := repo.db.Exec(`UPDATE teachers SET last_login = ? WHERE id = ?`, t.LastLogin, t.ID)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "recording last login")
	}
	return t, nil
}
