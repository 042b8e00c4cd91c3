package dummydb

import (
	"sort"
	"time"

	"github.com/trezcool/edutrack/core/teacher"
)

type teacherRepository struct {
	db *teacherTable
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *DB) teacher.Repository {
	return &teacherRepository{db: db.teacher}
}

func (repo *teacherRepository) query() []teacher.Teacher {
	teachers := make([]teacher.Teacher, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		teachers = append(teachers, *t)
	}
	return teachers
}

func (repo *teacherRepository) CheckEmailUniqueness(email string, excluded ...teacher.Teacher) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	exclLen := len(excluded)
	if exclLen > 1 {
		sort.Slice(excluded, func(i, j int) bool { return excluded[i].ID < excluded[j].ID })
	}

	for _, t := range repo.query() {
		if t.Email == email && !isExcludedTeacher(t, excluded, exclLen) {
			return teacher.ErrEmailExists
		}
	}
	return nil
}

func (repo *teacherRepository) CreateTeacher(t teacher.Teacher) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	pkCount++
	t.ID = pkCount
	repo.db.table[t.ID] = &t
	return t, nil
}

func (repo *teacherRepository) GetTeacherByID(id int) (teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.table[id]; ok {
		return *t, nil
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) GetTeacherByEmail(email string) (teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, t := range repo.query() {
		if t.Email == email {
			return t, nil
		}
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) UpdateTeacher(t teacher.Teacher) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	current, ok := repo.db.table[t.ID]
	if !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
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
	repo.db.table[t.ID] = &t
	return t, nil
}

func (repo *teacherRepository) SetLastLogin(t teacher.Teacher) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	current, ok := repo.db.table[t.ID]
	if !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	current.LastLogin = time.Now().UTC()
	return *current, nil
}

func isExcludedTeacher(t teacher.Teacher, excluded []teacher.Teacher, exclLen int) bool {
	if exclLen == 0 {
		return false
	}
	idx := sort.Search(exclLen, func(i int) bool { return excluded[i].ID >= t.ID })
	return idx < exclLen && excluded[idx].ID == t.ID
}
