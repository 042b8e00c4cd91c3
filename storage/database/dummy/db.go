// Package dummydb provides throwaway in-memory repositories for tests
// and local experimentation.
package dummydb

import (
	"sync"

	"github.com/trezcool/edutrack/core/record"
	"github.com/trezcool/edutrack/core/school"
	"github.com/trezcool/edutrack/core/teacher"
)

var pkCount int

type (
	DB struct {
		teacher *teacherTable
		class   *classTable
		subject *subjectTable
		student *studentTable
		record  *recordTable
	}

	teacherTable struct {
		sync.RWMutex
		table map[int]*teacher.Teacher
	}

	classTable struct {
		sync.RWMutex
		table map[int]*school.Class
	}

	subjectTable struct {
		sync.RWMutex
		table map[int]*school.Subject
	}

	studentTable struct {
		sync.RWMutex
		table map[int]*school.Student
	}

	recordTable struct {
		sync.RWMutex
		table map[int]*record.Record
	}
)

func Open() (*DB, error) {
	db := &DB{
		teacher: &teacherTable{table: make(map[int]*teacher.Teacher)},
		class:   &classTable{table: make(map[int]*school.Class)},
		subject: &subjectTable{table: make(map[int]*school.Subject)},
		student: &studentTable{table: make(map[int]*school.Student)},
		record:  &recordTable{table: make(map[int]*record.Record)},
	}
	return db, nil
}
