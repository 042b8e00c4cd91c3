package database

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/trezcool/edutrack/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS teachers (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL UNIQUE,
    password_hash BLOB NOT NULL,
    created_at    TIMESTAMP NOT NULL,
    updated_at    TIMESTAMP NOT NULL,
    last_login    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS classes (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    teacher_id INTEGER NOT NULL REFERENCES teachers(id) ON DELETE CASCADE,
    name       TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS subjects (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    class_id   INTEGER NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
    name       TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS students (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    class_id    INTEGER NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
    name        TEXT NOT NULL,
    roll_number TEXT NOT NULL,
    created_at  TIMESTAMP NOT NULL,
    UNIQUE (class_id, roll_number)
);

CREATE TABLE IF NOT EXISTS student_records (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    student_id       INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    subject_id       INTEGER NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
    attendance       REAL NOT NULL DEFAULT 0,
    marks            REAL NOT NULL DEFAULT 0,
    mst_marks        REAL NOT NULL DEFAULT 0,
    study_hours      REAL NOT NULL DEFAULT 0,
    assignments      REAL NOT NULL DEFAULT 0,
    extracurriculars INTEGER NOT NULL DEFAULT 0,
    projects         INTEGER NOT NULL DEFAULT 0,
    certifications   INTEGER NOT NULL DEFAULT 0,
    internships      INTEGER NOT NULL DEFAULT 0,
    predicted_grade  TEXT NOT NULL DEFAULT 'C',
    risk_score       REAL NOT NULL DEFAULT 0.5,
    risk_level       TEXT NOT NULL DEFAULT 'Medium',
    recommendation   TEXT NOT NULL DEFAULT '',
    created_at       TIMESTAMP NOT NULL,
    updated_at       TIMESTAMP NOT NULL,
    UNIQUE (student_id, subject_id)
);
`

// Open connects to the SQLite database and bootstraps the schema.
func Open(conf *core.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", conf.Database.Path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "bootstrapping schema")
	}
	return db, nil
}
