package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core/record"
)

type recordRepository struct {
	db *sqlx.DB
}

var _ record.Repository = (*recordRepository)(nil) // interface compliance check

func NewRecordRepository(db *sqlx.DB) record.Repository {
	return &recordRepository{db: db}
}

func (repo *recordRepository) UpsertRecord(rec record.Record) (record.Record, error) {
	_, err := repo.db.NamedExec(
		`INSERT INTO student_records (
		    student_id, subject_id, attendance, marks, mst_marks, study_hours, assignments,
		    extracurriculars, projects, certifications, internships,
		    predicted_grade, risk_score, risk_level, recommendation, created_at, updated_at
		 ) VALUES (
		    :student_id, :subject_id, :attendance, :marks, :mst_marks, :study_hours, :assignments,
		    :extracurriculars, :projects, :certifications, :internships,
		    :predicted_grade, :risk_score, :risk_level, :recommendation, :created_at, :updated_at
		 )
		 ON CONFLICT (student_id, subject_id) DO UPDATE SET
		    attendance = excluded.attendance,
		    marks = excluded.marks,
		    mst_marks = excluded.mst_marks,
		    study_hours = excluded.study_hours,
		    assignments = excluded.assignments,
		    extracurriculars = excluded.extracurriculars,
		    projects = excluded.projects,
		    certifications = excluded.certifications,
		    internships = excluded.internships,
		    predicted_grade = excluded.predicted_grade,
		    risk_score = excluded.risk_score,
		    risk_level = excluded.risk_level,
		    recommendation = excluded.recommendation,
		    updated_at = excluded.updated_at`, rec)
	if err != nil {
		return record.Record{}, errors.Wrap(err, "upserting record")
	}

	// read the row back for the authoritative id and created_at
	var saved record.Record
	err = repo.db.Get(&saved,
		`SELECT * FROM student_records WHERE student_id = ? AND subject_id = ?`,
		rec.StudentID, rec.SubjectID)
	if err != nil {
		return record.Record{}, errors.Wrap(err, "reading upserted record")
	}
	return saved, nil
}

func (repo *recordRepository) GetRecordByID(id int) (record.Record, error) {
	var rec record.Record
	err := repo.db.Get(&rec,
		`SELECT sr.*, st.name AS student_name, su.name AS subject_name
		 FROM student_records sr
		 JOIN students st ON st.id = sr.student_id
		 JOIN subjects su ON su.id = sr.subject_id
		 WHERE sr.id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return record.Record{}, record.ErrNotFound
		}
		return record.Record{}, errors.Wrap(err, "getting record")
	}
	return rec, nil
}

func (repo *recordRepository) QueryStudentRecords(studentID int) ([]record.Record, error) {
	recs := make([]record.Record, 0)
	err := repo.db.Select(&recs,
		`SELECT sr.*, st.name AS student_name, su.name AS subject_name
		 FROM student_records sr
		 JOIN students st ON st.id = sr.student_id
		 JOIN subjects su ON su.id = sr.subject_id
		 WHERE sr.student_id = ?
		 ORDER BY sr.updated_at DESC, sr.id DESC`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying student records")
	}
	return recs, nil
}

func (repo *recordRepository) QueryClassRecords(classID int) ([]record.Record, error) {
	recs := make([]record.Record, 0)
	err := repo.db.Select(&recs,
		`SELECT sr.*, st.name AS student_name, su.name AS subject_name
		 FROM student_records sr
		 JOIN students st ON st.id = sr.student_id
		 JOIN subjects su ON su.id = sr.subject_id
		 WHERE st.class_id = ?
		 ORDER BY sr.updated_at DESC, sr.id DESC`, classID)
	if err != nil {
		return nil, errors.Wrap(err, "querying class records")
	}
	return recs, nil
}

func (repo *recordRepository) QueryAtRiskRecords(classID int) ([]record.Record, error) {
	recs := make([]record.Record, 0)
	err := repo.db.Select(&recs,
		`SELECT sr.*, st.name AS student_name, su.name AS subject_name
		 FROM student_records sr
		 JOIN students st ON st.id = sr.student_id
		 JOIN subjects su ON su.id = sr.subject_id
		 WHERE st.class_id = ? AND sr.risk_score >= ?
		 ORDER BY sr.risk_score DESC, sr.id DESC`, classID, record.AtRiskThreshold)
	if err != nil {
		return nil, errors.Wrap(err, "querying at-risk records")
	}
	return recs, nil
}

func (repo *recordRepository) DeleteRecord(id int) error {
	_, err := repo.db.Exec(`DELETE FROM student_records WHERE id = ?`, id)
	return errors.Wrap(err, "deleting record")
}

func (repo *recordRepository) GetStudentRoster(studentID int) (record.RosterEntry, error) {
	var entry record.RosterEntry
	err := repo.db.Get(&entry,
		`SELECT st.id AS student_id, st.name AS student_name, st.roll_number,
		        c.id AS class_id, c.name AS class_name,
		        t.name AS teacher_name, t.email AS teacher_email
		 FROM students st
		 JOIN classes c ON c.id = st.class_id
		 JOIN teachers t ON t.id = c.teacher_id
		 WHERE st.id = ?`, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return record.RosterEntry{}, record.ErrNotFound
		}
		return record.RosterEntry{}, errors.Wrap(err, "resolving student roster")
	}
	return entry, nil
}
