package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/predict"
	"github.com/trezcool/edutrack/core/record"
	"github.com/trezcool/edutrack/core/school"
	"github.com/trezcool/edutrack/core/teacher"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conf := &core.Config{}
	conf.Database.Path = filepath.Join(t.TempDir(), "test.db")

	db, err := Open(conf)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedRoster(t *testing.T, db *sqlx.DB) (teacher.Teacher, school.Class, school.Subject, school.Student) {
	t.Helper()
	now := time.Now().UTC()

	teacherRepo := NewTeacherRepository(db)
	tchr := teacher.Teacher{Name: "Jane", Email: "jane@test.cd", CreatedAt: now, UpdatedAt: now}
	if err := tchr.SetPassword("LePassword1"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	tchr, err := teacherRepo.CreateTeacher(tchr)
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}

	schoolRepo := NewSchoolRepository(db)
	class, err := schoolRepo.CreateClass(school.Class{TeacherID: tchr.ID, Name: "CSE-A", CreatedAt: now})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	subject, err := schoolRepo.CreateSubject(school.Subject{ClassID: class.ID, Name: "Maths", CreatedAt: now})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	student, err := schoolRepo.CreateStudent(school.Student{ClassID: class.ID, Name: "John", RollNumber: "CS001", CreatedAt: now})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return tchr, class, subject, student
}

func TestTeacherRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewTeacherRepository(db)
	now := time.Now().UTC()

	tchr := teacher.Teacher{Name: "Jane", Email: "jane@test.cd", CreatedAt: now, UpdatedAt: now}
	if err := tchr.SetPassword("LePassword1"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	tchr, err := repo.CreateTeacher(tchr)
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	if tchr.ID == 0 {
		t.Error("CreateTeacher() did not assign an ID")
	}

	if err = repo.CheckEmailUniqueness("jane@test.cd"); err != teacher.ErrEmailExists {
		t.Errorf("CheckEmailUniqueness() error = %v; want ErrEmailExists", err)
	}
	if err = repo.CheckEmailUniqueness("jane@test.cd", tchr); err != nil {
		t.Errorf("CheckEmailUniqueness() with exclusion error = %v; want nil", err)
	}
	if err = repo.CheckEmailUniqueness("other@test.cd"); err != nil {
		t.Errorf("CheckEmailUniqueness() error = %v; want nil", err)
	}

	got, err := repo.GetTeacherByEmail("jane@test.cd")
	if err != nil {
		t.Fatalf("GetTeacherByEmail() failed: %v", err)
	}
	if got.ID != tchr.ID {
		t.Errorf("GetTeacherByEmail() ID = %d; want %d", got.ID, tchr.ID)
	}
	if _, err = repo.GetTeacherByEmail("who@test.cd"); err != teacher.ErrNotFound {
		t.Errorf("GetTeacherByEmail() error = %v; want ErrNotFound", err)
	}

	got, err = repo.SetLastLogin(tchr)
	if err != nil {
		t.Fatalf("SetLastLogin() failed: %v", err)
	}
	if got.LastLogin.IsZero() {
		t.Error("SetLastLogin() did not set last login")
	}

	// partial update keeps the fields not provided
	updated, err := repo.UpdateTeacher(teacher.Teacher{ID: tchr.ID, Name: "Jane Doe", UpdatedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("UpdateTeacher() failed: %v", err)
	}
	if updated.Email != "jane@test.cd" {
		t.Errorf("UpdateTeacher() clobbered Email: %q", updated.Email)
	}
	if err = updated.CheckPassword("LePassword1"); err != nil {
		t.Errorf("UpdateTeacher() clobbered password: %v", err)
	}
}

func TestRecordRepository_Upsert(t *testing.T) {
	db := openTestDB(t)
	_, _, subject, student := seedRoster(t, db)
	repo := NewRecordRepository(db)
	now := time.Now().UTC()

	rec1, err := repo.UpsertRecord(record.Record{
		StudentID:      student.ID,
		SubjectID:      subject.ID,
		Metrics:        predict.Metrics{Attendance: 90, Marks: 80, MSTMarks: 30, StudyHours: 12, Assignments: 85},
		PredictedGrade: "B",
		RiskScore:      0.1,
		RiskLevel:      predict.RiskLow,
		Recommendation: "Maintain current performance - you're excelling!",
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		t.Fatalf("UpsertRecord() failed: %v", err)
	}
	if rec1.ID == 0 {
		t.Error("UpsertRecord() did not assign an ID")
	}

	// same (student, subject) pair updates in place
	rec2, err := repo.UpsertRecord(record.Record{
		StudentID:      student.ID,
		SubjectID:      subject.ID,
		Metrics:        predict.Metrics{Attendance: 50, Marks: 30, MSTMarks: 10, StudyHours: 2, Assignments: 30},
		PredictedGrade: "D",
		RiskScore:      0.9,
		RiskLevel:      predict.RiskHigh,
		Recommendation: "Focus on marks",
		CreatedAt:      now.Add(time.Hour),
		UpdatedAt:      now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("UpsertRecord() resubmit failed: %v", err)
	}
	if rec2.ID != rec1.ID {
		t.Errorf("UpsertRecord() resubmit ID = %d; want %d", rec2.ID, rec1.ID)
	}
	if rec2.PredictedGrade != "D" {
		t.Errorf("UpsertRecord() resubmit grade = %q; want D", rec2.PredictedGrade)
	}

	got, err := repo.GetRecordByID(rec1.ID)
	if err != nil {
		t.Fatalf("GetRecordByID() failed: %v", err)
	}
	if got.StudentName != "John" || got.SubjectName != "Maths" {
		t.Errorf("GetRecordByID() join fields = %q/%q", got.StudentName, got.SubjectName)
	}

	if _, err = repo.GetRecordByID(9999); err != record.ErrNotFound {
		t.Errorf("GetRecordByID() error = %v; want ErrNotFound", err)
	}
}

func TestRecordRepository_Queries(t *testing.T) {
	db := openTestDB(t)
	tchr, class, subject, student := seedRoster(t, db)
	repo := NewRecordRepository(db)
	now := time.Now().UTC()

	if _, err := repo.UpsertRecord(record.Record{
		StudentID: student.ID, SubjectID: subject.ID,
		PredictedGrade: "D", RiskScore: 0.9, RiskLevel: predict.RiskHigh,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("UpsertRecord() failed: %v", err)
	}

	recs, err := repo.QueryStudentRecords(student.ID)
	if err != nil {
		t.Fatalf("QueryStudentRecords() failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("QueryStudentRecords() len = %d; want 1", len(recs))
	}

	recs, err = repo.QueryClassRecords(class.ID)
	if err != nil {
		t.Fatalf("QueryClassRecords() failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("QueryClassRecords() len = %d; want 1", len(recs))
	}

	recs, err = repo.QueryAtRiskRecords(class.ID)
	if err != nil {
		t.Fatalf("QueryAtRiskRecords() failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("QueryAtRiskRecords() len = %d; want 1", len(recs))
	}

	entry, err := repo.GetStudentRoster(student.ID)
	if err != nil {
		t.Fatalf("GetStudentRoster() failed: %v", err)
	}
	if entry.TeacherEmail != tchr.Email || entry.ClassName != class.Name || entry.RollNumber != student.RollNumber {
		t.Errorf("GetStudentRoster() = %+v", entry)
	}

	if err = repo.DeleteRecord(recs[0].ID); err != nil {
		t.Fatalf("DeleteRecord() failed: %v", err)
	}
	if _, err = repo.GetRecordByID(recs[0].ID); err != record.ErrNotFound {
		t.Errorf("GetRecordByID() after delete error = %v; want ErrNotFound", err)
	}
}

func TestSchoolRepository_RollNumberUniqueness(t *testing.T) {
	db := openTestDB(t)
	_, class, _, student := seedRoster(t, db)
	repo := NewSchoolRepository(db)
	now := time.Now().UTC()

	if err := repo.CheckRollNumberUniqueness(class.ID, "CS001"); err != school.ErrRollNumberExists {
		t.Errorf("CheckRollNumberUniqueness() error = %v; want ErrRollNumberExists", err)
	}
	if err := repo.CheckRollNumberUniqueness(class.ID, "CS001", student); err != nil {
		t.Errorf("CheckRollNumberUniqueness() with exclusion error = %v; want nil", err)
	}

	// same roll number in another class is fine
	other, err := repo.CreateClass(school.Class{TeacherID: 1, Name: "CSE-B", CreatedAt: now})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	if err = repo.CheckRollNumberUniqueness(other.ID, "CS001"); err != nil {
		t.Errorf("CheckRollNumberUniqueness() in another class error = %v; want nil", err)
	}
}
