package school_test

import (
	"testing"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/school"
	dummydb "github.com/trezcool/edutrack/storage/database/dummy"
)

func setup(t *testing.T) *school.Service {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return school.NewService(dummydb.NewSchoolRepository(db))
}

func addClass(t *testing.T, svc *school.Service, teacherID int, name string) school.Class {
	t.Helper()

	c, err := svc.AddClass(teacherID, school.NewClass{Name: name})
	if err != nil {
		t.Fatalf("AddClass() failed: %v", err)
	}
	return c
}

func enroll(t *testing.T, svc *school.Service, classID int, name, roll string) school.Student {
	t.Helper()

	s, err := svc.EnrollStudent(classID, school.NewStudent{Name: name, RollNumber: roll})
	if err != nil {
		t.Fatalf("EnrollStudent() failed: %v", err)
	}
	return s
}

func TestService_Classes(t *testing.T) {
	svc := setup(t)

	c1 := addClass(t, svc, 1, "CSE-A")
	c2 := addClass(t, svc, 1, "CSE-B")
	addClass(t, svc, 2, "ECE-A")

	classes, err := svc.QueryTeacherClasses(1)
	if err != nil {
		t.Fatalf("QueryTeacherClasses() failed: %v", err)
	}
	if len(classes) != 2 {
		t.Fatalf("QueryTeacherClasses() len = %d; want 2", len(classes))
	}
	// newest first
	if classes[0].ID != c2.ID || classes[1].ID != c1.ID {
		t.Errorf("QueryTeacherClasses() order = [%d %d]; want [%d %d]",
			classes[0].ID, classes[1].ID, c2.ID, c1.ID)
	}

	all, err := svc.QueryAllClasses()
	if err != nil {
		t.Fatalf("QueryAllClasses() failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("QueryAllClasses() len = %d; want 3", len(all))
	}

	renamed, err := svc.RenameClass(c1.ID, school.NewClass{Name: "CSE-A1"})
	if err != nil {
		t.Fatalf("RenameClass() failed: %v", err)
	}
	if renamed.Name != "CSE-A1" {
		t.Errorf("RenameClass() Name = %q", renamed.Name)
	}

	if err = svc.DeleteClass(c1.ID); err != nil {
		t.Fatalf("DeleteClass() failed: %v", err)
	}
	if _, err = svc.GetClass(c1.ID); err != school.ErrClassNotFound {
		t.Errorf("GetClass() after delete error = %v; want ErrClassNotFound", err)
	}
}

func TestService_Subjects(t *testing.T) {
	svc := setup(t)
	c := addClass(t, svc, 1, "CSE-A")

	s1, err := svc.AddSubject(c.ID, school.NewSubject{Name: "Maths"})
	if err != nil {
		t.Fatalf("AddSubject() failed: %v", err)
	}
	if _, err = svc.AddSubject(c.ID, school.NewSubject{Name: "Physics"}); err != nil {
		t.Fatalf("AddSubject() failed: %v", err)
	}

	subjects, err := svc.QueryClassSubjects(c.ID)
	if err != nil {
		t.Fatalf("QueryClassSubjects() failed: %v", err)
	}
	if len(subjects) != 2 {
		t.Fatalf("QueryClassSubjects() len = %d; want 2", len(subjects))
	}

	if _, err = svc.RenameSubject(s1.ID, school.NewSubject{Name: "Maths II"}); err != nil {
		t.Fatalf("RenameSubject() failed: %v", err)
	}
	s, err := svc.GetSubject(s1.ID)
	if err != nil {
		t.Fatalf("GetSubject() failed: %v", err)
	}
	if s.Name != "Maths II" {
		t.Errorf("GetSubject() Name = %q", s.Name)
	}

	if err = svc.DeleteSubject(s1.ID); err != nil {
		t.Fatalf("DeleteSubject() failed: %v", err)
	}
	if _, err = svc.GetSubject(s1.ID); err != school.ErrSubjectNotFound {
		t.Errorf("GetSubject() after delete error = %v; want ErrSubjectNotFound", err)
	}
}

func TestService_Students(t *testing.T) {
	svc := setup(t)
	c := addClass(t, svc, 1, "CSE-A")
	other := addClass(t, svc, 1, "CSE-B")

	s1 := enroll(t, svc, c.ID, "John", "CS001")
	enroll(t, svc, c.ID, "Amy", "CS002")
	// same roll number is fine in another class
	enroll(t, svc, other.ID, "Jack", "CS001")

	students, err := svc.QueryClassStudents(c.ID)
	if err != nil {
		t.Fatalf("QueryClassStudents() failed: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("QueryClassStudents() len = %d; want 2", len(students))
	}
	// ordered by roll number
	if students[0].RollNumber != "CS001" || students[1].RollNumber != "CS002" {
		t.Errorf("QueryClassStudents() order = [%s %s]", students[0].RollNumber, students[1].RollNumber)
	}

	got, err := svc.GetStudentByRollNumber(c.ID, "CS002")
	if err != nil {
		t.Fatalf("GetStudentByRollNumber() failed: %v", err)
	}
	if got.Name != "Amy" {
		t.Errorf("GetStudentByRollNumber() Name = %q; want Amy", got.Name)
	}
	if _, err = svc.GetStudentByRollNumber(c.ID, "CS999"); err != school.ErrStudentNotFound {
		t.Errorf("GetStudentByRollNumber() error = %v; want ErrStudentNotFound", err)
	}

	updated, err := svc.UpdateStudent(s1.ID, school.UpdateStudent{Name: "Johnny"})
	if err != nil {
		t.Fatalf("UpdateStudent() failed: %v", err)
	}
	if updated.Name != "Johnny" || updated.RollNumber != "CS001" {
		t.Errorf("UpdateStudent() = %q/%q", updated.Name, updated.RollNumber)
	}

	if err = svc.DeleteStudent(s1.ID); err != nil {
		t.Fatalf("DeleteStudent() failed: %v", err)
	}
	if _, err = svc.GetStudent(s1.ID); err != school.ErrStudentNotFound {
		t.Errorf("GetStudent() after delete error = %v; want ErrStudentNotFound", err)
	}
}

func TestNewStudent_Validate_rollNumberUniqueness(t *testing.T) {
	svc := setup(t)
	c := addClass(t, svc, 1, "CSE-A")
	enroll(t, svc, c.ID, "John", "CS001")

	validate, _ := core.NewValidator()

	ns := school.NewStudent{Name: "Impostor", RollNumber: "CS001"}
	err := ns.Validate(validate, svc, c.ID)
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("Validate() error = %v; want ValidationError", err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "roll_number" {
		t.Errorf("Validate() fields = %+v; want roll_number error", vErr.Fields)
	}

	// other class is fine
	c2 := addClass(t, svc, 1, "CSE-B")
	ns = school.NewStudent{Name: "Jack", RollNumber: "CS001"}
	if err = ns.Validate(validate, svc, c2.ID); err != nil {
		t.Errorf("Validate() in another class error = %v; want nil", err)
	}
}
