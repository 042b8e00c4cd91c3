package record

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edutrack/core/predict"
)

// Record is one student's evaluated performance in one subject.
// The derived fields (grade, risk, recommendation) are a pure function of
// the metrics and the live classifier state at save time; they are not
// recomputed when the model changes.
type Record struct {
	ID        int `json:"id" db:"id"`
	StudentID int `json:"student_id" db:"student_id"`
	SubjectID int `json:"subject_id" db:"subject_id"`

	predict.Metrics

	PredictedGrade string            `json:"predicted_grade" db:"predicted_grade"`
	RiskScore      float64           `json:"risk_score" db:"risk_score"`
	RiskLevel      predict.RiskLevel `json:"risk_level" db:"risk_level"`
	Recommendation string            `json:"recommendation" db:"recommendation"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// populated by joining queries only
	StudentName string `json:"student_name,omitempty" db:"student_name"`
	SubjectName string `json:"subject_name,omitempty" db:"subject_name"`
}

// NewRecord contains the metrics submitted for one (student, subject) pair.
// Resubmitting for the same pair overwrites the existing record.
type NewRecord struct {
	StudentID int `json:"student_id" validate:"required,min=1"`
	SubjectID int `json:"subject_id" validate:"required,min=1"`

	predict.Metrics
}

func (nr *NewRecord) Validate(validate *validator.Validate) error {
	return validate.Struct(nr)
}

// Evaluation is the full derived result for a metric vector.
type Evaluation struct {
	Grade          string             `json:"grade"`
	Probabilities  map[string]float64 `json:"probabilities"`
	RiskScore      float64            `json:"risk_score"`
	RiskLevel      predict.RiskLevel  `json:"risk_level"`
	Tips           []string           `json:"tips"`
	Recommendation string             `json:"recommendation"`
}

// RosterEntry resolves a student to their class and its teacher.
type RosterEntry struct {
	StudentID    int    `db:"student_id"`
	StudentName  string `db:"student_name"`
	RollNumber   string `db:"roll_number"`
	ClassID      int    `db:"class_id"`
	ClassName    string `db:"class_name"`
	TeacherName  string `db:"teacher_name"`
	TeacherEmail string `db:"teacher_email"`
}
