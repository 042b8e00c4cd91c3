package school

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edutrack/core"
)

type (
	Class struct {
		ID        int       `json:"id" db:"id"`
		TeacherID int       `json:"teacher_id" db:"teacher_id"`
		Name      string    `json:"name" db:"name"`
		CreatedAt time.Time `json:"created_at" db:"created_at"`
	}

	Subject struct {
		ID        int       `json:"id" db:"id"`
		ClassID   int       `json:"class_id" db:"class_id"`
		Name      string    `json:"name" db:"name"`
		CreatedAt time.Time `json:"created_at" db:"created_at"`
	}

	Student struct {
		ID         int       `json:"id" db:"id"`
		ClassID    int       `json:"class_id" db:"class_id"`
		Name       string    `json:"name" db:"name"`
		RollNumber string    `json:"roll_number" db:"roll_number"`
		CreatedAt  time.Time `json:"created_at" db:"created_at"`
	}
)

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Name string `json:"name" validate:"required"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}

// NewSubject contains information needed to add a Subject to a Class.
type NewSubject struct {
	Name string `json:"name" validate:"required"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	return validate.Struct(ns)
}

// NewStudent contains information needed to enroll a Student in a Class.
// Roll numbers are unique within a class.
type NewStudent struct {
	Name       string `json:"name" validate:"required"`
	RollNumber string `json:"roll_number" validate:"required,max=20,alphanum_"`
}

func (ns *NewStudent) Validate(validate *validator.Validate, svc *Service, classID int) error {
	ns.Name = core.CleanString(ns.Name)
	ns.RollNumber = core.CleanString(ns.RollNumber)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkRollNumberUniqueness(classID, ns.RollNumber)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	Name       string `json:"name" validate:"omitempty"`
	RollNumber string `json:"roll_number" validate:"omitempty,max=20,alphanum_"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate, svc *Service, target Student) error {
	us.Name = core.CleanString(us.Name)
	us.RollNumber = core.CleanString(us.RollNumber)

	if err := validate.Struct(us); err != nil {
		return err
	}
	if us.RollNumber != "" {
		return svc.checkRollNumberUniqueness(target.ClassID, us.RollNumber, target)
	}
	return nil
}
