package teacher

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/edutrack/core"
)

type Teacher struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
	LastLogin    time.Time `json:"-" db:"last_login"`
}

func (t *Teacher) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	t.PasswordHash = hash
	return nil
}

func (t *Teacher) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(t.PasswordHash, []byte(pwd))
}

// NewTeacher contains information needed to register a new Teacher.
type NewTeacher struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate, svc *Service) error {
	nt.Name = core.CleanString(nt.Name)
	nt.Email = core.CleanString(nt.Email, true /* lower */)

	if err := validate.Struct(nt); err != nil {
		return err
	}
	return svc.checkUniqueness(nt.Email)
}

// UpdateTeacher defines what information may be provided to modify an existing Teacher.
type UpdateTeacher struct {
	Name            string `json:"name" validate:"omitempty"`
	Email           string `json:"email" validate:"omitempty,email"`
	Password        string `json:"password" validate:"omitempty,min=8,required_with=PasswordConfirm"`
	PasswordConfirm string `json:"password_confirm" validate:"eqfield=Password"`
}

func (ut *UpdateTeacher) Validate(validate *validator.Validate, svc *Service, target Teacher) error {
	ut.Name = core.CleanString(ut.Name)
	ut.Email = core.CleanString(ut.Email, true /* lower */)

	if err := validate.Struct(ut); err != nil {
		return err
	}
	if ut.Email != "" {
		return svc.checkUniqueness(ut.Email, target)
	}
	return nil
}

// ResetTeacherPassword carries a password-reset confirmation.
type ResetTeacherPassword struct {
	UID             string `json:"uid" validate:"required"`
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (rp *ResetTeacherPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(rp)
}
