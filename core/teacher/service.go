package teacher

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
)

var (
	// errors
	ErrNotFound    = errors.New("teacher not found")
	ErrEmailExists = errors.New("a teacher with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(email string, excluded ...Teacher) error
		CreateTeacher(t Teacher) (Teacher, error)
		GetTeacherByID(id int) (Teacher, error)
		GetTeacherByEmail(email string) (Teacher, error)
		UpdateTeacher(t Teacher) (Teacher, error)
		SetLastLogin(t Teacher) (Teacher, error)
	}

	Service struct {
		conf    *core.Config
		repo    Repository
		mailSvc core.EmailService
		log     core.Logger
	}
)

func NewService(conf *core.Config, repo Repository, mailSvc core.EmailService, log core.Logger) *Service {
	secretKey = conf.SecretKey
	passwordResetTimeoutDelta = conf.PasswordResetTimeoutDelta
	return &Service{
		conf:    conf,
		repo:    repo,
		mailSvc: mailSvc,
		log:     log,
	}
}

func (svc *Service) checkUniqueness(email string, excluded ...Teacher) error {
	if err := svc.repo.CheckEmailUniqueness(email, excluded...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Register(nt NewTeacher) (Teacher, error) {
	now := time.Now().UTC()
	t := Teacher{
		Name:      nt.Name,
		Email:     nt.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := t.SetPassword(nt.Password); err != nil {
		return Teacher{}, err
	}

	t, err := svc.repo.CreateTeacher(t)
	if err != nil {
		return Teacher{}, err
	}
	svc.sendWelcomeMail(t)
	return t, nil
}

func (svc *Service) GetByID(id int) (Teacher, error) {
	return svc.repo.GetTeacherByID(id)
}

func (svc *Service) GetByEmail(email string) (Teacher, error) {
	return svc.repo.GetTeacherByEmail(core.CleanString(email, true /* lower */))
}

// Authenticate checks the teacher's credentials and records the login.
func (svc *Service) Authenticate(email, pwd string) (Teacher, error) {
	t, err := svc.GetByEmail(email)
	if err != nil {
		return Teacher{}, err
	}
	if err = t.CheckPassword(pwd); err != nil {
		return Teacher{}, ErrNotFound
	}
	return svc.repo.SetLastLogin(t)
}

func (svc *Service) Update(id int, ut UpdateTeacher) (Teacher, error) {
	t := Teacher{
		ID:        id,
		Name:      ut.Name,
		Email:     ut.Email,
		UpdatedAt: time.Now().UTC(),
	}
	if ut.Password != "" {
		if err := t.SetPassword(ut.Password); err != nil {
			return Teacher{}, err
		}
	}
	return svc.repo.UpdateTeacher(t)
}

// RequestPasswordReset emails a signed reset link to the teacher.
func (svc *Service) RequestPasswordReset(email string) error {
	t, err := svc.GetByEmail(email)
	if err != nil {
		return err
	}
	svc.sendPasswordResetMail(t)
	return nil
}

// ResetPassword sets a new password after verifying the reset token.
func (svc *Service) ResetPassword(rp ResetTeacherPassword) error {
	id, err := decodeUID(rp.UID)
	if err != nil {
		return core.NewValidationError(err)
	}
	t, err := svc.repo.GetTeacherByID(id)
	if err != nil {
		if err == ErrNotFound {
			return core.NewValidationError(errInvalidToken)
		}
		return err
	}
	if err = verifyToken(t, rp.Token); err != nil {
		return core.NewValidationError(err)
	}

	if err = t.SetPassword(rp.Password); err != nil {
		return err
	}
	t.UpdatedAt = time.Now().UTC()
	if _, err = svc.repo.UpdateTeacher(t); err != nil {
		return pkgerrors.Wrap(err, "updating teacher password")
	}
	return nil
}

func (svc *Service) sendWelcomeMail(t Teacher) {
	msg := &core.EmailMessage{
		To:      []mail.Address{{Name: t.Name, Address: t.Email}},
		Subject: "Welcome to " + svc.conf.AppName,
		BodyStr: fmt.Sprintf(
			"Hi %s,\n\nYour teacher account is ready. "+
				"Sign in to set up your classes and start tracking student performance.\n\n%s",
			t.Name, svc.conf.FrontendBaseURL,
		),
	}
	svc.mailSvc.SendMessages(msg)
}

func (svc *Service) sendPasswordResetMail(t Teacher) {
	link := fmt.Sprintf("%s/password-reset/%s/%s", svc.conf.FrontendBaseURL, EncodeUID(t), makeToken(t))
	msg := &core.EmailMessage{
		To:      []mail.Address{{Name: t.Name, Address: t.Email}},
		Subject: "Password Reset",
		BodyStr: fmt.Sprintf(
			"Hi %s,\n\nFollow this link to reset your password:\n%s\n\n"+
				"If you did not request a reset, you can ignore this email.",
			t.Name, link,
		),
	}
	svc.mailSvc.SendMessages(msg)
}
