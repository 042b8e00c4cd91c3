package record

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/predict"
)

// AtRiskThreshold is the risk score at which a record lands in the High
// bucket; at-risk queries filter on it.
const AtRiskThreshold = 0.7

var (
	// errors
	ErrNotFound = errors.New("record not found")
)

type (
	Repository interface {
		// UpsertRecord keeps at most one record per (student, subject) pair.
		UpsertRecord(rec Record) (Record, error)
		GetRecordByID(id int) (Record, error)
		// QueryStudentRecords returns a student's records with subject names, newest first.
		QueryStudentRecords(studentID int) ([]Record, error)
		// QueryClassRecords returns a class's records with student and subject names, newest first.
		QueryClassRecords(classID int) ([]Record, error)
		// QueryAtRiskRecords returns a class's high-risk records, highest risk first.
		QueryAtRiskRecords(classID int) ([]Record, error)
		DeleteRecord(id int) error
		GetStudentRoster(studentID int) (RosterEntry, error)
	}

	Service struct {
		repo       Repository
		classifier *predict.Classifier
		mailSvc    core.EmailService
		log        core.Logger
	}
)

func NewService(repo Repository, classifier *predict.Classifier, mailSvc core.EmailService, log core.Logger) *Service {
	return &Service{
		repo:       repo,
		classifier: classifier,
		mailSvc:    mailSvc,
		log:        log,
	}
}

// Evaluate runs the full prediction pipeline over a metric vector without
// persisting anything.
func (svc *Service) Evaluate(m predict.Metrics) (Evaluation, error) {
	grade, probs, err := svc.classifier.Predict(m)
	if err != nil {
		return Evaluation{}, pkgerrors.Wrap(err, "predicting grade")
	}
	score, level, tips := predict.ScoreRisk(m, probs)

	return Evaluation{
		Grade:          grade,
		Probabilities:  probs,
		RiskScore:      score,
		RiskLevel:      level,
		Tips:           tips,
		Recommendation: predict.Recommend(m),
	}, nil
}

// Save evaluates the metrics and upserts the record for its
// (student, subject) pair. A high-risk result alerts the class teacher.
func (svc *Service) Save(nr NewRecord) (Record, error) {
	eval, err := svc.Evaluate(nr.Metrics)
	if err != nil {
		return Record{}, err
	}

	now := time.Now().UTC()
	rec := Record{
		StudentID:      nr.StudentID,
		SubjectID:      nr.SubjectID,
		Metrics:        nr.Metrics.Clamped(),
		PredictedGrade: eval.Grade,
		RiskScore:      eval.RiskScore,
		RiskLevel:      eval.RiskLevel,
		Recommendation: eval.Recommendation,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	rec, err = svc.repo.UpsertRecord(rec)
	if err != nil {
		return Record{}, pkgerrors.Wrap(err, "upserting record")
	}

	if rec.RiskLevel == predict.RiskHigh {
		svc.sendAtRiskAlert(rec)
	}
	return rec, nil
}

func (svc *Service) GetByID(id int) (Record, error) {
	return svc.repo.GetRecordByID(id)
}

func (svc *Service) StudentRecords(studentID int) ([]Record, error) {
	return svc.repo.QueryStudentRecords(studentID)
}

func (svc *Service) ClassRecords(classID int) ([]Record, error) {
	return svc.repo.QueryClassRecords(classID)
}

func (svc *Service) AtRiskRecords(classID int) ([]Record, error) {
	return svc.repo.QueryAtRiskRecords(classID)
}

func (svc *Service) Delete(id int) error {
	return svc.repo.DeleteRecord(id)
}

// sendAtRiskAlert emails the student's class teacher. Alert failures are
// logged, never surfaced: the record is already saved.
func (svc *Service) sendAtRiskAlert(rec Record) {
	entry, err := svc.repo.GetStudentRoster(rec.StudentID)
	if err != nil {
		svc.log.Error("resolving roster for at-risk alert", pkgerrors.Wrap(err, "getting student roster"))
		return
	}

	msg := &core.EmailMessage{
		To:      []mail.Address{{Name: entry.TeacherName, Address: entry.TeacherEmail}},
		Subject: fmt.Sprintf("At-risk alert: %s (%s)", entry.StudentName, entry.ClassName),
		BodyStr: fmt.Sprintf(
			"%s (roll no. %s) in %s was evaluated as High risk (score %.2f).\n\n"+
				"Recommendation: %s\n",
			entry.StudentName, entry.RollNumber, entry.ClassName, rec.RiskScore, rec.Recommendation,
		),
	}
	svc.mailSvc.SendMessages(msg)
}
