package record

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	pkgerrors "github.com/pkg/errors"
)

var csvHeader = []string{
	"subject", "attendance", "marks", "mst_marks", "study_hours", "assignments",
	"extracurriculars", "projects", "certifications", "internships",
	"predicted_grade", "risk_score", "risk_level", "recommendation", "updated_at",
}

// WriteStudentReportCSV streams a student's records as a CSV report.
func (svc *Service) WriteStudentReportCSV(w io.Writer, studentID int) error {
	recs, err := svc.repo.QueryStudentRecords(studentID)
	if err != nil {
		return pkgerrors.Wrap(err, "querying student records")
	}

	cw := csv.NewWriter(w)
	if err = cw.Write(csvHeader); err != nil {
		return pkgerrors.Wrap(err, "writing CSV header")
	}
	for _, rec := range recs {
		row := []string{
			rec.SubjectName,
			formatFloat(rec.Attendance),
			formatFloat(rec.Marks),
			formatFloat(rec.MSTMarks),
			formatFloat(rec.StudyHours),
			formatFloat(rec.Assignments),
			strconv.Itoa(rec.Extracurriculars),
			strconv.Itoa(rec.Projects),
			strconv.Itoa(rec.Certifications),
			strconv.Itoa(rec.Internships),
			rec.PredictedGrade,
			strconv.FormatFloat(rec.RiskScore, 'f', 2, 64),
			string(rec.RiskLevel),
			rec.Recommendation,
			rec.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err = cw.Write(row); err != nil {
			return pkgerrors.Wrap(err, "writing CSV row")
		}
	}
	cw.Flush()
	return pkgerrors.Wrap(cw.Error(), "flushing CSV")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
