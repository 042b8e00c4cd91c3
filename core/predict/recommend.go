package predict

import "strings"

// Recommend derives a short directive string from the metrics.
//
// The thresholds here deliberately differ from ScoreRisk's in places
// (marks, study hours, assignments); the two rule sets are maintained
// independently and must not be unified.
func Recommend(m Metrics) string {
	m = m.Clamped()

	var recs []string
	if m.Attendance < 75 {
		recs = append(recs, "Improve attendance")
	}
	if m.Marks < 70 {
		recs = append(recs, "Focus on marks")
	}
	if m.MSTMarks < 16 {
		recs = append(recs, "Boost MST prep")
	}
	if m.StudyHours < 10 {
		recs = append(recs, "Increase study time")
	}
	if m.Assignments < 70 {
		recs = append(recs, "Complete assignments")
	}
	if m.Extracurriculars < 2 {
		recs = append(recs, "Join activities")
	}
	if m.Projects == 0 {
		recs = append(recs, "Work on projects")
	}
	if m.Certifications == 0 {
		recs = append(recs, "Earn certifications")
	}
	if m.Internships == 0 {
		recs = append(recs, "Pursue internships")
	}

	if len(recs) == 0 {
		return "Maintain current performance - you're excelling!"
	}
	return strings.Join(recs, " | ")
}
