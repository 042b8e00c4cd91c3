package predict

import "testing"

func TestRecommendAllDirectives(t *testing.T) {
	m := Metrics{
		Attendance:       50,
		Marks:            40,
		MSTMarks:         5,
		StudyHours:       2,
		Assignments:      30,
		Extracurriculars: 0,
		Projects:         0,
		Certifications:   0,
		Internships:      0,
	}
	want := "Improve attendance | Focus on marks | Boost MST prep | Increase study time | " +
		"Complete assignments | Join activities | Work on projects | Earn certifications | Pursue internships"
	if got := Recommend(m); got != want {
		t.Errorf("Recommend() = %q, want %q", got, want)
	}
}

func TestRecommendAffirmation(t *testing.T) {
	m := Metrics{
		Attendance:       95,
		Marks:            88,
		MSTMarks:         35,
		StudyHours:       20,
		Assignments:      92,
		Extracurriculars: 4,
		Projects:         2,
		Certifications:   2,
		Internships:      1,
	}
	if got := Recommend(m); got != "Maintain current performance - you're excelling!" {
		t.Errorf("Recommend() = %q, want the affirmation string", got)
	}
}

// The recommendation thresholds intentionally differ from the risk rules:
// marks=60 is below the recommendation cutoff (70) but exactly at the risk
// cutoff (60), so it triggers a directive while contributing no risk.
func TestRecommendThresholdsDifferFromRisk(t *testing.T) {
	m := Metrics{
		Attendance:       75,
		Marks:            60,
		MSTMarks:         16,
		StudyHours:       8, // also below the recommendation cutoff of 10
		Assignments:      60,
		Extracurriculars: 2,
		Projects:         1,
		Certifications:   1,
		Internships:      1,
	}

	score, _, _ := ScoreRisk(m, nil)
	if score != 0 {
		t.Errorf("ScoreRisk() score = %v, want 0", score)
	}

	want := "Focus on marks | Increase study time | Complete assignments"
	if got := Recommend(m); got != want {
		t.Errorf("Recommend() = %q, want %q", got, want)
	}
}
