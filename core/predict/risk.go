package predict

// RiskLevel is the coarse bucket derived from a risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"

	riskMediumThreshold = 0.4
	riskHighThreshold   = 0.7
)

// MaxDisplayTips caps the tip list for display; ScoreRisk itself always
// returns the full set.
const MaxDisplayTips = 5

// RiskLevelFor buckets a risk score: Low < 0.4 <= Medium < 0.7 <= High.
func RiskLevelFor(score float64) RiskLevel {
	switch {
	case score < riskMediumThreshold:
		return RiskLow
	case score < riskHighThreshold:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// ScoreRisk accumulates deterministic rule contributions over the metrics,
// plus a poor-grade probability term when a prediction distribution is
// supplied, into a risk score clamped to [0,1] with mitigation tips in
// fixed rule order.
func ScoreRisk(m Metrics, probs map[string]float64) (float64, RiskLevel, []string) {
	m = m.Clamped()

	var risk float64
	var tips []string

	if probs != nil {
		risk += probs["D"] * 1.0
		risk += probs["C"] * 0.5
	}

	if m.Attendance < 75 {
		risk += 0.20
		tips = append(tips, "Improve attendance to at least 85% for better outcomes.")
	}
	if m.Marks < 60 {
		risk += 0.25
		tips = append(tips, "Focus on core subjects to raise marks above 70%.")
	}
	if m.MSTMarks < 16 {
		risk += 0.20
		tips = append(tips, "MST performance is low. Schedule revision sessions weekly.")
	}
	if m.StudyHours < 8 {
		risk += 0.10
		tips = append(tips, "Increase study hours to at least 12-15 hours per week.")
	}
	if m.Assignments < 60 {
		risk += 0.15
		tips = append(tips, "Complete and revise assignments to boost score.")
	}
	if m.Extracurriculars < 2 {
		risk += 0.05
		tips = append(tips, "Engage in extracurricular activities for balance.")
	}
	if m.Projects == 0 {
		risk += 0.10
		tips = append(tips, "Complete project work to enhance practical skills.")
	}
	if m.Certifications == 0 {
		risk += 0.08
		tips = append(tips, "Earn certifications to boost your profile.")
	}
	if m.Internships == 0 {
		risk += 0.07
		tips = append(tips, "Consider internship opportunities for industry experience.")
	}

	risk = clamp(risk, 0, 1)

	if len(tips) == 0 {
		tips = append(tips, "Great job! Maintain consistency to keep your performance high.")
	}

	return risk, RiskLevelFor(risk), tips
}
