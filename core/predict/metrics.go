package predict

// Metrics is the nine-field vector describing one student's performance
// in one subject. MSTMarks is raw (out of 40); every consumer that needs
// it on a percentage scale goes through MSTNormalized.
type Metrics struct {
	Attendance       float64 `json:"attendance" db:"attendance" validate:"min=0,max=100"`
	Marks            float64 `json:"marks" db:"marks" validate:"min=0,max=100"`
	MSTMarks         float64 `json:"mst_marks" db:"mst_marks" validate:"min=0,max=40"`
	StudyHours       float64 `json:"study_hours" db:"study_hours" validate:"min=0,max=50"`
	Assignments      float64 `json:"assignments" db:"assignments" validate:"min=0,max=100"`
	Extracurriculars int     `json:"extracurriculars" db:"extracurriculars" validate:"min=0,max=10"`
	Projects         int     `json:"projects" db:"projects" validate:"min=0"`
	Certifications   int     `json:"certifications" db:"certifications" validate:"min=0"`
	Internships      int     `json:"internships" db:"internships" validate:"min=0"`
}

// MSTNormalized rescales the raw MST score to [0,100].
func (m Metrics) MSTNormalized() float64 {
	return m.MSTMarks / 40.0 * 100.0
}

// Clamped returns a copy with every field forced into its declared range.
// Upstream entry forms already constrain ranges; this keeps stray values
// from silently corrupting scores.
func (m Metrics) Clamped() Metrics {
	m.Attendance = clamp(m.Attendance, 0, 100)
	m.Marks = clamp(m.Marks, 0, 100)
	m.MSTMarks = clamp(m.MSTMarks, 0, 40)
	m.StudyHours = clamp(m.StudyHours, 0, 50)
	m.Assignments = clamp(m.Assignments, 0, 100)
	m.Extracurriculars = clampInt(m.Extracurriculars, 0, 10)
	if m.Projects < 0 {
		m.Projects = 0
	}
	if m.Certifications < 0 {
		m.Certifications = 0
	}
	if m.Internships < 0 {
		m.Internships = 0
	}
	return m
}

// featureVector lays the metrics out in model feature order,
// with MST on the percentage scale.
func (m Metrics) featureVector() []float64 {
	return []float64{
		m.Attendance,
		m.Marks,
		m.MSTNormalized(),
		m.StudyHours,
		m.Assignments,
		float64(m.Extracurriculars),
		float64(m.Projects),
		float64(m.Certifications),
		float64(m.Internships),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
