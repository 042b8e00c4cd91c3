package predict

import "math/rand"

// Defaults used to bootstrap a model when no artifact exists.
const (
	DefaultDatasetSize = 2000
	DefaultDatasetSeed = 42
)

// Dataset is a labeled training set. Features rows follow the
// Metrics feature order (MST already on the percentage scale).
type Dataset struct {
	Features [][]float64
	Labels   []string
}

// GenerateDataset draws n synthetic samples, deterministic per seed.
//
// This exists solely to bootstrap a usable classifier in the absence of
// real labeled history; it is NOT a statistical model of real student
// behavior. Each sample's composite score is a fixed weighted sum of its
// metrics perturbed by Gaussian noise, then bucketed into a grade.
func GenerateDataset(n int, seed int64) Dataset {
	rng := rand.New(rand.NewSource(seed))

	ds := Dataset{
		Features: make([][]float64, n),
		Labels:   make([]string, n),
	}
	for i := 0; i < n; i++ {
		attendance := uniform(rng, 50, 100)
		marks := uniform(rng, 30, 100)
		mst := uniform(rng, 0, 40) / 40.0 * 100.0
		studyHours := uniform(rng, 0, 40)
		assignments := uniform(rng, 30, 100)
		extracurriculars := float64(rng.Intn(11))
		projects := float64(rng.Intn(6))
		certifications := float64(rng.Intn(5))
		internships := float64(rng.Intn(3))

		score := marks*0.30 +
			attendance*0.15 +
			mst*0.25 +
			(studyHours/40.0)*100.0*0.10 +
			(assignments/100.0)*100.0*0.05 +
			(extracurriculars/10.0)*100.0*0.05 +
			(projects/5.0)*100.0*0.05 +
			(certifications/4.0)*100.0*0.03 +
			(internships/2.0)*100.0*0.02
		score = clamp(score+rng.NormFloat64()*5, 0, 100)

		ds.Features[i] = []float64{
			attendance, marks, mst, studyHours, assignments,
			extracurriculars, projects, certifications, internships,
		}
		ds.Labels[i] = gradeForScore(score)
	}
	return ds
}

func gradeForScore(score float64) string {
	switch {
	case score >= 85:
		return "A"
	case score >= 70:
		return "B"
	case score >= 55:
		return "C"
	default:
		return "D"
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
