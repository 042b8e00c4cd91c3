package predict

import (
	"math"
	"path/filepath"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// small but representative; keeps training fast in tests
var testTrainOpts = TrainOptions{Samples: 400, Trees: 25, DataSeed: DefaultDatasetSeed}

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c := NewClassifier(NewMemArtifactStore(), nopLogger{}, testTrainOpts)
	if err := c.EnsureReady(); err != nil {
		t.Fatalf("EnsureReady() failed: %v", err)
	}
	return c
}

func TestClassifierPredictContract(t *testing.T) {
	c := newTestClassifier(t)

	m := Metrics{
		Attendance:       80,
		Marks:            72,
		MSTMarks:         25,
		StudyHours:       12,
		Assignments:      75,
		Extracurriculars: 3,
		Projects:         1,
		Certifications:   1,
		Internships:      0,
	}
	grade, probs, err := c.Predict(m)
	if err != nil {
		t.Fatalf("Predict() failed: %v", err)
	}

	if len(probs) != 4 {
		t.Fatalf("Predict() probs = %v, want exactly 4 grades", probs)
	}
	var total float64
	for _, label := range Grades {
		p, ok := probs[label]
		if !ok {
			t.Fatalf("Predict() probs missing grade %q", label)
		}
		if p < 0 || p > 1 {
			t.Errorf("Predict() P(%s) = %v, want [0,1]", label, p)
		}
		total += p
	}
	if math.Abs(total-1.0) > 1e-6 {
		t.Errorf("Predict() probs sum = %v, want 1.0", total)
	}

	if probs[grade] < probs["A"] || probs[grade] < probs["B"] ||
		probs[grade] < probs["C"] || probs[grade] < probs["D"] {
		t.Errorf("Predict() grade %q is not the argmax of %v", grade, probs)
	}
}

func TestClassifierPredictIdempotent(t *testing.T) {
	c := newTestClassifier(t)

	m := Metrics{Attendance: 65, Marks: 55, MSTMarks: 14, StudyHours: 6, Assignments: 50}
	grade1, probs1, err := c.Predict(m)
	if err != nil {
		t.Fatalf("Predict() failed: %v", err)
	}
	grade2, probs2, err := c.Predict(m)
	if err != nil {
		t.Fatalf("Predict() failed: %v", err)
	}

	if grade1 != grade2 || !reflect.DeepEqual(probs1, probs2) {
		t.Errorf("Predict() not idempotent: (%q, %v) vs (%q, %v)", grade1, probs1, grade2, probs2)
	}
}

func TestClassifierSeparatesExtremes(t *testing.T) {
	c := newTestClassifier(t)

	top := Metrics{
		Attendance: 98, Marks: 97, MSTMarks: 39, StudyHours: 35, Assignments: 98,
		Extracurriculars: 9, Projects: 5, Certifications: 4, Internships: 2,
	}
	bottom := Metrics{
		Attendance: 50, Marks: 31, MSTMarks: 1, StudyHours: 1, Assignments: 31,
	}

	topGrade, topProbs, err := c.Predict(top)
	if err != nil {
		t.Fatalf("Predict() failed: %v", err)
	}
	bottomGrade, bottomProbs, err := c.Predict(bottom)
	if err != nil {
		t.Fatalf("Predict() failed: %v", err)
	}

	if topGrade != "A" && topGrade != "B" {
		t.Errorf("Predict(top) = %q (%v), want A or B", topGrade, topProbs)
	}
	if bottomGrade != "C" && bottomGrade != "D" {
		t.Errorf("Predict(bottom) = %q (%v), want C or D", bottomGrade, bottomProbs)
	}
}

func TestClassifierArtifactRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.gob")
	store := NewFileArtifactStore(path)

	c1 := NewClassifier(store, nopLogger{}, testTrainOpts)
	if err := c1.EnsureReady(); err != nil {
		t.Fatalf("EnsureReady() failed: %v", err)
	}
	if !store.Exists() {
		t.Fatal("artifact was not persisted")
	}

	// a fresh classifier over the same store must load, not retrain
	c2 := NewClassifier(store, nopLogger{}, testTrainOpts)

	probes := []Metrics{
		{Attendance: 90, Marks: 85, MSTMarks: 30, StudyHours: 15, Assignments: 90, Extracurriculars: 5, Projects: 2, Certifications: 1, Internships: 1},
		{Attendance: 55, Marks: 45, MSTMarks: 10, StudyHours: 4, Assignments: 40},
		{Attendance: 75, Marks: 65, MSTMarks: 20, StudyHours: 10, Assignments: 70, Extracurriculars: 2, Projects: 1},
	}
	for i, probe := range probes {
		grade1, probs1, err := c1.Predict(probe)
		if err != nil {
			t.Fatalf("probe %d: Predict() failed: %v", i, err)
		}
		grade2, probs2, err := c2.Predict(probe)
		if err != nil {
			t.Fatalf("probe %d: reloaded Predict() failed: %v", i, err)
		}
		if grade1 != grade2 || !reflect.DeepEqual(probs1, probs2) {
			t.Errorf("probe %d: reloaded artifact predicts (%q, %v), want (%q, %v)", i, grade2, probs2, grade1, probs1)
		}
	}
}

type countingStore struct {
	ArtifactStore
	saves int32
}

func (s *countingStore) Save(art *Artifact) error {
	atomic.AddInt32(&s.saves, 1)
	return s.ArtifactStore.Save(art)
}

func TestClassifierConcurrentInitTrainsOnce(t *testing.T) {
	store := &countingStore{ArtifactStore: NewMemArtifactStore()}
	c := NewClassifier(store, nopLogger{}, TrainOptions{Samples: 200, Trees: 10, DataSeed: DefaultDatasetSeed})

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- c.EnsureReady()
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("EnsureReady() failed: %v", err)
		}
	}
	if got := atomic.LoadInt32(&store.saves); got != 1 {
		t.Errorf("Save() called %d times, want 1", got)
	}
	if !c.Ready() {
		t.Error("Ready() = false after EnsureReady()")
	}
}
