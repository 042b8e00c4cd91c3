package predict

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

type (
	// Artifact is the serialized form of a trained classifier:
	// the model and its label set, which must round-trip together.
	Artifact struct {
		Labels []string
		Forest *Forest
	}

	// ArtifactStore persists trained model artifacts. Presence/absence of
	// an artifact drives the classifier's load-vs-train branching.
	ArtifactStore interface {
		Exists() bool
		Load() (*Artifact, error)
		Save(*Artifact) error
		Delete() error
	}
)

// fileArtifactStore gob-encodes artifacts to a single file on local disk.
type fileArtifactStore struct {
	path string
}

var _ ArtifactStore = (*fileArtifactStore)(nil)

func NewFileArtifactStore(path string) ArtifactStore {
	return &fileArtifactStore{path: path}
}

func (s *fileArtifactStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

func (s *fileArtifactStore) Load() (*Artifact, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening model artifact %s", s.path)
	}
	defer func() { _ = f.Close() }()

	art := new(Artifact)
	if err = gob.NewDecoder(f).Decode(art); err != nil {
		return nil, errors.Wrapf(err, "decoding model artifact %s", s.path)
	}
	return art, nil
}

func (s *fileArtifactStore) Save(art *Artifact) error {
	// write to a temp file first so a crash cannot leave a truncated artifact
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".model-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp artifact file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err = gob.NewEncoder(tmp).Encode(art); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "encoding model artifact")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp artifact file")
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrapf(err, "writing model artifact %s", s.path)
	}
	return nil
}

// Delete is idempotent; removing an absent artifact is not an error.
func (s *fileArtifactStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing model artifact %s", s.path)
	}
	return nil
}

// memArtifactStore keeps the artifact in memory; a test double that avoids
// real disk I/O during unit tests.
type memArtifactStore struct {
	mu  sync.Mutex
	art *Artifact
}

var _ ArtifactStore = (*memArtifactStore)(nil)

func NewMemArtifactStore() ArtifactStore {
	return &memArtifactStore{}
}

func (s *memArtifactStore) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.art != nil
}

func (s *memArtifactStore) Load() (*Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.art == nil {
		return nil, errors.New("no artifact stored")
	}
	return s.art, nil
}

func (s *memArtifactStore) Save(art *Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.art = art
	return nil
}

func (s *memArtifactStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.art = nil
	return nil
}
