package modelstore

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/awidars/stock-forecast-api/internal/domain"
)

const artifactExtension = ".model"

// FSStore keeps one gob-encoded artifact file per product under a base
// directory. Writes go to a temp file in the same directory and are renamed
// into place, so a prior artifact is only ever replaced whole. A per-product
// mutex serializes train/forecast access to the same file.
type FSStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(ErrPersistence, "creating model dir %s: %v", dir, err)
	}
	return &FSStore{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

func (s *FSStore) Put(artifact *domain.ModelArtifact) error {
	key := domain.ModelKey(artifact.Product)
	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return errors.Wrapf(ErrPersistence, "creating temp file: %v", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(artifact); err != nil {
		tmp.Close()
		return errors.Wrapf(ErrPersistence, "encoding artifact for %s: %v", artifact.Product, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(ErrPersistence, "closing temp file: %v", err)
	}

	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return errors.Wrapf(ErrPersistence, "replacing artifact for %s: %v", artifact.Product, err)
	}

	logrus.WithFields(logrus.Fields{
		"product": artifact.Product,
		"path":    s.path(key),
	}).Debug("modelstore: artifact persisted")
	return nil
}

func (s *FSStore) Get(product string) (*domain.ModelArtifact, error) {
	key := domain.ModelKey(product)
	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	f, err := os.Open(s.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(ErrPersistence, "opening artifact for %s: %v", product, err)
	}
	defer f.Close()

	var artifact domain.ModelArtifact
	if err := gob.NewDecoder(f).Decode(&artifact); err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "decoding artifact for %s: %v", product, err)
	}
	return &artifact, nil
}

func (s *FSStore) Delete(product string) error {
	key := domain.ModelKey(product)
	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return errors.Wrapf(ErrPersistence, "removing artifact for %s: %v", product, err)
	}
	return nil
}

func (s *FSStore) List() ([]*domain.ModelInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrapf(ErrPersistence, "listing %s: %v", s.dir, err)
	}

	infos := make([]*domain.ModelInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), artifactExtension) {
			continue
		}
		product := strings.TrimSuffix(entry.Name(), artifactExtension)
		artifact, err := s.Get(product)
		if err != nil {
			logrus.WithError(err).WithField("file", entry.Name()).
				Warn("modelstore: skipping unreadable artifact")
			continue
		}
		infos = append(infos, &domain.ModelInfo{
			Product:      artifact.Product,
			Order:        artifact.Order,
			LogTransform: artifact.LogTransform,
			LastMonth:    artifact.LastMonth.Format("2006-01"),
			TrainedAt:    artifact.TrainedAt,
		})
	}
	return infos, nil
}

func (s *FSStore) path(key string) string {
	return filepath.Join(s.dir, key+artifactExtension)
}

func (s *FSStore) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[key] = l
	return l
}
