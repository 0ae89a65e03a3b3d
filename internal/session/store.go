// Package session keeps uploaded sales tables in memory between the upload
// request and the train/forecast requests that reference them.
package session

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/awidars/stock-forecast-api/internal/domain"
	"github.com/awidars/stock-forecast-api/pkg/utils"
)

var (
	// ErrNotFound means the upload id is unknown or its session expired.
	ErrNotFound = errors.New("session: upload not found or expired")
)

// Upload is one ingested CSV held for the duration of a dashboard session.
type Upload struct {
	ID        string
	Table     *domain.SalesTable
	CreatedAt time.Time
}

// Store is an in-memory, TTL-evicting upload registry. Sessions are cheap to
// recreate by re-uploading, so there is no persistence behind it.
type Store struct {
	ttl time.Duration

	mu      sync.RWMutex
	uploads map[string]*Upload
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		uploads: make(map[string]*Upload),
	}
}

// Put registers a table and returns the generated upload id.
func (s *Store) Put(table *domain.SalesTable) (*Upload, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "session: generating upload id")
	}

	upload := &Upload{
		ID:        id,
		Table:     table,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.evictExpiredLocked()
	s.uploads[id] = upload
	s.mu.Unlock()

	return upload, nil
}

// Get returns the upload for an id, or ErrNotFound when it is unknown or
// past its TTL.
func (s *Store) Get(id string) (*Upload, error) {
	s.mu.RLock()
	upload, ok := s.uploads[id]
	s.mu.RUnlock()

	if !ok || s.expired(upload) {
		return nil, ErrNotFound
	}
	return upload, nil
}

// Delete discards an upload. Deleting an unknown id is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.uploads, id)
	s.mu.Unlock()
}

// Len reports the live session count, expired entries excluded.
func (s *Store) Len() int {
	s.mu.Lock()
	s.evictExpiredLocked()
	n := len(s.uploads)
	s.mu.Unlock()
	return n
}

func (s *Store) expired(upload *Upload) bool {
	return s.ttl > 0 && time.Since(upload.CreatedAt) > s.ttl
}

func (s *Store) evictExpiredLocked() {
	if s.ttl <= 0 {
		return
	}
	for id, upload := range s.uploads {
		if s.expired(upload) {
			delete(s.uploads, id)
		}
	}
}
