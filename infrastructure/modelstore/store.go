// Package modelstore persists trained model artifacts keyed by product.
package modelstore

import (
	"github.com/pkg/errors"

	"github.com/awidars/stock-forecast-api/internal/domain"
)

var (
	// ErrNotFound means no artifact exists for the product; callers treat
	// this as the untrained state, not a failure.
	ErrNotFound = errors.New("modelstore: no model for product")
	// ErrPersistence wraps I/O failures while reading or writing artifacts.
	ErrPersistence = errors.New("modelstore: persistence failure")
	// ErrCorrupt means an artifact exists but cannot be decoded.
	ErrCorrupt = errors.New("modelstore: model artifact is corrupt")
)

// Store is the get/put-by-product interface the pipeline persists through,
// so the filesystem layout can be swapped for a key-value store without
// touching the trainer or forecaster.
type Store interface {
	Put(artifact *domain.ModelArtifact) error
	Get(product string) (*domain.ModelArtifact, error)
	Delete(product string) error
	List() ([]*domain.ModelInfo, error)
}
