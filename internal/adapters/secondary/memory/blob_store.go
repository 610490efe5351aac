// Package memory provides process-local implementations of the storage and
// transport ports.
package memory

import (
	"context"
	"sync"

	apperrors "github.com/lorrc/hackathon-hub/internal/core/errors"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

// BlobStore keeps values in a map. Values are copied in and out.
type BlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ ports.BlobStore = (*BlobStore)(nil)

// NewBlobStore creates an empty store.
func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: make(map[string][]byte)}
}

func (s *BlobStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.blobs[key]
	if !ok {
		return nil, apperrors.ErrBlobNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *BlobStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = append([]byte(nil), value...)
	return nil
}

func (s *BlobStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, key)
	return nil
}
