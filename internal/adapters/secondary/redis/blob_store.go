package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	apperrors "github.com/lorrc/hackathon-hub/internal/core/errors"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

// BlobStore keeps each blob as a plain string key. Keys never expire.
type BlobStore struct {
	client goredis.UniversalClient
	prefix string
}

var _ ports.BlobStore = (*BlobStore)(nil)

// NewBlobStore creates a store. prefix is prepended to every key.
func NewBlobStore(client goredis.UniversalClient, prefix string) *BlobStore {
	return &BlobStore{client: client, prefix: prefix}
}

func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, apperrors.ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (s *BlobStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *BlobStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
