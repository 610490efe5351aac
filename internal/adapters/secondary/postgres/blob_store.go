// Package postgres stores blobs in a jsonb table.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/lorrc/hackathon-hub/internal/core/errors"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

const (
	getBlobSQL = `SELECT body FROM documents WHERE key = $1`

	upsertBlobSQL = `
INSERT INTO documents (key, body, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`

	deleteBlobSQL = `DELETE FROM documents WHERE key = $1`
)

// BlobStore keeps one row per key in the documents table. Set is an upsert
// with no version check.
type BlobStore struct {
	pool *pgxpool.Pool
}

var _ ports.BlobStore = (*BlobStore)(nil)

func NewBlobStore(pool *pgxpool.Pool) *BlobStore {
	return &BlobStore{pool: pool}
}

func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	err := s.pool.QueryRow(ctx, getBlobSQL, key).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	return body, nil
}

func (s *BlobStore) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.pool.Exec(ctx, upsertBlobSQL, key, value); err != nil {
		return fmt.Errorf("set blob %s: %w", key, err)
	}
	return nil
}

func (s *BlobStore) Delete(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, deleteBlobSQL, key); err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}
