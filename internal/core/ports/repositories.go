package ports

import (
	"context"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
)

// BlobStore is the key-value backing store for the domain document. Get
// returns errors.ErrBlobNotFound when the key is absent. Writes are whole-value
// replacements; there is no version token, so concurrent writers race and the
// last one wins.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// DocumentRepository is the single choke-point for reading and replacing the
// domain document.
type DocumentRepository interface {
	Load(ctx context.Context) (*domain.Document, error)
	Replace(ctx context.Context, doc *domain.Document) error
	Update(ctx context.Context, fn func(doc *domain.Document) error) (*domain.Document, error)
	Reset(ctx context.Context) (*domain.Document, error)
}
