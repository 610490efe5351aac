package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	apperrors "github.com/lorrc/hackathon-hub/internal/core/errors"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

// DefaultDocumentKey is the blob key the domain document lives under.
const DefaultDocumentKey = "hackathon-db"

// DocumentStore persists the whole domain document as one blob. Update is a
// plain read-modify-replace: two concurrent writers can overwrite each other
// and the last one wins.
type DocumentStore struct {
	blobs     ports.BlobStore
	key       string
	now       func() time.Time
	logger    *slog.Logger
	onReplace func(time.Duration)
}

var _ ports.DocumentRepository = (*DocumentStore)(nil)

// DocumentStoreOption configures a DocumentStore.
type DocumentStoreOption func(*DocumentStore)

// WithDocumentKey overrides DefaultDocumentKey.
func WithDocumentKey(key string) DocumentStoreOption {
	return func(s *DocumentStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithStoreClock sets the clock used for seed data.
func WithStoreClock(now func() time.Time) DocumentStoreOption {
	return func(s *DocumentStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStoreLogger sets the store logger.
func WithStoreLogger(logger *slog.Logger) DocumentStoreOption {
	return func(s *DocumentStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReplaceObserver receives the duration of every successful write.
func WithReplaceObserver(fn func(time.Duration)) DocumentStoreOption {
	return func(s *DocumentStore) {
		s.onReplace = fn
	}
}

// NewDocumentStore creates a store over blobs.
func NewDocumentStore(blobs ports.BlobStore, opts ...DocumentStoreOption) *DocumentStore {
	s := &DocumentStore{
		blobs:  blobs,
		key:    DefaultDocumentKey,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "document_store", "key", s.key)
	return s
}

// Load returns the current document, writing the seed document first if the
// key is absent.
func (s *DocumentStore) Load(ctx context.Context) (*domain.Document, error) {
	data, err := s.blobs.Get(ctx, s.key)
	if errors.Is(err, apperrors.ErrBlobNotFound) {
		doc := domain.SeedDocument(s.now())
		if err := s.Replace(ctx, doc); err != nil {
			return nil, fmt.Errorf("seed document: %w", err)
		}
		s.logger.Info("Seeded domain document")
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return domain.UnmarshalDocument(data)
}

// Replace writes doc as the new document.
func (s *DocumentStore) Replace(ctx context.Context, doc *domain.Document) error {
	start := time.Now()

	data, err := domain.MarshalDocument(doc)
	if err != nil {
		return err
	}
	if err := s.blobs.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}

	if s.onReplace != nil {
		s.onReplace(time.Since(start))
	}
	return nil
}

// Update loads the document, applies fn and replaces it. An error from fn
// aborts without writing.
func (s *DocumentStore) Update(ctx context.Context, fn func(doc *domain.Document) error) (*domain.Document, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	if err := s.Replace(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Reset deletes the document and reseeds it.
func (s *DocumentStore) Reset(ctx context.Context) (*domain.Document, error) {
	if err := s.blobs.Delete(ctx, s.key); err != nil {
		return nil, fmt.Errorf("reset document: %w", err)
	}
	s.logger.Warn("Domain document reset")
	return s.Load(ctx)
}
