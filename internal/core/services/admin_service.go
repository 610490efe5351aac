package services

import (
	"context"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

type AdminService struct {
	base
}

var _ ports.AdminService = (*AdminService)(nil)

func NewAdminService(deps Dependencies) *AdminService {
	return &AdminService{base: newBase(deps, "admin_service")}
}

// Snapshot returns the whole document, the full fetch used by views.
func (s *AdminService) Snapshot(ctx context.Context) (*domain.Document, error) {
	return s.store.Load(ctx)
}

// ResetDocument wipes the document and reseeds it. No event is published;
// connected views converge on their next refresh.
func (s *AdminService) ResetDocument(ctx context.Context) (*domain.Document, error) {
	doc, err := s.store.Reset(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Warn("Document reset by operator")
	return doc, nil
}
