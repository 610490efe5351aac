package services

import (
	"context"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

// AnnouncementService posts and removes announcements. Announcements are
// stored newest-first.
type AnnouncementService struct {
	base
}

var _ ports.AnnouncementService = (*AnnouncementService)(nil)

func NewAnnouncementService(deps Dependencies) *AnnouncementService {
	return &AnnouncementService{base: newBase(deps, "announcement_service")}
}

func (s *AnnouncementService) ListAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Announcements, nil
}

// PostAnnouncement publishes ANNOUNCEMENT_POSTED.
func (s *AnnouncementService) PostAnnouncement(ctx context.Context, params domain.AnnouncementParams) (*domain.Announcement, error) {
	announcement, err := domain.NewAnnouncement(params, s.now())
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Update(ctx, func(doc *domain.Document) error {
		doc.Announcements = append([]domain.Announcement{*announcement}, doc.Announcements...)
		return nil
	}); err != nil {
		return nil, err
	}

	evt, err := domain.NewAnnouncementEvent(*announcement)
	s.send(ctx, domain.EventAnnouncementPosted, evt, err)
	return announcement, nil
}

// DeleteAnnouncement removes an announcement without broadcasting; other
// contexts pick the removal up on their next refresh.
func (s *AnnouncementService) DeleteAnnouncement(ctx context.Context, announcementID string) error {
	_, err := s.store.Update(ctx, func(doc *domain.Document) error {
		if !doc.RemoveAnnouncement(announcementID) {
			return errAnnouncementNotFound(announcementID)
		}
		return nil
	})
	return err
}
