package services

import (
	"context"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

type ScheduleService struct {
	base
}

var _ ports.ScheduleService = (*ScheduleService)(nil)

func NewScheduleService(deps Dependencies) *ScheduleService {
	return &ScheduleService{base: newBase(deps, "schedule_service")}
}

func (s *ScheduleService) GetSchedule(ctx context.Context) ([]domain.ScheduleItem, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Schedule, nil
}

// UpdateSchedule replaces the agenda and publishes SCHEDULE_UPDATED.
func (s *ScheduleService) UpdateSchedule(ctx context.Context, items []domain.ScheduleItem) ([]domain.ScheduleItem, error) {
	schedule, err := domain.NormalizeSchedule(items)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Update(ctx, func(doc *domain.Document) error {
		doc.Schedule = schedule
		return nil
	}); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventScheduleUpdated, domain.ScheduleUpdatedPayload{Schedule: schedule})
	return schedule, nil
}
