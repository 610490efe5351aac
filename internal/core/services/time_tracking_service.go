package services

import (
	"context"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

// TimeTrackingService drives the onboarding state machine of a team. The
// first transition announces the arrival with TEAM_CHECKED_IN; every later
// transition is a plain TEAM_UPDATED.
type TimeTrackingService struct {
	base
}

var _ ports.TimeTrackingService = (*TimeTrackingService)(nil)

// NewTimeTrackingService creates a new time tracking service
func NewTimeTrackingService(deps Dependencies) *TimeTrackingService {
	return &TimeTrackingService{base: newBase(deps, "time_tracking_service")}
}

func (s *TimeTrackingService) StartOnboarding(ctx context.Context, teamID string) (*domain.Team, error) {
	return s.transition(ctx, teamID, domain.EventTeamCheckedIn, func(t *domain.Team) error {
		return t.StartOnboarding(s.now())
	})
}

func (s *TimeTrackingService) StartBreak(ctx context.Context, teamID, reason string) (*domain.Team, error) {
	return s.transition(ctx, teamID, domain.EventTeamUpdated, func(t *domain.Team) error {
		return t.StartBreak(s.now(), reason)
	})
}

func (s *TimeTrackingService) EndBreak(ctx context.Context, teamID string) (*domain.Team, error) {
	return s.transition(ctx, teamID, domain.EventTeamUpdated, func(t *domain.Team) error {
		return t.EndBreak(s.now())
	})
}

func (s *TimeTrackingService) CompleteOnboarding(ctx context.Context, teamID string) (*domain.Team, error) {
	return s.transition(ctx, teamID, domain.EventTeamUpdated, func(t *domain.Team) error {
		return t.CompleteOnboarding(s.now())
	})
}

// Timer reads live totals, including the currently open session.
func (s *TimeTrackingService) Timer(ctx context.Context, teamID string) (*ports.TeamTimer, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	team, ok := doc.FindTeam(teamID)
	if !ok {
		return nil, errTeamNotFound(teamID)
	}

	now := s.now()
	return &ports.TeamTimer{
		TeamID:              team.ID,
		Status:              team.OnboardingStatus,
		ActiveTime:          domain.ActiveTime(*team, now),
		BreakTime:           domain.BreakTime(*team, now),
		CurrentSessionStart: team.CurrentSessionStart,
		BreakReason:         team.BreakReason,
		AllowedActions:      team.AllowedActions(),
		ComputedAt:          now,
	}, nil
}

func (s *TimeTrackingService) transition(ctx context.Context, teamID string, eventType domain.EventType, fn func(*domain.Team) error) (*domain.Team, error) {
	team, err := s.updateTeam(ctx, teamID, fn)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Onboarding transition",
		"team_id", team.ID,
		"status", team.OnboardingStatus,
	)
	s.publishTeam(ctx, eventType, *team)
	return team, nil
}
