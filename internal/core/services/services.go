package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

// Dependencies are the collaborators shared by the domain services.
type Dependencies struct {
	Store     ports.DocumentRepository
	Publisher ports.EventPublisher
	Logger    *slog.Logger
	Now       func() time.Time
}

type base struct {
	store     ports.DocumentRepository
	publisher ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func newBase(deps Dependencies, component string) base {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return base{
		store:     deps.Store,
		publisher: deps.Publisher,
		logger:    logger.With("component", component),
		now:       func() time.Time { return now().UTC() },
	}
}

// publish sends one event carrying payload. The mutation has already been
// written, so a payload error is logged rather than returned.
func (b base) publish(ctx context.Context, eventType domain.EventType, payload any) {
	evt, err := domain.NewEvent(eventType, payload)
	b.send(ctx, eventType, evt, err)
}

// publishTeam sends one of the events whose payload is the full team.
func (b base) publishTeam(ctx context.Context, eventType domain.EventType, team domain.Team) {
	evt, err := domain.NewTeamEvent(eventType, team)
	b.send(ctx, eventType, evt, err)
}

func (b base) send(ctx context.Context, eventType domain.EventType, evt domain.Event, err error) {
	if err != nil {
		b.logger.Error("Failed to build event", "event_type", eventType, "error", err)
		return
	}
	if b.publisher == nil {
		return
	}
	b.publisher.Publish(ctx, evt)
}

// updateTeam applies fn to one team inside a document update and returns a
// copy of the result.
func (b base) updateTeam(ctx context.Context, teamID string, fn func(team *domain.Team) error) (*domain.Team, error) {
	var updated domain.Team
	_, err := b.store.Update(ctx, func(doc *domain.Document) error {
		team, ok := doc.FindTeam(teamID)
		if !ok {
			return errTeamNotFound(teamID)
		}
		if err := fn(team); err != nil {
			return err
		}
		updated = *team
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
