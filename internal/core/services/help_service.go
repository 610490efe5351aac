package services

import (
	"context"
	"strings"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

type HelpService struct {
	base
}

var _ ports.HelpService = (*HelpService)(nil)

func NewHelpService(deps Dependencies) *HelpService {
	return &HelpService{base: newBase(deps, "help_service")}
}

func (s *HelpService) ListHelpRequests(ctx context.Context) ([]domain.HelpRequest, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.HelpRequests, nil
}

// RequestHelp opens a pending request for the team and publishes
// HELP_REQUESTED.
func (s *HelpService) RequestHelp(ctx context.Context, teamID, message string) (*domain.HelpRequest, error) {
	var request *domain.HelpRequest
	_, err := s.store.Update(ctx, func(doc *domain.Document) error {
		team, ok := doc.FindTeam(teamID)
		if !ok {
			return errTeamNotFound(teamID)
		}
		request = domain.NewHelpRequest(*team, strings.TrimSpace(message), s.now())
		doc.HelpRequests = append(doc.HelpRequests, *request)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Help requested", "team_id", teamID, "request_id", request.ID)
	evt, err := domain.NewHelpRequestedEvent(*request)
	s.send(ctx, domain.EventHelpRequested, evt, err)
	return request, nil
}

// UpdateHelpRequestStatus changes the status without broadcasting; the
// help-request view collects it on its next poll.
func (s *HelpService) UpdateHelpRequestStatus(ctx context.Context, requestID string, status domain.HelpStatus, volunteerID string) (*domain.HelpRequest, error) {
	var updated domain.HelpRequest
	_, err := s.store.Update(ctx, func(doc *domain.Document) error {
		request, ok := doc.FindHelpRequest(requestID)
		if !ok {
			return errHelpRequestNotFound(requestID)
		}
		if err := request.UpdateStatus(status, volunteerID); err != nil {
			return err
		}
		updated = *request
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
