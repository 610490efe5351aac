package services

import (
	"context"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

type VolunteerService struct {
	base
}

var _ ports.VolunteerService = (*VolunteerService)(nil)

func NewVolunteerService(deps Dependencies) *VolunteerService {
	return &VolunteerService{base: newBase(deps, "volunteer_service")}
}

func (s *VolunteerService) ListVolunteers(ctx context.Context) ([]domain.Volunteer, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Volunteers, nil
}

// AssignVolunteer replaces the volunteer's team list, points every listed
// team at the volunteer and publishes VOLUNTEER_ASSIGNED.
func (s *VolunteerService) AssignVolunteer(ctx context.Context, volunteerID string, teamIDs []string) (*domain.Volunteer, error) {
	var updated domain.Volunteer
	_, err := s.store.Update(ctx, func(doc *domain.Document) error {
		volunteer, ok := doc.FindVolunteer(volunteerID)
		if !ok {
			return errVolunteerNotFound(volunteerID)
		}

		assigned := make([]string, 0, len(teamIDs))
		for _, id := range teamIDs {
			if _, ok := doc.FindTeam(id); !ok {
				return errTeamNotFound(id)
			}
			assigned = appendUnique(assigned, id)
		}

		for _, id := range assigned {
			team, _ := doc.FindTeam(id)
			team.AssignedVolunteerID = volunteer.ID
		}
		volunteer.AssignedTeamIDs = assigned
		updated = *volunteer
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventVolunteerAssigned, domain.VolunteerAssignedPayload{
		VolunteerID: updated.ID,
		TeamIDs:     updated.AssignedTeamIDs,
		Volunteer:   updated,
	})
	return &updated, nil
}
