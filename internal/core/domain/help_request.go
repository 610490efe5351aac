package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/lorrc/hackathon-hub/internal/core/errors"
)

// HelpStatus tracks a help request through the floor team.
type HelpStatus string

const (
	HelpPending      HelpStatus = "pending"
	HelpAcknowledged HelpStatus = "acknowledged"
	HelpResolved     HelpStatus = "resolved"
)

// IsValid checks if the status is a known value
func (s HelpStatus) IsValid() bool {
	switch s {
	case HelpPending, HelpAcknowledged, HelpResolved:
		return true
	default:
		return false
	}
}

type HelpRequest struct {
	ID                  string     `json:"id"`
	TeamID              string     `json:"teamId"`
	TeamName            string     `json:"teamName"`
	RoomNumber          string     `json:"roomNumber"`
	TableNumber         string     `json:"tableNumber"`
	RequestedAt         time.Time  `json:"requestedAt"`
	Status              HelpStatus `json:"status"`
	Message             string     `json:"message,omitempty"`
	AssignedVolunteerID string     `json:"assignedVolunteerId,omitempty"`
}

// NewHelpRequest opens a pending request on behalf of the team. Location is
// copied from the team at request time.
func NewHelpRequest(team Team, message string, now time.Time) *HelpRequest {
	return &HelpRequest{
		ID:                  uuid.NewString(),
		TeamID:              team.ID,
		TeamName:            team.Name,
		RoomNumber:          team.RoomNumber,
		TableNumber:         team.TableNumber,
		RequestedAt:         now.UTC(),
		Status:              HelpPending,
		Message:             message,
		AssignedVolunteerID: team.AssignedVolunteerID,
	}
}

// UpdateStatus moves the request to the given status.
func (h *HelpRequest) UpdateStatus(status HelpStatus, volunteerID string) error {
	if !status.IsValid() {
		return apperrors.ErrInvalidHelpStatus
	}
	h.Status = status
	if volunteerID != "" {
		h.AssignedVolunteerID = volunteerID
	}
	return nil
}
