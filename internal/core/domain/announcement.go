package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/lorrc/hackathon-hub/internal/core/errors"
)

// MaxAnnouncementLength bounds the message body.
const MaxAnnouncementLength = 2000

// AnnouncementPriority marks how prominently an announcement is shown.
type AnnouncementPriority string

const (
	PriorityNormal    AnnouncementPriority = "normal"
	PriorityImportant AnnouncementPriority = "important"
	PriorityUrgent    AnnouncementPriority = "urgent"
)

// IsValid checks if the priority is a known value
func (p AnnouncementPriority) IsValid() bool {
	switch p {
	case PriorityNormal, PriorityImportant, PriorityUrgent:
		return true
	default:
		return false
	}
}

// Announcement is immutable once created, except for deletion.
type Announcement struct {
	ID        string               `json:"id"`
	Message   string               `json:"message"`
	CreatedAt time.Time            `json:"createdAt"`
	Author    string               `json:"author"`
	Priority  AnnouncementPriority `json:"priority,omitempty"`
	IsSticky  bool                 `json:"isSticky,omitempty"`
	Category  string               `json:"category,omitempty"`
}

// AnnouncementParams holds the input for posting an announcement.
type AnnouncementParams struct {
	Message  string
	Author   string
	Priority AnnouncementPriority
	IsSticky bool
	Category string
}

// NewAnnouncement validates the params and builds an announcement.
func NewAnnouncement(params AnnouncementParams, now time.Time) (*Announcement, error) {
	message := strings.TrimSpace(params.Message)
	if message == "" {
		return nil, apperrors.ErrMessageRequired
	}
	if len(message) > MaxAnnouncementLength {
		return nil, apperrors.NewValidationError(apperrors.ErrBadRequest, "Message is too long", map[string]interface{}{
			"maxLength": MaxAnnouncementLength,
		})
	}

	priority := params.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	if !priority.IsValid() {
		return nil, apperrors.ErrInvalidPriority
	}

	return &Announcement{
		ID:        uuid.NewString(),
		Message:   message,
		CreatedAt: now.UTC(),
		Author:    params.Author,
		Priority:  priority,
		IsSticky:  params.IsSticky,
		Category:  params.Category,
	}, nil
}
