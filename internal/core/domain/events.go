package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType defines the type of real-time event.
type EventType string

const (
	EventTeamCreated        EventType = "TEAM_CREATED"
	EventTeamUpdated        EventType = "TEAM_UPDATED"
	EventTeamCheckedIn      EventType = "TEAM_CHECKED_IN"
	EventTeamSubmitted      EventType = "TEAM_SUBMITTED"
	EventAnnouncementPosted EventType = "ANNOUNCEMENT_POSTED"
	EventVolunteerAssigned  EventType = "VOLUNTEER_ASSIGNED"
	EventScoreUpdated       EventType = "SCORE_UPDATED"
	EventUserJoined         EventType = "USER_JOINED"
	EventScheduleUpdated    EventType = "SCHEDULE_UPDATED"
	EventHelpRequested      EventType = "HELP_REQUESTED"

	// EventWildcard subscribes to every event type.
	EventWildcard EventType = "*"
)

// AllEventTypes lists the closed set of publishable event types.
var AllEventTypes = []EventType{
	EventTeamCreated,
	EventTeamUpdated,
	EventTeamCheckedIn,
	EventTeamSubmitted,
	EventAnnouncementPosted,
	EventVolunteerAssigned,
	EventScoreUpdated,
	EventUserJoined,
	EventScheduleUpdated,
	EventHelpRequested,
}

// IsValid reports whether t is one of the publishable event types.
func (t EventType) IsValid() bool {
	for _, known := range AllEventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsSubscribable reports whether t can be used as a subscription key.
func (t EventType) IsSubscribable() bool {
	return t == EventWildcard || t.IsValid()
}

// Event is the message carried by the event bus and sent over WebSocket.
// Events are immutable once published and never persisted.
type Event struct {
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
	OriginID  string          `json:"originId"`
}

// NewEvent builds an unstamped event with a JSON-encoded payload.
func NewEvent(eventType EventType, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, Payload: data}, nil
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("decode %s payload: empty payload", e.Type)
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}
