package domain

// VolunteerAssignedPayload is carried by VOLUNTEER_ASSIGNED.
type VolunteerAssignedPayload struct {
	VolunteerID string    `json:"volunteerId"`
	TeamIDs     []string  `json:"teamIds"`
	Volunteer   Volunteer `json:"volunteer"`
}

// UserJoinedPayload is carried by USER_JOINED.
type UserJoinedPayload struct {
	User User `json:"user"`
}

// ScheduleUpdatedPayload is carried by SCHEDULE_UPDATED.
type ScheduleUpdatedPayload struct {
	Schedule []ScheduleItem `json:"schedule"`
}

// NewTeamEvent builds a team-scoped event whose payload is the full team.
// TEAM_CREATED, TEAM_UPDATED, TEAM_CHECKED_IN, TEAM_SUBMITTED and
// SCORE_UPDATED all carry a team.
func NewTeamEvent(eventType EventType, team Team) (Event, error) {
	return NewEvent(eventType, team)
}

// NewAnnouncementEvent builds an ANNOUNCEMENT_POSTED event.
func NewAnnouncementEvent(a Announcement) (Event, error) {
	return NewEvent(EventAnnouncementPosted, a)
}

// NewHelpRequestedEvent builds a HELP_REQUESTED event.
func NewHelpRequestedEvent(h HelpRequest) (Event, error) {
	return NewEvent(EventHelpRequested, h)
}
