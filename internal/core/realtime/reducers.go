package realtime

import (
	"context"
	"time"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

// TeamEvents are the events the teams view reacts to.
var TeamEvents = []domain.EventType{
	domain.EventTeamCreated,
	domain.EventTeamUpdated,
	domain.EventTeamCheckedIn,
	domain.EventTeamSubmitted,
	domain.EventScoreUpdated,
	domain.EventVolunteerAssigned,
}

// ReduceTeams applies a team event. TEAM_CREATED appends only when the id is
// absent; the update events replace a cached team and ignore unknown ids.
// Undecodable payloads leave the cache as it was.
func ReduceTeams(teams []domain.Team, evt domain.Event) []domain.Team {
	switch evt.Type {
	case domain.EventTeamCreated:
		var team domain.Team
		if err := evt.Decode(&team); err != nil || team.ID == "" {
			return teams
		}
		return appendIfAbsent(teams, team, teamKey)

	case domain.EventTeamUpdated, domain.EventTeamCheckedIn,
		domain.EventTeamSubmitted, domain.EventScoreUpdated:
		var team domain.Team
		if err := evt.Decode(&team); err != nil || team.ID == "" {
			return teams
		}
		return replace(teams, team, teamKey)

	case domain.EventVolunteerAssigned:
		var payload domain.VolunteerAssignedPayload
		if err := evt.Decode(&payload); err != nil {
			return teams
		}
		assigned := make(map[string]bool, len(payload.TeamIDs))
		for _, id := range payload.TeamIDs {
			assigned[id] = true
		}
		out := append([]domain.Team(nil), teams...)
		for i := range out {
			if assigned[out[i].ID] {
				out[i].AssignedVolunteerID = payload.VolunteerID
			}
		}
		return out
	}
	return teams
}

// AnnouncementEvents are the events the announcements view reacts to.
var AnnouncementEvents = []domain.EventType{domain.EventAnnouncementPosted}

// ReduceAnnouncements prepends a posted announcement, keeping the cache
// newest-first. A repeated id is ignored.
func ReduceAnnouncements(announcements []domain.Announcement, evt domain.Event) []domain.Announcement {
	if evt.Type != domain.EventAnnouncementPosted {
		return announcements
	}
	var a domain.Announcement
	if err := evt.Decode(&a); err != nil || a.ID == "" {
		return announcements
	}
	for _, existing := range announcements {
		if existing.ID == a.ID {
			return announcements
		}
	}

	out := make([]domain.Announcement, 0, len(announcements)+1)
	out = append(out, a)
	return append(out, announcements...)
}

func teamKey(t domain.Team) string { return t.ID }

func indexOf[T any](items []T, id string, key func(T) string) int {
	for i := range items {
		if key(items[i]) == id {
			return i
		}
	}
	return -1
}

// appendIfAbsent returns items unchanged when item's key is already present.
func appendIfAbsent[T any](items []T, item T, key func(T) string) []T {
	if indexOf(items, key(item), key) >= 0 {
		return items
	}
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}

// replace returns items unchanged when item's key is missing.
func replace[T any](items []T, item T, key func(T) string) []T {
	i := indexOf(items, key(item), key)
	if i < 0 {
		return items
	}
	out := append([]T(nil), items...)
	out[i] = item
	return out
}

// TeamLister is satisfied by ports.TeamService.
type TeamLister interface {
	ListTeams(ctx context.Context) ([]domain.Team, error)
}

// AnnouncementLister is satisfied by ports.AnnouncementService.
type AnnouncementLister interface {
	ListAnnouncements(ctx context.Context) ([]domain.Announcement, error)
}

// HelpRequestLister is satisfied by ports.HelpService.
type HelpRequestLister interface {
	ListHelpRequests(ctx context.Context) ([]domain.HelpRequest, error)
}

// NewTeamsView caches the team roster.
func NewTeamsView(subscriber ports.EventSubscriber, teams TeamLister, opts ...ViewOption) *View[domain.Team] {
	return NewView[domain.Team]("teams", subscriber, teams.ListTeams, ReduceTeams, TeamEvents, opts...)
}

// NewAnnouncementsView caches announcements, newest-first.
func NewAnnouncementsView(subscriber ports.EventSubscriber, announcements AnnouncementLister, opts ...ViewOption) *View[domain.Announcement] {
	return NewView[domain.Announcement]("announcements", subscriber, announcements.ListAnnouncements, ReduceAnnouncements, AnnouncementEvents, opts...)
}

// DefaultHelpPollInterval is used by NewHelpRequestsView when no interval is
// given; help request status changes are never broadcast.
const DefaultHelpPollInterval = 5 * time.Second

// NewHelpRequestsView caches help requests by polling only.
func NewHelpRequestsView(help HelpRequestLister, opts ...ViewOption) *View[domain.HelpRequest] {
	opts = append([]ViewOption{WithPollInterval(DefaultHelpPollInterval)}, opts...)
	return NewView[domain.HelpRequest]("help_requests", nil, help.ListHelpRequests, nil, nil, opts...)
}
