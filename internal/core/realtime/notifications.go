package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

// MaxNotifications caps the rolling notification log.
const MaxNotifications = 50

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// Notification is one synthesized entry of the log.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
	EventType domain.EventType `json:"eventType"`
}

// NotificationLog is one viewer's newest-first log of qualifying events.
// Read state is local and never broadcast.
type NotificationLog struct {
	mu       sync.RWMutex
	entries  []Notification
	capacity int
	now      func() time.Time
}

// NewNotificationLog creates an empty log holding MaxNotifications entries.
func NewNotificationLog() *NotificationLog {
	return &NotificationLog{capacity: MaxNotifications, now: time.Now}
}

// Apply prepends a notification for evt if the event qualifies, evicting the
// oldest entry beyond the cap. It reports whether an entry was added.
func (l *NotificationLog) Apply(evt domain.Event) bool {
	n, ok := buildNotification(evt, l.now)
	if !ok {
		return false
	}
	l.add(n)
	return true
}

func (l *NotificationLog) add(n Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]Notification, 0, min(len(l.entries)+1, l.capacity))
	entries = append(entries, n)
	for _, e := range l.entries {
		if len(entries) == l.capacity {
			break
		}
		entries = append(entries, e)
	}
	l.entries = entries
}

func buildNotification(evt domain.Event, now func() time.Time) (Notification, bool) {
	n, ok := notificationFor(evt)
	if !ok {
		return Notification{}, false
	}
	n.ID = uuid.NewString()
	n.EventType = evt.Type
	n.Timestamp = evt.Timestamp
	if n.Timestamp.IsZero() {
		n.Timestamp = now().UTC()
	}
	return n, true
}

// Entries returns a copy of the log, newest first.
func (l *NotificationLog) Entries() []Notification {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Notification(nil), l.entries...)
}

// UnreadCount counts unread entries on every call.
func (l *NotificationLog) UnreadCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	count := 0
	for _, e := range l.entries {
		if !e.Read {
			count++
		}
	}
	return count
}

// MarkAsRead marks one entry and reports whether it exists.
func (l *NotificationLog) MarkAsRead(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries[i].Read = true
			return true
		}
	}
	return false
}

func (l *NotificationLog) MarkAllAsRead() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		l.entries[i].Read = true
	}
}

func (l *NotificationLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// NotificationLogs keeps one NotificationLog per viewer. A viewer's log is
// created on first use and starts with the recent process history, all
// unread; from then on its read state and Clear are its own.
type NotificationLogs struct {
	mu      sync.Mutex
	history *NotificationLog
	viewers map[string]*NotificationLog
	now     func() time.Time
}

func NewNotificationLogs() *NotificationLogs {
	return &NotificationLogs{
		history: NewNotificationLog(),
		viewers: make(map[string]*NotificationLog),
		now:     time.Now,
	}
}

// Attach feeds every qualifying event from subscriber into every log.
func (ls *NotificationLogs) Attach(subscriber ports.EventSubscriber) func() {
	return subscriber.Subscribe(domain.EventWildcard, func(_ context.Context, evt domain.Event) error {
		ls.Apply(evt)
		return nil
	})
}

// Apply adds one notification for evt to the history and to every viewer's
// log. All logs share the entry id.
func (ls *NotificationLogs) Apply(evt domain.Event) bool {
	n, ok := buildNotification(evt, ls.now)
	if !ok {
		return false
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	ls.history.add(n)
	for _, log := range ls.viewers {
		log.add(n)
	}
	return true
}

// For returns the log of viewerID, creating it from the history.
func (ls *NotificationLogs) For(viewerID string) *NotificationLog {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if log, ok := ls.viewers[viewerID]; ok {
		return log
	}
	log := NewNotificationLog()
	log.entries = ls.history.Entries()
	ls.viewers[viewerID] = log
	return log
}

// Viewers is the number of viewers holding a log.
func (ls *NotificationLogs) Viewers() int {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return len(ls.viewers)
}

func notificationFor(evt domain.Event) (Notification, bool) {
	switch evt.Type {
	case domain.EventTeamCreated:
		team, ok := decodeTeam(evt)
		return Notification{Type: NotificationSuccess, Title: "New team registered", Message: team.Name + " has registered"}, ok

	case domain.EventTeamCheckedIn:
		team, ok := decodeTeam(evt)
		return Notification{Type: NotificationSuccess, Title: "Team checked in", Message: team.Name + " has checked in"}, ok

	case domain.EventTeamSubmitted:
		team, ok := decodeTeam(evt)
		return Notification{Type: NotificationSuccess, Title: "Project submitted", Message: team.Name + " submitted their project"}, ok

	case domain.EventScoreUpdated:
		team, ok := decodeTeam(evt)
		return Notification{Type: NotificationInfo, Title: "Score updated", Message: fmt.Sprintf("%s now has %g points", team.Name, team.Score)}, ok

	case domain.EventAnnouncementPosted:
		var a domain.Announcement
		if err := evt.Decode(&a); err != nil {
			return Notification{}, false
		}
		kind := NotificationInfo
		switch a.Priority {
		case domain.PriorityUrgent:
			kind = NotificationError
		case domain.PriorityImportant:
			kind = NotificationWarning
		}
		return Notification{Type: kind, Title: "New announcement", Message: a.Message}, true

	case domain.EventVolunteerAssigned:
		var p domain.VolunteerAssignedPayload
		if err := evt.Decode(&p); err != nil {
			return Notification{}, false
		}
		name := p.Volunteer.Name
		if name == "" {
			name = p.VolunteerID
		}
		return Notification{Type: NotificationInfo, Title: "Volunteer assigned", Message: fmt.Sprintf("%s assigned to %d team(s)", name, len(p.TeamIDs))}, true

	case domain.EventHelpRequested:
		var h domain.HelpRequest
		if err := evt.Decode(&h); err != nil {
			return Notification{}, false
		}
		return Notification{Type: NotificationWarning, Title: "Help requested", Message: h.TeamName + " needs help"}, true

	case domain.EventScheduleUpdated:
		return Notification{Type: NotificationInfo, Title: "Schedule updated", Message: "The event schedule has changed"}, true
	}
	return Notification{}, false
}

func decodeTeam(evt domain.Event) (domain.Team, bool) {
	var team domain.Team
	if err := evt.Decode(&team); err != nil {
		return team, false
	}
	return team, true
}
