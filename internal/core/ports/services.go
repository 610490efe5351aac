package ports

import (
	"context"
	"time"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
)

// EventHandler receives a delivered event. A returned error or a panic is
// logged by the bus and never reaches the publisher or sibling handlers.
type EventHandler func(ctx context.Context, evt domain.Event) error

// EventPublisher defines the port for broadcasting domain events.
type EventPublisher interface {
	// Publish stamps OriginID and Timestamp when absent and returns the
	// stamped event. It never fails; delivery problems are logged.
	Publish(ctx context.Context, evt domain.Event) domain.Event
}

// EventSubscriber defines the port for observing domain events.
type EventSubscriber interface {
	// Subscribe registers handler for eventType or domain.EventWildcard. The
	// returned function unsubscribes and is safe to call more than once.
	Subscribe(eventType domain.EventType, handler EventHandler) func()
}

// EventBus is the full bus lifecycle as seen by the process wiring.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Open(ctx context.Context) error
	Close() error
	OriginID() string
}

// Transport carries events between contexts (processes, replicas, tabs).
type Transport interface {
	// Join attaches to topic. receive is called for every event sent to the
	// topic by another channel, in that sender's order.
	Join(ctx context.Context, topic string, receive func(domain.Event)) (Channel, error)
}

// Channel is one context's membership of a transport topic.
type Channel interface {
	Send(ctx context.Context, evt domain.Event) error
	Close() error
}

// NotificationOptions mirrors the options of an OS-level notification.
type NotificationOptions struct {
	Body     string
	Tag      string
	Renotify bool
	Icon     string
	Badge    string
	Vibrate  []int
}

// Notifier shows user-facing notifications. Fire-and-forget.
type Notifier interface {
	ShowNotification(ctx context.Context, title string, opts NotificationOptions)
}

// UpdateOptions controls side effects of a team update.
type UpdateOptions struct {
	Broadcast bool
}

// UpdateOption customises UpdateOptions.
type UpdateOption func(*UpdateOptions)

// WithoutBroadcast suppresses the TEAM_UPDATED event. Used when a caller
// publishes a more specific event for the same change.
func WithoutBroadcast() UpdateOption {
	return func(o *UpdateOptions) {
		o.Broadcast = false
	}
}

// ApplyUpdateOptions resolves opts over the defaults.
func ApplyUpdateOptions(opts ...UpdateOption) UpdateOptions {
	o := UpdateOptions{Broadcast: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// UpdateJudgingParams defines the input for recording a judging result.
type UpdateJudgingParams struct {
	TeamID  string
	Score   float64
	Remarks string
	Round   string
}

// TeamTimer is a live read of a team's time-tracking totals.
type TeamTimer struct {
	TeamID              string
	Status              domain.OnboardingStatus
	ActiveTime          int64
	BreakTime           int64
	CurrentSessionStart *time.Time
	BreakReason         *string
	AllowedActions      []domain.OnboardingAction
	ComputedAt          time.Time
}

// TeamService defines the collaborator operations on teams.
type TeamService interface {
	ListTeams(ctx context.Context) ([]domain.Team, error)
	GetTeam(ctx context.Context, teamID string) (*domain.Team, error)
	CreateTeam(ctx context.Context, params domain.TeamParams) (*domain.Team, error)
	UpdateTeam(ctx context.Context, teamID string, patch domain.TeamPatch, opts ...UpdateOption) (*domain.Team, error)
	CheckInTeam(ctx context.Context, teamID string) (*domain.Team, error)
	SubmitProject(ctx context.Context, teamID string, submission domain.Submission) (*domain.Team, error)
	UpdateScore(ctx context.Context, teamID string, score float64) (*domain.Team, error)
	UpdateJudging(ctx context.Context, params UpdateJudgingParams) (*domain.Team, error)
	AssignJudge(ctx context.Context, teamID, judgeID string) (*domain.Team, error)
}

// TimeTrackingService defines the onboarding state machine operations.
type TimeTrackingService interface {
	StartOnboarding(ctx context.Context, teamID string) (*domain.Team, error)
	StartBreak(ctx context.Context, teamID, reason string) (*domain.Team, error)
	EndBreak(ctx context.Context, teamID string) (*domain.Team, error)
	CompleteOnboarding(ctx context.Context, teamID string) (*domain.Team, error)
	Timer(ctx context.Context, teamID string) (*TeamTimer, error)
}

// AnnouncementService defines the port for announcements.
type AnnouncementService interface {
	ListAnnouncements(ctx context.Context) ([]domain.Announcement, error)
	PostAnnouncement(ctx context.Context, params domain.AnnouncementParams) (*domain.Announcement, error)
	DeleteAnnouncement(ctx context.Context, announcementID string) error
}

// VolunteerService defines the port for volunteer assignment.
type VolunteerService interface {
	ListVolunteers(ctx context.Context) ([]domain.Volunteer, error)
	AssignVolunteer(ctx context.Context, volunteerID string, teamIDs []string) (*domain.Volunteer, error)
}

// HelpService defines the port for help requests.
type HelpService interface {
	ListHelpRequests(ctx context.Context) ([]domain.HelpRequest, error)
	RequestHelp(ctx context.Context, teamID, message string) (*domain.HelpRequest, error)
	UpdateHelpRequestStatus(ctx context.Context, requestID string, status domain.HelpStatus, volunteerID string) (*domain.HelpRequest, error)
}

// ScheduleService defines the port for the event agenda.
type ScheduleService interface {
	GetSchedule(ctx context.Context) ([]domain.ScheduleItem, error)
	UpdateSchedule(ctx context.Context, items []domain.ScheduleItem) ([]domain.ScheduleItem, error)
}

// AuthService defines the port for the mock login.
type AuthService interface {
	Login(ctx context.Context, params domain.LoginParams) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

// AdminService defines the port for operator-only operations.
type AdminService interface {
	Snapshot(ctx context.Context) (*domain.Document, error)
	ResetDocument(ctx context.Context) (*domain.Document, error)
}
