package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/lorrc/hackathon-hub/internal/core/errors"
)

// Validation limits for teams.
const (
	MaxTeamNameLength = 100
	MaxTeamMembers    = 6
)

// OnboardingStatus represents the time-tracking state of a team.
type OnboardingStatus string

const (
	StatusNotStarted OnboardingStatus = "not_started"
	StatusActive     OnboardingStatus = "active"
	StatusOnBreak    OnboardingStatus = "on_break"
	StatusCompleted  OnboardingStatus = "completed"
)

// IsValid checks if the status is a known value.
func (s OnboardingStatus) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusActive, StatusOnBreak, StatusCompleted:
		return true
	default:
		return false
	}
}

// OnboardingAction names a time-tracking operation.
type OnboardingAction string

const (
	ActionStartOnboarding    OnboardingAction = "start onboarding"
	ActionStartBreak         OnboardingAction = "start break"
	ActionEndBreak           OnboardingAction = "end break"
	ActionCompleteOnboarding OnboardingAction = "complete onboarding"
)

// OnboardingActions lists every action in workflow order.
var OnboardingActions = []OnboardingAction{
	ActionStartOnboarding,
	ActionStartBreak,
	ActionEndBreak,
	ActionCompleteOnboarding,
}

// onboardingTransitions lists, per action, the states the action may start from
// and the state it leads to. completed has no outgoing transitions.
var onboardingTransitions = map[OnboardingAction]struct {
	from []OnboardingStatus
	to   OnboardingStatus
}{
	ActionStartOnboarding:    {from: []OnboardingStatus{StatusNotStarted}, to: StatusActive},
	ActionStartBreak:         {from: []OnboardingStatus{StatusActive}, to: StatusOnBreak},
	ActionEndBreak:           {from: []OnboardingStatus{StatusOnBreak}, to: StatusActive},
	ActionCompleteOnboarding: {from: []OnboardingStatus{StatusActive, StatusOnBreak}, to: StatusCompleted},
}

// SessionType distinguishes working time from break time.
type SessionType string

const (
	SessionActive SessionType = "active"
	SessionBreak  SessionType = "break"
)

// Session is a contiguous interval of active or break time. Sessions are
// append-only; EndTime is set exactly once, when the session is closed.
type Session struct {
	ID        string      `json:"id"`
	Type      SessionType `json:"type"`
	StartTime time.Time   `json:"startTime"`
	EndTime   *time.Time  `json:"endTime,omitempty"`
	Reason    string      `json:"reason,omitempty"`
}

// IsOpen reports whether the session has not been closed yet.
func (s Session) IsOpen() bool {
	return s.EndTime == nil
}

// TeamMember is a participant listed on a team.
type TeamMember struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Submission holds the details of a submitted project.
type Submission struct {
	ProjectURL    string    `json:"projectUrl"`
	RepositoryURL string    `json:"repositoryUrl,omitempty"`
	Description   string    `json:"description,omitempty"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// Team is the core domain entity. Required fields are plain values; fields
// that may legitimately be absent are pointers or live in Extensions, so that
// "unset" and "zero" stay distinct.
type Team struct {
	ID                  string                     `json:"id"`
	Name                string                     `json:"name"`
	Members             []TeamMember               `json:"members"`
	ProblemStatementID  string                     `json:"problemStatementId,omitempty"`
	RoomNumber          string                     `json:"roomNumber,omitempty"`
	TableNumber         string                     `json:"tableNumber,omitempty"`
	CheckedIn           bool                       `json:"checkedIn"`
	CheckInTime         *time.Time                 `json:"checkInTime"`
	OnboardingStatus    OnboardingStatus           `json:"onboardingStatus"`
	CurrentSessionStart *time.Time                 `json:"currentSessionStart"`
	BreakReason         *string                    `json:"breakReason"`
	Sessions            []Session                  `json:"sessions"`
	TotalActiveTime     int64                      `json:"totalActiveTime"`
	TotalBreakTime      int64                      `json:"totalBreakTime"`
	Score               float64                    `json:"score"`
	RoundScores         map[string]float64         `json:"roundScores,omitempty"`
	JudgeRemarks        string                     `json:"judgeRemarks,omitempty"`
	AssignedJudgeID     string                     `json:"assignedJudgeId,omitempty"`
	AssignedVolunteerID string                     `json:"assignedVolunteerId,omitempty"`
	Submission          *Submission                `json:"submission,omitempty"`
	CreatedAt           time.Time                  `json:"createdAt"`
	Extensions          map[string]json.RawMessage `json:"extensions,omitempty"`
}

// TeamParams holds the parameters for creating a new team.
type TeamParams struct {
	Name               string
	Members            []TeamMember
	ProblemStatementID string
	RoomNumber         string
	TableNumber        string
}

// NewTeam creates a validated team in the not_started state.
func NewTeam(params TeamParams, now time.Time) (*Team, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, apperrors.ErrTeamNameRequired
	}
	if len(name) > MaxTeamNameLength {
		return nil, fmt.Errorf("%w: name exceeds %d characters", apperrors.ErrBadRequest, MaxTeamNameLength)
	}
	if len(params.Members) > MaxTeamMembers {
		return nil, fmt.Errorf("%w: at most %d members allowed", apperrors.ErrBadRequest, MaxTeamMembers)
	}

	members := params.Members
	if members == nil {
		members = []TeamMember{}
	}

	return &Team{
		ID:                 uuid.NewString(),
		Name:               name,
		Members:            members,
		ProblemStatementID: params.ProblemStatementID,
		RoomNumber:         params.RoomNumber,
		TableNumber:        params.TableNumber,
		OnboardingStatus:   StatusNotStarted,
		Sessions:           []Session{},
		CreatedAt:          now.UTC(),
	}, nil
}

// TeamPatch describes a partial update. Nil fields are left unchanged.
type TeamPatch struct {
	Name                *string
	Members             []TeamMember
	ProblemStatementID  *string
	RoomNumber          *string
	TableNumber         *string
	AssignedVolunteerID *string
	AssignedJudgeID     *string
	Extensions          map[string]json.RawMessage
}

// Apply merges the patch into the team.
func (p TeamPatch) Apply(t *Team) error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return apperrors.ErrTeamNameRequired
		}
		t.Name = name
	}
	if p.Members != nil {
		t.Members = p.Members
	}
	if p.ProblemStatementID != nil {
		t.ProblemStatementID = *p.ProblemStatementID
	}
	if p.RoomNumber != nil {
		t.RoomNumber = *p.RoomNumber
	}
	if p.TableNumber != nil {
		t.TableNumber = *p.TableNumber
	}
	if p.AssignedVolunteerID != nil {
		t.AssignedVolunteerID = *p.AssignedVolunteerID
	}
	if p.AssignedJudgeID != nil {
		t.AssignedJudgeID = *p.AssignedJudgeID
	}
	if len(p.Extensions) > 0 {
		if t.Extensions == nil {
			t.Extensions = make(map[string]json.RawMessage, len(p.Extensions))
		}
		for key, value := range p.Extensions {
			t.Extensions[key] = value
		}
	}
	return nil
}

// CheckIn marks the team as arrived. The first check-in time is kept.
func (t *Team) CheckIn(now time.Time) {
	t.CheckedIn = true
	if t.CheckInTime == nil {
		at := now.UTC()
		t.CheckInTime = &at
	}
}

// Submit records a project submission, replacing any earlier one.
func (t *Team) Submit(sub Submission, now time.Time) error {
	if strings.TrimSpace(sub.ProjectURL) == "" {
		return apperrors.ErrSubmissionURLRequired
	}
	sub.SubmittedAt = now.UTC()
	t.Submission = &sub
	return nil
}

// SetScore replaces the overall score.
func (t *Team) SetScore(score float64) error {
	if score < 0 {
		return apperrors.ErrInvalidScore
	}
	t.Score = score
	return nil
}

// Judge records a judging result. With a round the score is stored for that
// round and the overall score becomes the sum of all rounds.
func (t *Team) Judge(score float64, remarks, round string) error {
	if score < 0 {
		return apperrors.ErrInvalidScore
	}
	if remarks != "" {
		t.JudgeRemarks = remarks
	}
	if round == "" {
		t.Score = score
		return nil
	}

	if t.RoundScores == nil {
		t.RoundScores = make(map[string]float64)
	}
	t.RoundScores[round] = score

	var total float64
	for _, s := range t.RoundScores {
		total += s
	}
	t.Score = total
	return nil
}

// StartOnboarding moves a team from not_started to active.
func (t *Team) StartOnboarding(now time.Time) error {
	if err := t.guard(ActionStartOnboarding); err != nil {
		return err
	}
	t.CheckIn(now)
	t.openSession(SessionActive, now, "")
	t.OnboardingStatus = StatusActive
	return nil
}

// StartBreak closes the active session and opens a break session.
func (t *Team) StartBreak(now time.Time, reason string) error {
	if err := t.guard(ActionStartBreak); err != nil {
		return err
	}
	t.closeOpenSession(now)
	t.openSession(SessionBreak, now, reason)
	t.BreakReason = &reason
	t.OnboardingStatus = StatusOnBreak
	return nil
}

// EndBreak closes the break session and opens a new active session.
func (t *Team) EndBreak(now time.Time) error {
	if err := t.guard(ActionEndBreak); err != nil {
		return err
	}
	t.closeOpenSession(now)
	t.openSession(SessionActive, now, "")
	t.BreakReason = nil
	t.OnboardingStatus = StatusActive
	return nil
}

// CompleteOnboarding closes whatever session is open. completed is terminal.
func (t *Team) CompleteOnboarding(now time.Time) error {
	if err := t.guard(ActionCompleteOnboarding); err != nil {
		return err
	}
	t.closeOpenSession(now)
	t.CurrentSessionStart = nil
	t.BreakReason = nil
	t.OnboardingStatus = StatusCompleted
	return nil
}

// CanPerform reports whether the action is allowed from the current state.
func (t *Team) CanPerform(action OnboardingAction) bool {
	return t.guard(action) == nil
}

// AllowedActions returns the actions allowed from the current state, in
// workflow order. A completed team has none.
func (t *Team) AllowedActions() []OnboardingAction {
	allowed := []OnboardingAction{}
	for _, action := range OnboardingActions {
		if t.CanPerform(action) {
			allowed = append(allowed, action)
		}
	}
	return allowed
}

func (t *Team) guard(action OnboardingAction) error {
	rule, ok := onboardingTransitions[action]
	if !ok {
		return fmt.Errorf("%w: unknown action %q", apperrors.ErrInvalidTransition, action)
	}

	current := t.OnboardingStatus
	if current == "" {
		current = StatusNotStarted
	}
	for _, from := range rule.from {
		if current == from {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot %s for team %s while %s", apperrors.ErrInvalidTransition, action, t.ID, current)
}

func (t *Team) openSession(kind SessionType, now time.Time, reason string) {
	start := now.UTC()
	t.Sessions = append(t.Sessions, Session{
		ID:        uuid.NewString(),
		Type:      kind,
		StartTime: start,
		Reason:    reason,
	})
	t.CurrentSessionStart = &start
}

// closeOpenSession ends the open session, if any, and adds its duration to
// the matching total.
func (t *Team) closeOpenSession(now time.Time) {
	for i := len(t.Sessions) - 1; i >= 0; i-- {
		s := &t.Sessions[i]
		if !s.IsOpen() {
			continue
		}

		end := now.UTC()
		s.EndTime = &end
		elapsed := elapsedMillis(s.StartTime, end)
		switch s.Type {
		case SessionActive:
			t.TotalActiveTime += elapsed
		case SessionBreak:
			t.TotalBreakTime += elapsed
		}
		return
	}
}

// OpenSession returns the session that has not been closed, if any.
func OpenSession(t Team) (Session, bool) {
	for i := len(t.Sessions) - 1; i >= 0; i-- {
		if t.Sessions[i].IsOpen() {
			return t.Sessions[i], true
		}
	}
	return Session{}, false
}

// ActiveTime returns the accumulated active milliseconds, including the
// running session when the team is active.
func ActiveTime(t Team, now time.Time) int64 {
	total := max(t.TotalActiveTime, 0)
	if t.OnboardingStatus == StatusActive && t.CurrentSessionStart != nil {
		total += elapsedMillis(*t.CurrentSessionStart, now)
	}
	return total
}

// BreakTime returns the accumulated break milliseconds, including the
// running session when the team is on break.
func BreakTime(t Team, now time.Time) int64 {
	total := max(t.TotalBreakTime, 0)
	if t.OnboardingStatus == StatusOnBreak && t.CurrentSessionStart != nil {
		total += elapsedMillis(*t.CurrentSessionStart, now)
	}
	return total
}

// elapsedMillis clamps clock skew to zero.
func elapsedMillis(start, end time.Time) int64 {
	d := end.Sub(start).Milliseconds()
	if d < 0 {
		return 0
	}
	return d
}
