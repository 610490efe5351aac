package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mw "github.com/lorrc/hackathon-hub/internal/adapters/primary/http/middleware"
	"github.com/lorrc/hackathon-hub/internal/auth"
	"github.com/lorrc/hackathon-hub/internal/core/domain"
	apperrors "github.com/lorrc/hackathon-hub/internal/core/errors"
	"github.com/lorrc/hackathon-hub/internal/core/mocks"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
	"github.com/lorrc/hackathon-hub/internal/core/realtime"
)

type staticCache[T any] struct {
	items []T
}

func (c staticCache[T]) Items() []T { return c.items }

type testAPI struct {
	router        stdhttp.Handler
	tokens        *auth.TokenManager
	auth          *mocks.MockAuthService
	admin         *mocks.MockAdminService
	teams         *mocks.MockTeamService
	timer         *mocks.MockTimeTrackingService
	announcements *mocks.MockAnnouncementService
	schedule      *mocks.MockScheduleService
	volunteers    *mocks.MockVolunteerService
	help          *mocks.MockHelpService
	notifications *realtime.NotificationLogs
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	errorHandler := NewErrorHandler(logger)

	ta := &testAPI{
		tokens:        auth.NewTokenManager("test-secret", time.Hour),
		auth:          mocks.NewMockAuthService(),
		admin:         mocks.NewMockAdminService(),
		teams:         mocks.NewMockTeamService(),
		timer:         mocks.NewMockTimeTrackingService(),
		announcements: mocks.NewMockAnnouncementService(),
		schedule:      mocks.NewMockScheduleService(),
		volunteers:    mocks.NewMockVolunteerService(),
		help:          mocks.NewMockHelpService(),
		notifications: realtime.NewNotificationLogs(),
	}

	api := API{
		Auth:          NewAuthHandler(ta.auth, ta.tokens, errorHandler, logger),
		Admin:         NewAdminHandler(ta.admin, errorHandler, logger),
		Teams:         NewTeamHandler(ta.teams, ta.timer, errorHandler, logger),
		Announcements: NewAnnouncementHandler(ta.announcements, errorHandler, logger),
		Schedule:      NewScheduleHandler(ta.schedule, errorHandler, logger),
		Volunteers:    NewVolunteerHandler(ta.volunteers, errorHandler, logger),
		Help:          NewHelpHandler(ta.help, errorHandler, logger),
		Live: NewLiveHandler(
			staticCache[domain.Team]{items: []domain.Team{{ID: "t1", Name: "Byte Me"}}},
			staticCache[domain.Announcement]{},
			staticCache[domain.HelpRequest]{},
			ta.notifications,
		),
		Guards: NewGuards(ta.tokens, nil),
	}

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Route("/api/v1", api.Routes)
	ta.router = r

	t.Cleanup(func() {
		ta.auth.AssertExpectations(t)
		ta.admin.AssertExpectations(t)
		ta.teams.AssertExpectations(t)
		ta.timer.AssertExpectations(t)
		ta.announcements.AssertExpectations(t)
		ta.schedule.AssertExpectations(t)
		ta.volunteers.AssertExpectations(t)
		ta.help.AssertExpectations(t)
	})
	return ta
}

func (ta *testAPI) token(t *testing.T, role domain.Role, teamID string) string {
	t.Helper()
	token, err := ta.tokens.GenerateToken(&domain.User{ID: "u-" + string(role), Role: role, TeamID: teamID})
	require.NoError(t, err)
	return token
}

func (ta *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	ta.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestAuthHandler_Login(t *testing.T) {
	ta := newTestAPI(t)
	user := &domain.User{ID: "u1", Name: "ana", Email: "ana@example.com", Role: domain.RoleVolunteer}
	ta.auth.On("Login", mock.Anything, domain.LoginParams{
		Email:    "ana@example.com",
		Password: "abc",
		Role:     domain.RoleVolunteer,
	}).Return(user, nil)

	rec := ta.do(t, stdhttp.MethodPost, "/auth/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "abc",
		"role":     "volunteer",
	})

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	resp := decodeBody[LoginResponse](t, rec)
	assert.Equal(t, "u1", resp.User.ID)

	claims, err := ta.tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, domain.RoleVolunteer, claims.Role)
}

func TestAuthHandler_LoginValidation(t *testing.T) {
	ta := newTestAPI(t)
	errs := apperrors.NewValidationErrors()
	errs.Add("password", "Password must be at least 3 characters long")
	ta.auth.On("Login", mock.Anything, mock.Anything).Return(nil, errs)

	rec := ta.do(t, stdhttp.MethodPost, "/auth/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "x",
	})

	require.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
	resp := decodeBody[ValidationErrorResponse](t, rec)
	assert.Contains(t, resp.Fields, "password")
}

func TestAuthHandler_Me(t *testing.T) {
	ta := newTestAPI(t)

	rec := ta.do(t, stdhttp.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)

	ta.auth.On("GetUser", mock.Anything, "u-judge").
		Return(&domain.User{ID: "u-judge", Role: domain.RoleJudge}, nil)

	rec = ta.do(t, stdhttp.MethodGet, "/auth/me", ta.token(t, domain.RoleJudge, ""), nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, domain.RoleJudge, decodeBody[domain.User](t, rec).Role)
}

func TestTeamHandler_ReadsArePublic(t *testing.T) {
	ta := newTestAPI(t)
	ta.teams.On("ListTeams", mock.Anything).Return([]domain.Team{{ID: "t1"}, {ID: "t2"}}, nil)

	rec := ta.do(t, stdhttp.MethodGet, "/teams", "", nil)

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	resp := decodeBody[ListResponse[domain.Team]](t, rec)
	assert.Equal(t, 2, resp.Count)
}

func TestTeamHandler_GetNotFound(t *testing.T) {
	ta := newTestAPI(t)
	ta.teams.On("GetTeam", mock.Anything, "missing").Return(nil, apperrors.ErrTeamNotFound)

	rec := ta.do(t, stdhttp.MethodGet, "/teams/missing", "", nil)

	require.Equal(t, stdhttp.StatusNotFound, rec.Code)
	assert.Equal(t, "TEAM_NOT_FOUND", decodeBody[ErrorResponse](t, rec).Code)
}

func TestTeamHandler_Create(t *testing.T) {
	ta := newTestAPI(t)
	token := ta.token(t, domain.RoleParticipant, "")

	rec := ta.do(t, stdhttp.MethodPost, "/teams", "", map[string]string{"name": "Byte Me"})
	assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)

	rec = ta.do(t, stdhttp.MethodPost, "/teams", token, map[string]string{"name": ""})
	assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)

	ta.teams.On("CreateTeam", mock.Anything, domain.TeamParams{Name: "Byte Me", RoomNumber: "A1"}).
		Return(&domain.Team{ID: "t1", Name: "Byte Me", RoomNumber: "A1"}, nil)

	rec = ta.do(t, stdhttp.MethodPost, "/teams", token, map[string]string{"name": "Byte Me", "roomNumber": "A1"})
	require.Equal(t, stdhttp.StatusCreated, rec.Code)
	assert.Equal(t, "t1", decodeBody[domain.Team](t, rec).ID)
}

func TestTeamHandler_Update(t *testing.T) {
	ta := newTestAPI(t)
	ta.teams.On("UpdateTeam", mock.Anything, "t1", mock.MatchedBy(func(p domain.TeamPatch) bool {
		return p.TableNumber != nil && *p.TableNumber == "12" && p.Name == nil
	})).Return(&domain.Team{ID: "t1", TableNumber: "12"}, nil)

	rec := ta.do(t, stdhttp.MethodPatch, "/teams/t1", ta.token(t, domain.RoleAdmin, ""), map[string]string{"tableNumber": "12"})

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, "12", decodeBody[domain.Team](t, rec).TableNumber)
}

func TestTeamHandler_ScoringRoles(t *testing.T) {
	ta := newTestAPI(t)
	body := map[string]float64{"score": 42}

	rec := ta.do(t, stdhttp.MethodPost, "/teams/t1/score", ta.token(t, domain.RoleParticipant, ""), body)
	assert.Equal(t, stdhttp.StatusForbidden, rec.Code)

	rec = ta.do(t, stdhttp.MethodPost, "/teams/t1/score", ta.token(t, domain.RoleJudge, ""), map[string]float64{"score": -1})
	assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)

	ta.teams.On("UpdateScore", mock.Anything, "t1", 42.0).Return(&domain.Team{ID: "t1", Score: 42}, nil)
	rec = ta.do(t, stdhttp.MethodPost, "/teams/t1/score", ta.token(t, domain.RoleJudge, ""), body)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, 42.0, decodeBody[domain.Team](t, rec).Score)
}

func TestTeamHandler_Judging(t *testing.T) {
	ta := newTestAPI(t)
	ta.teams.On("UpdateJudging", mock.Anything, ports.UpdateJudgingParams{
		TeamID:  "t1",
		Score:   8.5,
		Remarks: "solid demo",
		Round:   "final",
	}).Return(&domain.Team{ID: "t1", Score: 8.5}, nil)

	rec := ta.do(t, stdhttp.MethodPost, "/teams/t1/judging", ta.token(t, domain.RoleAdmin, ""), map[string]any{
		"score":   8.5,
		"remarks": "solid demo",
		"round":   "final",
	})

	assert.Equal(t, stdhttp.StatusOK, rec.Code)
}

func TestTeamHandler_Onboarding(t *testing.T) {
	ta := newTestAPI(t)
	volunteer := ta.token(t, domain.RoleVolunteer, "")

	rec := ta.do(t, stdhttp.MethodPost, "/teams/t1/onboarding/start", ta.token(t, domain.RoleJudge, ""), nil)
	assert.Equal(t, stdhttp.StatusForbidden, rec.Code)

	ta.timer.On("StartOnboarding", mock.Anything, "t1").
		Return(&domain.Team{ID: "t1", OnboardingStatus: domain.StatusActive}, nil)
	rec = ta.do(t, stdhttp.MethodPost, "/teams/t1/onboarding/start", volunteer, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, domain.StatusActive, decodeBody[domain.Team](t, rec).OnboardingStatus)

	ta.timer.On("StartBreak", mock.Anything, "t1", "").
		Return(&domain.Team{ID: "t1", OnboardingStatus: domain.StatusOnBreak}, nil)
	rec = ta.do(t, stdhttp.MethodPost, "/teams/t1/onboarding/break", volunteer, nil)
	assert.Equal(t, stdhttp.StatusOK, rec.Code)

	ta.timer.On("StartBreak", mock.Anything, "t2", "lunch").
		Return(&domain.Team{ID: "t2", OnboardingStatus: domain.StatusOnBreak}, nil)
	rec = ta.do(t, stdhttp.MethodPost, "/teams/t2/onboarding/break", volunteer, map[string]string{"reason": "lunch"})
	assert.Equal(t, stdhttp.StatusOK, rec.Code)

	ta.timer.On("EndBreak", mock.Anything, "t3").
		Return(nil, fmt.Errorf("%w: cannot end break from active", apperrors.ErrInvalidTransition))
	rec = ta.do(t, stdhttp.MethodPost, "/teams/t3/onboarding/resume", volunteer, nil)
	require.Equal(t, stdhttp.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_TRANSITION", decodeBody[ErrorResponse](t, rec).Code)
}

func TestTeamHandler_Timer(t *testing.T) {
	ta := newTestAPI(t)
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	ta.timer.On("Timer", mock.Anything, "t1").Return(&ports.TeamTimer{
		TeamID:              "t1",
		Status:              domain.StatusActive,
		ActiveTime:          90_000,
		CurrentSessionStart: &start,
		AllowedActions:      []domain.OnboardingAction{domain.ActionStartBreak, domain.ActionCompleteOnboarding},
		ComputedAt:          start.Add(90 * time.Second),
	}, nil)

	rec := ta.do(t, stdhttp.MethodGet, "/teams/t1/timer", "", nil)

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	resp := decodeBody[TimerResponse](t, rec)
	assert.Equal(t, int64(90_000), resp.ActiveTime)
	require.NotNil(t, resp.CurrentSessionStart)
	assert.Equal(t, "2026-03-14T09:00:00Z", *resp.CurrentSessionStart)
	assert.Nil(t, resp.BreakReason)
	assert.Equal(t, []string{"break", "complete"}, resp.AllowedActions)
}

func TestAnnouncementHandler_Post(t *testing.T) {
	ta := newTestAPI(t)

	rec := ta.do(t, stdhttp.MethodPost, "/announcements", ta.token(t, domain.RoleAdmin, ""), map[string]string{
		"message":  "Lunch is served",
		"priority": "loud",
	})
	assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)

	ta.announcements.On("PostAnnouncement", mock.Anything, domain.AnnouncementParams{
		Message:  "Lunch is served",
		Author:   "u-admin",
		Priority: domain.PriorityUrgent,
	}).Return(&domain.Announcement{ID: "a1", Message: "Lunch is served"}, nil)

	rec = ta.do(t, stdhttp.MethodPost, "/announcements", ta.token(t, domain.RoleAdmin, ""), map[string]string{
		"message":  "Lunch is served",
		"priority": "urgent",
	})
	assert.Equal(t, stdhttp.StatusCreated, rec.Code)
}

func TestAnnouncementHandler_Delete(t *testing.T) {
	ta := newTestAPI(t)
	ta.announcements.On("DeleteAnnouncement", mock.Anything, "a1").Return(nil)
	ta.announcements.On("DeleteAnnouncement", mock.Anything, "gone").Return(apperrors.ErrAnnouncementNotFound)

	token := ta.token(t, domain.RoleAdmin, "")
	assert.Equal(t, stdhttp.StatusNoContent, ta.do(t, stdhttp.MethodDelete, "/announcements/a1", token, nil).Code)
	assert.Equal(t, stdhttp.StatusNotFound, ta.do(t, stdhttp.MethodDelete, "/announcements/gone", token, nil).Code)
}

func TestScheduleHandler_Replace(t *testing.T) {
	ta := newTestAPI(t)
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	items := []domain.ScheduleItem{{ID: "s1", Title: "Kickoff", StartTime: start, EndTime: start.Add(time.Hour)}}
	ta.schedule.On("UpdateSchedule", mock.Anything, items).Return(items, nil)

	rec := ta.do(t, stdhttp.MethodPut, "/schedule", ta.token(t, domain.RoleAdmin, ""), items)

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeBody[ListResponse[domain.ScheduleItem]](t, rec).Count)
}

func TestVolunteerHandler_Assign(t *testing.T) {
	ta := newTestAPI(t)
	token := ta.token(t, domain.RoleAdmin, "")

	rec := ta.do(t, stdhttp.MethodPost, "/volunteers/v1/assignments", token, map[string]any{})
	assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)

	ta.volunteers.On("AssignVolunteer", mock.Anything, "v1", []string{"t1", "t2"}).
		Return(&domain.Volunteer{ID: "v1", AssignedTeamIDs: []string{"t1", "t2"}}, nil)

	rec = ta.do(t, stdhttp.MethodPost, "/volunteers/v1/assignments", token, map[string]any{"teamIds": []string{"t1", "t2"}})
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, []string{"t1", "t2"}, decodeBody[domain.Volunteer](t, rec).AssignedTeamIDs)
}

func TestHelpHandler_Request(t *testing.T) {
	ta := newTestAPI(t)

	rec := ta.do(t, stdhttp.MethodPost, "/help-requests", ta.token(t, domain.RoleParticipant, ""), map[string]string{"message": "wifi"})
	assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)

	ta.help.On("RequestHelp", mock.Anything, "t7", "wifi").
		Return(&domain.HelpRequest{ID: "h1", TeamID: "t7", Status: domain.HelpPending}, nil)

	rec = ta.do(t, stdhttp.MethodPost, "/help-requests", ta.token(t, domain.RoleParticipant, "t7"), map[string]string{"message": "wifi"})
	require.Equal(t, stdhttp.StatusCreated, rec.Code)
	assert.Equal(t, "t7", decodeBody[domain.HelpRequest](t, rec).TeamID)
}

func TestHelpHandler_UpdateStatus(t *testing.T) {
	ta := newTestAPI(t)
	token := ta.token(t, domain.RoleVolunteer, "")

	rec := ta.do(t, stdhttp.MethodPatch, "/help-requests/h1", token, map[string]string{"status": "ignored"})
	assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)

	ta.help.On("UpdateHelpRequestStatus", mock.Anything, "h1", domain.HelpAcknowledged, "v1").
		Return(&domain.HelpRequest{ID: "h1", Status: domain.HelpAcknowledged}, nil)

	rec = ta.do(t, stdhttp.MethodPatch, "/help-requests/h1", token, map[string]string{"status": "acknowledged", "volunteerId": "v1"})
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, domain.HelpAcknowledged, decodeBody[domain.HelpRequest](t, rec).Status)
}

func TestAdminHandler(t *testing.T) {
	ta := newTestAPI(t)
	ta.admin.On("Snapshot", mock.Anything).Return(&domain.Document{Teams: []domain.Team{{ID: "t1"}}}, nil)

	rec := ta.do(t, stdhttp.MethodGet, "/state", "", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Len(t, decodeBody[domain.Document](t, rec).Teams, 1)

	rec = ta.do(t, stdhttp.MethodPost, "/admin/reset", ta.token(t, domain.RoleVolunteer, ""), nil)
	assert.Equal(t, stdhttp.StatusForbidden, rec.Code)

	ta.admin.On("ResetDocument", mock.Anything).Return(&domain.Document{}, nil)
	rec = ta.do(t, stdhttp.MethodPost, "/admin/reset", ta.token(t, domain.RoleAdmin, ""), nil)
	assert.Equal(t, stdhttp.StatusOK, rec.Code)
}

func TestLiveHandler(t *testing.T) {
	ta := newTestAPI(t)

	rec := ta.do(t, stdhttp.MethodGet, "/live/teams", "", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeBody[ListResponse[domain.Team]](t, rec).Count)

	rec = ta.do(t, stdhttp.MethodGet, "/live/help-requests", "", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, 0, decodeBody[ListResponse[domain.HelpRequest]](t, rec).Count)

	evt, err := domain.NewEvent(domain.EventTeamCheckedIn, domain.Team{ID: "t1", Name: "Byte Me"})
	require.NoError(t, err)
	require.True(t, ta.notifications.Apply(evt))
	require.True(t, ta.notifications.Apply(evt))

	assert.Equal(t, stdhttp.StatusUnauthorized, ta.do(t, stdhttp.MethodGet, "/notifications", "", nil).Code)
	assert.Equal(t, stdhttp.StatusUnauthorized, ta.do(t, stdhttp.MethodDelete, "/notifications", "", nil).Code)
	assert.Equal(t, stdhttp.StatusUnauthorized, ta.do(t, stdhttp.MethodPost, "/notifications/read-all", "", nil).Code)

	viewer := ta.token(t, domain.RoleVolunteer, "")

	rec = ta.do(t, stdhttp.MethodGet, "/notifications", viewer, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	resp := decodeBody[NotificationsResponse](t, rec)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, 2, resp.UnreadCount)

	assert.Equal(t, stdhttp.StatusNotFound, ta.do(t, stdhttp.MethodPost, "/notifications/nope/read", viewer, nil).Code)
	assert.Equal(t, stdhttp.StatusNoContent, ta.do(t, stdhttp.MethodPost, "/notifications/"+resp.Entries[0].ID+"/read", viewer, nil).Code)
	assert.Equal(t, 1, ta.notifications.For("u-volunteer").UnreadCount())

	rec = ta.do(t, stdhttp.MethodGet, "/notifications?unread=true", viewer, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	unread := decodeBody[NotificationsResponse](t, rec)
	require.Len(t, unread.Entries, 1)
	assert.Equal(t, resp.Entries[1].ID, unread.Entries[0].ID)

	assert.Equal(t, stdhttp.StatusNoContent, ta.do(t, stdhttp.MethodPost, "/notifications/read-all", viewer, nil).Code)
	assert.Equal(t, 0, ta.notifications.For("u-volunteer").UnreadCount())

	assert.Equal(t, stdhttp.StatusNoContent, ta.do(t, stdhttp.MethodDelete, "/notifications", viewer, nil).Code)
	assert.Empty(t, ta.notifications.For("u-volunteer").Entries())
}

func TestLiveHandler_NotificationStateIsPerViewer(t *testing.T) {
	ta := newTestAPI(t)

	evt, err := domain.NewEvent(domain.EventTeamSubmitted, domain.Team{ID: "t1", Name: "Byte Me"})
	require.NoError(t, err)
	require.True(t, ta.notifications.Apply(evt))

	alice := ta.token(t, domain.RoleVolunteer, "")
	bob := ta.token(t, domain.RoleJudge, "")

	unreadFor := func(token string) NotificationsResponse {
		rec := ta.do(t, stdhttp.MethodGet, "/notifications", token, nil)
		require.Equal(t, stdhttp.StatusOK, rec.Code)
		return decodeBody[NotificationsResponse](t, rec)
	}

	require.Equal(t, 1, unreadFor(alice).UnreadCount)
	require.Equal(t, 1, unreadFor(bob).UnreadCount)

	require.Equal(t, stdhttp.StatusNoContent, ta.do(t, stdhttp.MethodPost, "/notifications/read-all", alice, nil).Code)
	assert.Equal(t, 0, unreadFor(alice).UnreadCount)
	assert.Equal(t, 1, unreadFor(bob).UnreadCount)

	require.Equal(t, stdhttp.StatusNoContent, ta.do(t, stdhttp.MethodDelete, "/notifications", bob, nil).Code)
	assert.Empty(t, unreadFor(bob).Entries)
	assert.Len(t, unreadFor(alice).Entries, 1)

	// Events after creation reach both logs.
	require.True(t, ta.notifications.Apply(evt))
	assert.Equal(t, 1, unreadFor(alice).UnreadCount)
	assert.Equal(t, 1, unreadFor(bob).UnreadCount)
	assert.Equal(t, 2, ta.notifications.Viewers())
}

type stubChecker struct {
	err error
}

func (s stubChecker) Ping(context.Context) error { return s.err }

func TestHealthHandler(t *testing.T) {
	r := chi.NewRouter()
	NewHealthHandler(map[string]HealthChecker{
		"postgres": stubChecker{},
		"redis":    stubChecker{err: errors.New("connection refused")},
	}, "test", WithGauge("websocket_clients", func() int { return 3 })).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/health/live", nil))
	assert.Equal(t, stdhttp.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/health/ready", nil))
	require.Equal(t, stdhttp.StatusServiceUnavailable, rec.Code)
	resp := decodeBody[HealthResponse](t, rec)
	assert.Equal(t, "healthy", resp.Checks["postgres"].Status)
	assert.Equal(t, "unhealthy", resp.Checks["redis"].Status)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/health", nil))
	require.Equal(t, stdhttp.StatusServiceUnavailable, rec.Code)
	detailed := decodeBody[DetailedHealthResponse](t, rec)
	assert.Equal(t, "degraded", detailed.Status)
	assert.Equal(t, 3, detailed.Realtime["websocket_clients"])
	assert.Positive(t, detailed.Goroutines)

	memoryOnly := chi.NewRouter()
	NewHealthHandler(nil, "test").RegisterRoutes(memoryOnly)
	rec = httptest.NewRecorder()
	memoryOnly.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/health/ready", nil))
	assert.Equal(t, stdhttp.StatusOK, rec.Code)
}
