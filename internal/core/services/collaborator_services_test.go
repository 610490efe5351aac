package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	apperrors "github.com/lorrc/hackathon-hub/internal/core/errors"
	"github.com/lorrc/hackathon-hub/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnouncementService(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	svc := services.NewAnnouncementService(h.deps)

	first, err := svc.PostAnnouncement(ctx, domain.AnnouncementParams{Message: "Lunch is served", Author: "Ops"})
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityNormal, first.Priority)

	h.clock.Advance(time.Minute)
	second, err := svc.PostAnnouncement(ctx, domain.AnnouncementParams{Message: "Fire drill", Priority: domain.PriorityUrgent})
	require.NoError(t, err)

	list, err := svc.ListAnnouncements(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, []domain.EventType{domain.EventAnnouncementPosted, domain.EventAnnouncementPosted}, h.events.types())

	t.Run("validation", func(t *testing.T) {
		_, err := svc.PostAnnouncement(ctx, domain.AnnouncementParams{Message: " "})
		assert.ErrorIs(t, err, apperrors.ErrMessageRequired)

		_, err = svc.PostAnnouncement(ctx, domain.AnnouncementParams{Message: "hi", Priority: "critical"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidPriority)
	})

	t.Run("delete does not broadcast", func(t *testing.T) {
		h.events.reset()
		require.NoError(t, svc.DeleteAnnouncement(ctx, first.ID))
		assert.Empty(t, h.events.types())

		err := svc.DeleteAnnouncement(ctx, first.ID)
		assert.ErrorIs(t, err, apperrors.ErrAnnouncementNotFound)
	})
}

func TestVolunteerService_AssignVolunteer(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	svc := services.NewVolunteerService(h.deps)

	volunteer, err := svc.AssignVolunteer(ctx, "vol-1", []string{"team-1", "team-2", "team-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"team-1", "team-2"}, volunteer.AssignedTeamIDs)
	assert.Equal(t, "vol-1", h.team(t, "team-2").AssignedVolunteerID)

	var payload domain.VolunteerAssignedPayload
	require.NoError(t, h.events.last(t).Decode(&payload))
	assert.Equal(t, domain.EventVolunteerAssigned, h.events.last(t).Type)
	assert.Equal(t, "vol-1", payload.VolunteerID)
	assert.Equal(t, []string{"team-1", "team-2"}, payload.TeamIDs)

	_, err = svc.AssignVolunteer(ctx, "vol-404", nil)
	assert.ErrorIs(t, err, apperrors.ErrVolunteerNotFound)

	_, err = svc.AssignVolunteer(ctx, "vol-1", []string{"team-404"})
	assert.ErrorIs(t, err, apperrors.ErrTeamNotFound)
	assert.Len(t, h.events.types(), 1)
}

func TestHelpService(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	svc := services.NewHelpService(h.deps)

	request, err := svc.RequestHelp(ctx, "team-1", " Wifi is down ")
	require.NoError(t, err)
	assert.Equal(t, domain.HelpPending, request.Status)
	assert.Equal(t, "Null Pointers", request.TeamName)
	assert.Equal(t, "A1", request.RoomNumber)
	assert.Equal(t, "Wifi is down", request.Message)
	assert.Equal(t, []domain.EventType{domain.EventHelpRequested}, h.events.types())

	updated, err := svc.UpdateHelpRequestStatus(ctx, request.ID, domain.HelpAcknowledged, "vol-1")
	require.NoError(t, err)
	assert.Equal(t, domain.HelpAcknowledged, updated.Status)
	assert.Equal(t, "vol-1", updated.AssignedVolunteerID)
	assert.Len(t, h.events.types(), 1, "status updates are not broadcast")

	list, err := svc.ListHelpRequests(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.HelpAcknowledged, list[0].Status)

	_, err = svc.UpdateHelpRequestStatus(ctx, request.ID, "escalated", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidHelpStatus)

	_, err = svc.UpdateHelpRequestStatus(ctx, "help-404", domain.HelpResolved, "")
	assert.ErrorIs(t, err, apperrors.ErrHelpRequestNotFound)

	_, err = svc.RequestHelp(ctx, "team-404", "")
	assert.ErrorIs(t, err, apperrors.ErrTeamNotFound)
}

func TestScheduleService_UpdateSchedule(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	svc := services.NewScheduleService(h.deps)

	items := []domain.ScheduleItem{
		{Title: "Closing", StartTime: testStart.Add(3 * time.Hour)},
		{ID: "kickoff", Title: "Kickoff", StartTime: testStart, EndTime: testStart.Add(time.Hour)},
	}
	schedule, err := svc.UpdateSchedule(ctx, items)
	require.NoError(t, err)
	require.Len(t, schedule, 2)
	assert.Equal(t, "kickoff", schedule[0].ID)
	assert.NotEmpty(t, schedule[1].ID)

	var payload domain.ScheduleUpdatedPayload
	require.NoError(t, h.events.last(t).Decode(&payload))
	assert.Len(t, payload.Schedule, 2)

	stored, err := svc.GetSchedule(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Kickoff", stored[0].Title)

	t.Run("invalid items", func(t *testing.T) {
		_, err := svc.UpdateSchedule(ctx, []domain.ScheduleItem{
			{Title: "", StartTime: testStart},
			{Title: "Backwards", StartTime: testStart, EndTime: testStart.Add(-time.Hour)},
		})
		var validationErr *apperrors.ValidationErrors
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Errors, "schedule[0].title")
		assert.Contains(t, validationErr.Errors, "schedule[1].endTime")
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	svc := services.NewAuthService(h.deps)

	t.Run("known user", func(t *testing.T) {
		user, err := svc.Login(ctx, domain.LoginParams{Email: "ADMIN@hackathon.local", Password: "abc"})
		require.NoError(t, err)
		assert.Equal(t, "user-admin", user.ID)
		assert.Equal(t, domain.RoleAdmin, user.Role)
		assert.Empty(t, h.events.types())
	})

	t.Run("unknown user registers", func(t *testing.T) {
		user, err := svc.Login(ctx, domain.LoginParams{Email: "new@example.com", Password: "abc", Role: domain.RoleVolunteer})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleVolunteer, user.Role)
		assert.Equal(t, []domain.EventType{domain.EventUserJoined}, h.events.types())

		again, err := svc.Login(ctx, domain.LoginParams{Email: "new@example.com", Password: "xyz"})
		require.NoError(t, err)
		assert.Equal(t, user.ID, again.ID)
		assert.Len(t, h.events.types(), 1)

		fetched, err := svc.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", fetched.Email)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.Login(ctx, domain.LoginParams{Email: "x@example.com", Password: "ab"})
		var validationErr *apperrors.ValidationErrors
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.GetUser(ctx, "user-404")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestAdminService(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	svc := services.NewAdminService(h.deps)
	teams := services.NewTeamService(h.deps)

	_, err := teams.CreateTeam(ctx, domain.TeamParams{Name: "Extra"})
	require.NoError(t, err)

	snapshot, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.Teams, 3)

	h.events.reset()
	doc, err := svc.ResetDocument(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Teams, 2)
	assert.Empty(t, h.events.types())
}
