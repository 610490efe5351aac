package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	apperrors "github.com/lorrc/hackathon-hub/internal/core/errors"
	"github.com/lorrc/hackathon-hub/internal/core/mocks"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
	"github.com/lorrc/hackathon-hub/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTeamService_OperationsPublishOneEvent(t *testing.T) {
	ctx := context.Background()
	room := "B2"

	tests := map[string]struct {
		call func(svc *services.TeamService) (*domain.Team, error)
		want domain.EventType
	}{
		"create": {
			call: func(svc *services.TeamService) (*domain.Team, error) {
				return svc.CreateTeam(ctx, domain.TeamParams{Name: "Segfaults"})
			},
			want: domain.EventTeamCreated,
		},
		"update": {
			call: func(svc *services.TeamService) (*domain.Team, error) {
				return svc.UpdateTeam(ctx, "team-1", domain.TeamPatch{RoomNumber: &room})
			},
			want: domain.EventTeamUpdated,
		},
		"check in": {
			call: func(svc *services.TeamService) (*domain.Team, error) {
				return svc.CheckInTeam(ctx, "team-1")
			},
			want: domain.EventTeamCheckedIn,
		},
		"submit": {
			call: func(svc *services.TeamService) (*domain.Team, error) {
				return svc.SubmitProject(ctx, "team-1", domain.Submission{ProjectURL: "https://example.com/demo"})
			},
			want: domain.EventTeamSubmitted,
		},
		"score": {
			call: func(svc *services.TeamService) (*domain.Team, error) {
				return svc.UpdateScore(ctx, "team-1", 42)
			},
			want: domain.EventScoreUpdated,
		},
		"judging": {
			call: func(svc *services.TeamService) (*domain.Team, error) {
				return svc.UpdateJudging(ctx, ports.UpdateJudgingParams{TeamID: "team-1", Score: 7, Round: "round1"})
			},
			want: domain.EventScoreUpdated,
		},
		"assign judge": {
			call: func(svc *services.TeamService) (*domain.Team, error) {
				return svc.AssignJudge(ctx, "team-1", "judge-1")
			},
			want: domain.EventTeamUpdated,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			svc := services.NewTeamService(h.deps)

			team, err := tt.call(svc)
			require.NoError(t, err)

			assert.Equal(t, []domain.EventType{tt.want}, h.events.types())

			var payload domain.Team
			require.NoError(t, h.events.last(t).Decode(&payload))
			assert.Equal(t, team.ID, payload.ID)
			assert.Equal(t, testStart, h.events.last(t).Timestamp)
		})
	}
}

func TestTeamService_UpdateTeam(t *testing.T) {
	ctx := context.Background()

	t.Run("without broadcast", func(t *testing.T) {
		h := newHarness(t)
		svc := services.NewTeamService(h.deps)
		name := "Renamed"

		team, err := svc.UpdateTeam(ctx, "team-1", domain.TeamPatch{Name: &name}, ports.WithoutBroadcast())
		require.NoError(t, err)
		assert.Equal(t, "Renamed", team.Name)
		assert.Empty(t, h.events.types())
		assert.Equal(t, "Renamed", h.team(t, "team-1").Name)
	})

	t.Run("unknown team", func(t *testing.T) {
		h := newHarness(t)
		svc := services.NewTeamService(h.deps)

		_, err := svc.UpdateTeam(ctx, "team-404", domain.TeamPatch{})
		assert.ErrorIs(t, err, apperrors.ErrTeamNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Empty(t, h.events.types())
	})

	t.Run("invalid patch is not written", func(t *testing.T) {
		h := newHarness(t)
		svc := services.NewTeamService(h.deps)
		blank := "  "

		_, err := svc.UpdateTeam(ctx, "team-1", domain.TeamPatch{Name: &blank})
		assert.ErrorIs(t, err, apperrors.ErrTeamNameRequired)
		assert.Equal(t, "Null Pointers", h.team(t, "team-1").Name)
		assert.Empty(t, h.events.types())
	})
}

func TestTeamService_CheckInKeepsFirstTime(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	svc := services.NewTeamService(h.deps)

	_, err := svc.CheckInTeam(ctx, "team-1")
	require.NoError(t, err)
	h.clock.Advance(10 * time.Minute)
	team, err := svc.CheckInTeam(ctx, "team-1")
	require.NoError(t, err)

	assert.True(t, team.CheckedIn)
	require.NotNil(t, team.CheckInTime)
	assert.Equal(t, testStart, *team.CheckInTime)
}

func TestTeamService_UpdateJudging(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	svc := services.NewTeamService(h.deps)

	_, err := svc.UpdateJudging(ctx, ports.UpdateJudgingParams{TeamID: "team-1", Score: 7, Round: "round1"})
	require.NoError(t, err)
	team, err := svc.UpdateJudging(ctx, ports.UpdateJudgingParams{TeamID: "team-1", Score: 5, Remarks: "Solid demo", Round: "round2"})
	require.NoError(t, err)

	assert.Equal(t, 12.0, team.Score)
	assert.Equal(t, map[string]float64{"round1": 7, "round2": 5}, team.RoundScores)
	assert.Equal(t, "Solid demo", team.JudgeRemarks)

	team, err = svc.UpdateJudging(ctx, ports.UpdateJudgingParams{TeamID: "team-1", Score: 3})
	require.NoError(t, err)
	assert.Equal(t, 3.0, team.Score)

	_, err = svc.UpdateJudging(ctx, ports.UpdateJudgingParams{TeamID: "team-1", Score: -1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidScore)
}

func TestTeamService_AssignJudge(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	svc := services.NewTeamService(h.deps)

	team, err := svc.AssignJudge(ctx, "team-2", "judge-1")
	require.NoError(t, err)
	assert.Equal(t, "judge-1", team.AssignedJudgeID)

	_, err = svc.AssignJudge(ctx, "team-2", "judge-1")
	require.NoError(t, err)
	judge, ok := h.load(t).FindJudge("judge-1")
	require.True(t, ok)
	assert.Equal(t, []string{"team-2"}, judge.AssignedTeamIDs)

	_, err = svc.AssignJudge(ctx, "team-2", "judge-404")
	assert.ErrorIs(t, err, apperrors.ErrJudgeNotFound)
}

func TestTeamService_CreateTeamValidation(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockDocumentRepository()
	publisher := mocks.NewMockEventPublisher()
	svc := services.NewTeamService(services.Dependencies{Store: store, Publisher: publisher})

	_, err := svc.CreateTeam(ctx, domain.TeamParams{Name: ""})

	assert.ErrorIs(t, err, apperrors.ErrTeamNameRequired)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestTeamService_PublishesAfterWrite(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockDocumentRepository()
	publisher := mocks.NewMockEventPublisher()
	svc := services.NewTeamService(services.Dependencies{Store: store, Publisher: publisher})

	store.On("Update", ctx, mock.Anything).Return(domain.SeedDocument(testStart), nil)
	publisher.On("Publish", ctx, mock.MatchedBy(func(evt domain.Event) bool {
		return evt.Type == domain.EventScoreUpdated
	})).Once()

	team, err := svc.UpdateScore(ctx, "team-2", 9.5)
	require.NoError(t, err)
	assert.Equal(t, 9.5, team.Score)

	store.AssertExpectations(t)
	publisher.AssertExpectations(t)
}
