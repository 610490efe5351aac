package services

import (
	"context"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

// TeamService implements the collaborator operations on teams. Each
// operation is one document update followed by exactly one event.
type TeamService struct {
	base
}

var _ ports.TeamService = (*TeamService)(nil)

// NewTeamService creates a new team service
func NewTeamService(deps Dependencies) *TeamService {
	return &TeamService{base: newBase(deps, "team_service")}
}

func (s *TeamService) ListTeams(ctx context.Context) ([]domain.Team, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Teams, nil
}

func (s *TeamService) GetTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	team, ok := doc.FindTeam(teamID)
	if !ok {
		return nil, errTeamNotFound(teamID)
	}
	return team, nil
}

// CreateTeam registers a team and publishes TEAM_CREATED.
func (s *TeamService) CreateTeam(ctx context.Context, params domain.TeamParams) (*domain.Team, error) {
	team, err := domain.NewTeam(params, s.now())
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Update(ctx, func(doc *domain.Document) error {
		doc.Teams = append(doc.Teams, *team)
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.Info("Team created", "team_id", team.ID)
	s.publishTeam(ctx, domain.EventTeamCreated, *team)
	return team, nil
}

// UpdateTeam merges patch into the team and publishes TEAM_UPDATED unless
// ports.WithoutBroadcast is passed.
func (s *TeamService) UpdateTeam(ctx context.Context, teamID string, patch domain.TeamPatch, opts ...ports.UpdateOption) (*domain.Team, error) {
	return s.mutate(ctx, teamID, patch.Apply, opts...)
}

// CheckInTeam marks the team as arrived and publishes TEAM_CHECKED_IN in
// place of the generic update event.
func (s *TeamService) CheckInTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	team, err := s.mutate(ctx, teamID, func(t *domain.Team) error {
		t.CheckIn(s.now())
		return nil
	}, ports.WithoutBroadcast())
	if err != nil {
		return nil, err
	}

	s.publishTeam(ctx, domain.EventTeamCheckedIn, *team)
	return team, nil
}

// SubmitProject records the submission and publishes TEAM_SUBMITTED.
func (s *TeamService) SubmitProject(ctx context.Context, teamID string, submission domain.Submission) (*domain.Team, error) {
	team, err := s.mutate(ctx, teamID, func(t *domain.Team) error {
		return t.Submit(submission, s.now())
	}, ports.WithoutBroadcast())
	if err != nil {
		return nil, err
	}

	s.publishTeam(ctx, domain.EventTeamSubmitted, *team)
	return team, nil
}

// UpdateScore sets the overall score and publishes SCORE_UPDATED.
func (s *TeamService) UpdateScore(ctx context.Context, teamID string, score float64) (*domain.Team, error) {
	team, err := s.mutate(ctx, teamID, func(t *domain.Team) error {
		return t.SetScore(score)
	}, ports.WithoutBroadcast())
	if err != nil {
		return nil, err
	}

	s.publishTeam(ctx, domain.EventScoreUpdated, *team)
	return team, nil
}

// UpdateJudging records a judging result and publishes SCORE_UPDATED.
func (s *TeamService) UpdateJudging(ctx context.Context, params ports.UpdateJudgingParams) (*domain.Team, error) {
	team, err := s.mutate(ctx, params.TeamID, func(t *domain.Team) error {
		return t.Judge(params.Score, params.Remarks, params.Round)
	}, ports.WithoutBroadcast())
	if err != nil {
		return nil, err
	}

	s.publishTeam(ctx, domain.EventScoreUpdated, *team)
	return team, nil
}

// AssignJudge links a judge and a team and publishes TEAM_UPDATED.
func (s *TeamService) AssignJudge(ctx context.Context, teamID, judgeID string) (*domain.Team, error) {
	var updated domain.Team
	_, err := s.store.Update(ctx, func(doc *domain.Document) error {
		team, ok := doc.FindTeam(teamID)
		if !ok {
			return errTeamNotFound(teamID)
		}
		judge, ok := doc.FindJudge(judgeID)
		if !ok {
			return errJudgeNotFound(judgeID)
		}

		team.AssignedJudgeID = judge.ID
		judge.AssignedTeamIDs = appendUnique(judge.AssignedTeamIDs, team.ID)
		updated = *team
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishTeam(ctx, domain.EventTeamUpdated, updated)
	return &updated, nil
}

func (s *TeamService) mutate(ctx context.Context, teamID string, fn func(*domain.Team) error, opts ...ports.UpdateOption) (*domain.Team, error) {
	options := ports.ApplyUpdateOptions(opts...)

	team, err := s.updateTeam(ctx, teamID, fn)
	if err != nil {
		return nil, err
	}

	if options.Broadcast {
		s.publishTeam(ctx, domain.EventTeamUpdated, *team)
	}
	return team, nil
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
