package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/hackathon-hub/internal/adapters/primary/validation"
	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

// TeamHandler serves the team roster, scoring and time tracking.
type TeamHandler struct {
	teamService  ports.TeamService
	timeService  ports.TimeTrackingService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

func NewTeamHandler(
	teamService ports.TeamService,
	timeService ports.TimeTrackingService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *TeamHandler {
	return &TeamHandler{
		teamService:  teamService,
		timeService:  timeService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "team"),
	}
}

func (h *TeamHandler) RegisterRoutes(r chi.Router, g Guards) {
	r.Get("/", h.HandleListTeams)
	r.With(g.Write()...).Post("/", h.HandleCreateTeam)

	r.Route("/{teamID}", func(r chi.Router) {
		r.Get("/", h.HandleGetTeam)
		r.Get("/timer", h.HandleTimer)

		r.With(g.Write()...).Patch("/", h.HandleUpdateTeam)
		r.With(g.Write()...).Post("/check-in", h.HandleCheckIn)
		r.With(g.Write()...).Post("/submission", h.HandleSubmit)

		judging := g.Write(domain.RoleAdmin, domain.RoleJudge)
		r.With(judging...).Post("/score", h.HandleScore)
		r.With(judging...).Post("/judging", h.HandleJudging)
		r.With(g.Write(domain.RoleAdmin)...).Post("/judge", h.HandleAssignJudge)

		r.Route("/onboarding", func(r chi.Router) {
			r.Use(g.Write(domain.RoleAdmin, domain.RoleVolunteer)...)
			r.Post("/start", h.HandleStartOnboarding)
			r.Post("/break", h.HandleStartBreak)
			r.Post("/resume", h.HandleEndBreak)
			r.Post("/complete", h.HandleCompleteOnboarding)
		})
	})
}

// CreateTeamRequest is the body of POST /teams
type CreateTeamRequest struct {
	Name               string              `json:"name"`
	Members            []domain.TeamMember `json:"members"`
	ProblemStatementID string              `json:"problemStatementId"`
	RoomNumber         string              `json:"roomNumber"`
	TableNumber        string              `json:"tableNumber"`
}

func (r *CreateTeamRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("name", r.Name).
		MaxLength("name", r.Name, domain.MaxTeamNameLength).
		Custom("members", len(r.Members) <= domain.MaxTeamMembers, "Too many members")

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateTeamRequest is the body of PATCH /teams/{teamID}. Absent fields are
// left unchanged.
type UpdateTeamRequest struct {
	Name                *string                    `json:"name"`
	Members             []domain.TeamMember        `json:"members"`
	ProblemStatementID  *string                    `json:"problemStatementId"`
	RoomNumber          *string                    `json:"roomNumber"`
	TableNumber         *string                    `json:"tableNumber"`
	AssignedVolunteerID *string                    `json:"assignedVolunteerId"`
	AssignedJudgeID     *string                    `json:"assignedJudgeId"`
	Extensions          map[string]json.RawMessage `json:"extensions"`
}

func (r *UpdateTeamRequest) Validate() error {
	v := validation.NewValidator()

	if r.Name != nil {
		v.Required("name", *r.Name).
			MaxLength("name", *r.Name, domain.MaxTeamNameLength)
	}
	v.Custom("members", len(r.Members) <= domain.MaxTeamMembers, "Too many members")

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

func (r *UpdateTeamRequest) toPatch() domain.TeamPatch {
	return domain.TeamPatch{
		Name:                r.Name,
		Members:             r.Members,
		ProblemStatementID:  r.ProblemStatementID,
		RoomNumber:          r.RoomNumber,
		TableNumber:         r.TableNumber,
		AssignedVolunteerID: r.AssignedVolunteerID,
		AssignedJudgeID:     r.AssignedJudgeID,
		Extensions:          r.Extensions,
	}
}

// SubmissionRequest is the body of POST /teams/{teamID}/submission
type SubmissionRequest struct {
	ProjectURL    string `json:"projectUrl"`
	RepositoryURL string `json:"repositoryUrl"`
	Description   string `json:"description"`
}

func (r *SubmissionRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("projectUrl", r.ProjectURL).
		MaxLength("description", r.Description, 2000)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

type ScoreRequest struct {
	Score *float64 `json:"score"`
}

func (r *ScoreRequest) Validate() error {
	v := validation.NewValidator()

	v.NotNil("score", r.Score)
	if r.Score != nil {
		v.NonNegative("score", *r.Score)
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

type JudgingRequest struct {
	Score   *float64 `json:"score"`
	Remarks string   `json:"remarks"`
	Round   string   `json:"round"`
}

func (r *JudgingRequest) Validate() error {
	v := validation.NewValidator()

	v.NotNil("score", r.Score)
	if r.Score != nil {
		v.NonNegative("score", *r.Score)
	}
	v.MaxLength("remarks", r.Remarks, 2000)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

type AssignJudgeRequest struct {
	JudgeID string `json:"judgeId"`
}

func (r *AssignJudgeRequest) Validate() error {
	v := validation.NewValidator()
	v.Required("judgeId", r.JudgeID)
	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

type BreakRequest struct {
	Reason string `json:"reason"`
}

func (r *BreakRequest) Validate() error {
	v := validation.NewValidator()
	v.MaxLength("reason", r.Reason, 200)
	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// TimerResponse is a live read of a team's tracked time, in milliseconds.
type TimerResponse struct {
	TeamID              string                  `json:"teamId"`
	Status              domain.OnboardingStatus `json:"status"`
	ActiveTime          int64                   `json:"activeTime"`
	BreakTime           int64                   `json:"breakTime"`
	CurrentSessionStart *string                 `json:"currentSessionStart"`
	BreakReason         *string                 `json:"breakReason"`
	AllowedActions      []string                `json:"allowedActions"`
	ComputedAt          string                  `json:"computedAt"`
}

// actionRoute names each onboarding action by its route segment.
var actionRoute = map[domain.OnboardingAction]string{
	domain.ActionStartOnboarding:    "start",
	domain.ActionStartBreak:         "break",
	domain.ActionEndBreak:           "resume",
	domain.ActionCompleteOnboarding: "complete",
}

func toTimerResponse(t *ports.TeamTimer) TimerResponse {
	var start *string
	if t.CurrentSessionStart != nil {
		value := t.CurrentSessionStart.UTC().Format(time.RFC3339Nano)
		start = &value
	}
	actions := make([]string, 0, len(t.AllowedActions))
	for _, action := range t.AllowedActions {
		actions = append(actions, actionRoute[action])
	}
	return TimerResponse{
		TeamID:              t.TeamID,
		Status:              t.Status,
		ActiveTime:          t.ActiveTime,
		BreakTime:           t.BreakTime,
		CurrentSessionStart: start,
		BreakReason:         t.BreakReason,
		AllowedActions:      actions,
		ComputedAt:          t.ComputedAt.UTC().Format(time.RFC3339Nano),
	}
}

// HandleListTeams handles GET /teams
func (h *TeamHandler) HandleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.ListTeams(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	WriteList(w, teams)
}

// HandleGetTeam handles GET /teams/{teamID}
func (h *TeamHandler) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamService.GetTeam(r.Context(), teamID(r))
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, team)
}

// HandleCreateTeam handles POST /teams
func (h *TeamHandler) HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[CreateTeamRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), domain.TeamParams{
		Name:               req.Name,
		Members:            req.Members,
		ProblemStatementID: req.ProblemStatementID,
		RoomNumber:         req.RoomNumber,
		TableNumber:        req.TableNumber,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteCreated(w, team)
}

// HandleUpdateTeam handles PATCH /teams/{teamID}
func (h *TeamHandler) HandleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[UpdateTeamRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	team, err := h.teamService.UpdateTeam(r.Context(), teamID(r), req.toPatch())
	h.writeTeam(w, r, team, err)
}

// HandleCheckIn handles POST /teams/{teamID}/check-in
func (h *TeamHandler) HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamService.CheckInTeam(r.Context(), teamID(r))
	h.writeTeam(w, r, team, err)
}

// HandleSubmit handles POST /teams/{teamID}/submission
func (h *TeamHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[SubmissionRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	team, err := h.teamService.SubmitProject(r.Context(), teamID(r), domain.Submission{
		ProjectURL:    req.ProjectURL,
		RepositoryURL: req.RepositoryURL,
		Description:   req.Description,
	})
	h.writeTeam(w, r, team, err)
}

// HandleScore handles POST /teams/{teamID}/score
func (h *TeamHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[ScoreRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	team, err := h.teamService.UpdateScore(r.Context(), teamID(r), *req.Score)
	h.writeTeam(w, r, team, err)
}

// HandleJudging handles POST /teams/{teamID}/judging
func (h *TeamHandler) HandleJudging(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[JudgingRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	team, err := h.teamService.UpdateJudging(r.Context(), ports.UpdateJudgingParams{
		TeamID:  teamID(r),
		Score:   *req.Score,
		Remarks: req.Remarks,
		Round:   req.Round,
	})
	h.writeTeam(w, r, team, err)
}

// HandleAssignJudge handles POST /teams/{teamID}/judge
func (h *TeamHandler) HandleAssignJudge(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[AssignJudgeRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	team, err := h.teamService.AssignJudge(r.Context(), teamID(r), req.JudgeID)
	h.writeTeam(w, r, team, err)
}

// HandleStartOnboarding handles POST /teams/{teamID}/onboarding/start
func (h *TeamHandler) HandleStartOnboarding(w http.ResponseWriter, r *http.Request) {
	team, err := h.timeService.StartOnboarding(r.Context(), teamID(r))
	h.writeTeam(w, r, team, err)
}

// HandleStartBreak handles POST /teams/{teamID}/onboarding/break. The body
// is optional.
func (h *TeamHandler) HandleStartBreak(w http.ResponseWriter, r *http.Request) {
	req := &BreakRequest{}
	if r.ContentLength != 0 {
		var err error
		req, err = validation.DecodeAndValidate[BreakRequest](r)
		if err != nil {
			h.errorHandler.Handle(w, r, err)
			return
		}
	}

	team, err := h.timeService.StartBreak(r.Context(), teamID(r), req.Reason)
	h.writeTeam(w, r, team, err)
}

// HandleEndBreak handles POST /teams/{teamID}/onboarding/resume
func (h *TeamHandler) HandleEndBreak(w http.ResponseWriter, r *http.Request) {
	team, err := h.timeService.EndBreak(r.Context(), teamID(r))
	h.writeTeam(w, r, team, err)
}

// HandleCompleteOnboarding handles POST /teams/{teamID}/onboarding/complete
func (h *TeamHandler) HandleCompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	team, err := h.timeService.CompleteOnboarding(r.Context(), teamID(r))
	h.writeTeam(w, r, team, err)
}

// HandleTimer handles GET /teams/{teamID}/timer
func (h *TeamHandler) HandleTimer(w http.ResponseWriter, r *http.Request) {
	timer, err := h.timeService.Timer(r.Context(), teamID(r))
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toTimerResponse(timer))
}

func (h *TeamHandler) writeTeam(w http.ResponseWriter, r *http.Request, team *domain.Team, err error) {
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteJSON(w, http.StatusOK, team)
}

func teamID(r *http.Request) string {
	return chi.URLParam(r, "teamID")
}
