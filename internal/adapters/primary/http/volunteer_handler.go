package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/hackathon-hub/internal/adapters/primary/validation"
	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

type VolunteerHandler struct {
	volunteerService ports.VolunteerService
	errorHandler     *ErrorHandler
	logger           *slog.Logger
}

func NewVolunteerHandler(volunteerService ports.VolunteerService, errorHandler *ErrorHandler, logger *slog.Logger) *VolunteerHandler {
	return &VolunteerHandler{
		volunteerService: volunteerService,
		errorHandler:     errorHandler,
		logger:           logger.With("handler", "volunteer"),
	}
}

func (h *VolunteerHandler) RegisterRoutes(r chi.Router, g Guards) {
	r.Get("/", h.HandleList)
	r.With(g.Write(domain.RoleAdmin)...).Post("/{volunteerID}/assignments", h.HandleAssign)
}

// AssignVolunteerRequest replaces the volunteer's assigned teams.
type AssignVolunteerRequest struct {
	TeamIDs []string `json:"teamIds"`
}

func (r *AssignVolunteerRequest) Validate() error {
	v := validation.NewValidator()

	v.NotNil("teamIds", r.TeamIDs)
	for _, id := range r.TeamIDs {
		if id == "" {
			v.Custom("teamIds", false, "Team IDs must not be empty")
			break
		}
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// HandleList handles GET /volunteers
func (h *VolunteerHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	volunteers, err := h.volunteerService.ListVolunteers(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	WriteList(w, volunteers)
}

// HandleAssign handles POST /volunteers/{volunteerID}/assignments
func (h *VolunteerHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[AssignVolunteerRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	volunteer, err := h.volunteerService.AssignVolunteer(r.Context(), chi.URLParam(r, "volunteerID"), req.TeamIDs)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, volunteer)
}
