package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/hackathon-hub/internal/adapters/primary/validation"
	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

type HelpHandler struct {
	helpService  ports.HelpService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

func NewHelpHandler(helpService ports.HelpService, errorHandler *ErrorHandler, logger *slog.Logger) *HelpHandler {
	return &HelpHandler{
		helpService:  helpService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "help"),
	}
}

func (h *HelpHandler) RegisterRoutes(r chi.Router, g Guards) {
	r.Get("/", h.HandleList)
	r.With(g.Write()...).Post("/", h.HandleRequest)
	r.With(g.Write(domain.RoleAdmin, domain.RoleVolunteer)...).Patch("/{requestID}", h.HandleUpdateStatus)
}

// RequestHelpRequest is the body of POST /help-requests. TeamID defaults to
// the caller's team.
type RequestHelpRequest struct {
	TeamID  string `json:"teamId"`
	Message string `json:"message"`
}

func (r *RequestHelpRequest) Validate() error {
	v := validation.NewValidator()
	v.MaxLength("message", r.Message, 500)
	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

type UpdateHelpStatusRequest struct {
	Status      string `json:"status"`
	VolunteerID string `json:"volunteerId"`
}

func (r *UpdateHelpStatusRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("status", r.Status).
		OneOf("status", r.Status, []string{
			string(domain.HelpPending),
			string(domain.HelpAcknowledged),
			string(domain.HelpResolved),
		})

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// HandleList handles GET /help-requests
func (h *HelpHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	requests, err := h.helpService.ListHelpRequests(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	WriteList(w, requests)
}

// HandleRequest handles POST /help-requests
func (h *HelpHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[RequestHelpRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	teamID := req.TeamID
	if teamID == "" {
		teamID = claims.TeamID
	}
	if teamID == "" {
		v := validation.NewValidator()
		v.Custom("teamId", false, "Team is required")
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	helpRequest, err := h.helpService.RequestHelp(r.Context(), teamID, req.Message)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteCreated(w, helpRequest)
}

// HandleUpdateStatus handles PATCH /help-requests/{requestID}
func (h *HelpHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[UpdateHelpStatusRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	helpRequest, err := h.helpService.UpdateHelpRequestStatus(
		r.Context(),
		chi.URLParam(r, "requestID"),
		domain.HelpStatus(req.Status),
		req.VolunteerID,
	)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, helpRequest)
}
