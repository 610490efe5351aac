package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/hackathon-hub/internal/adapters/primary/validation"
	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

type ScheduleHandler struct {
	scheduleService ports.ScheduleService
	errorHandler    *ErrorHandler
	logger          *slog.Logger
}

func NewScheduleHandler(scheduleService ports.ScheduleService, errorHandler *ErrorHandler, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		errorHandler:    errorHandler,
		logger:          logger.With("handler", "schedule"),
	}
}

func (h *ScheduleHandler) RegisterRoutes(r chi.Router, g Guards) {
	r.Get("/", h.HandleGet)
	r.With(g.Write(domain.RoleAdmin)...).Put("/", h.HandleReplace)
}

// HandleGet handles GET /schedule
func (h *ScheduleHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	items, err := h.scheduleService.GetSchedule(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	WriteList(w, items)
}

// HandleReplace handles PUT /schedule. The body is the full agenda as a JSON
// array; item checks happen in domain.NormalizeSchedule.
func (h *ScheduleHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	items, err := validation.DecodeAndValidate[[]domain.ScheduleItem](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	schedule, err := h.scheduleService.UpdateSchedule(r.Context(), *items)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, schedule)
}
