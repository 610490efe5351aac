package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

// AdminHandler serves the whole-document reads and the operator reset.
type AdminHandler struct {
	adminService ports.AdminService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

func NewAdminHandler(adminService ports.AdminService, errorHandler *ErrorHandler, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "admin"),
	}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router, g Guards) {
	r.Get("/state", h.HandleState)
	r.With(g.Write(domain.RoleAdmin)...).Post("/admin/reset", h.HandleReset)
}

// HandleState handles GET /state
func (h *AdminHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	doc, err := h.adminService.Snapshot(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, doc)
}

// HandleReset handles POST /admin/reset
func (h *AdminHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	doc, err := h.adminService.ResetDocument(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.WarnContext(r.Context(), "document reset to seed", "user_id", claims.UserID)
	WriteJSON(w, http.StatusOK, doc)
}
