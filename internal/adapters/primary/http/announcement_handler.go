package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/hackathon-hub/internal/adapters/primary/validation"
	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

type AnnouncementHandler struct {
	announcementService ports.AnnouncementService
	errorHandler        *ErrorHandler
	logger              *slog.Logger
}

func NewAnnouncementHandler(announcementService ports.AnnouncementService, errorHandler *ErrorHandler, logger *slog.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementService: announcementService,
		errorHandler:        errorHandler,
		logger:              logger.With("handler", "announcement"),
	}
}

func (h *AnnouncementHandler) RegisterRoutes(r chi.Router, g Guards) {
	r.Get("/", h.HandleList)
	r.With(g.Write(domain.RoleAdmin, domain.RoleVolunteer)...).Post("/", h.HandlePost)
	r.With(g.Write(domain.RoleAdmin)...).Delete("/{announcementID}", h.HandleDelete)
}

// PostAnnouncementRequest is the body of POST /announcements
type PostAnnouncementRequest struct {
	Message  string `json:"message"`
	Author   string `json:"author"`
	Priority string `json:"priority"`
	IsSticky bool   `json:"isSticky"`
	Category string `json:"category"`
}

func (r *PostAnnouncementRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("message", r.Message).
		MaxLength("message", r.Message, domain.MaxAnnouncementLength).
		MaxLength("author", r.Author, 100)
	if r.Priority != "" {
		v.OneOf("priority", r.Priority, []string{
			string(domain.PriorityNormal),
			string(domain.PriorityImportant),
			string(domain.PriorityUrgent),
		})
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// HandleList handles GET /announcements
func (h *AnnouncementHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.announcementService.ListAnnouncements(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	WriteList(w, announcements)
}

// HandlePost handles POST /announcements. The author defaults to the caller.
func (h *AnnouncementHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[PostAnnouncementRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	author := req.Author
	if author == "" {
		author = claims.UserID
	}

	announcement, err := h.announcementService.PostAnnouncement(r.Context(), domain.AnnouncementParams{
		Message:  req.Message,
		Author:   author,
		Priority: domain.AnnouncementPriority(req.Priority),
		IsSticky: req.IsSticky,
		Category: req.Category,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteCreated(w, announcement)
}

// HandleDelete handles DELETE /announcements/{announcementID}
func (h *AnnouncementHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.announcementService.DeleteAnnouncement(r.Context(), chi.URLParam(r, "announcementID")); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	WriteNoContent(w)
}
