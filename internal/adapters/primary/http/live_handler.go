package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/hackathon-hub/internal/adapters/primary/validation"
	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/realtime"
)

// Cache is a locally held collection, satisfied by *realtime.View.
type Cache[T any] interface {
	Items() []T
}

// LiveHandler serves this process's realtime caches and each caller's
// notification log. Nothing here reads the document store.
type LiveHandler struct {
	teams         Cache[domain.Team]
	announcements Cache[domain.Announcement]
	helpRequests  Cache[domain.HelpRequest]
	notifications *realtime.NotificationLogs
}

func NewLiveHandler(
	teams Cache[domain.Team],
	announcements Cache[domain.Announcement],
	helpRequests Cache[domain.HelpRequest],
	notifications *realtime.NotificationLogs,
) *LiveHandler {
	return &LiveHandler{
		teams:         teams,
		announcements: announcements,
		helpRequests:  helpRequests,
		notifications: notifications,
	}
}

func (h *LiveHandler) RegisterRoutes(r chi.Router, g Guards) {
	r.Get("/live/teams", h.HandleTeams)
	r.Get("/live/announcements", h.HandleAnnouncements)
	r.Get("/live/help-requests", h.HandleHelpRequests)

	// Notification logs belong to the caller, so reads need a session too.
	r.Route("/notifications", func(r chi.Router) {
		r.Use(g.Write()...)
		r.Get("/", h.HandleNotifications)
		r.Delete("/", h.HandleClear)
		r.Post("/read-all", h.HandleMarkAllRead)
		r.Post("/{notificationID}/read", h.HandleMarkRead)
	})
}

type NotificationsResponse struct {
	Entries     []realtime.Notification `json:"entries"`
	UnreadCount int                     `json:"unreadCount"`
}

func (h *LiveHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	WriteList(w, h.teams.Items())
}

func (h *LiveHandler) HandleAnnouncements(w http.ResponseWriter, r *http.Request) {
	WriteList(w, h.announcements.Items())
}

func (h *LiveHandler) HandleHelpRequests(w http.ResponseWriter, r *http.Request) {
	WriteList(w, h.helpRequests.Items())
}

// HandleNotifications handles GET /notifications?unread=true
func (h *LiveHandler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	log, ok := h.logFor(w, r)
	if !ok {
		return
	}
	unreadOnly := validation.ParseBoolQueryParam(r, "unread", false)

	entries := []realtime.Notification{}
	for _, n := range log.Entries() {
		if unreadOnly && n.Read {
			continue
		}
		entries = append(entries, n)
	}
	WriteJSON(w, http.StatusOK, NotificationsResponse{
		Entries:     entries,
		UnreadCount: log.UnreadCount(),
	})
}

// HandleMarkRead handles POST /notifications/{notificationID}/read
func (h *LiveHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	log, ok := h.logFor(w, r)
	if !ok {
		return
	}
	if !log.MarkAsRead(chi.URLParam(r, "notificationID")) {
		WriteJSON(w, http.StatusNotFound, ErrorResponse{
			Error: "Notification not found",
			Code:  "NOTIFICATION_NOT_FOUND",
		})
		return
	}
	WriteNoContent(w)
}

func (h *LiveHandler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	log, ok := h.logFor(w, r)
	if !ok {
		return
	}
	log.MarkAllAsRead()
	WriteNoContent(w)
}

func (h *LiveHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	log, ok := h.logFor(w, r)
	if !ok {
		return
	}
	log.Clear()
	WriteNoContent(w)
}

func (h *LiveHandler) logFor(w http.ResponseWriter, r *http.Request) (*realtime.NotificationLog, bool) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return nil, false
	}
	return h.notifications.For(claims.UserID), true
}
