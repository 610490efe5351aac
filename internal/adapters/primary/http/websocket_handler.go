package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	wsAdapter "github.com/lorrc/hackathon-hub/internal/adapters/primary/websocket"
	"github.com/lorrc/hackathon-hub/internal/auth"
	"github.com/lorrc/hackathon-hub/internal/config"
	"github.com/lorrc/hackathon-hub/internal/infrastructure/logging"
)

// WebSocketHandler upgrades authenticated requests into hub clients. Each
// connection is one context observing the bus.
type WebSocketHandler struct {
	hub      *wsAdapter.Hub
	tm       *auth.TokenManager
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewWebSocketHandler(
	hub *wsAdapter.Hub,
	tm *auth.TokenManager,
	cfg *config.Config,
	logger *slog.Logger,
) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:    hub,
		tm:     tm,
		logger: logger.With("component", "websocket_handler"),
	}

	allowAll := cfg.IsDevelopment()
	allowed := cfg.WebSocket.AllowedOrigins
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if allowAll || originAllowed(origin, allowed) {
				return true
			}
			h.logger.WarnContext(r.Context(), "websocket origin rejected",
				"origin", origin,
				"allowed_origins", allowed,
			)
			return false
		},
	}

	return h
}

// originAllowed reports whether a browser Origin header matches one of the
// allowed hosts. "*.example.com" also matches example.com itself. An empty
// origin comes from a non-browser client and is allowed.
func originAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return true
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := parsed.Host

	for _, pattern := range allowed {
		if pattern == "*" || pattern == host || pattern == origin {
			return true
		}
		if base, ok := strings.CutPrefix(pattern, "*."); ok {
			if host == base || strings.HasSuffix(host, "."+base) {
				return true
			}
		}
	}
	return false
}

// bearerToken takes the session token from ?token= (browsers cannot set
// headers on an upgrade) or from an Authorization header.
func bearerToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// ServeHTTP handles GET /ws
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := bearerToken(r)
	if token == "" {
		h.logger.WarnContext(ctx, "websocket rejected: missing token", "remote_addr", r.RemoteAddr)
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Missing authentication token", Code: "UNAUTHORIZED"})
		return
	}

	claims, err := h.tm.ValidateToken(token)
	if err != nil {
		h.logger.WarnContext(ctx, "websocket rejected: invalid token", "remote_addr", r.RemoteAddr, "error", err)
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired token", Code: "UNAUTHORIZED"})
		return
	}

	ctx = logging.WithUserID(ctx, claims.UserID)
	ctx = logging.WithRole(ctx, string(claims.Role))

	// Upgrade writes its own error response.
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.ErrorContext(ctx, "websocket upgrade failed", "error", err)
		return
	}

	if !wsAdapter.NewClient(h.hub, conn, claims.UserID, claims.Role).Start() {
		h.logger.WarnContext(ctx, "websocket hub stopped, dropping connection")
		return
	}
	h.logger.InfoContext(ctx, "websocket connected", "remote_addr", r.RemoteAddr)
}

// RegisterRoutes mounts the upgrade endpoint at /ws.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.ServeHTTP)
}
