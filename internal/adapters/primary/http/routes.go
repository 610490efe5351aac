package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/lorrc/hackathon-hub/internal/adapters/primary/http/middleware"
	"github.com/lorrc/hackathon-hub/internal/auth"
	"github.com/lorrc/hackathon-hub/internal/core/domain"
)

// Guards holds the middleware placed in front of write routes. Reads are
// public; every write goes through Authenticate.
type Guards struct {
	Authenticate func(http.Handler) http.Handler
	// Throttle is an optional per-user limiter, run after authentication.
	Throttle func(http.Handler) http.Handler
}

// NewGuards builds guards that authenticate with tm.
func NewGuards(tm *auth.TokenManager, throttle func(http.Handler) http.Handler) Guards {
	return Guards{
		Authenticate: mw.JWTMiddleware(tm),
		Throttle:     throttle,
	}
}

// Write returns the chain for a write route. With no roles any
// authenticated user passes.
func (g Guards) Write(roles ...domain.Role) chi.Middlewares {
	chain := chi.Middlewares{}
	if g.Authenticate != nil {
		chain = append(chain, g.Authenticate)
	}
	if g.Throttle != nil {
		chain = append(chain, g.Throttle)
	}
	if len(roles) > 0 {
		chain = append(chain, mw.RequireRole(roles...))
	}
	return chain
}

// claimsFrom returns the authenticated caller, writing a 401 when the route
// was mounted without authentication.
func claimsFrom(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	return claims, true
}

// API is the set of handlers served under /api/v1.
type API struct {
	Auth          *AuthHandler
	Admin         *AdminHandler
	Teams         *TeamHandler
	Announcements *AnnouncementHandler
	Schedule      *ScheduleHandler
	Volunteers    *VolunteerHandler
	Help          *HelpHandler
	Live          *LiveHandler
	WebSocket     *WebSocketHandler

	Guards Guards
	// LoginLimit, when set, throttles POST /auth/login by client address.
	LoginLimit func(http.Handler) http.Handler
}

// Routes mounts every handler on r. A nil WebSocket handler is skipped.
func (a API) Routes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		a.Auth.RegisterRoutes(r, a.Guards, a.LoginLimit)
	})
	a.Admin.RegisterRoutes(r, a.Guards)
	r.Route("/teams", func(r chi.Router) {
		a.Teams.RegisterRoutes(r, a.Guards)
	})
	r.Route("/announcements", func(r chi.Router) {
		a.Announcements.RegisterRoutes(r, a.Guards)
	})
	r.Route("/schedule", func(r chi.Router) {
		a.Schedule.RegisterRoutes(r, a.Guards)
	})
	r.Route("/volunteers", func(r chi.Router) {
		a.Volunteers.RegisterRoutes(r, a.Guards)
	})
	r.Route("/help-requests", func(r chi.Router) {
		a.Help.RegisterRoutes(r, a.Guards)
	})
	a.Live.RegisterRoutes(r, a.Guards)

	if a.WebSocket != nil {
		a.WebSocket.RegisterRoutes(r)
	}
}
