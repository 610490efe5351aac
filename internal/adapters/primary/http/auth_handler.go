package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/hackathon-hub/internal/adapters/primary/validation"
	"github.com/lorrc/hackathon-hub/internal/auth"
	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

// AuthHandler serves the mock login.
type AuthHandler struct {
	authService  ports.AuthService
	tokenManager *auth.TokenManager
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

func NewAuthHandler(authService ports.AuthService, tm *auth.TokenManager, errorHandler *ErrorHandler, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenManager: tm,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "auth"),
	}
}

// RegisterRoutes mounts the handler under /auth. loginLimit, when set, wraps
// the login route only.
func (h *AuthHandler) RegisterRoutes(r chi.Router, g Guards, loginLimit func(http.Handler) http.Handler) {
	login := r
	if loginLimit != nil {
		login = r.With(loginLimit)
	}
	login.Post("/login", h.HandleLogin)
	r.With(g.Write()...).Get("/me", h.HandleMe)
}

// LoginRequest is the body of POST /auth/login. Field checks live in
// domain.LoginParams so that the service enforces them too.
type LoginRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[LoginRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	user, err := h.authService.Login(r.Context(), domain.LoginParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	token, err := h.tokenManager.GenerateToken(user)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user logged in", "user_id", user.ID, "role", user.Role)
	WriteJSON(w, http.StatusOK, LoginResponse{Token: token, User: user})
}

// HandleMe handles GET /auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}
