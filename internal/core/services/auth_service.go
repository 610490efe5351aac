package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	apperrors "github.com/lorrc/hackathon-hub/internal/core/errors"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
)

// AuthService implements the mock login. Any email is accepted; an unknown
// email registers a new user and publishes USER_JOINED.
type AuthService struct {
	base
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService creates a new authentication service
func NewAuthService(deps Dependencies) *AuthService {
	return &AuthService{base: newBase(deps, "auth_service")}
}

// Login returns the user for params.Email, registering it on first sight.
func (s *AuthService) Login(ctx context.Context, params domain.LoginParams) (*domain.User, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(params.Email))

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if user, ok := doc.FindUserByEmail(email); ok {
		return user, nil
	}

	var (
		user    domain.User
		created bool
	)
	_, err = s.store.Update(ctx, func(doc *domain.Document) error {
		if existing, ok := doc.FindUserByEmail(email); ok {
			user = *existing
			return nil
		}
		newUser, err := domain.NewUser(params, s.now())
		if err != nil {
			return err
		}
		doc.Users = append(doc.Users, *newUser)
		user = *newUser
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)
		s.publish(ctx, domain.EventUserJoined, domain.UserJoinedPayload{User: user})
	}
	return &user, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	user, ok := doc.FindUser(userID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUserNotFound, userID)
	}
	return user, nil
}
