package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/lorrc/hackathon-hub/internal/core/errors"
)

// Login and profile constraints
const (
	MinPasswordLength = 3
	MaxFullNameLength = 255
	MaxEmailLength    = 255
)

// Role gates what a user may see and do.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleParticipant Role = "participant"
	RoleVolunteer   Role = "volunteer"
	RoleJudge       Role = "judge"
)

// IsValid checks if the role is a known value
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleParticipant, RoleVolunteer, RoleJudge:
		return true
	default:
		return false
	}
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	TeamID    string    `json:"teamId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Volunteer helps teams on the floor and runs their time tracking.
type Volunteer struct {
	ID              string   `json:"id"`
	UserID          string   `json:"userId,omitempty"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone,omitempty"`
	AssignedTeamIDs []string `json:"assignedTeamIds"`
}

// Judge scores the teams assigned to them.
type Judge struct {
	ID              string   `json:"id"`
	UserID          string   `json:"userId,omitempty"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Expertise       string   `json:"expertise,omitempty"`
	AssignedTeamIDs []string `json:"assignedTeamIds"`
}

// LoginParams holds parameters for the mock login. Any password of at least
// MinPasswordLength characters is accepted.
type LoginParams struct {
	Name     string
	Email    string
	Password string
	Role     Role
}

// Validate validates login parameters
func (p *LoginParams) Validate() error {
	errs := apperrors.NewValidationErrors()

	email := strings.TrimSpace(p.Email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if len(email) > MaxEmailLength {
		errs.Add("email", "Email must be 255 characters or less")
	} else if !isValidEmail(email) {
		errs.Add("email", "Invalid email format")
	}

	if len(p.Password) < MinPasswordLength {
		errs.Add("password", "Password must be at least 3 characters long")
	}

	if len(p.Name) > MaxFullNameLength {
		errs.Add("name", "Name must be 255 characters or less")
	}

	if p.Role != "" && !p.Role.IsValid() {
		errs.Add("role", "Role must be one of: admin, participant, volunteer, judge")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// isValidEmail validates email format
func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// NewUser creates a user from validated login parameters
func NewUser(params LoginParams, now time.Time) (*User, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	role := params.Role
	if role == "" {
		role = RoleParticipant
	}

	email := strings.ToLower(strings.TrimSpace(params.Email))
	name := strings.TrimSpace(params.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	return &User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now.UTC(),
	}, nil
}

// HasRole reports whether the user holds any of the given roles.
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
