package errors

import (
	"errors"
	"fmt"
)

// Generic errors
var (
	ErrNotFound    = errors.New("resource not found")
	ErrBadRequest  = errors.New("bad request")
	ErrConflict    = errors.New("resource conflict")
	ErrRateLimited = errors.New("rate limit exceeded")
)

// Domain errors - these represent business rule violations
var (
	// Authentication
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("action forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrPasswordTooShort   = errors.New("password must be at least 3 characters")
	ErrEmailRequired      = errors.New("email is required")
	ErrInvalidRole        = errors.New("invalid role")

	// Lookups. Every one of these matches ErrNotFound with errors.Is.
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrTeamNotFound         = fmt.Errorf("team %w", ErrNotFound)
	ErrVolunteerNotFound    = fmt.Errorf("volunteer %w", ErrNotFound)
	ErrJudgeNotFound        = fmt.Errorf("judge %w", ErrNotFound)
	ErrAnnouncementNotFound = fmt.Errorf("announcement %w", ErrNotFound)
	ErrHelpRequestNotFound  = fmt.Errorf("help request %w", ErrNotFound)

	// Backing store
	ErrBlobNotFound = fmt.Errorf("blob %w", ErrNotFound)

	// Time tracking
	ErrInvalidTransition = errors.New("invalid onboarding transition")

	// Validation
	ErrTeamNameRequired      = errors.New("team name is required")
	ErrMessageRequired       = errors.New("message is required")
	ErrInvalidPriority       = errors.New("invalid announcement priority")
	ErrInvalidHelpStatus     = errors.New("invalid help request status")
	ErrInvalidScore          = errors.New("score must be a non-negative number")
	ErrSubmissionURLRequired = errors.New("submission URL is required")
	ErrInvalidEventType      = errors.New("invalid event type")
)

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors for common cases
func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

func NewValidationError(err error, message string, details map[string]interface{}) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "VALIDATION_ERROR",
		StatusCode: 422,
		Details:    details,
	}
}

// ValidationErrors holds multiple field validation errors
type ValidationErrors struct {
	Errors map[string][]string `json:"errors"`
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make(map[string][]string),
	}
}

func (v *ValidationErrors) Add(field, message string) {
	v.Errors[field] = append(v.Errors[field], message)
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d field(s) have errors", len(v.Errors))
}
