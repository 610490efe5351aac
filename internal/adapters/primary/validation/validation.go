package validation

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	apperrors "github.com/lorrc/hackathon-hub/internal/core/errors"
)

// MaxBodyBytes caps request bodies; a full schedule replace is the largest.
const MaxBodyBytes = 1 << 20

// Validator collects field errors. Rules chain and never stop early, so a
// client sees every bad field at once.
type Validator struct {
	errors *apperrors.ValidationErrors
}

func NewValidator() *Validator {
	return &Validator{errors: apperrors.NewValidationErrors()}
}

func (v *Validator) HasErrors() bool {
	return v.errors.HasErrors()
}

func (v *Validator) Errors() *apperrors.ValidationErrors {
	return v.errors
}

// Required rejects blank strings.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.errors.Add(field, "This field is required")
	}
	return v
}

// MaxLength counts characters, not bytes.
func (v *Validator) MaxLength(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.errors.Add(field, "Must be at most "+strconv.Itoa(max)+" characters")
	}
	return v
}

// OneOf accepts an empty value; pair it with Required when the field is
// mandatory.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.errors.Add(field, "Must be one of: "+strings.Join(allowed, ", "))
	return v
}

func (v *Validator) Custom(field string, valid bool, message string) *Validator {
	if !valid {
		v.errors.Add(field, message)
	}
	return v
}

// NotNil rejects a missing JSON field: a nil pointer, slice or map.
func (v *Validator) NotNil(field string, value any) *Validator {
	if isNil(value) {
		v.errors.Add(field, "This field is required")
	}
	return v
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func (v *Validator) NonNegative(field string, value float64) *Validator {
	if value < 0 {
		v.errors.Add(field, "Must be zero or greater")
	}
	return v
}

// Validatable is implemented by request DTOs that check their own fields
type Validatable interface {
	Validate() error
}

// DecodeAndValidate decodes one JSON value from the body into T and, when
// *T implements Validatable, validates it. Decoding failures are bad
// requests; field failures come back as *ValidationErrors.
func DecodeAndValidate[T any](r *http.Request) (*T, error) {
	var req T

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return nil, decodeError(err)
	}
	if dec.More() {
		return nil, apperrors.NewBadRequestError(apperrors.ErrBadRequest, "Request body must hold a single JSON value")
	}

	if v, ok := any(&req).(Validatable); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	return &req, nil
}

func decodeError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return apperrors.NewBadRequestError(err, "Request body is required")
	case errors.As(err, &tooLarge):
		return apperrors.NewBadRequestError(err, "Request body is too large")
	default:
		return apperrors.NewBadRequestError(err, "Invalid request body")
	}
}

// ParseBoolQueryParam returns defaultValue when the parameter is absent or
// not a bool.
func ParseBoolQueryParam(r *http.Request, key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(r.URL.Query().Get(key))
	if err != nil {
		return defaultValue
	}
	return value
}
