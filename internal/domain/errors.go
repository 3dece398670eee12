package domain

import (
	"errors"
	"strings"
)

// Domain errors
var (
	// Session errors
	ErrMissingSessionID  = errors.New("missing session id")
	ErrSessionExpired    = errors.New("session expired, login required")
	ErrActivityRequired  = errors.New("an activity must be created first")
	ErrOptionRequired    = errors.New("a booking option must be created first")
	ErrInvalidTransition = errors.New("invalid wizard transition")
	ErrUnknownStep       = errors.New("unknown wizard step")
	ErrRequestInProgress = errors.New("a request for this step is already in progress")

	// Age band errors
	ErrProtectedBand   = errors.New("this price category cannot be renamed or deleted")
	ErrBandNotFound    = errors.New("price category not found")
	ErrBandOverlap     = errors.New("age range overlaps the next price category")
	ErrBandsIncomplete = errors.New("price categories must cover ages 0 to 99 without gaps")

	// Gateway errors
	ErrBackendUnavailable = errors.New("backend service unavailable")
	ErrNotFound           = errors.New("resource not found")
)

// ValidationError describes one field that blocked a submit
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the list of problems found in a form
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Field+": "+e.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add appends a field error
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Err returns nil when no errors were collected
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// IsValidationError checks if the error is a form validation error
func IsValidationError(err error) bool {
	var v ValidationErrors
	return errors.As(err, &v)
}

// IsGuardError checks if the error means the step cannot run yet
func IsGuardError(err error) bool {
	return errors.Is(err, ErrActivityRequired) ||
		errors.Is(err, ErrOptionRequired) ||
		errors.Is(err, ErrInvalidTransition)
}

// IsBandError checks if the error comes from the age band editor
func IsBandError(err error) bool {
	return errors.Is(err, ErrProtectedBand) ||
		errors.Is(err, ErrBandNotFound) ||
		errors.Is(err, ErrBandOverlap) ||
		errors.Is(err, ErrBandsIncomplete)
}
