package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared by services, repositories and delivery.
var (
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when the acting user is not a party to the meetup
	// (or lacks the role required for the action).
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrDuplicate is returned when a uniquely keyed record already exists.
	ErrDuplicate = errors.New("duplicate")
)

// Error codes carried in the "code" field of API error responses. Servers write them
// and clients map them back onto the sentinels above.
const (
	CodeBadRequest          = "bad_request"
	CodeValidation          = "validation_error"
	CodeUnauthenticated     = "unauthenticated"
	CodeUnauthorized        = "unauthorized"
	CodeNotFound            = "not_found"
	CodeInvalidTransition   = "invalid_transition"
	CodeConflict            = "conflict"
	CodeRateLimited         = "rate_limited"
	CodeUpstreamUnavailable = "upstream_unavailable"
	CodeInternalError       = "internal_error"
)

// ValidationError lists every problem found in a request. It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Problems []string
}

// NewValidationError returns a ValidationError for the given problems.
func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return ErrInvalidInput.Error()
	}
	return strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
