// Package apperr defines the error kinds shared by the store, the HTTP layer
// and the client. Wrap a sentinel with fmt.Errorf("%w: ...") and test with
// errors.Is; anything that wraps none of them is a store error.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation marks a missing or malformed input field.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks absent credentials, usernames or referenced rows.
	ErrNotFound = errors.New("not found")
	// ErrConstraintViolation marks a uniqueness breach (username, friend edge).
	ErrConstraintViolation = errors.New("constraint violation")
)

// Status maps an error onto its HTTP status code.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConstraintViolation):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FromStatus returns the sentinel matching an HTTP status, or nil for
// statuses that carry no specific kind.
func FromStatus(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusUnauthorized, http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConstraintViolation
	default:
		return nil
	}
}
