// Package repository contains data access logic separated from HTTP
// handlers.  It defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.  For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by someone
// else, while ErrConflict signals that an operation cannot proceed due
// to existing dependent records (e.g. creating a second recurring
// booking for the same court/weekday/start).
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a create or update cannot be performed
// because of conflicting state.  Handlers should translate this into
// an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// Not-found sentinels, one per entity, so handlers can answer 404 with
// a precise message.
var (
	ErrComplexNotFound    = errors.New("complex not found")
	ErrCourtNotFound      = errors.New("court not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrRecurringNotFound  = errors.New("recurring booking not found")
	ErrReleaseNotFound    = errors.New("release not found")
	ErrTournamentNotFound = errors.New("tournament not found")
)

// isDuplicateKey reports whether err is a MySQL duplicate-key error
// (code 1062).  Repositories use it to map uniqueness violations onto
// domain-level conflicts.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "1062")
}
