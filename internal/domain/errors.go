// Package domain holds the error kinds shared by all engines. Engines wrap
// these sentinels with detail via fmt.Errorf("%w: ..."); the HTTP layer maps
// them to status codes in one place.
package domain

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrValidation: malformed or out-of-range input, the caller's fault.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound: a referenced entity id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate: natural-key collision (assignment salesperson+item+date).
	ErrDuplicate = errors.New("duplicate record")
	// ErrNoDeliveries: bill generation found nothing billable.
	ErrNoDeliveries = errors.New("no billable deliveries")
	// ErrConflict: concurrent mutation detected at the store.
	ErrConflict = errors.New("conflict")
)

// StatusCode maps a domain error to its HTTP status. Unrecognized errors map
// to 500 and are treated as unexpected by the central error handler.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, ErrNoDeliveries):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// IsDomain reports whether err carries one of the domain sentinels.
func IsDomain(err error) bool {
	return StatusCode(err) != fiber.StatusInternalServerError
}
