// Package repository defines error types that are reused across multiple
// repositories and by the booking engine. These values allow higher
// layers such as handlers to distinguish between different failure
// scenarios: ErrForbidden indicates the current user is not authorized
// to act on a resource owned by someone else, ErrDestinationInUse
// signals that a destination cannot be removed while tours still
// reference it, and the typed errors carry enough context (remaining
// seats, current status) for a caller to react.
package repository

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrTourNotFound is returned when a referenced tour does not exist.
var ErrTourNotFound = errors.New("tour not found")

// ErrOrderNotFound is returned when a referenced order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// ErrDestinationNotFound is returned when a referenced destination does
// not exist.
var ErrDestinationNotFound = errors.New("destination not found")

// ErrDestinationInUse is returned when a destination cannot be deleted
// because at least one tour still references it. Handlers should
// translate this into an HTTP 409 response.
var ErrDestinationInUse = errors.New("destination still referenced by tours")

// ErrDeleteBlocked is returned when a tour cascade deletion fails
// partway and has been rolled back in full.
var ErrDeleteBlocked = errors.New("delete blocked")

// ErrEmailExists is returned when registering a user with an email that
// is already taken.
var ErrEmailExists = errors.New("email already exists")

// InsufficientSeatsError rejects a seat reservation that does not fit in
// the tour's remaining capacity. Remaining carries the number of seats
// still available so the client can offer a reduced quantity.
type InsufficientSeatsError struct {
	Remaining uint32
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf("insufficient seats: %d remaining", e.Remaining)
}

// InvalidTransitionError rejects an order status change that is not in
// the allowed set for the order's current status.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}
