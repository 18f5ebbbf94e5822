package library

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by catalog, circulation and reservation operations.
// Callers match them with errors.Is; returned errors carry the offending id.
var (
	// ErrNotFound is returned when an id has no matching book, patron,
	// transaction or reservation.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable is returned when a book is not eligible for the
	// requested operation.
	ErrUnavailable = errors.New("book unavailable")

	// ErrTerminalState is the parent of every "already finished" error.
	ErrTerminalState = errors.New("already in terminal state")

	// ErrAlreadyReturned is returned when returning a closed transaction.
	ErrAlreadyReturned = fmt.Errorf("transaction already returned: %w", ErrTerminalState)

	// ErrReservationInactive is returned when cancelling or fulfilling a
	// reservation that is no longer active.
	ErrReservationInactive = fmt.Errorf("reservation not active: %w", ErrTerminalState)

	// ErrNotQueueHead is returned when fulfilling a reservation that is not
	// first in its book's waitlist.
	ErrNotQueueHead = fmt.Errorf("reservation is not next in the waitlist: %w", ErrUnavailable)

	// ErrInvalidInput is returned for malformed dates and out of range loan periods.
	ErrInvalidInput = errors.New("invalid input")
)

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
