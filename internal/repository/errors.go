// Package repository implements the seat state machine on top of the record
// store.  The sentinel errors defined here let handlers distinguish the
// failure taxonomy – not found, conflict, limit, validation – without
// inspecting error strings.  Anything that is not one of these sentinels is
// an internal failure (store I/O, malformed record) and maps to a 500.
package repository

import "errors"

// ErrEventNotFound is returned when the addressed event does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrEventNotFound = errors.New("event not found")

// ErrSeatNotFound is returned when the addressed seat does not exist within
// an existing event.  Handlers should translate this into an HTTP 404.
var ErrSeatNotFound = errors.New("seat not found")

// ErrSeatNotAvailable is returned when the seat has already been reserved.
var ErrSeatNotAvailable = errors.New("seat is not available")

// ErrSeatNotHeld is returned when a reservation is attempted on a seat that
// carries no active hold.
var ErrSeatNotHeld = errors.New("seat is not held")

// ErrHeldByAnotherUser is returned when the seat's active hold belongs to a
// different user than the caller.
var ErrHeldByAnotherUser = errors.New("seat is held by another user")

// ErrHoldLimitReached is returned when the caller already has the maximum
// number of concurrent holds for this event.
var ErrHoldLimitReached = errors.New("maximum hold limit reached")

// ErrInvalidTotalSeats is returned when an event is created with a seat
// count outside [1, configured maximum].
var ErrInvalidTotalSeats = errors.New("totalSeats out of range")

// ErrInvalidEventName is returned when an event is created with an empty name.
var ErrInvalidEventName = errors.New("event name must not be empty")
