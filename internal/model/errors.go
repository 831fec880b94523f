// Package model defines the domain types shared by the repository, service
// and handler layers, plus the sentinel errors that make up the application's
// failure taxonomy.  Handlers translate these into HTTP status codes.
package model

import "errors"

// Not-found errors.  Always surfaced to the caller, never retried.
var (
	ErrMovieNotFound    = errors.New("movie not found")
	ErrTheaterNotFound  = errors.New("theater not found")
	ErrScreenNotFound   = errors.New("screen not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrShowtimeNotFound = errors.New("showtime not found")
	ErrBookingNotFound  = errors.New("booking not found")
)

// Conflict errors.  The caller may retry the request; the engine never
// retries internally.
var (
	// ErrSeatUnavailable means at least one requested seat was already
	// booked (or does not exist) when availability was read.
	ErrSeatUnavailable = errors.New("one or more seats are no longer available")

	// ErrReservationConflict means a concurrent writer won the version race
	// between the availability read and the guarded update.
	ErrReservationConflict = errors.New("one or more seats were just booked by someone else, please try again")

	// ErrScheduleConflict means the candidate showtime overlaps an existing
	// showtime on the same screen.
	ErrScheduleConflict = errors.New("showtime overlaps with an existing showtime on this screen")

	ErrDuplicateEmail   = errors.New("email already registered")
	ErrDuplicateTheater = errors.New("theater branch already exists")
)

// Invalid-state errors.  Terminal; retrying cannot succeed.
var (
	ErrShowtimeStarted  = errors.New("showtime has already started")
	ErrBookingCancelled = errors.New("booking is already cancelled")
)

// ErrNoSeatsRequested rejects a booking request whose seat set is empty.
var ErrNoSeatsRequested = errors.New("at least one seat must be requested")
