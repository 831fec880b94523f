package model

import "time"

// BookingStatus is the lifecycle state of a booking.  Bookings are never
// physically deleted; a cancellation flips the status to CANCELLED.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Booking associates a user with a set of seats for one showtime.
// ConfirmationID is an opaque token (UUID) usable as an external lookup key
// independent of the numeric primary key.  Seats is the set of seats held by
// the booking; all belong to the booking's showtime.
type Booking struct {
	ID             uint64        `json:"id"`
	ConfirmationID string        `json:"confirmation_id"`
	UserID         uint64        `json:"user_id"`
	ShowtimeID     uint64        `json:"showtime_id"`
	Status         BookingStatus `json:"status"`
	Seats          []Seat        `json:"seats,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// SeatIDs returns the IDs of the booking's seats in grid order.
func (b Booking) SeatIDs() []uint64 {
	ids := make([]uint64, 0, len(b.Seats))
	for _, s := range b.Seats {
		ids = append(ids, s.ID)
	}
	return ids
}
