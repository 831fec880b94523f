// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is successfully
// confirmed.  It carries enough context for downstream consumers to log or
// notify without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID      uint64   `json:"booking_id"`
	ConfirmationID string   `json:"confirmation_id"`
	UserID         uint64   `json:"user_id"`
	ShowtimeID     uint64   `json:"showtime_id"`
	MovieTitle     string   `json:"movie_title"`
	StartsAt       string   `json:"starts_at"`
	EndsAt         string   `json:"ends_at"`
	SeatLabels     []string `json:"seats"`
	BookedAt       string   `json:"booked_at"`
}
