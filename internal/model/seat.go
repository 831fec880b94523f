package model

import (
	"fmt"
	"time"
)

// SeatStatus is the lifecycle state of a seat within its showtime's grid.
// Seats only ever move between AVAILABLE and BOOKED.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatBooked    SeatStatus = "BOOKED"
)

// Seat is one bookable position in a showtime's seating grid, identified by
// (ShowtimeID, RowLabel, SeatNumber).  Version is a monotonically increasing
// counter bumped on every status change; reservations are guarded by it.
type Seat struct {
	ID         uint64     `json:"id"`
	ShowtimeID uint64     `json:"showtime_id"`
	RowLabel   string     `json:"row"`
	SeatNumber uint32     `json:"number"`
	Status     SeatStatus `json:"status"`
	Version    uint64     `json:"version"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Label renders the human-readable seat label, e.g. "A1".
func (s Seat) Label() string {
	return fmt.Sprintf("%s%d", s.RowLabel, s.SeatNumber)
}
