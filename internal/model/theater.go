package model

import "time"

// Theater is a physical venue.  The (Name, Branch) pair is unique.
type Theater struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Branch    string    `json:"branch"`
	City      string    `json:"city"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Screen is a single auditorium inside a theater.  Showtimes are scheduled
// per screen; the overlap invariant is enforced at this level.
type Screen struct {
	ID        uint64    `json:"id"`
	TheaterID uint64    `json:"theater_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
