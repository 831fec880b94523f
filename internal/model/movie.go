package model

import "time"

// Movie is a film that can be scheduled on screens.  DurationMins drives the
// computed end time of every showtime created for it.
type Movie struct {
	ID           uint64    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	DurationMins uint32    `json:"duration_mins"`
	ReleaseDate  time.Time `json:"release_date"`
	Genre        string    `json:"genre,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
