package model

import "time"

// Showtime is a scheduled screening of a movie on a specific screen.
// EndsAt is always StartsAt plus the movie's duration; for a fixed screen no
// two showtimes' [StartsAt, EndsAt) intervals may intersect.  Intervals that
// merely touch at a boundary do not count as overlapping.
type Showtime struct {
	ID        uint64    `json:"id"`
	MovieID   uint64    `json:"movie_id"`
	ScreenID  uint64    `json:"screen_id"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Overlaps reports whether the showtime's interval intersects [start, end).
// Touching endpoints are allowed.
func (s Showtime) Overlaps(start, end time.Time) bool {
	return s.StartsAt.Before(end) && s.EndsAt.After(start)
}
