package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/agx/bookmyseat/internal/model"
)

// ShowtimeRepo manages persistence for showtimes.  Creation and deletion
// always happen inside a caller-owned transaction because both also touch
// the seats table.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo {
	return &ShowtimeRepo{db: db}
}

const showtimeCols = `id, movie_id, screen_id, starts_at, ends_at, created_at, updated_at`

func scanShowtime(row interface{ Scan(...any) error }) (*model.Showtime, error) {
	var s model.Showtime
	err := row.Scan(&s.ID, &s.MovieID, &s.ScreenID, &s.StartsAt, &s.EndsAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.StartsAt = s.StartsAt.UTC()
	s.EndsAt = s.EndsAt.UTC()
	return &s, nil
}

// CreateTx inserts a showtime within the given transaction and populates the
// generated ID and timestamps.  The caller commits or rolls back.
func (r *ShowtimeRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Showtime) error {
	const q = `INSERT INTO showtimes (movie_id, screen_id, starts_at, ends_at) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.MovieID, s.ScreenID, s.StartsAt.UTC(), s.EndsAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	fresh, err := scanShowtime(tx.QueryRowContext(ctx, `SELECT `+showtimeCols+` FROM showtimes WHERE id = ?`, s.ID))
	if err != nil {
		return err
	}
	*s = *fresh
	return nil
}

// GetByID retrieves a showtime, returning model.ErrShowtimeNotFound when absent.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
	s, err := scanShowtime(r.db.QueryRowContext(ctx, `SELECT `+showtimeCols+` FROM showtimes WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrShowtimeNotFound
		}
		return nil, err
	}
	return s, nil
}

// Exists reports whether the showtime is present.
func (r *ShowtimeRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM showtimes WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// FindOverlappingTx returns the showtimes on the screen whose [starts_at,
// ends_at) interval intersects [start, end).  Intervals that merely touch at
// a boundary are not returned.  Runs on the caller's transaction so the
// result is consistent with the screen row lock taken before it.
func (r *ShowtimeRepo) FindOverlappingTx(ctx context.Context, tx *sql.Tx, screenID uint64, start, end time.Time) ([]model.Showtime, error) {
	const q = `SELECT ` + showtimeCols + `
	           FROM showtimes
	           WHERE screen_id = ? AND starts_at < ? AND ends_at > ?`
	rows, err := tx.QueryContext(ctx, q, screenID, end.UTC(), start.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overlaps []model.Showtime
	for rows.Next() {
		s, err := scanShowtime(rows)
		if err != nil {
			return nil, err
		}
		overlaps = append(overlaps, *s)
	}
	return overlaps, rows.Err()
}

// DeleteTx removes a showtime within the given transaction.  The seats of
// the showtime must already have been removed.  Returns
// model.ErrShowtimeNotFound when absent.
func (r *ShowtimeRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM showtimes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrShowtimeNotFound
	}
	return nil
}

// ShowtimeFilter narrows List results.  Zero values mean "no constraint".
type ShowtimeFilter struct {
	MovieID   uint64
	ScreenID  uint64
	TheaterID uint64
	Date      time.Time // showtimes starting on this calendar day (UTC)
}

// List returns showtimes matching the filter ordered by start time.
func (r *ShowtimeRepo) List(ctx context.Context, f ShowtimeFilter) ([]model.Showtime, error) {
	q := `SELECT s.id, s.movie_id, s.screen_id, s.starts_at, s.ends_at, s.created_at, s.updated_at
	      FROM showtimes s`
	var args []any
	if f.TheaterID != 0 {
		q += ` JOIN screens sc ON sc.id = s.screen_id`
	}
	q += ` WHERE 1=1`
	if f.MovieID != 0 {
		q += ` AND s.movie_id = ?`
		args = append(args, f.MovieID)
	}
	if f.ScreenID != 0 {
		q += ` AND s.screen_id = ?`
		args = append(args, f.ScreenID)
	}
	if f.TheaterID != 0 {
		q += ` AND sc.theater_id = ?`
		args = append(args, f.TheaterID)
	}
	if !f.Date.IsZero() {
		day := time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(), 0, 0, 0, 0, time.UTC)
		q += ` AND s.starts_at >= ? AND s.starts_at < ?`
		args = append(args, day, day.Add(24*time.Hour))
	}
	q += ` ORDER BY s.starts_at ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Showtime, 0)
	for rows.Next() {
		s, err := scanShowtime(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

// ListUpcomingByMovie returns the movie's showtimes starting after now,
// soonest first.
func (r *ShowtimeRepo) ListUpcomingByMovie(ctx context.Context, movieID uint64, now time.Time) ([]model.Showtime, error) {
	const q = `SELECT ` + showtimeCols + ` FROM showtimes WHERE movie_id = ? AND starts_at > ? ORDER BY starts_at ASC`
	rows, err := r.db.QueryContext(ctx, q, movieID, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Showtime, 0)
	for rows.Next() {
		s, err := scanShowtime(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}
