// Package repository contains the data access layer.  Each repository is a
// thin struct over *sql.DB issuing explicit SQL; methods with a Tx suffix
// operate on a caller-provided transaction so that multi-repository sequences
// can commit or roll back as a unit.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/agx/bookmyseat/internal/model"
)

// MovieRepo manages persistence for movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

const movieCols = `id, title, description, duration_mins, release_date, genre, created_at, updated_at`

func scanMovie(row interface{ Scan(...any) error }) (*model.Movie, error) {
	var m model.Movie
	var desc, genre sql.NullString
	err := row.Scan(&m.ID, &m.Title, &desc, &m.DurationMins, &m.ReleaseDate, &genre, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.Description = desc.String
	m.Genre = genre.String
	return &m, nil
}

// Create inserts a new movie and populates the generated ID and timestamps.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO movies (title, description, duration_mins, release_date, genre) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.DurationMins, m.ReleaseDate, m.Genre)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	fresh, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = *fresh
	return nil
}

// GetByID retrieves a movie by its ID.  It returns model.ErrMovieNotFound
// when there is no matching row.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	m, err := scanMovie(r.db.QueryRowContext(ctx, `SELECT `+movieCols+` FROM movies WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrMovieNotFound
		}
		return nil, err
	}
	return m, nil
}

// MovieFilter narrows List results.  Zero values mean "no constraint".
type MovieFilter struct {
	Genre         string
	Title         string // substring match, case-insensitive
	ReleasedAfter time.Time
}

// List returns movies matching the filter, newest release first.
func (r *MovieRepo) List(ctx context.Context, f MovieFilter) ([]model.Movie, error) {
	q := `SELECT ` + movieCols + ` FROM movies WHERE 1=1`
	var args []any
	if f.Genre != "" {
		q += ` AND genre = ?`
		args = append(args, f.Genre)
	}
	if f.Title != "" {
		q += ` AND LOWER(title) LIKE ?`
		args = append(args, "%"+strings.ToLower(f.Title)+"%")
	}
	if !f.ReleasedAfter.IsZero() {
		q += ` AND release_date > ?`
		args = append(args, f.ReleasedAfter)
	}
	q += ` ORDER BY release_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}
	return result, rows.Err()
}

// Update overwrites a movie's attributes.  Returns model.ErrMovieNotFound
// when the row does not exist.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	const q = `UPDATE movies
	           SET title = ?, description = ?, duration_mins = ?, release_date = ?, genre = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.DurationMins, m.ReleaseDate, m.Genre, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either missing or unchanged; distinguish with a lookup.
		if _, err := r.GetByID(ctx, m.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a movie.  Returns model.ErrMovieNotFound when absent.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrMovieNotFound
	}
	return nil
}
