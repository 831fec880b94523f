package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/agx/bookmyseat/internal/model"
)

// ScreenRepo manages persistence for screens.
type ScreenRepo struct {
	db *sql.DB
}

// NewScreenRepo constructs a ScreenRepo with the given DB handle.
func NewScreenRepo(db *sql.DB) *ScreenRepo {
	return &ScreenRepo{db: db}
}

const screenCols = `id, theater_id, name, created_at, updated_at`

// Create inserts a screen under its theater.  The theater must exist;
// a foreign-key failure is reported as model.ErrTheaterNotFound.
func (r *ScreenRepo) Create(ctx context.Context, s *model.Screen) error {
	const q = `INSERT INTO screens (theater_id, name) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.TheaterID, s.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	fresh, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = *fresh
	return nil
}

// GetByID retrieves a screen, returning model.ErrScreenNotFound when absent.
func (r *ScreenRepo) GetByID(ctx context.Context, id uint64) (*model.Screen, error) {
	var s model.Screen
	err := r.db.QueryRowContext(ctx, `SELECT `+screenCols+` FROM screens WHERE id = ?`, id).
		Scan(&s.ID, &s.TheaterID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrScreenNotFound
		}
		return nil, err
	}
	return &s, nil
}

// LockTx takes a row lock on the screen inside the given transaction.  The
// lock serializes concurrent showtime creation on the same screen, which is
// what makes the overlap check-then-insert safe; MySQL has no declarative
// interval-exclusion constraint to lean on.  Returns model.ErrScreenNotFound
// when the screen does not exist.
func (r *ScreenRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	var got uint64
	err := tx.QueryRowContext(ctx, `SELECT id FROM screens WHERE id = ? FOR UPDATE`, id).Scan(&got)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrScreenNotFound
		}
		return err
	}
	return nil
}

// ListByTheater returns all screens of a theater ordered by name.  It
// returns model.ErrTheaterNotFound when the theater itself is missing.
func (r *ScreenRepo) ListByTheater(ctx context.Context, theaterID uint64) ([]model.Screen, error) {
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM theaters WHERE id = ?`, theaterID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrTheaterNotFound
		}
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+screenCols+` FROM screens WHERE theater_id = ? ORDER BY name`, theaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Screen, 0)
	for rows.Next() {
		var s model.Screen
		if err := rows.Scan(&s.ID, &s.TheaterID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// Delete removes a screen, returning model.ErrScreenNotFound when absent.
func (r *ScreenRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM screens WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrScreenNotFound
	}
	return nil
}
