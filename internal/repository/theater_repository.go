package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/agx/bookmyseat/internal/model"
)

// duplicateEntry reports whether err is a MySQL unique-constraint violation.
func duplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// TheaterRepo manages persistence for theaters.
type TheaterRepo struct {
	db *sql.DB
}

// NewTheaterRepo constructs a TheaterRepo with the given DB handle.
func NewTheaterRepo(db *sql.DB) *TheaterRepo {
	return &TheaterRepo{db: db}
}

const theaterCols = `id, name, branch, city, address, created_at, updated_at`

func scanTheater(row interface{ Scan(...any) error }) (*model.Theater, error) {
	var t model.Theater
	var addr sql.NullString
	if err := row.Scan(&t.ID, &t.Name, &t.Branch, &t.City, &addr, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Address = addr.String
	return &t, nil
}

// Create inserts a theater.  The (name, branch) pair is unique; inserting a
// duplicate returns model.ErrDuplicateTheater.
func (r *TheaterRepo) Create(ctx context.Context, t *model.Theater) error {
	const q = `INSERT INTO theaters (name, branch, city, address) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Branch, t.City, t.Address)
	if err != nil {
		if duplicateEntry(err) {
			return model.ErrDuplicateTheater
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	fresh, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *fresh
	return nil
}

// GetByID retrieves a theater, returning model.ErrTheaterNotFound when absent.
func (r *TheaterRepo) GetByID(ctx context.Context, id uint64) (*model.Theater, error) {
	t, err := scanTheater(r.db.QueryRowContext(ctx, `SELECT `+theaterCols+` FROM theaters WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrTheaterNotFound
		}
		return nil, err
	}
	return t, nil
}

// List returns all theaters, optionally filtered by city (case-insensitive).
func (r *TheaterRepo) List(ctx context.Context, city string) ([]model.Theater, error) {
	q := `SELECT ` + theaterCols + ` FROM theaters`
	var args []any
	if city != "" {
		q += ` WHERE LOWER(city) = LOWER(?)`
		args = append(args, city)
	}
	q += ` ORDER BY name, branch`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Theater, 0)
	for rows.Next() {
		t, err := scanTheater(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	return result, rows.Err()
}

// Update overwrites a theater's attributes.
func (r *TheaterRepo) Update(ctx context.Context, t *model.Theater) error {
	const q = `UPDATE theaters
	           SET name = ?, branch = ?, city = ?, address = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Branch, t.City, t.Address, t.ID)
	if err != nil {
		if duplicateEntry(err) {
			return model.ErrDuplicateTheater
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a theater, returning model.ErrTheaterNotFound when absent.
func (r *TheaterRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM theaters WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrTheaterNotFound
	}
	return nil
}
