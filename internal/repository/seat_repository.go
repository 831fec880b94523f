package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/agx/bookmyseat/internal/model"
)

// SeatRepo manages persistence for per-showtime seats.  Reservation and
// release run inside a caller-owned transaction; the only status writers in
// the system are the booking and cancellation transactions.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

const seatCols = `id, showtime_id, row_label, seat_number, status, version, created_at, updated_at`

func scanSeat(row interface{ Scan(...any) error }) (*model.Seat, error) {
	var s model.Seat
	err := row.Scan(&s.ID, &s.ShowtimeID, &s.RowLabel, &s.SeatNumber, &s.Status, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// placeholders returns "?, ?, ..., ?" with n markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// CreateBulkTx inserts the showtime's seat grid in a single statement.
// Every seat starts AVAILABLE at version 0 (the DB defaults).
func (r *SeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (showtime_id, row_label, seat_number) VALUES `
	args := make([]any, 0, len(seats)*3)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, s.ShowtimeID, s.RowLabel, s.SeatNumber)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListByShowtime returns all seats of a showtime ordered by row then number.
func (r *SeatRepo) ListByShowtime(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	return r.list(ctx, `SELECT `+seatCols+` FROM seats WHERE showtime_id = ? ORDER BY row_label, seat_number`, showtimeID)
}

// ListAvailableByShowtime returns the subset of the grid still AVAILABLE.
func (r *SeatRepo) ListAvailableByShowtime(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	return r.list(ctx,
		`SELECT `+seatCols+` FROM seats WHERE showtime_id = ? AND status = 'AVAILABLE' ORDER BY row_label, seat_number`,
		showtimeID)
}

func (r *SeatRepo) list(ctx context.Context, q string, args ...any) ([]model.Seat, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Seat, 0)
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

// FindAvailableByIDsTx re-reads the seats in seatIDs that belong to the
// showtime and are still AVAILABLE, with their current versions.  This is
// the availability read of the reservation contract; a shorter result than
// seatIDs means some requested seat is booked or does not exist.
func (r *SeatRepo) FindAvailableByIDsTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, seatIDs []uint64) ([]model.Seat, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}
	q := `SELECT ` + seatCols + ` FROM seats
	      WHERE showtime_id = ? AND status = 'AVAILABLE' AND id IN (` + placeholders(len(seatIDs)) + `)
	      ORDER BY row_label, seat_number`
	args := make([]any, 0, len(seatIDs)+1)
	args = append(args, showtimeID)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

// ReserveTx flips one seat from AVAILABLE to BOOKED guarded by the version
// observed at read time.  It reports false when the guarded update touched
// no row, i.e. another writer got there first.
func (r *SeatRepo) ReserveTx(ctx context.Context, tx *sql.Tx, seatID, version uint64) (bool, error) {
	const q = `UPDATE seats
	           SET status = 'BOOKED', version = version + 1
	           WHERE id = ? AND version = ? AND status = 'AVAILABLE'`
	res, err := tx.ExecContext(ctx, q, seatID, version)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ReleaseTx unconditionally returns the given seats to AVAILABLE.  Only the
// cancellation transaction calls this, for seats its booking owns.
func (r *SeatRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	q := `UPDATE seats SET status = 'AVAILABLE', version = version + 1 WHERE id IN (` + placeholders(len(seatIDs)) + `)`
	args := make([]any, 0, len(seatIDs))
	for _, id := range seatIDs {
		args = append(args, id)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// DeleteByShowtimeTx removes the showtime's whole grid, links first.
func (r *SeatRepo) DeleteByShowtimeTx(ctx context.Context, tx *sql.Tx, showtimeID uint64) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM booking_seats WHERE seat_id IN (SELECT id FROM seats WHERE showtime_id = ?)`, showtimeID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM seats WHERE showtime_id = ?`, showtimeID)
	return err
}
