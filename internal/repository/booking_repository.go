package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/agx/bookmyseat/internal/model"
)

// BookingRepo manages persistence for bookings and their seat links.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

const bookingCols = `id, confirmation_id, user_id, showtime_id, status, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.ConfirmationID, &b.UserID, &b.ShowtimeID, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateTx inserts a booking within the given transaction and populates the
// generated ID and timestamps.  Seat links are added separately with
// AddSeatsTx so the two inserts share one transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (confirmation_id, user_id, showtime_id, status) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.ConfirmationID, b.UserID, b.ShowtimeID, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	fresh, err := scanBooking(tx.QueryRowContext(ctx, `SELECT `+bookingCols+` FROM bookings WHERE id = ?`, b.ID))
	if err != nil {
		return err
	}
	seats := b.Seats
	*b = *fresh
	b.Seats = seats
	return nil
}

// AddSeatsTx links the booking to its seats in a single statement.
func (r *BookingRepo) AddSeatsTx(ctx context.Context, tx *sql.Tx, bookingID uint64, seatIDs []uint64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	query := `INSERT INTO booking_seats (booking_id, seat_id) VALUES `
	args := make([]any, 0, len(seatIDs)*2)
	for i, id := range seatIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, bookingID, id)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByToken fetches a booking by confirmation token, seats included.
// Returns model.ErrBookingNotFound when no booking carries the token.
func (r *BookingRepo) GetByToken(ctx context.Context, token string) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE confirmation_id = ?`, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrBookingNotFound
		}
		return nil, err
	}
	if b.Seats, err = r.seatsOf(ctx, b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

// GetForCancelTx loads, within the caller's transaction, everything the
// cancellation decision needs: the booking row, its seat set and the start
// time of its showtime.  Returns model.ErrBookingNotFound when the token is
// unknown.
func (r *BookingRepo) GetForCancelTx(ctx context.Context, tx *sql.Tx, token string) (*model.Booking, time.Time, error) {
	const q = `SELECT b.id, b.confirmation_id, b.user_id, b.showtime_id, b.status, b.created_at, b.updated_at, s.starts_at
	           FROM bookings b
	           JOIN showtimes s ON s.id = b.showtime_id
	           WHERE b.confirmation_id = ?`
	var b model.Booking
	var startsAt time.Time
	err := tx.QueryRowContext(ctx, q, token).
		Scan(&b.ID, &b.ConfirmationID, &b.UserID, &b.ShowtimeID, &b.Status, &b.CreatedAt, &b.UpdatedAt, &startsAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, model.ErrBookingNotFound
		}
		return nil, time.Time{}, err
	}

	const seatQ = `SELECT se.id, se.showtime_id, se.row_label, se.seat_number, se.status, se.version, se.created_at, se.updated_at
	               FROM booking_seats bs
	               JOIN seats se ON se.id = bs.seat_id
	               WHERE bs.booking_id = ?
	               ORDER BY se.row_label, se.seat_number`
	rows, err := tx.QueryContext(ctx, seatQ, b.ID)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, time.Time{}, err
		}
		b.Seats = append(b.Seats, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}
	return &b, startsAt.UTC(), nil
}

// UpdateStatusTx flips the booking's status within the caller's transaction.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, bookingID uint64, status model.BookingStatus) error {
	const q = `UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, status, bookingID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrBookingNotFound
	}
	return nil
}

// ListByUser returns the user's bookings newest first, seats populated.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		if result[i].Seats, err = r.seatsOf(ctx, result[i].ID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ListConfirmedByShowtime returns CONFIRMED bookings for a showtime.  Used
// by the scheduler to flag deletions that orphan booking history.
func (r *BookingRepo) ListConfirmedByShowtime(ctx context.Context, showtimeID uint64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE showtime_id = ? AND status = 'CONFIRMED'`, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	return result, rows.Err()
}

func (r *BookingRepo) seatsOf(ctx context.Context, bookingID uint64) ([]model.Seat, error) {
	const q = `SELECT se.id, se.showtime_id, se.row_label, se.seat_number, se.status, se.version, se.created_at, se.updated_at
	           FROM booking_seats bs
	           JOIN seats se ON se.id = bs.seat_id
	           WHERE bs.booking_id = ?
	           ORDER BY se.row_label, se.seat_number`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		seats = append(seats, *s)
	}
	return seats, rows.Err()
}
