// Package service implements the booking engine: the seat inventory, the
// showtime scheduler and the booking transaction manager.  Components receive
// their collaborators explicitly; persistence is reached through the small
// store interfaces below, satisfied by the repository types.
package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/agx/bookmyseat/internal/model"
)

// TxRunner runs a function inside a database transaction.  An error returned
// by the function rolls the whole transaction back.  database.DB implements it.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// MovieStore resolves movies.
type MovieStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Movie, error)
}

// ScreenStore resolves screens and serializes writers per screen.  LockTx
// must hold a storage-level lock on the screen row until the surrounding
// transaction ends; it is the authoritative backstop that keeps the overlap
// check-then-insert safe under concurrency.
type ScreenStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Screen, error)
	LockTx(ctx context.Context, tx *sql.Tx, id uint64) error
}

// UserStore resolves users.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// ShowtimeStore persists showtimes.
type ShowtimeStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Showtime, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	CreateTx(ctx context.Context, tx *sql.Tx, s *model.Showtime) error
	DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error
	FindOverlappingTx(ctx context.Context, tx *sql.Tx, screenID uint64, start, end time.Time) ([]model.Showtime, error)
}

// SeatStore persists seats.  ReserveTx is the per-seat compare-and-swap: it
// reports false, without error, when the version guard matched no row.
type SeatStore interface {
	ListByShowtime(ctx context.Context, showtimeID uint64) ([]model.Seat, error)
	ListAvailableByShowtime(ctx context.Context, showtimeID uint64) ([]model.Seat, error)
	CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []model.Seat) error
	FindAvailableByIDsTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, seatIDs []uint64) ([]model.Seat, error)
	ReserveTx(ctx context.Context, tx *sql.Tx, seatID, version uint64) (bool, error)
	ReleaseTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64) error
	DeleteByShowtimeTx(ctx context.Context, tx *sql.Tx, showtimeID uint64) error
}

// BookingStore persists bookings and their seat links.
type BookingStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error
	AddSeatsTx(ctx context.Context, tx *sql.Tx, bookingID uint64, seatIDs []uint64) error
	GetByToken(ctx context.Context, token string) (*model.Booking, error)
	GetForCancelTx(ctx context.Context, tx *sql.Tx, token string) (*model.Booking, time.Time, error)
	UpdateStatusTx(ctx context.Context, tx *sql.Tx, bookingID uint64, status model.BookingStatus) error
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	ListConfirmedByShowtime(ctx context.Context, showtimeID uint64) ([]model.Booking, error)
}
