package service

import (
	"context"
	"database/sql"

	"github.com/agx/bookmyseat/internal/model"
)

// Default auditorium layout: rows A through H, eight seats per row.
const (
	DefaultRowLabels   = "ABCDEFGH"
	DefaultSeatsPerRow = 8
)

// SeatInventory owns the seat lifecycle for a showtime: materializing the
// grid when a showtime is scheduled, listing seats, and the reserve/release
// primitives the booking manager composes into transactions.
type SeatInventory struct {
	tx        TxRunner
	seats     SeatStore
	showtimes ShowtimeStore
}

func NewSeatInventory(tx TxRunner, seats SeatStore, showtimes ShowtimeStore) *SeatInventory {
	return &SeatInventory{tx: tx, seats: seats, showtimes: showtimes}
}

// ListSeats returns every seat of the showtime, booked ones included.
func (i *SeatInventory) ListSeats(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	if err := i.ensureShowtime(ctx, showtimeID); err != nil {
		return nil, err
	}
	return i.seats.ListByShowtime(ctx, showtimeID)
}

// ListAvailableSeats returns only the seats still open for booking.
func (i *SeatInventory) ListAvailableSeats(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	if err := i.ensureShowtime(ctx, showtimeID); err != nil {
		return nil, err
	}
	return i.seats.ListAvailableByShowtime(ctx, showtimeID)
}

func (i *SeatInventory) ensureShowtime(ctx context.Context, showtimeID uint64) error {
	ok, err := i.showtimes.Exists(ctx, showtimeID)
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrShowtimeNotFound
	}
	return nil
}

// MaterializeGridTx creates the full seat grid for a freshly scheduled
// showtime inside the caller's transaction.  Every seat starts out available
// at version zero.
func (i *SeatInventory) MaterializeGridTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, rowLabels string, seatsPerRow int) error {
	if rowLabels == "" {
		rowLabels = DefaultRowLabels
	}
	if seatsPerRow <= 0 {
		seatsPerRow = DefaultSeatsPerRow
	}
	grid := make([]model.Seat, 0, len(rowLabels)*seatsPerRow)
	for _, row := range rowLabels {
		for n := 1; n <= seatsPerRow; n++ {
			grid = append(grid, model.Seat{
				ShowtimeID: showtimeID,
				RowLabel:   string(row),
				SeatNumber: uint32(n),
			})
		}
	}
	return i.seats.CreateBulkTx(ctx, tx, grid)
}

// TryReserveTx atomically claims the given seats for the showtime inside the
// caller's transaction.  It first reads the requested seats filtered to the
// available ones; any seat missing from that read (unknown, wrong showtime,
// or already booked) fails the whole request with ErrSeatUnavailable.  It
// then flips each seat through a version-guarded update; a guard that
// matches no row means a concurrent transaction got there between the read
// and the write, and the request fails with ErrReservationConflict.  Either
// error must roll back the caller's transaction, which unwinds any seats
// already flipped in this attempt.
func (i *SeatInventory) TryReserveTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, seatIDs []uint64) ([]model.Seat, error) {
	available, err := i.seats.FindAvailableByIDsTx(ctx, tx, showtimeID, seatIDs)
	if err != nil {
		return nil, err
	}
	if len(available) != len(seatIDs) {
		return nil, model.ErrSeatUnavailable
	}
	for idx := range available {
		ok, err := i.seats.ReserveTx(ctx, tx, available[idx].ID, available[idx].Version)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, model.ErrReservationConflict
		}
		available[idx].Status = model.SeatBooked
		available[idx].Version++
	}
	return available, nil
}

// ReleaseTx puts the seats back to available inside the caller's
// transaction.  The release is unconditional: it does not carry a version
// guard, so the caller must have established ownership of the seats before
// asking for it.
func (i *SeatInventory) ReleaseTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64) error {
	return i.seats.ReleaseTx(ctx, tx, seatIDs)
}

// DeleteByShowtimeTx removes the showtime's seats, booking links included.
func (i *SeatInventory) DeleteByShowtimeTx(ctx context.Context, tx *sql.Tx, showtimeID uint64) error {
	return i.seats.DeleteByShowtimeTx(ctx, tx, showtimeID)
}
