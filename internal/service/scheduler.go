package service

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/agx/bookmyseat/internal/model"
)

// SeatGrid is the slice of SeatInventory the scheduler depends on.
type SeatGrid interface {
	MaterializeGridTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, rowLabels string, seatsPerRow int) error
	DeleteByShowtimeTx(ctx context.Context, tx *sql.Tx, showtimeID uint64) error
}

// Scheduler places showtimes on screens without overlap and tears them down
// again.  A showtime's end is derived from the movie's running time; two
// showtimes on the same screen conflict when their half-open intervals
// intersect, so back-to-back scheduling is allowed.
type Scheduler struct {
	tx          TxRunner
	movies      MovieStore
	screens     ScreenStore
	showtimes   ShowtimeStore
	bookings    BookingStore
	grid        SeatGrid
	rowLabels   string
	seatsPerRow int
}

func NewScheduler(tx TxRunner, movies MovieStore, screens ScreenStore, showtimes ShowtimeStore, bookings BookingStore, grid SeatGrid, rowLabels string, seatsPerRow int) *Scheduler {
	if rowLabels == "" {
		rowLabels = DefaultRowLabels
	}
	if seatsPerRow <= 0 {
		seatsPerRow = DefaultSeatsPerRow
	}
	return &Scheduler{
		tx:          tx,
		movies:      movies,
		screens:     screens,
		showtimes:   showtimes,
		bookings:    bookings,
		grid:        grid,
		rowLabels:   rowLabels,
		seatsPerRow: seatsPerRow,
	}
}

// CreateShowtime schedules the movie on the screen starting at startsAt and
// materializes the seat grid for it, all in one transaction.  The screen row
// is locked before the overlap check so that two concurrent creations for
// the same screen serialize; without the lock both could pass the check and
// insert overlapping showtimes.
func (s *Scheduler) CreateShowtime(ctx context.Context, movieID, screenID uint64, startsAt time.Time) (*model.Showtime, error) {
	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if _, err := s.screens.GetByID(ctx, screenID); err != nil {
		return nil, err
	}
	endsAt := startsAt.Add(time.Duration(movie.DurationMins) * time.Minute)

	st := &model.Showtime{
		MovieID:  movieID,
		ScreenID: screenID,
		StartsAt: startsAt,
		EndsAt:   endsAt,
	}
	err = s.tx.RunInTx(ctx, func(tx *sql.Tx) error {
		if err := s.screens.LockTx(ctx, tx, screenID); err != nil {
			return err
		}
		overlapping, err := s.showtimes.FindOverlappingTx(ctx, tx, screenID, startsAt, endsAt)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return model.ErrScheduleConflict
		}
		if err := s.showtimes.CreateTx(ctx, tx, st); err != nil {
			return err
		}
		return s.grid.MaterializeGridTx(ctx, tx, st.ID, s.rowLabels, s.seatsPerRow)
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// DeleteShowtime removes the showtime together with its seats and their
// booking links.  Booking records themselves are kept for the audit trail;
// confirmed ones are only logged, since the seats they point at are gone.
func (s *Scheduler) DeleteShowtime(ctx context.Context, id uint64) error {
	confirmed, err := s.bookings.ListConfirmedByShowtime(ctx, id)
	if err != nil {
		return err
	}
	if len(confirmed) > 0 {
		log.Printf("deleting showtime %d with %d confirmed bookings", id, len(confirmed))
	}
	return s.tx.RunInTx(ctx, func(tx *sql.Tx) error {
		if err := s.grid.DeleteByShowtimeTx(ctx, tx, id); err != nil {
			return err
		}
		return s.showtimes.DeleteTx(ctx, tx, id)
	})
}
