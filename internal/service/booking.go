package service

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/agx/bookmyseat/internal/model"
	"github.com/agx/bookmyseat/internal/queue"
)

// BookingPublisher emits domain events after a booking commits.  Failures
// are logged and swallowed; the booking itself is already durable.
type BookingPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// BookingManager turns seat reservations into bookings and back.  Creation
// runs the whole reserve-then-record sequence in one transaction so a
// booking either holds every requested seat or none of them; cancellation
// likewise releases the seats and flips the status atomically.
type BookingManager struct {
	tx        TxRunner
	users     UserStore
	movies    MovieStore
	showtimes ShowtimeStore
	bookings  BookingStore
	inventory *SeatInventory
	publisher BookingPublisher // optional
	now       func() time.Time
}

func NewBookingManager(tx TxRunner, users UserStore, movies MovieStore, showtimes ShowtimeStore, bookings BookingStore, inventory *SeatInventory, publisher BookingPublisher) *BookingManager {
	return &BookingManager{
		tx:        tx,
		users:     users,
		movies:    movies,
		showtimes: showtimes,
		bookings:  bookings,
		inventory: inventory,
		publisher: publisher,
		now:       time.Now,
	}
}

// CreateBooking books the given seats of the showtime for the user.  The
// seat set must be non-empty; duplicates are collapsed before reserving.
// On success the booking carries a fresh confirmation token and the list of
// seats it holds.
func (m *BookingManager) CreateBooking(ctx context.Context, userID, showtimeID uint64, seatIDs []uint64) (*model.Booking, error) {
	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	st, err := m.showtimes.GetByID(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	if !st.StartsAt.After(m.now()) {
		return nil, model.ErrShowtimeStarted
	}
	ids := dedupe(seatIDs)
	if len(ids) == 0 {
		return nil, model.ErrNoSeatsRequested
	}

	b := &model.Booking{
		UserID:         user.ID,
		ShowtimeID:     showtimeID,
		ConfirmationID: uuid.NewString(),
		Status:         model.BookingConfirmed,
	}
	err = m.tx.RunInTx(ctx, func(tx *sql.Tx) error {
		seats, err := m.inventory.TryReserveTx(ctx, tx, showtimeID, ids)
		if err != nil {
			return err
		}
		b.Seats = seats
		if err := m.bookings.CreateTx(ctx, tx, b); err != nil {
			return err
		}
		return m.bookings.AddSeatsTx(ctx, tx, b.ID, ids)
	})
	if err != nil {
		return nil, err
	}

	m.publishConfirmed(ctx, b, st)
	return b, nil
}

// CancelBooking looks the booking up by its confirmation token, releases its
// seats and marks it cancelled.  A booking already cancelled or whose
// showtime has started stays untouched.
func (m *BookingManager) CancelBooking(ctx context.Context, token string) (*model.Booking, error) {
	var out *model.Booking
	err := m.tx.RunInTx(ctx, func(tx *sql.Tx) error {
		b, startsAt, err := m.bookings.GetForCancelTx(ctx, tx, token)
		if err != nil {
			return err
		}
		if b.Status == model.BookingCancelled {
			return model.ErrBookingCancelled
		}
		if !startsAt.After(m.now()) {
			return model.ErrShowtimeStarted
		}
		if err := m.inventory.ReleaseTx(ctx, tx, b.SeatIDs()); err != nil {
			return err
		}
		if err := m.bookings.UpdateStatusTx(ctx, tx, b.ID, model.BookingCancelled); err != nil {
			return err
		}
		b.Status = model.BookingCancelled
		for i := range b.Seats {
			b.Seats[i].Status = model.SeatAvailable
			b.Seats[i].Version++
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetBooking fetches a booking by its confirmation token.
func (m *BookingManager) GetBooking(ctx context.Context, token string) (*model.Booking, error) {
	return m.bookings.GetByToken(ctx, token)
}

// ListUserBookings returns the user's bookings, newest first.
func (m *BookingManager) ListUserBookings(ctx context.Context, userID uint64) ([]model.Booking, error) {
	if _, err := m.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return m.bookings.ListByUser(ctx, userID)
}

func (m *BookingManager) publishConfirmed(ctx context.Context, b *model.Booking, st *model.Showtime) {
	if m.publisher == nil {
		return
	}
	movieTitle := ""
	if movie, err := m.movies.GetByID(ctx, st.MovieID); err == nil {
		movieTitle = movie.Title
	}
	labels := make([]string, 0, len(b.Seats))
	for _, seat := range b.Seats {
		labels = append(labels, seat.Label())
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:      b.ID,
		ConfirmationID: b.ConfirmationID,
		UserID:         b.UserID,
		ShowtimeID:     b.ShowtimeID,
		MovieTitle:     movieTitle,
		StartsAt:       st.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:         st.EndsAt.UTC().Format(time.RFC3339),
		SeatLabels:     labels,
		BookedAt:       m.now().UTC().Format(time.RFC3339),
	}
	if err := m.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		log.Printf("booking: publish confirmed event failed: %v", err)
	}
}

func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
