package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agx/bookmyseat/internal/model"
)

func newInventory(t *testing.T) (*SeatInventory, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	return NewSeatInventory(store, seatStore{store}, showtimeStore{store}), store
}

func TestMaterializeGridDefaults(t *testing.T) {
	inv, store := newInventory(t)
	st := store.addShowtime(1, 1, time.Now(), time.Now().Add(2*time.Hour))

	require.NoError(t, inv.MaterializeGridTx(context.Background(), nil, st.ID, "", 0))

	seats := store.seatsFor(st.ID)
	require.Len(t, seats, 64)
	assert.Equal(t, "A1", seats[0].Label())
	assert.Equal(t, "H8", seats[len(seats)-1].Label())
	for _, s := range seats {
		assert.Equal(t, model.SeatAvailable, s.Status)
		assert.Zero(t, s.Version)
	}
}

func TestMaterializeGridCustomLayout(t *testing.T) {
	inv, store := newInventory(t)
	st := store.addShowtime(1, 1, time.Now(), time.Now().Add(time.Hour))

	require.NoError(t, inv.MaterializeGridTx(context.Background(), nil, st.ID, "AB", 3))

	seats := store.seatsFor(st.ID)
	require.Len(t, seats, 6)
	labels := make([]string, 0, len(seats))
	for _, s := range seats {
		labels = append(labels, s.Label())
	}
	assert.Equal(t, []string{"A1", "A2", "A3", "B1", "B2", "B3"}, labels)
}

func TestListSeatsUnknownShowtime(t *testing.T) {
	inv, _ := newInventory(t)

	_, err := inv.ListSeats(context.Background(), 42)
	assert.ErrorIs(t, err, model.ErrShowtimeNotFound)

	_, err = inv.ListAvailableSeats(context.Background(), 42)
	assert.ErrorIs(t, err, model.ErrShowtimeNotFound)
}

func TestListAvailableSkipsBooked(t *testing.T) {
	inv, store := newInventory(t)
	st := store.addShowtime(1, 1, time.Now(), time.Now().Add(time.Hour))
	a1 := store.addSeat(st.ID, "A", 1)
	store.addSeat(st.ID, "A", 2)

	booked := store.seats[a1.ID]
	booked.Status = model.SeatBooked
	store.seats[a1.ID] = booked

	all, err := inv.ListSeats(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	avail, err := inv.ListAvailableSeats(context.Background(), st.ID)
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, "A2", avail[0].Label())
}

func TestTryReserveFlipsStatusAndVersion(t *testing.T) {
	inv, store := newInventory(t)
	st := store.addShowtime(1, 1, time.Now(), time.Now().Add(time.Hour))
	a1 := store.addSeat(st.ID, "A", 1)
	a2 := store.addSeat(st.ID, "A", 2)

	seats, err := inv.TryReserveTx(context.Background(), nil, st.ID, []uint64{a1.ID, a2.ID})
	require.NoError(t, err)
	require.Len(t, seats, 2)
	for _, s := range seats {
		assert.Equal(t, model.SeatBooked, s.Status)
		assert.Equal(t, uint64(1), s.Version)
	}
	assert.Equal(t, model.SeatBooked, store.seats[a1.ID].Status)
	assert.Equal(t, model.SeatBooked, store.seats[a2.ID].Status)
}

func TestTryReserveBookedSeatFailsWhole(t *testing.T) {
	inv, store := newInventory(t)
	st := store.addShowtime(1, 1, time.Now(), time.Now().Add(time.Hour))
	a1 := store.addSeat(st.ID, "A", 1)
	a2 := store.addSeat(st.ID, "A", 2)

	taken := store.seats[a2.ID]
	taken.Status = model.SeatBooked
	store.seats[a2.ID] = taken

	err := store.RunInTx(context.Background(), func(tx *sql.Tx) error {
		_, err := inv.TryReserveTx(context.Background(), tx, st.ID, []uint64{a1.ID, a2.ID})
		return err
	})
	assert.ErrorIs(t, err, model.ErrSeatUnavailable)
	// rollback keeps a1 untouched
	assert.Equal(t, model.SeatAvailable, store.seats[a1.ID].Status)
	assert.Zero(t, store.seats[a1.ID].Version)
}

func TestTryReserveUnknownSeatFails(t *testing.T) {
	inv, store := newInventory(t)
	st := store.addShowtime(1, 1, time.Now(), time.Now().Add(time.Hour))
	a1 := store.addSeat(st.ID, "A", 1)

	_, err := inv.TryReserveTx(context.Background(), nil, st.ID, []uint64{a1.ID, 999})
	assert.ErrorIs(t, err, model.ErrSeatUnavailable)
}

func TestTryReserveSeatOfOtherShowtimeFails(t *testing.T) {
	inv, store := newInventory(t)
	st1 := store.addShowtime(1, 1, time.Now(), time.Now().Add(time.Hour))
	st2 := store.addShowtime(1, 2, time.Now(), time.Now().Add(time.Hour))
	foreign := store.addSeat(st2.ID, "A", 1)

	_, err := inv.TryReserveTx(context.Background(), nil, st1.ID, []uint64{foreign.ID})
	assert.ErrorIs(t, err, model.ErrSeatUnavailable)
}

func TestTryReserveVersionRaceIsConflict(t *testing.T) {
	inv, store := newInventory(t)
	st := store.addShowtime(1, 1, time.Now(), time.Now().Add(time.Hour))
	a1 := store.addSeat(st.ID, "A", 1)

	// A concurrent writer bumps the version between the availability read
	// and the guarded update.
	store.beforeReserve = func(seatID uint64) {
		seat := store.seats[seatID]
		seat.Version++
		store.seats[seatID] = seat
	}

	_, err := inv.TryReserveTx(context.Background(), nil, st.ID, []uint64{a1.ID})
	assert.ErrorIs(t, err, model.ErrReservationConflict)
}

func TestReleaseRestoresAvailability(t *testing.T) {
	inv, store := newInventory(t)
	st := store.addShowtime(1, 1, time.Now(), time.Now().Add(time.Hour))
	a1 := store.addSeat(st.ID, "A", 1)

	_, err := inv.TryReserveTx(context.Background(), nil, st.ID, []uint64{a1.ID})
	require.NoError(t, err)

	require.NoError(t, inv.ReleaseTx(context.Background(), nil, []uint64{a1.ID}))
	seat := store.seats[a1.ID]
	assert.Equal(t, model.SeatAvailable, seat.Status)
	assert.Equal(t, uint64(2), seat.Version)
}
