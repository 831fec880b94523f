package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agx/bookmyseat/internal/model"
)

func newScheduler(t *testing.T) (*Scheduler, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	inv := NewSeatInventory(store, seatStore{store}, showtimeStore{store})
	sched := NewScheduler(store, store, screenStore{store}, showtimeStore{store}, bookingStore{store}, inv, "AB", 2)
	return sched, store
}

func TestCreateShowtimeComputesEndFromDuration(t *testing.T) {
	sched, store := newScheduler(t)
	movie := store.addMovie("Interstellar", 169)
	screen := store.addScreen("Screen 1")
	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)

	st, err := sched.CreateShowtime(context.Background(), movie.ID, screen.ID, start)
	require.NoError(t, err)
	assert.Equal(t, start, st.StartsAt)
	assert.Equal(t, start.Add(169*time.Minute), st.EndsAt)
	assert.Contains(t, store.lockedScreens, screen.ID)
}

func TestCreateShowtimeMaterializesGrid(t *testing.T) {
	sched, store := newScheduler(t)
	movie := store.addMovie("Dune", 155)
	screen := store.addScreen("Screen 1")

	st, err := sched.CreateShowtime(context.Background(), movie.ID, screen.ID, time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	seats := store.seatsFor(st.ID)
	require.Len(t, seats, 4) // 2 rows x 2 seats in the test layout
	assert.Equal(t, "A1", seats[0].Label())
	assert.Equal(t, "B2", seats[3].Label())
}

func TestCreateShowtimeUnknownMovieOrScreen(t *testing.T) {
	sched, store := newScheduler(t)
	movie := store.addMovie("Up", 96)
	screen := store.addScreen("Screen 1")
	start := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	_, err := sched.CreateShowtime(context.Background(), 999, screen.ID, start)
	assert.ErrorIs(t, err, model.ErrMovieNotFound)

	_, err = sched.CreateShowtime(context.Background(), movie.ID, 999, start)
	assert.ErrorIs(t, err, model.ErrScreenNotFound)
}

func TestCreateShowtimeRejectsOverlap(t *testing.T) {
	sched, store := newScheduler(t)
	movie := store.addMovie("Heat", 120)
	screen := store.addScreen("Screen 1")
	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)

	_, err := sched.CreateShowtime(context.Background(), movie.ID, screen.ID, start)
	require.NoError(t, err)

	cases := map[string]time.Time{
		"same start":       start,
		"starts during":    start.Add(30 * time.Minute),
		"ends during":      start.Add(-30 * time.Minute),
		"fully containing": start.Add(-10 * time.Minute),
	}
	for name, candidate := range cases {
		_, err := sched.CreateShowtime(context.Background(), movie.ID, screen.ID, candidate)
		assert.ErrorIs(t, err, model.ErrScheduleConflict, name)
	}
}

func TestCreateShowtimeAllowsTouchingIntervals(t *testing.T) {
	sched, store := newScheduler(t)
	movie := store.addMovie("Heat", 120)
	screen := store.addScreen("Screen 1")
	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)

	first, err := sched.CreateShowtime(context.Background(), movie.ID, screen.ID, start)
	require.NoError(t, err)

	// back-to-back: next one starts exactly when the first ends
	_, err = sched.CreateShowtime(context.Background(), movie.ID, screen.ID, first.EndsAt)
	assert.NoError(t, err)

	// and one ending exactly at the first's start
	_, err = sched.CreateShowtime(context.Background(), movie.ID, screen.ID, start.Add(-120*time.Minute))
	assert.NoError(t, err)
}

func TestCreateShowtimeOverlapOnOtherScreenIsFine(t *testing.T) {
	sched, store := newScheduler(t)
	movie := store.addMovie("Heat", 120)
	s1 := store.addScreen("Screen 1")
	s2 := store.addScreen("Screen 2")
	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)

	_, err := sched.CreateShowtime(context.Background(), movie.ID, s1.ID, start)
	require.NoError(t, err)

	_, err = sched.CreateShowtime(context.Background(), movie.ID, s2.ID, start)
	assert.NoError(t, err)
}

func TestCreateShowtimeConflictLeavesNothingBehind(t *testing.T) {
	sched, store := newScheduler(t)
	movie := store.addMovie("Heat", 120)
	screen := store.addScreen("Screen 1")
	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)

	_, err := sched.CreateShowtime(context.Background(), movie.ID, screen.ID, start)
	require.NoError(t, err)
	showtimes := len(store.showtimes)
	seats := len(store.seats)

	_, err = sched.CreateShowtime(context.Background(), movie.ID, screen.ID, start.Add(time.Minute))
	require.ErrorIs(t, err, model.ErrScheduleConflict)
	assert.Len(t, store.showtimes, showtimes)
	assert.Len(t, store.seats, seats)
}

func TestCreateShowtimeGridFailureRollsBack(t *testing.T) {
	sched, store := newScheduler(t)
	movie := store.addMovie("Heat", 120)
	screen := store.addScreen("Screen 1")
	store.createGridErr = assert.AnError

	_, err := sched.CreateShowtime(context.Background(), movie.ID, screen.ID, time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, assert.AnError)
	// the showtime insert preceded the failure; rollback must remove it
	assert.Empty(t, store.showtimes)
	assert.Empty(t, store.seats)
}

func TestDeleteShowtimeCascades(t *testing.T) {
	sched, store := newScheduler(t)
	movie := store.addMovie("Heat", 120)
	screen := store.addScreen("Screen 1")

	st, err := sched.CreateShowtime(context.Background(), movie.ID, screen.ID, time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotEmpty(t, store.seatsFor(st.ID))

	require.NoError(t, sched.DeleteShowtime(context.Background(), st.ID))
	assert.Empty(t, store.seatsFor(st.ID))
	assert.NotContains(t, store.showtimes, st.ID)
}

func TestDeleteShowtimeUnknown(t *testing.T) {
	sched, _ := newScheduler(t)
	err := sched.DeleteShowtime(context.Background(), 404)
	assert.ErrorIs(t, err, model.ErrShowtimeNotFound)
}
