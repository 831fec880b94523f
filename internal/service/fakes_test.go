package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/agx/bookmyseat/internal/model"
	"github.com/agx/bookmyseat/internal/queue"
)

// fakeStore is an in-memory stand-in for every store interface.  A single
// mutex guards all state; fakeStore.RunInTx holds it for the duration of the
// callback and restores a snapshot when the callback errors, which mimics a
// serializable transaction with rollback.
type fakeStore struct {
	mu sync.Mutex

	movies    map[uint64]model.Movie
	theaters  map[uint64]model.Theater
	screens   map[uint64]model.Screen
	users     map[uint64]model.User
	showtimes map[uint64]model.Showtime
	seats     map[uint64]model.Seat
	bookings  map[uint64]model.Booking
	links     map[uint64][]uint64 // booking id -> seat ids

	nextID uint64

	// beforeReserve, when set, runs inside ReserveTx before the version
	// check.  Tests use it to slip a concurrent writer between the
	// availability read and the guarded update.
	beforeReserve func(seatID uint64)

	// Injected failures for the persistence steps that follow a successful
	// reservation or insert, so rollback behavior is observable.
	createBookingErr error
	createGridErr    error

	lockedScreens []uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		movies:    map[uint64]model.Movie{},
		theaters:  map[uint64]model.Theater{},
		screens:   map[uint64]model.Screen{},
		users:     map[uint64]model.User{},
		showtimes: map[uint64]model.Showtime{},
		seats:     map[uint64]model.Seat{},
		bookings:  map[uint64]model.Booking{},
		links:     map[uint64][]uint64{},
	}
}

func (f *fakeStore) id() uint64 {
	f.nextID++
	return f.nextID
}

// RunInTx emulates a transaction: state is snapshotted up front and restored
// when fn fails.  The lock serializes concurrent transactions.
func (f *fakeStore) RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := f.snapshot()
	if err := fn(nil); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

type storeSnapshot struct {
	showtimes map[uint64]model.Showtime
	seats     map[uint64]model.Seat
	bookings  map[uint64]model.Booking
	links     map[uint64][]uint64
	nextID    uint64
}

func (f *fakeStore) snapshot() storeSnapshot {
	s := storeSnapshot{
		showtimes: make(map[uint64]model.Showtime, len(f.showtimes)),
		seats:     make(map[uint64]model.Seat, len(f.seats)),
		bookings:  make(map[uint64]model.Booking, len(f.bookings)),
		links:     make(map[uint64][]uint64, len(f.links)),
		nextID:    f.nextID,
	}
	for k, v := range f.showtimes {
		s.showtimes[k] = v
	}
	for k, v := range f.seats {
		s.seats[k] = v
	}
	for k, v := range f.bookings {
		v.Seats = append([]model.Seat(nil), v.Seats...)
		s.bookings[k] = v
	}
	for k, v := range f.links {
		s.links[k] = append([]uint64(nil), v...)
	}
	return s
}

func (f *fakeStore) restore(s storeSnapshot) {
	f.showtimes = s.showtimes
	f.seats = s.seats
	f.bookings = s.bookings
	f.links = s.links
	f.nextID = s.nextID
}

// --- seeding helpers ---

func (f *fakeStore) addMovie(title string, durationMins uint32) model.Movie {
	m := model.Movie{ID: f.id(), Title: title, DurationMins: durationMins}
	f.movies[m.ID] = m
	return m
}

func (f *fakeStore) addScreen(name string) model.Screen {
	s := model.Screen{ID: f.id(), Name: name}
	f.screens[s.ID] = s
	return s
}

func (f *fakeStore) addUser(name string) model.User {
	u := model.User{ID: f.id(), Name: name}
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) addShowtime(movieID, screenID uint64, start, end time.Time) model.Showtime {
	st := model.Showtime{ID: f.id(), MovieID: movieID, ScreenID: screenID, StartsAt: start, EndsAt: end}
	f.showtimes[st.ID] = st
	return st
}

func (f *fakeStore) addSeat(showtimeID uint64, row string, num uint32) model.Seat {
	s := model.Seat{ID: f.id(), ShowtimeID: showtimeID, RowLabel: row, SeatNumber: num, Status: model.SeatAvailable}
	f.seats[s.ID] = s
	return s
}

func (f *fakeStore) seatsFor(showtimeID uint64) []model.Seat {
	out := []model.Seat{}
	for _, s := range f.seats {
		if s.ShowtimeID == showtimeID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RowLabel != out[j].RowLabel {
			return out[i].RowLabel < out[j].RowLabel
		}
		return out[i].SeatNumber < out[j].SeatNumber
	})
	return out
}

// --- MovieStore ---

func (f *fakeStore) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	m, ok := f.movies[id]
	if !ok {
		return nil, model.ErrMovieNotFound
	}
	return &m, nil
}

// screenStore wraps fakeStore so GetByID can have a second meaning.
type screenStore struct{ *fakeStore }

func (s screenStore) GetByID(ctx context.Context, id uint64) (*model.Screen, error) {
	sc, ok := s.screens[id]
	if !ok {
		return nil, model.ErrScreenNotFound
	}
	return &sc, nil
}

func (s screenStore) LockTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	if _, ok := s.screens[id]; !ok {
		return model.ErrScreenNotFound
	}
	s.lockedScreens = append(s.lockedScreens, id)
	return nil
}

// userStore wraps fakeStore for the user flavor of GetByID.
type userStore struct{ *fakeStore }

func (u userStore) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	usr, ok := u.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &usr, nil
}

// showtimeStore wraps fakeStore for ShowtimeStore.
type showtimeStore struct{ *fakeStore }

func (s showtimeStore) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
	st, ok := s.showtimes[id]
	if !ok {
		return nil, model.ErrShowtimeNotFound
	}
	return &st, nil
}

func (s showtimeStore) Exists(ctx context.Context, id uint64) (bool, error) {
	_, ok := s.showtimes[id]
	return ok, nil
}

func (s showtimeStore) CreateTx(ctx context.Context, tx *sql.Tx, st *model.Showtime) error {
	st.ID = s.id()
	s.showtimes[st.ID] = *st
	return nil
}

func (s showtimeStore) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	if _, ok := s.showtimes[id]; !ok {
		return model.ErrShowtimeNotFound
	}
	delete(s.showtimes, id)
	return nil
}

func (s showtimeStore) FindOverlappingTx(ctx context.Context, tx *sql.Tx, screenID uint64, start, end time.Time) ([]model.Showtime, error) {
	out := []model.Showtime{}
	for _, st := range s.showtimes {
		if st.ScreenID == screenID && st.Overlaps(start, end) {
			out = append(out, st)
		}
	}
	return out, nil
}

// seatStore wraps fakeStore for SeatStore.
type seatStore struct{ *fakeStore }

func (s seatStore) ListByShowtime(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	return s.seatsFor(showtimeID), nil
}

func (s seatStore) ListAvailableByShowtime(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	all := s.seatsFor(showtimeID)
	out := all[:0]
	for _, seat := range all {
		if seat.Status == model.SeatAvailable {
			out = append(out, seat)
		}
	}
	return out, nil
}

func (s seatStore) CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []model.Seat) error {
	if s.createGridErr != nil {
		return s.createGridErr
	}
	for _, seat := range seats {
		seat.ID = s.id()
		seat.Status = model.SeatAvailable
		s.seats[seat.ID] = seat
	}
	return nil
}

func (s seatStore) FindAvailableByIDsTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, seatIDs []uint64) ([]model.Seat, error) {
	out := []model.Seat{}
	for _, id := range seatIDs {
		seat, ok := s.seats[id]
		if !ok || seat.ShowtimeID != showtimeID || seat.Status != model.SeatAvailable {
			continue
		}
		out = append(out, seat)
	}
	return out, nil
}

func (s seatStore) ReserveTx(ctx context.Context, tx *sql.Tx, seatID, version uint64) (bool, error) {
	if s.beforeReserve != nil {
		s.beforeReserve(seatID)
	}
	seat, ok := s.seats[seatID]
	if !ok || seat.Version != version || seat.Status != model.SeatAvailable {
		return false, nil
	}
	seat.Status = model.SeatBooked
	seat.Version++
	s.seats[seatID] = seat
	return true, nil
}

func (s seatStore) ReleaseTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64) error {
	for _, id := range seatIDs {
		seat, ok := s.seats[id]
		if !ok {
			continue
		}
		seat.Status = model.SeatAvailable
		seat.Version++
		s.seats[id] = seat
	}
	return nil
}

func (s seatStore) DeleteByShowtimeTx(ctx context.Context, tx *sql.Tx, showtimeID uint64) error {
	for id, seat := range s.seats {
		if seat.ShowtimeID == showtimeID {
			delete(s.seats, id)
			for bid, ids := range s.links {
				kept := ids[:0]
				for _, sid := range ids {
					if sid != id {
						kept = append(kept, sid)
					}
				}
				s.links[bid] = kept
			}
		}
	}
	return nil
}

// bookingStore wraps fakeStore for BookingStore.
type bookingStore struct{ *fakeStore }

func (b bookingStore) CreateTx(ctx context.Context, tx *sql.Tx, bk *model.Booking) error {
	if b.createBookingErr != nil {
		return b.createBookingErr
	}
	bk.ID = b.id()
	cp := *bk
	cp.Seats = append([]model.Seat(nil), bk.Seats...)
	b.bookings[bk.ID] = cp
	return nil
}

func (b bookingStore) AddSeatsTx(ctx context.Context, tx *sql.Tx, bookingID uint64, seatIDs []uint64) error {
	b.links[bookingID] = append(b.links[bookingID], seatIDs...)
	return nil
}

func (b bookingStore) GetByToken(ctx context.Context, token string) (*model.Booking, error) {
	for _, bk := range b.bookings {
		if bk.ConfirmationID == token {
			out := bk
			out.Seats = b.linkedSeats(bk.ID)
			return &out, nil
		}
	}
	return nil, model.ErrBookingNotFound
}

func (b bookingStore) GetForCancelTx(ctx context.Context, tx *sql.Tx, token string) (*model.Booking, time.Time, error) {
	bk, err := b.GetByToken(ctx, token)
	if err != nil {
		return nil, time.Time{}, err
	}
	st, ok := b.showtimes[bk.ShowtimeID]
	if !ok {
		return nil, time.Time{}, model.ErrShowtimeNotFound
	}
	return bk, st.StartsAt, nil
}

func (b bookingStore) UpdateStatusTx(ctx context.Context, tx *sql.Tx, bookingID uint64, status model.BookingStatus) error {
	bk, ok := b.bookings[bookingID]
	if !ok {
		return model.ErrBookingNotFound
	}
	bk.Status = status
	b.bookings[bookingID] = bk
	return nil
}

func (b bookingStore) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	out := []model.Booking{}
	for _, bk := range b.bookings {
		if bk.UserID == userID {
			bk.Seats = b.linkedSeats(bk.ID)
			out = append(out, bk)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (b bookingStore) ListConfirmedByShowtime(ctx context.Context, showtimeID uint64) ([]model.Booking, error) {
	out := []model.Booking{}
	for _, bk := range b.bookings {
		if bk.ShowtimeID == showtimeID && bk.Status == model.BookingConfirmed {
			out = append(out, bk)
		}
	}
	return out, nil
}

func (b bookingStore) linkedSeats(bookingID uint64) []model.Seat {
	out := []model.Seat{}
	for _, sid := range b.links[bookingID] {
		if seat, ok := b.seats[sid]; ok {
			out = append(out, seat)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// fakePublisher records every event it is handed.
type fakePublisher struct {
	mu     sync.Mutex
	events []queue.BookingConfirmedEvent
	err    error
}

func (p *fakePublisher) PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}
