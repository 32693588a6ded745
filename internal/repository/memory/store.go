// Package memory keeps seat state in process. It serializes every
// transaction behind one mutex and applies a transaction's writes only
// when it commits, so it honours the same rollback semantics as Postgres.
// It is meant for a single-process deployment and for tests.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/seatreserve/internal/domain"
	"github.com/Domenick1991/seatreserve/internal/repository"
)

type holdKey struct {
	flightID int64
	seat     string
}

type state struct {
	holds    map[holdKey]domain.SeatHold
	bookings []domain.Booking
	nextID   int64
}

func (s *state) clone() *state {
	holds := make(map[holdKey]domain.SeatHold, len(s.holds))
	for k, v := range s.holds {
		holds[k] = v
	}
	return &state{holds: holds, bookings: slices.Clone(s.bookings), nextID: s.nextID}
}

func (s *state) confirmed(flightID int64, seat string) bool {
	return s.seatOwner(flightID, seat) != 0
}

// seatOwner is the ID of the Confirmed booking on the seat, or 0.
func (s *state) seatOwner(flightID int64, seat string) int64 {
	for _, b := range s.bookings {
		if b.FlightID == flightID && b.Status == domain.BookingStatusConfirmed && b.SeatNumber != nil && *b.SeatNumber == seat {
			return b.ID
		}
	}
	return 0
}

func (s *state) passengerBooked(flightID, passengerID int64) bool {
	for _, b := range s.bookings {
		if b.FlightID == flightID && b.PassengerID == passengerID && b.Status == domain.BookingStatusConfirmed {
			return true
		}
	}
	return false
}

type flightEntry struct {
	flight  domain.Flight
	seatMap domain.SeatMap
}

type Store struct {
	mu      sync.Mutex
	state   *state
	flights map[int64]flightEntry
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		state:   &state{holds: make(map[holdKey]domain.SeatHold), nextID: 1},
		flights: make(map[int64]flightEntry),
		now:     time.Now,
	}
}

// AddFlight registers a flight and the seat map of its aircraft model.
func (s *Store) AddFlight(f domain.Flight, m domain.SeatMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = s.now()
		f.UpdatedAt = f.CreatedAt
	}
	s.flights[f.ID] = flightEntry{flight: f, seatMap: m}
}

func (s *Store) List(_ context.Context) ([]domain.Flight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flights := make([]domain.Flight, 0, len(s.flights))
	for _, e := range s.flights {
		flights = append(flights, e.flight)
	}
	sort.Slice(flights, func(i, j int) bool {
		if flights[i].DepartureTime.Equal(flights[j].DepartureTime) {
			return flights[i].ID < flights[j].ID
		}
		return flights[i].DepartureTime.Before(flights[j].DepartureTime)
	})
	return flights, nil
}

func (s *Store) GetByID(_ context.Context, id int64) (*domain.Flight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.flights[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "flight"}
	}
	f := e.flight
	return &f, nil
}

func (s *Store) SeatMap(_ context.Context, flightID int64) (*domain.SeatMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.flights[flightID]
	if !ok {
		return nil, domain.NotFoundError{Resource: "flight"}
	}
	m := e.seatMap
	return &m, nil
}

func (s *Store) InTx(ctx context.Context, fn func(tx repository.SeatTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.state.clone()
	if err := fn(&tx{st: work, now: s.now}); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *Store) PurgeExpiredHolds(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for k, h := range s.state.holds {
		if h.Expired(now) {
			delete(s.state.holds, k)
			n++
		}
	}
	return n, nil
}

func (s *Store) ConfirmedSeats(_ context.Context, flightID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seats := make([]string, 0)
	for _, b := range s.state.bookings {
		if b.FlightID == flightID && b.Status == domain.BookingStatusConfirmed && b.SeatNumber != nil {
			seats = append(seats, *b.SeatNumber)
		}
	}
	sort.Strings(seats)
	return seats, nil
}

func (s *Store) Holds(_ context.Context, flightID int64) ([]domain.SeatHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	holds := make([]domain.SeatHold, 0)
	for _, h := range s.state.holds {
		if h.FlightID == flightID {
			holds = append(holds, h)
		}
	}
	sort.Slice(holds, func(i, j int) bool { return holds[i].SeatNumber < holds[j].SeatNumber })
	return holds, nil
}

func (s *Store) GetByReference(_ context.Context, reference string) ([]domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Booking
	for _, b := range s.state.bookings {
		if b.BookingReference == reference {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		return nil, domain.NotFoundError{Resource: "booking"}
	}
	return out, nil
}

func (s *Store) GetByTicket(_ context.Context, ticketNumber string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.state.bookings {
		if b.TicketNumber == ticketNumber {
			out := b
			return &out, nil
		}
	}
	return nil, domain.NotFoundError{Resource: "booking"}
}

func (s *Store) Cancel(_ context.Context, reference string, bookingID int64, callerID string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.bookings {
		b := &s.state.bookings[i]
		if b.ID != bookingID || b.BookingReference != reference || b.BookedBy != callerID || b.Status != domain.BookingStatusConfirmed {
			continue
		}
		b.Status = domain.BookingStatusCancelled
		b.UpdatedAt = s.now()
		out := *b
		return &out, nil
	}
	return nil, domain.NotFoundError{Resource: "booking"}
}

type tx struct {
	st  *state
	now func() time.Time
}

func (t *tx) ReleaseHoldsExcept(_ context.Context, flightID int64, holderID string, keep []string) error {
	for k, h := range t.st.holds {
		if h.FlightID == flightID && h.HolderID == holderID && !slices.Contains(keep, h.SeatNumber) {
			delete(t.st.holds, k)
		}
	}
	return nil
}

func (t *tx) SeatBooked(_ context.Context, flightID int64, seat string) (bool, error) {
	return t.st.confirmed(flightID, seat), nil
}

func (t *tx) LockHold(_ context.Context, flightID int64, seat string) (*domain.SeatHold, error) {
	h, ok := t.st.holds[holdKey{flightID, seat}]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (t *tx) UpsertHold(_ context.Context, hold domain.SeatHold, now time.Time) (bool, error) {
	k := holdKey{hold.FlightID, hold.SeatNumber}
	if cur, ok := t.st.holds[k]; ok && cur.HolderID != hold.HolderID && !cur.Expired(now) {
		return false, nil
	}
	t.st.holds[k] = hold
	return true, nil
}

func (t *tx) LockConfirmedSeats(_ context.Context, flightID int64, seats []string) ([]string, error) {
	var taken []string
	for _, seat := range seats {
		if t.st.confirmed(flightID, seat) {
			taken = append(taken, seat)
		}
	}
	sort.Strings(taken)
	return taken, nil
}

func (t *tx) InsertBooking(_ context.Context, b *domain.Booking) error {
	if b.SeatNumber != nil && b.Status == domain.BookingStatusConfirmed && t.st.confirmed(b.FlightID, *b.SeatNumber) {
		return domain.ConflictError{Seat: *b.SeatNumber, Msg: domain.MsgSeatBooked}
	}
	if b.Status == domain.BookingStatusConfirmed && t.st.passengerBooked(b.FlightID, b.PassengerID) {
		return domain.PassengerBookedError(b.PassengerID, nil)
	}
	for _, existing := range t.st.bookings {
		if existing.TicketNumber == b.TicketNumber {
			return domain.ConflictError{Msg: "duplicate ticket number " + b.TicketNumber}
		}
	}
	b.ID = t.st.nextID
	t.st.nextID++
	b.CreatedAt = t.now()
	b.UpdatedAt = b.CreatedAt
	t.st.bookings = append(t.st.bookings, *b)
	return nil
}

func (t *tx) LockPassengerBookings(_ context.Context, flightID int64, passengerIDs []int64) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range t.st.bookings {
		if b.FlightID == flightID && b.Status == domain.BookingStatusConfirmed && slices.Contains(passengerIDs, b.PassengerID) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PassengerID < out[j].PassengerID })
	return out, nil
}

func (t *tx) CheckIn(_ context.Context, b *domain.Booking) error {
	for i := range t.st.bookings {
		cur := &t.st.bookings[i]
		if cur.ID != b.ID || cur.Status != domain.BookingStatusConfirmed {
			continue
		}
		if b.SeatNumber != nil {
			if owner := t.st.seatOwner(cur.FlightID, *b.SeatNumber); owner != 0 && owner != cur.ID {
				return domain.ConflictError{Seat: *b.SeatNumber, Msg: domain.MsgSeatBooked}
			}
		}
		cur.SeatNumber = b.SeatNumber
		cur.CheckInStatus = b.CheckInStatus
		cur.PriceCents = b.PriceCents
		cur.UpdatedAt = t.now()
		b.UpdatedAt = cur.UpdatedAt
		return nil
	}
	return domain.NotFoundError{Resource: "booking"}
}

func (t *tx) DeleteHolds(_ context.Context, flightID int64, holderID string, seats []string) error {
	for _, seat := range seats {
		k := holdKey{flightID, seat}
		if h, ok := t.st.holds[k]; ok && h.HolderID == holderID {
			delete(t.st.holds, k)
		}
	}
	return nil
}

var (
	_ repository.SeatStore         = (*Store)(nil)
	_ repository.FlightRepository  = (*Store)(nil)
	_ repository.BookingRepository = (*Store)(nil)
	_ repository.SeatTx            = (*tx)(nil)
)
