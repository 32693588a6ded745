package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/seatreserve/internal/domain"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	SeatMap(ctx context.Context, flightID int64) (*domain.SeatMap, error)
}

type BookingRepository interface {
	GetByReference(ctx context.Context, reference string) ([]domain.Booking, error)
	GetByTicket(ctx context.Context, ticketNumber string) (*domain.Booking, error)
	// Cancel flips a Confirmed booking of the reference to Cancelled only when
	// callerID booked it.
	Cancel(ctx context.Context, reference string, bookingID int64, callerID string) (*domain.Booking, error)
}

// SeatStore is the persisted seat state every request handler coordinates
// through. Reads outside InTx are not serialized against writers.
type SeatStore interface {
	InTx(ctx context.Context, fn func(tx SeatTx) error) error
	PurgeExpiredHolds(ctx context.Context, now time.Time) (int64, error)
	ConfirmedSeats(ctx context.Context, flightID int64) ([]string, error)
	Holds(ctx context.Context, flightID int64) ([]domain.SeatHold, error)
}

// SeatTx is one short transaction. Callers must touch seats in lexical
// order so concurrent transactions acquire row locks in the same order.
type SeatTx interface {
	ReleaseHoldsExcept(ctx context.Context, flightID int64, holderID string, keep []string) error
	SeatBooked(ctx context.Context, flightID int64, seat string) (bool, error)
	// LockHold returns the hold row for the seat, locked until the end of the
	// transaction, or nil when there is none.
	LockHold(ctx context.Context, flightID int64, seat string) (*domain.SeatHold, error)
	// UpsertHold writes the hold unless another holder owns a hold that has
	// not expired at now. It reports whether the hold was written.
	UpsertHold(ctx context.Context, hold domain.SeatHold, now time.Time) (bool, error)
	// LockConfirmedSeats returns the subset of seats already on Confirmed
	// bookings of the flight, locking those booking rows.
	LockConfirmedSeats(ctx context.Context, flightID int64, seats []string) ([]string, error)
	// InsertBooking fills ID and timestamps. A seat taken by a concurrent
	// Confirmed booking yields domain.ConflictError.
	InsertBooking(ctx context.Context, booking *domain.Booking) error
	// LockPassengerBookings returns the Confirmed bookings the passengers
	// already hold on the flight, locked until the end of the transaction.
	LockPassengerBookings(ctx context.Context, flightID int64, passengerIDs []int64) ([]domain.Booking, error)
	// CheckIn stores the seat, check-in status and price of an existing
	// booking. Seat conflicts are reported like InsertBooking's.
	CheckIn(ctx context.Context, booking *domain.Booking) error
	DeleteHolds(ctx context.Context, flightID int64, holderID string, seats []string) error
}
