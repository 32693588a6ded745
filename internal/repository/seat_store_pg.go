package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/seatreserve/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation            = "23505"
	confirmedSeatConstraint      = "bookings_confirmed_seat_key"
	confirmedPassengerConstraint = "bookings_confirmed_passenger_key"
)

type PGSeatStore struct {
	db DB
}

func NewSeatStore(db DB) *PGSeatStore {
	return &PGSeatStore{db: db}
}

func (s *PGSeatStore) InTx(ctx context.Context, fn func(tx SeatTx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seat tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgSeatTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seat tx: %w", err)
	}
	return nil
}

func (s *PGSeatStore) PurgeExpiredHolds(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := s.db.Exec(ctx, `DELETE FROM seat_holds WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("purge expired holds: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (s *PGSeatStore) ConfirmedSeats(ctx context.Context, flightID int64) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT seat_number FROM bookings
		WHERE flight_id=$1 AND status=$2 AND seat_number IS NOT NULL
		ORDER BY seat_number`, flightID, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("query confirmed seats: %w", err)
	}
	return collectSeats(rows)
}

func (s *PGSeatStore) Holds(ctx context.Context, flightID int64) ([]domain.SeatHold, error) {
	rows, err := s.db.Query(ctx, `SELECT flight_id, seat_number, holder_id, expires_at FROM seat_holds
		WHERE flight_id=$1 ORDER BY seat_number`, flightID)
	if err != nil {
		return nil, fmt.Errorf("query holds: %w", err)
	}
	defer rows.Close()

	holds := make([]domain.SeatHold, 0)
	for rows.Next() {
		var h domain.SeatHold
		if err := rows.Scan(&h.FlightID, &h.SeatNumber, &h.HolderID, &h.ExpiresAt); err != nil {
			return nil, err
		}
		holds = append(holds, h)
	}
	return holds, rows.Err()
}

type pgSeatTx struct {
	tx pgx.Tx
}

func (t *pgSeatTx) ReleaseHoldsExcept(ctx context.Context, flightID int64, holderID string, keep []string) error {
	if keep == nil {
		keep = []string{}
	}
	_, err := t.tx.Exec(ctx, `DELETE FROM seat_holds
		WHERE flight_id=$1 AND holder_id=$2 AND NOT (seat_number = ANY($3))`, flightID, holderID, keep)
	if err != nil {
		return fmt.Errorf("release holds: %w", err)
	}
	return nil
}

func (t *pgSeatTx) SeatBooked(ctx context.Context, flightID int64, seat string) (bool, error) {
	var booked bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings
		WHERE flight_id=$1 AND seat_number=$2 AND status=$3)`, flightID, seat, domain.BookingStatusConfirmed).Scan(&booked)
	if err != nil {
		return false, fmt.Errorf("check seat %s booked: %w", seat, err)
	}
	return booked, nil
}

func (t *pgSeatTx) LockHold(ctx context.Context, flightID int64, seat string) (*domain.SeatHold, error) {
	h := domain.SeatHold{FlightID: flightID, SeatNumber: seat}
	err := t.tx.QueryRow(ctx, `SELECT holder_id, expires_at FROM seat_holds
		WHERE flight_id=$1 AND seat_number=$2 FOR UPDATE`, flightID, seat).Scan(&h.HolderID, &h.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lock hold %s: %w", seat, err)
	}
	return &h, nil
}

// UpsertHold relies on the conditional DO UPDATE: a row inserted by another
// caller between LockHold and this statement is only overwritten once it
// has expired.
func (t *pgSeatTx) UpsertHold(ctx context.Context, hold domain.SeatHold, now time.Time) (bool, error) {
	cmd, err := t.tx.Exec(ctx, `INSERT INTO seat_holds (flight_id, seat_number, holder_id, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (flight_id, seat_number) DO UPDATE
		SET holder_id = EXCLUDED.holder_id, expires_at = EXCLUDED.expires_at
		WHERE seat_holds.holder_id = EXCLUDED.holder_id OR seat_holds.expires_at < $5`,
		hold.FlightID, hold.SeatNumber, hold.HolderID, hold.ExpiresAt, now)
	if err != nil {
		return false, fmt.Errorf("upsert hold %s: %w", hold.SeatNumber, err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (t *pgSeatTx) LockConfirmedSeats(ctx context.Context, flightID int64, seats []string) ([]string, error) {
	if len(seats) == 0 {
		return nil, nil
	}
	rows, err := t.tx.Query(ctx, `SELECT seat_number FROM bookings
		WHERE flight_id=$1 AND seat_number = ANY($2) AND status=$3
		ORDER BY seat_number FOR UPDATE`, flightID, seats, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("lock confirmed seats: %w", err)
	}
	return collectSeats(rows)
}

func (t *pgSeatTx) InsertBooking(ctx context.Context, b *domain.Booking) error {
	err := t.tx.QueryRow(ctx, `INSERT INTO bookings (flight_id, passenger_id, seat_number, status, booking_reference,
			ticket_number, check_in_status, booked_by, baggage_option, price_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		b.FlightID, b.PassengerID, b.SeatNumber, b.Status, b.BookingReference,
		b.TicketNumber, b.CheckInStatus, b.BookedBy, b.BaggageOption, b.PriceCents).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err == nil {
		return nil
	}
	return bookingWriteError(err, b, "insert booking")
}

func (t *pgSeatTx) LockPassengerBookings(ctx context.Context, flightID int64, passengerIDs []int64) ([]domain.Booking, error) {
	if len(passengerIDs) == 0 {
		return nil, nil
	}
	rows, err := t.tx.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE flight_id=$1 AND passenger_id = ANY($2) AND status=$3
		ORDER BY passenger_id FOR UPDATE`, flightID, passengerIDs, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("lock passenger bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (t *pgSeatTx) CheckIn(ctx context.Context, b *domain.Booking) error {
	err := t.tx.QueryRow(ctx, `UPDATE bookings SET seat_number=$1, check_in_status=$2, price_cents=$3, updated_at=now()
		WHERE id=$4 AND status=$5
		RETURNING updated_at`,
		b.SeatNumber, b.CheckInStatus, b.PriceCents, b.ID, domain.BookingStatusConfirmed).
		Scan(&b.UpdatedAt)
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFoundError{Resource: "booking", Err: err}
	}
	return bookingWriteError(err, b, "check in booking")
}

// bookingWriteError maps the partial unique indexes on bookings to
// ConflictError.
func bookingWriteError(err error, b *domain.Booking, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		switch pgErr.ConstraintName {
		case confirmedSeatConstraint:
			seat := ""
			if b.SeatNumber != nil {
				seat = *b.SeatNumber
			}
			return domain.ConflictError{Seat: seat, Msg: domain.MsgSeatBooked, Err: err}
		case confirmedPassengerConstraint:
			return domain.PassengerBookedError(b.PassengerID, err)
		}
	}
	return fmt.Errorf("%s for passenger %d: %w", op, b.PassengerID, err)
}

func (t *pgSeatTx) DeleteHolds(ctx context.Context, flightID int64, holderID string, seats []string) error {
	if len(seats) == 0 {
		return nil
	}
	_, err := t.tx.Exec(ctx, `DELETE FROM seat_holds
		WHERE flight_id=$1 AND holder_id=$2 AND seat_number = ANY($3)`, flightID, holderID, seats)
	if err != nil {
		return fmt.Errorf("delete finalized holds: %w", err)
	}
	return nil
}

func collectSeats(rows pgx.Rows) ([]string, error) {
	defer rows.Close()

	seats := make([]string, 0)
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}

var (
	_ SeatStore = (*PGSeatStore)(nil)
	_ SeatTx    = (*pgSeatTx)(nil)
)
