package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/seatreserve/internal/domain"
	"github.com/jackc/pgx/v5"
)

const bookingColumns = `id, flight_id, passenger_id, seat_number, status, booking_reference, ticket_number,
	check_in_status, booked_by, baggage_option, price_cents, created_at, updated_at`

type PGBookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) GetByReference(ctx context.Context, reference string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_reference=$1 ORDER BY id`, reference)
	if err != nil {
		return nil, err
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
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, domain.NotFoundError{Resource: "booking"}
	}
	return bookings, nil
}

func (r *PGBookingRepository) GetByTicket(ctx context.Context, ticketNumber string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE ticket_number=$1`, ticketNumber)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "booking", Err: err}
	}
	return b, err
}

func (r *PGBookingRepository) Cancel(ctx context.Context, reference string, bookingID int64, callerID string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE id=$2 AND booking_reference=$3 AND booked_by=$4 AND status=$5
		RETURNING `+bookingColumns,
		domain.BookingStatusCancelled, bookingID, reference, callerID, domain.BookingStatusConfirmed)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "booking", Err: err}
	}
	return b, err
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.FlightID, &b.PassengerID, &b.SeatNumber, &b.Status, &b.BookingReference, &b.TicketNumber,
		&b.CheckInStatus, &b.BookedBy, &b.BaggageOption, &b.PriceCents, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
