package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

type CheckInStatus string

const (
	CheckInStatusPending   CheckInStatus = "Pending"
	CheckInStatusCheckedIn CheckInStatus = "Checked-in"
)

// BookingPurpose tells the finalizer which event produced the booking.
type BookingPurpose string

const (
	BookingPurposePurchase BookingPurpose = "purchase"
	BookingPurposeCheckIn  BookingPurpose = "check_in"
)

func (p BookingPurpose) Valid() bool {
	return p == BookingPurposePurchase || p == BookingPurposeCheckIn
}

type Booking struct {
	ID               int64         `json:"id"`
	FlightID         int64         `json:"flight_id"`
	PassengerID      int64         `json:"passenger_id"`
	SeatNumber       *string       `json:"seat_number"`
	Status           BookingStatus `json:"status"`
	BookingReference string        `json:"booking_reference"`
	TicketNumber     string        `json:"ticket_number"`
	CheckInStatus    CheckInStatus `json:"check_in_status"`
	BookedBy         string        `json:"booked_by"`
	BaggageOption    string        `json:"baggage_option"`
	PriceCents       int64         `json:"price_cents"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// PassengerSeat assigns an optional seat to one passenger of a group.
// Infants travel without a seat.
type PassengerSeat struct {
	PassengerID int64   `json:"passenger_id" validate:"gt=0"`
	SeatNumber  *string `json:"seat_number,omitempty" validate:"omitempty,seat"`
}

// Quote is the price of a proposed seat assignment.
type Quote struct {
	BaseTotal         int64 `json:"base_total"`
	NeighborSurcharge int64 `json:"neighbor_surcharge"`
	Total             int64 `json:"total"`
}

// SeatsOf returns the non-empty seats of pairs in input order.
func SeatsOf(pairs []PassengerSeat) []string {
	seats := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.SeatNumber != nil && *p.SeatNumber != "" {
			seats = append(seats, *p.SeatNumber)
		}
	}
	return seats
}
