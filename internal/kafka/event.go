package kafka

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"
	EventSeatAssigned     = "seat_assigned"
)

// BookingEvent is published after a booking transaction commits. Its key on
// the topic is the booking reference, so all events of one group land on the
// same partition.
type BookingEvent struct {
	ID               string    `json:"id"`
	Type             string    `json:"type"`
	BookingReference string    `json:"booking_reference"`
	FlightID         int64     `json:"flight_id"`
	CallerID         string    `json:"caller_id"`
	Purpose          string    `json:"purpose,omitempty"`
	TicketNumbers    []string  `json:"ticket_numbers"`
	SeatNumbers      []string  `json:"seat_numbers"`
	Status           string    `json:"status"`
	TotalCents       int64     `json:"total_cents"`
	OccurredAt       time.Time `json:"occurred_at"`
}

func DecodeBookingEvent(data []byte) (BookingEvent, error) {
	var event BookingEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return BookingEvent{}, fmt.Errorf("decode booking event: %w", err)
	}
	if event.Type == "" || event.BookingReference == "" {
		return BookingEvent{}, fmt.Errorf("decode booking event: missing type or booking reference")
	}
	return event, nil
}
