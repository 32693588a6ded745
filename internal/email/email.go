// Package email turns booking events into passenger notifications. Delivery
// is a log line for now; the Sender is the seam a mail provider plugs into.
package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/seatreserve/internal/kafka"
	"github.com/Domenick1991/seatreserve/internal/logger"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender struct {
	log *logger.Logger
}

func NewSender(log *logger.Logger) *Sender {
	if log == nil {
		log = logger.Nop()
	}
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	msg, err := Compose(event)
	if err != nil {
		return err
	}
	s.log.InfoContext(ctx, "email sent", "to", msg.To, "subject", msg.Subject, "booking_reference", event.BookingReference)
	return nil
}

// Compose renders the notification for an event. The caller id is the
// account the booking belongs to and doubles as the recipient.
func Compose(event kafka.BookingEvent) (Message, error) {
	if event.CallerID == "" {
		return Message{}, fmt.Errorf("booking %s has no recipient", event.BookingReference)
	}

	var subject string
	switch event.Type {
	case kafka.EventBookingConfirmed:
		subject = fmt.Sprintf("Booking %s confirmed", event.BookingReference)
	case kafka.EventSeatAssigned:
		subject = fmt.Sprintf("Seat assigned for booking %s", event.BookingReference)
	case kafka.EventBookingCancelled:
		subject = fmt.Sprintf("Booking %s cancelled", event.BookingReference)
	default:
		return Message{}, fmt.Errorf("unsupported event type %q", event.Type)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Flight %d\n", event.FlightID)
	if len(event.SeatNumbers) > 0 {
		fmt.Fprintf(&b, "Seats: %s\n", strings.Join(event.SeatNumbers, ", "))
	}
	if len(event.TicketNumbers) > 0 {
		fmt.Fprintf(&b, "Tickets: %s\n", strings.Join(event.TicketNumbers, ", "))
	}
	if event.TotalCents > 0 {
		fmt.Fprintf(&b, "Total: %d.%02d\n", event.TotalCents/100, event.TotalCents%100)
	}

	return Message{To: event.CallerID, Subject: subject, Body: b.String()}, nil
}
