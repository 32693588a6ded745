package booking

import (
	"context"
	"slices"

	"github.com/Domenick1991/seatreserve/internal/domain"
	"github.com/Domenick1991/seatreserve/internal/kafka"
)

// randomSeatAttempts bounds how often a lost race on the picked seat is
// retried with another free seat.
const randomSeatAttempts = 3

type RandomSeatInput struct {
	FlightID      int64                 `json:"flight_id" validate:"gt=0"`
	CallerID      string                `json:"caller_id" validate:"required"`
	PassengerID   int64                 `json:"passenger_id" validate:"gt=0"`
	Purpose       domain.BookingPurpose `json:"purpose" validate:"oneof=purchase check_in"`
	BaggageOption string                `json:"baggage_option"`
}

// AssignRandomSeat books one passenger onto a seat picked uniformly among the
// free seats that cost nothing extra. With the check-in purpose the seat goes
// onto the passenger's existing ticket. The free list is a snapshot; the
// booking transaction still re-checks the chosen seat.
func (s *BookingService) AssignRandomSeat(ctx context.Context, input RandomSeatInput) (*FinalizeResult, error) {
	if input.Purpose == "" {
		input.Purpose = domain.BookingPurposePurchase
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	layout, err := s.flights.SeatMap(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	if input.Purpose == domain.BookingPurposeCheckIn {
		if err := s.checkInOpen(flight); err != nil {
			return nil, err
		}
	}

	free, err := s.freeSeats(ctx, input.FlightID, layout)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < randomSeatAttempts; attempt++ {
		if len(free) == 0 {
			break
		}
		i := s.intn(len(free))
		seat := free[i]

		finalizeInput := FinalizeInput{
			FlightID:      input.FlightID,
			CallerID:      input.CallerID,
			Passengers:    []domain.PassengerSeat{{PassengerID: input.PassengerID, SeatNumber: &seat}},
			Purpose:       input.Purpose,
			BaggageOption: input.BaggageOption,
		}
		result, err := s.finalize(ctx, finalizeInput, flight, layout)
		if err == nil {
			s.publishConfirmed(ctx, kafka.EventSeatAssigned, finalizeInput, result)
			return result, nil
		}
		if lost, ok := domain.ConflictSeat(err); !ok || lost != seat {
			return nil, err
		}
		free = slices.Delete(free, i, i+1)
	}

	return nil, domain.ConflictError{Msg: domain.MsgNoFreeSeat}
}

func (s *BookingService) freeSeats(ctx context.Context, flightID int64, layout *domain.SeatMap) ([]string, error) {
	booked, err := s.store.ConfirmedSeats(ctx, flightID)
	if err != nil {
		return nil, err
	}
	holds, err := s.store.Holds(ctx, flightID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	taken := make(map[string]struct{}, len(booked)+len(holds))
	for _, seat := range booked {
		taken[seat] = struct{}{}
	}
	for _, h := range holds {
		if !h.Expired(now) {
			taken[h.SeatNumber] = struct{}{}
		}
	}

	var free []string
	for _, seat := range layout.Seats() {
		if _, ok := taken[seat]; ok {
			continue
		}
		if layout.SeatPrice(seat) != 0 {
			continue
		}
		free = append(free, seat)
	}
	return free, nil
}
