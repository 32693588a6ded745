package booking

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Domenick1991/seatreserve/internal/domain"
	"github.com/Domenick1991/seatreserve/internal/kafka"
	"github.com/Domenick1991/seatreserve/internal/repository"
)

type FinalizeInput struct {
	FlightID      int64                  `json:"flight_id" validate:"gt=0"`
	CallerID      string                 `json:"caller_id" validate:"required"`
	Passengers    []domain.PassengerSeat `json:"passengers" validate:"min=1,dive"`
	Purpose       domain.BookingPurpose  `json:"purpose" validate:"oneof=purchase check_in"`
	BaggageOption string                 `json:"baggage_option"`
}

type FinalizeResult struct {
	BookingReference string           `json:"booking_reference"`
	TicketNumbers    []string         `json:"ticket_numbers"`
	Bookings         []domain.Booking `json:"bookings"`
	Quote            domain.Quote     `json:"quote"`
	FareCents        int64            `json:"fare_cents"`
	TotalCents       int64            `json:"total_cents"`
}

// FinalizeBooking turns a group's seat selection into Confirmed bookings.
// A purchase issues a fresh booking reference and one ticket per passenger
// at the flight's fare. A check-in seats the passengers on the tickets they
// already hold and marks them Checked-in. Either every passenger is handled
// or none is.
func (s *BookingService) FinalizeBooking(ctx context.Context, input FinalizeInput) (*FinalizeResult, error) {
	input = normalizeFinalize(input)
	if err := s.validateFinalize(input); err != nil {
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
	if err := checkSeatsOnLayout(layout, input.Passengers); err != nil {
		return nil, err
	}
	if input.Purpose == domain.BookingPurposeCheckIn {
		if err := s.checkInOpen(flight); err != nil {
			return nil, err
		}
	}

	result, err := s.finalize(ctx, input, flight, layout)
	if err != nil {
		return nil, err
	}
	s.publishConfirmed(ctx, kafka.EventBookingConfirmed, input, result)
	return result, nil
}

// finalize runs the booking transaction for already validated input.
func (s *BookingService) finalize(ctx context.Context, input FinalizeInput, flight *domain.Flight, layout *domain.SeatMap) (*FinalizeResult, error) {
	checkIn := input.Purpose == domain.BookingPurposeCheckIn

	var (
		bookings []domain.Booking
		err      error
	)
	if !checkIn {
		bookings, err = s.newBookings(input, flight, layout)
		if err != nil {
			return nil, err
		}
	}

	passengerIDs := make([]int64, len(input.Passengers))
	for i, p := range input.Passengers {
		passengerIDs[i] = p.PassengerID
	}
	seats := domain.SeatsOf(input.Passengers)
	sort.Strings(seats)
	now := s.now()

	var charged []domain.PassengerSeat
	err = s.store.InTx(ctx, func(tx repository.SeatTx) error {
		existing, err := tx.LockPassengerBookings(ctx, input.FlightID, passengerIDs)
		if err != nil {
			return err
		}
		kept := make(map[string]struct{})
		if checkIn {
			bookings, charged, err = checkInBookings(input, existing, layout)
			if err != nil {
				return err
			}
			for _, b := range existing {
				if b.SeatNumber != nil && seatRequestedBy(input.Passengers, b.PassengerID, *b.SeatNumber) {
					kept[*b.SeatNumber] = struct{}{}
				}
			}
		} else if len(existing) > 0 {
			return domain.PassengerBookedError(existing[0].PassengerID, nil)
		}

		taken, err := tx.LockConfirmedSeats(ctx, input.FlightID, seats)
		if err != nil {
			return err
		}
		for _, seat := range taken {
			if _, ok := kept[seat]; !ok {
				return domain.ConflictError{Seat: seat, Msg: domain.MsgSeatBooked}
			}
		}

		for _, seat := range seats {
			hold, err := tx.LockHold(ctx, input.FlightID, seat)
			if err != nil {
				return err
			}
			if hold != nil && hold.HolderID != input.CallerID && !hold.Expired(now) {
				return domain.ConflictError{Seat: seat, Msg: domain.MsgSeatHeld}
			}
		}

		for i := range bookings {
			if checkIn {
				err = tx.CheckIn(ctx, &bookings[i])
			} else {
				err = tx.InsertBooking(ctx, &bookings[i])
			}
			if err != nil {
				return err
			}
		}
		return tx.DeleteHolds(ctx, input.FlightID, input.CallerID, seats)
	})
	if err != nil {
		if domain.IsConflict(err) || domain.IsNotFound(err) || domain.IsValidation(err) {
			s.log.Info("booking rejected", "flight_id", input.FlightID, "caller_id", input.CallerID,
				"purpose", input.Purpose, "reason", err.Error())
			return nil, err
		}
		s.log.Error("finalize booking failed", "flight_id", input.FlightID, "caller_id", input.CallerID, "error", err)
		return nil, fmt.Errorf("finalize booking: %w", err)
	}

	fare := flight.BaseFareCents
	if checkIn {
		// The fare was paid at purchase; check-in only charges for seats
		// that changed.
		fare = 0
	} else {
		charged = input.Passengers
	}
	quote := s.pricer.Quote(*layout, charged)
	result := &FinalizeResult{
		BookingReference: bookings[0].BookingReference,
		TicketNumbers:    make([]string, len(bookings)),
		Bookings:         bookings,
		Quote:            quote,
		FareCents:        fare,
		TotalCents:       fare*int64(len(bookings)) + quote.Total,
	}
	for i, b := range bookings {
		result.TicketNumbers[i] = b.TicketNumber
	}

	s.log.Info("booking confirmed", "flight_id", input.FlightID, "caller_id", input.CallerID, "purpose", input.Purpose,
		"booking_reference", result.BookingReference, "seats", seats, "total_cents", result.TotalCents)
	return result, nil
}

// newBookings prices a purchase at the flight's fare plus each seat's add-on
// and draws the codes the group will share.
func (s *BookingService) newBookings(input FinalizeInput, flight *domain.Flight, layout *domain.SeatMap) ([]domain.Booking, error) {
	reference, err := s.newReference()
	if err != nil {
		return nil, err
	}

	bookings := make([]domain.Booking, len(input.Passengers))
	for i, p := range input.Passengers {
		ticket, err := s.newTicket()
		if err != nil {
			return nil, err
		}
		bookings[i] = domain.Booking{
			FlightID:         input.FlightID,
			PassengerID:      p.PassengerID,
			SeatNumber:       p.SeatNumber,
			Status:           domain.BookingStatusConfirmed,
			BookingReference: reference,
			TicketNumber:     ticket,
			CheckInStatus:    domain.CheckInStatusPending,
			BookedBy:         input.CallerID,
			BaggageOption:    input.BaggageOption,
			PriceCents:       flight.BaseFareCents + seatPrice(layout, p.SeatNumber),
		}
	}
	return bookings, nil
}

// checkInBookings applies a check-in to the passengers' existing bookings.
// Every passenger must hold a Confirmed booking made by the caller, all under
// one booking reference. A passenger sent without a seat keeps the current
// one. It also returns the pairs whose seat changes, which are the ones
// charged for.
func checkInBookings(input FinalizeInput, existing []domain.Booking, layout *domain.SeatMap) ([]domain.Booking, []domain.PassengerSeat, error) {
	byPassenger := make(map[int64]domain.Booking, len(existing))
	for _, b := range existing {
		byPassenger[b.PassengerID] = b
	}

	bookings := make([]domain.Booking, len(input.Passengers))
	var changed []domain.PassengerSeat
	for i, p := range input.Passengers {
		b, ok := byPassenger[p.PassengerID]
		if !ok || b.BookedBy != input.CallerID {
			return nil, nil, domain.NotFoundError{Resource: fmt.Sprintf("booking of passenger %d", p.PassengerID)}
		}
		if i > 0 && b.BookingReference != bookings[0].BookingReference {
			return nil, nil, domain.ValidationError{Field: "passengers", Msg: "passengers must share one booking reference"}
		}
		if p.SeatNumber != nil && (b.SeatNumber == nil || *b.SeatNumber != *p.SeatNumber) {
			b.PriceCents += seatPrice(layout, p.SeatNumber) - seatPrice(layout, b.SeatNumber)
			b.SeatNumber = p.SeatNumber
			changed = append(changed, p)
		}
		b.CheckInStatus = domain.CheckInStatusCheckedIn
		if b.BaggageOption == "" {
			b.BaggageOption = input.BaggageOption
		}
		bookings[i] = b
	}
	return bookings, changed, nil
}

func seatRequestedBy(passengers []domain.PassengerSeat, passengerID int64, seat string) bool {
	for _, p := range passengers {
		if p.PassengerID == passengerID && p.SeatNumber != nil && *p.SeatNumber == seat {
			return true
		}
	}
	return false
}

func seatPrice(layout *domain.SeatMap, seat *string) int64 {
	if seat == nil {
		return 0
	}
	return layout.SeatPrice(*seat)
}

func checkSeatsOnLayout(layout *domain.SeatMap, passengers []domain.PassengerSeat) error {
	for _, seat := range domain.SeatsOf(passengers) {
		if !layout.Contains(seat) {
			return domain.ValidationError{Field: "passengers", Msg: fmt.Sprintf("seat %s is not on this aircraft", seat)}
		}
	}
	return nil
}

func (s *BookingService) validateFinalize(input FinalizeInput) error {
	if err := s.validate.Struct(input); err != nil {
		return err
	}
	if len(input.Passengers) > s.maxGroupSize {
		return domain.ValidationError{Field: "passengers", Msg: fmt.Sprintf("at most %d passengers per booking", s.maxGroupSize)}
	}

	return checkDuplicates(input.Passengers)
}

// checkDuplicates rejects a passenger or a seat listed twice.
func checkDuplicates(pairs []domain.PassengerSeat) error {
	passengers := make(map[int64]struct{}, len(pairs))
	seats := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		if _, dup := passengers[p.PassengerID]; dup {
			return domain.ValidationError{Field: "passengers", Msg: fmt.Sprintf("passenger %d appears twice", p.PassengerID)}
		}
		passengers[p.PassengerID] = struct{}{}

		if p.SeatNumber == nil {
			continue
		}
		if _, dup := seats[*p.SeatNumber]; dup {
			return domain.ValidationError{Field: "passengers", Msg: fmt.Sprintf("seat %s assigned twice", *p.SeatNumber)}
		}
		seats[*p.SeatNumber] = struct{}{}
	}
	return nil
}

func (s *BookingService) checkInOpen(flight *domain.Flight) error {
	now := s.now()
	opens := flight.DepartureTime.Add(-s.checkInOpens)
	closes := flight.DepartureTime.Add(-s.checkInCloses)

	if now.Before(opens) {
		return domain.ValidationError{Field: "purpose", Msg: fmt.Sprintf("check-in opens at %s", opens.UTC().Format("2006-01-02 15:04 MST"))}
	}
	if now.After(closes) {
		return domain.ValidationError{Field: "purpose", Msg: "check-in is closed for this flight"}
	}
	return nil
}

func (s *BookingService) publishConfirmed(ctx context.Context, eventType string, input FinalizeInput, result *FinalizeResult) {
	seats := make([]string, 0, len(result.Bookings))
	for _, b := range result.Bookings {
		if b.SeatNumber != nil {
			seats = append(seats, *b.SeatNumber)
		}
	}
	s.publish(ctx, kafka.BookingEvent{
		Type:             eventType,
		BookingReference: result.BookingReference,
		FlightID:         input.FlightID,
		CallerID:         input.CallerID,
		Purpose:          string(input.Purpose),
		TicketNumbers:    result.TicketNumbers,
		SeatNumbers:      seats,
		Status:           string(domain.BookingStatusConfirmed),
		TotalCents:       result.TotalCents,
	})
}

// normalizeFinalize copies the passenger list so the caller's slice is never
// rewritten.
func normalizeFinalize(input FinalizeInput) FinalizeInput {
	if input.Purpose == "" {
		input.Purpose = domain.BookingPurposePurchase
	}
	input.Passengers = normalizePassengers(input.Passengers)
	return input
}

// normalizePassengers upper-cases seat labels into a new slice. Blank seats
// mean "no seat".
func normalizePassengers(pairs []domain.PassengerSeat) []domain.PassengerSeat {
	out := make([]domain.PassengerSeat, len(pairs))
	for i, p := range pairs {
		if p.SeatNumber != nil {
			seat := strings.ToUpper(strings.TrimSpace(*p.SeatNumber))
			if seat == "" {
				p.SeatNumber = nil
			} else {
				p.SeatNumber = &seat
			}
		}
		out[i] = p
	}
	return out
}
