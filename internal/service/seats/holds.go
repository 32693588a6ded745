package seats

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Domenick1991/seatreserve/internal/domain"
	"github.com/Domenick1991/seatreserve/internal/repository"
)

type SetHoldsInput struct {
	FlightID    int64    `json:"flight_id" validate:"gt=0"`
	CallerID    string   `json:"caller_id" validate:"required"`
	SeatNumbers []string `json:"seat_numbers" validate:"dive,seat"`
}

type HoldResult struct {
	FlightID  int64     `json:"flight_id"`
	Seats     []string  `json:"seat_numbers"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SetHolds replaces the caller's holds on a flight with exactly the submitted
// seats. Either every seat ends up held by the caller until the returned
// ExpiresAt, or nothing changes and a ConflictError names the first seat
// that could not be taken. An empty submission releases every hold of the
// caller on that flight.
func (s *SeatService) SetHolds(ctx context.Context, input SetHoldsInput) (*HoldResult, error) {
	seats, err := s.prepareHolds(ctx, input)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(s.holdTTL)

	err = s.store.InTx(ctx, func(tx repository.SeatTx) error {
		if err := tx.ReleaseHoldsExcept(ctx, input.FlightID, input.CallerID, seats); err != nil {
			return err
		}

		// Seats are sorted, so concurrent callers lock rows in the same order.
		for _, seat := range seats {
			booked, err := tx.SeatBooked(ctx, input.FlightID, seat)
			if err != nil {
				return err
			}
			if booked {
				return domain.ConflictError{Seat: seat, Msg: domain.MsgSeatBooked}
			}

			current, err := tx.LockHold(ctx, input.FlightID, seat)
			if err != nil {
				return err
			}
			if current != nil && current.HolderID != input.CallerID && !current.Expired(now) {
				return domain.ConflictError{Seat: seat, Msg: domain.MsgSeatHeld}
			}

			acquired, err := tx.UpsertHold(ctx, domain.SeatHold{
				FlightID:   input.FlightID,
				SeatNumber: seat,
				HolderID:   input.CallerID,
				ExpiresAt:  expiresAt,
			}, now)
			if err != nil {
				return err
			}
			if !acquired {
				return domain.ConflictError{Seat: seat, Msg: domain.MsgSeatHeld}
			}
		}
		return nil
	})
	if err != nil {
		var conflict domain.ConflictError
		if errors.As(err, &conflict) {
			s.log.Info("hold rejected", "flight_id", input.FlightID, "caller_id", input.CallerID, "seat", conflict.Seat, "reason", conflict.Msg)
			return nil, err
		}
		s.log.Error("set holds failed", "flight_id", input.FlightID, "caller_id", input.CallerID, "error", err)
		return nil, fmt.Errorf("set holds: %w", err)
	}

	s.log.Debug("holds set", "flight_id", input.FlightID, "caller_id", input.CallerID, "seats", seats, "expires_at", expiresAt)
	return &HoldResult{FlightID: input.FlightID, Seats: seats, ExpiresAt: expiresAt}, nil
}

// prepareHolds validates the request and returns the deduplicated seats in
// lock order. Nothing here touches seat state.
func (s *SeatService) prepareHolds(ctx context.Context, input SetHoldsInput) ([]string, error) {
	normalized := make([]string, len(input.SeatNumbers))
	for i, seat := range input.SeatNumbers {
		normalized[i] = strings.ToUpper(strings.TrimSpace(seat))
	}
	input.SeatNumbers = normalized
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	seats := dedupe(input.SeatNumbers)
	if len(seats) > s.maxSeats {
		return nil, domain.ValidationError{
			Field: "seat_numbers",
			Msg:   fmt.Sprintf("at most %d seats can be held at once", s.maxSeats),
		}
	}

	layout, err := s.seatMaps.SeatMap(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	for _, seat := range seats {
		if !layout.Contains(seat) {
			return nil, domain.ValidationError{Field: "seat_numbers", Msg: fmt.Sprintf("seat %s is not on this aircraft", seat)}
		}
	}
	return seats, nil
}

func dedupe(seats []string) []string {
	seen := make(map[string]struct{}, len(seats))
	out := make([]string, 0, len(seats))
	for _, seat := range seats {
		if _, ok := seen[seat]; ok {
			continue
		}
		seen[seat] = struct{}{}
		out = append(out, seat)
	}
	sort.Strings(out)
	return out
}
