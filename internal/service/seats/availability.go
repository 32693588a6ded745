package seats

import (
	"context"
	"sort"

	"github.com/Domenick1991/seatreserve/internal/domain"
)

// GetAvailability splits the flight's seats into booked, held by others and
// held by the caller. Expired holds are swept first for every flight; any
// hold still expired at read time, or sitting on a booked seat, is ignored.
// The view is not serialized against writers; SetHolds re-checks under lock.
func (s *SeatService) GetAvailability(ctx context.Context, flightID int64, callerID string) (*domain.Availability, error) {
	if flightID <= 0 {
		return nil, domain.ValidationError{Field: "flight_id", Msg: "must be greater than 0"}
	}

	layout, err := s.seatMaps.SeatMap(ctx, flightID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if n, err := s.store.PurgeExpiredHolds(ctx, now); err != nil {
		s.log.Warn("expired hold sweep failed", "error", err)
	} else if n > 0 {
		s.log.Debug("expired holds swept", "count", n)
	}

	booked, err := s.store.ConfirmedSeats(ctx, flightID)
	if err != nil {
		return nil, err
	}
	holds, err := s.store.Holds(ctx, flightID)
	if err != nil {
		return nil, err
	}

	bookedSet := make(map[string]struct{}, len(booked))
	for _, seat := range booked {
		bookedSet[seat] = struct{}{}
	}

	view := &domain.Availability{
		FlightID:     flightID,
		Layout:       *layout,
		Cabin:        layout.Cabin(),
		Booked:       booked,
		HeldByOthers: []string{},
		HeldByCaller: []string{},
	}
	for _, h := range holds {
		if h.Expired(now) {
			continue
		}
		if _, ok := bookedSet[h.SeatNumber]; ok {
			continue
		}
		if callerID != "" && h.HolderID == callerID {
			view.HeldByCaller = append(view.HeldByCaller, h.SeatNumber)
		} else {
			view.HeldByOthers = append(view.HeldByOthers, h.SeatNumber)
		}
	}

	sort.Strings(view.Booked)
	sort.Strings(view.HeldByOthers)
	sort.Strings(view.HeldByCaller)
	return view, nil
}
