package seats

import (
	"context"
	"time"

	"github.com/Domenick1991/seatreserve/internal/domain"
	"github.com/Domenick1991/seatreserve/internal/logger"
	"github.com/Domenick1991/seatreserve/internal/repository"
	"github.com/Domenick1991/seatreserve/internal/validation"
)

const (
	DefaultHoldTTL         = 10 * time.Minute
	DefaultMaxSeatsPerHold = 9
)

type SeatUseCase interface {
	GetAvailability(ctx context.Context, flightID int64, callerID string) (*domain.Availability, error)
	SetHolds(ctx context.Context, input SetHoldsInput) (*HoldResult, error)
}

// SeatMapSource resolves a flight's layout; unknown flights yield
// domain.NotFoundError.
type SeatMapSource interface {
	SeatMap(ctx context.Context, flightID int64) (*domain.SeatMap, error)
}

type SeatService struct {
	store    repository.SeatStore
	seatMaps SeatMapSource
	validate *validation.Validator
	log      *logger.Logger
	holdTTL  time.Duration
	maxSeats int
	now      func() time.Time
}

type SeatServiceOption func(*SeatService)

func WithHoldTTL(ttl time.Duration) SeatServiceOption {
	return func(s *SeatService) {
		if ttl > 0 {
			s.holdTTL = ttl
		}
	}
}

func WithMaxSeatsPerHold(n int) SeatServiceOption {
	return func(s *SeatService) {
		if n > 0 {
			s.maxSeats = n
		}
	}
}

func WithClock(now func() time.Time) SeatServiceOption {
	return func(s *SeatService) {
		s.now = now
	}
}

func WithLogger(log *logger.Logger) SeatServiceOption {
	return func(s *SeatService) {
		s.log = log
	}
}

func NewSeatService(store repository.SeatStore, seatMaps SeatMapSource, opts ...SeatServiceOption) *SeatService {
	s := &SeatService{
		store:    store,
		seatMaps: seatMaps,
		validate: validation.New(),
		log:      logger.Nop(),
		holdTTL:  DefaultHoldTTL,
		maxSeats: DefaultMaxSeatsPerHold,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ SeatUseCase = (*SeatService)(nil)
