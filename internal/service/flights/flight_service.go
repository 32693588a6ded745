package flights

import (
	"context"

	"github.com/Domenick1991/seatreserve/internal/domain"
	"github.com/Domenick1991/seatreserve/internal/logger"
	"github.com/Domenick1991/seatreserve/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	SeatMap(ctx context.Context, flightID int64) (*domain.SeatMap, error)
}

// FlightCache holds flight data that is read-only for the reservation core.
type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	GetSeatMap(ctx context.Context, flightID int64) (*domain.SeatMap, error)
	SetSeatMap(ctx context.Context, flightID int64, m domain.SeatMap) error
}

type FlightService struct {
	repo  repository.FlightRepository
	cache FlightCache
	log   *logger.Logger
}

// NewFlightService accepts a nil cache.
func NewFlightService(repo repository.FlightRepository, cache FlightCache, log *logger.Logger) *FlightService {
	if log == nil {
		log = logger.Nop()
	}
	return &FlightService{repo: repo, cache: cache, log: log}
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			s.log.Warn("flights cache read failed", "error", err)
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

// SeatMap resolves the layout of the flight's aircraft model. Layouts are
// immutable, so a cached copy is always valid.
func (s *FlightService) SeatMap(ctx context.Context, flightID int64) (*domain.SeatMap, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSeatMap(ctx, flightID); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			s.log.Warn("seat map cache read failed", "flight_id", flightID, "error", err)
		}
	}

	m, err := s.repo.SeatMap(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetSeatMap(ctx, flightID, *m)
	}
	return m, nil
}

var _ FlightUseCase = (*FlightService)(nil)
