package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/seatreserve/config"
	"github.com/Domenick1991/seatreserve/internal/logger"
	"github.com/Domenick1991/seatreserve/internal/repository"
	"github.com/Domenick1991/seatreserve/internal/repository/memory"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage bundles the repositories of one storage driver.
type Storage struct {
	Flights  repository.FlightRepository
	Bookings repository.BookingRepository
	Seats    repository.SeatStore
	close    func()
}

func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage connects the configured driver. The memory driver is seeded
// with demo flights so a local run has something to book.
func OpenStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		memory.SeedDemo(store, time.Now())
		log.Warn("using in-memory storage; state is lost on restart")
		return &Storage{Flights: store, Bookings: store, Seats: store}, nil

	case config.StorageDriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := repository.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			log.Info("database schema applied")
		}
		return &Storage{
			Flights:  repository.NewFlightRepository(pool),
			Bookings: repository.NewBookingRepository(pool),
			Seats:    repository.NewSeatStore(pool),
			close:    pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
