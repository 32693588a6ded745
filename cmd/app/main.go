package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/seatreserve/api"
	"github.com/Domenick1991/seatreserve/config"
	"github.com/Domenick1991/seatreserve/internal/bootstrap"
	"github.com/Domenick1991/seatreserve/internal/cache"
	"github.com/Domenick1991/seatreserve/internal/kafka"
	"github.com/Domenick1991/seatreserve/internal/logger"
	"github.com/Domenick1991/seatreserve/internal/pricing"
	"github.com/Domenick1991/seatreserve/internal/service/booking"
	"github.com/Domenick1991/seatreserve/internal/service/flights"
	"github.com/Domenick1991/seatreserve/internal/service/seats"
	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.New(logger.Config{}).Fatal("load config", "error", err)
	}

	log := logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Service: "seatreserve-api"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := bootstrap.OpenStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("open storage", "error", err)
	}
	defer storage.Close()

	var flightCache flights.FlightCache
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Reservation.FlightsCacheTTL(), cfg.Reservation.SeatMapCacheTTL())
		defer redisCache.Close()
		flightCache = redisCache
	}

	var producer booking.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, log.With("component", "kafka"))
		defer kafkaProducer.Close()
		producer = kafkaProducer
	}

	flightService := flights.NewFlightService(storage.Flights, flightCache, log.With("component", "flights"))
	seatService := seats.NewSeatService(storage.Seats, flightService,
		seats.WithHoldTTL(cfg.Reservation.HoldTTL()),
		seats.WithMaxSeatsPerHold(cfg.Reservation.MaxSeatsPerHold),
		seats.WithLogger(log.With("component", "seats")),
	)
	bookingService := booking.NewBookingService(
		storage.Seats,
		storage.Bookings,
		flightService,
		producer,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithPricer(pricing.NewPricer(cfg.Reservation.NeighborSurcharge)),
		booking.WithMaxGroupSize(cfg.Reservation.MaxGroupSize),
		booking.WithCheckInWindow(cfg.CheckIn.OpensBefore(), cfg.CheckIn.ClosesBefore()),
		booking.WithLogger(log.With("component", "booking")),
	)

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.RouterConfig{
		Flights:    flightService,
		Seats:      seatService,
		Bookings:   bookingService,
		Log:        log.With("component", "http"),
		SwaggerDir: cfg.HTTP.SwaggerDir,
	})

	if err := bootstrap.Run(ctx, cfg, router, log); err != nil {
		log.Fatal("server error", "error", err)
	}
}
