package api

import (
	"net/http"
	"path/filepath"

	"github.com/Domenick1991/seatreserve/internal/logger"
	"github.com/Domenick1991/seatreserve/internal/service/booking"
	"github.com/Domenick1991/seatreserve/internal/service/flights"
	"github.com/Domenick1991/seatreserve/internal/service/seats"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

const swaggerDocFile = "seats.swagger.json"

type RouterConfig struct {
	Flights  flights.FlightUseCase
	Seats    seats.SeatUseCase
	Bookings booking.BookingUseCase
	Log      *logger.Logger
	// SwaggerDir holds seats.swagger.json; docs are not served when empty.
	SwaggerDir string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}

	r := gin.New()
	r.Use(RequestID(), Logger(log), gin.Recovery())

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "route not found", "")
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.SwaggerDir != "" {
		r.StaticFile("/swagger/"+swaggerDocFile, filepath.Join(cfg.SwaggerDir, swaggerDocFile))
		r.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/"+swaggerDocFile))))
	}

	v1 := r.Group("/api/v1")
	flightsGroup := v1.Group("/flights")
	bookingsGroup := v1.Group("/bookings")

	NewFlightHandler(cfg.Flights).Register(flightsGroup)
	NewSeatHandler(cfg.Seats).Register(flightsGroup)
	NewBookingHandler(cfg.Bookings).Register(flightsGroup, bookingsGroup)

	return r
}
