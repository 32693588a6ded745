package api

import (
	"net/http"

	"github.com/Domenick1991/seatreserve/internal/domain"
	"github.com/Domenick1991/seatreserve/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type quoteRequest struct {
	Passengers []domain.PassengerSeat `json:"passengers"`
}

type finalizeRequest struct {
	Passengers    []domain.PassengerSeat `json:"passengers"`
	Purpose       domain.BookingPurpose  `json:"purpose"`
	BaggageOption string                 `json:"baggage_option"`
}

type randomSeatRequest struct {
	PassengerID   int64                 `json:"passenger_id"`
	Purpose       domain.BookingPurpose `json:"purpose"`
	BaggageOption string                `json:"baggage_option"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

// Register mounts the flight-scoped routes on flights and the
// reference-scoped ones on bookings.
func (h *BookingHandler) Register(flights, bookings *gin.RouterGroup) {
	flights.POST("/:id/quote", h.quote)
	flights.POST("/:id/bookings", CallerID(true), h.finalize)
	flights.POST("/:id/bookings/random", CallerID(true), h.random)

	bookings.GET("/:reference", h.getByReference)
	bookings.GET("/:reference/check-in", CallerID(true), h.findForCheckIn)
	bookings.DELETE("/:reference/:booking_id", CallerID(true), h.cancel)
}

// quote godoc
// @Summary Price a seat selection
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path int true "flight id"
// @Success 200 {object} domain.Quote
// @Router /flights/{id}/quote [post]
func (h *BookingHandler) quote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req quoteRequest
	if !bindJSON(c, &req) {
		return
	}
	q, err := h.service.QuotePrice(c.Request.Context(), id, req.Passengers)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// finalize godoc
// @Summary Book a group atomically
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path int true "flight id"
// @Param X-Caller-ID header string true "caller identity"
// @Success 201 {object} booking.FinalizeResult
// @Failure 409 {object} ErrorResponse
// @Router /flights/{id}/bookings [post]
func (h *BookingHandler) finalize(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req finalizeRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.service.FinalizeBooking(c.Request.Context(), booking.FinalizeInput{
		FlightID:      id,
		CallerID:      getCallerID(c),
		Passengers:    req.Passengers,
		Purpose:       req.Purpose,
		BaggageOption: req.BaggageOption,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// random godoc
// @Summary Book one passenger onto a random free seat
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path int true "flight id"
// @Param X-Caller-ID header string true "caller identity"
// @Success 201 {object} booking.FinalizeResult
// @Failure 409 {object} ErrorResponse
// @Router /flights/{id}/bookings/random [post]
func (h *BookingHandler) random(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req randomSeatRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.service.AssignRandomSeat(c.Request.Context(), booking.RandomSeatInput{
		FlightID:      id,
		CallerID:      getCallerID(c),
		PassengerID:   req.PassengerID,
		Purpose:       req.Purpose,
		BaggageOption: req.BaggageOption,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// getByReference godoc
// @Summary Bookings sharing a booking reference
// @Tags bookings
// @Produce json
// @Param reference path string true "booking reference"
// @Success 200 {array} domain.Booking
// @Failure 404 {object} ErrorResponse
// @Router /bookings/{reference} [get]
func (h *BookingHandler) getByReference(c *gin.Context) {
	bookings, err := h.service.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// findForCheckIn godoc
// @Summary Find the caller's bookings to check in by ticket number or booking reference
// @Tags bookings
// @Produce json
// @Param reference path string true "ticket number or booking reference"
// @Param X-Caller-ID header string true "caller identity"
// @Success 200 {array} domain.Booking
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /bookings/{reference}/check-in [get]
func (h *BookingHandler) findForCheckIn(c *gin.Context) {
	bookings, err := h.service.FindForCheckIn(c.Request.Context(), c.Param("reference"), getCallerID(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// cancel godoc
// @Summary Cancel one booking of a group
// @Tags bookings
// @Produce json
// @Param reference path string true "booking reference"
// @Param booking_id path int true "booking id"
// @Param X-Caller-ID header string true "caller identity"
// @Success 200 {object} domain.Booking
// @Failure 404 {object} ErrorResponse
// @Router /bookings/{reference}/{booking_id} [delete]
func (h *BookingHandler) cancel(c *gin.Context) {
	bookingID, ok := paramID(c, "booking_id")
	if !ok {
		return
	}
	cancelled, err := h.service.CancelBooking(c.Request.Context(), c.Param("reference"), bookingID, getCallerID(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}
