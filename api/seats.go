package api

import (
	"net/http"

	"github.com/Domenick1991/seatreserve/internal/service/seats"
	"github.com/gin-gonic/gin"
)

type SeatHandler struct {
	service seats.SeatUseCase
}

type setHoldsRequest struct {
	SeatNumbers []string `json:"seat_numbers"`
}

func NewSeatHandler(service seats.SeatUseCase) *SeatHandler {
	return &SeatHandler{service: service}
}

func (h *SeatHandler) Register(router *gin.RouterGroup) {
	router.GET("/:id/seats", CallerID(false), h.availability)
	router.PUT("/:id/holds", CallerID(true), h.setHolds)
}

// availability godoc
// @Summary Seat availability of a flight for the caller
// @Tags seats
// @Produce json
// @Param id path int true "flight id"
// @Param X-Caller-ID header string false "caller identity"
// @Success 200 {object} domain.Availability
// @Failure 404 {object} ErrorResponse
// @Router /flights/{id}/seats [get]
func (h *SeatHandler) availability(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	view, err := h.service.GetAvailability(c.Request.Context(), id, getCallerID(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// setHolds godoc
// @Summary Replace the caller's holds on a flight
// @Tags seats
// @Accept json
// @Produce json
// @Param id path int true "flight id"
// @Param X-Caller-ID header string true "caller identity"
// @Success 200 {object} seats.HoldResult
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /flights/{id}/holds [put]
func (h *SeatHandler) setHolds(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req setHoldsRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.service.SetHolds(c.Request.Context(), seats.SetHoldsInput{
		FlightID:    id,
		CallerID:    getCallerID(c),
		SeatNumbers: req.SeatNumbers,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
