package api

import (
	"net/http"

	"github.com/Domenick1991/seatreserve/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
}

// list godoc
// @Summary List flights
// @Tags flights
// @Produce json
// @Success 200 {array} domain.Flight
// @Router /flights [get]
func (h *FlightHandler) list(c *gin.Context) {
	flights, err := h.service.List(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, flights)
}

// get godoc
// @Summary Get a flight
// @Tags flights
// @Produce json
// @Param id path int true "flight id"
// @Success 200 {object} domain.Flight
// @Failure 404 {object} ErrorResponse
// @Router /flights/{id} [get]
func (h *FlightHandler) get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}
