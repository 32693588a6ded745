package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Domenick1991/seatreserve/internal/domain"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Seat      string `json:"seat,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, message, seat string) {
	c.JSON(status, ErrorResponse{Error: message, Seat: seat, RequestID: GetRequestID(c)})
}

// respondDomainError maps service errors onto HTTP statuses. Infrastructure
// failures are logged by the services and never leak to the client.
func respondDomainError(c *gin.Context, err error) {
	var conflict domain.ConflictError
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, err.Error(), "")
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, err.Error(), "")
	case errors.As(err, &conflict):
		respondError(c, http.StatusConflict, conflict.Error(), conflict.Seat)
	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal error", "")
	}
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error(), "")
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid "+name, "")
		return 0, false
	}
	return id, true
}
