package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/seatreserve/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderCallerID  = "X-Caller-ID"

	requestIDKey = "request_id"
	callerIDKey  = "caller_id"
)

// RequestID keeps an incoming X-Request-ID or mints one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(HeaderRequestID, rid)
		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("http request",
			"request_id", GetRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", float64(time.Since(start).Microseconds())/1000.0,
			"caller_id", c.GetString(callerIDKey),
		)
	}
}

// CallerID stores the X-Caller-ID header. With required set, requests
// without it are rejected with 401.
func CallerID(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := strings.TrimSpace(c.GetHeader(HeaderCallerID))
		if caller == "" && required {
			respondError(c, http.StatusUnauthorized, "missing "+HeaderCallerID+" header", "")
			c.Abort()
			return
		}
		c.Set(callerIDKey, caller)
		c.Next()
	}
}

func getCallerID(c *gin.Context) string {
	return c.GetString(callerIDKey)
}
