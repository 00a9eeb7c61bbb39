package middleware

import (
	applog "github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// RequestIDKey is the gin context key of the request id
const RequestIDKey = "request_id"

const maxRequestIDLength = 64

// RequestID reuses a client supplied X-Request-ID or generates one, and exposes it to handlers and logs
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(applog.ContextWithRequestID(c.Request.Context(), id))

		c.Next()
	}
}
