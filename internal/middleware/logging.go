package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/pms-api/internal/constants"
	"github.com/yukikurage/pms-api/internal/logger"
)

// RequestLogger tags each request with an id, binds a request-scoped logger
// and logs the outcome. Bodies are never logged.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(constants.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(constants.RequestIDHeader, requestID)

		ctx := logger.WithLogger(c.Request.Context(), map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		event := logger.Logger(c.Request.Context()).Info()
		if c.Writer.Status() >= 500 {
			event = logger.Logger(c.Request.Context()).Error()
		}
		event.
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request completed")
	}
}
