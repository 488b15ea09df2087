package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yusuf/schoolregistry/internal/app/models"
	"github.com/yusuf/schoolregistry/internal/pkg/accesslog"
	"github.com/yusuf/schoolregistry/internal/pkg/logger"
)

// RequestIDHeader echoes the per-request identifier back to the caller.
const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an identifier, emits a structured log
// line, and hands the entry to the recorder after the response is written.
// Recording is fire and forget; it cannot delay or fail the response.
func RequestLogger(recorder accesslog.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Writer.Header().Set(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		logger.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("Request handled")

		recorder.Record(models.AccessLog{
			RequestID: requestID,
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    status,
			Timestamp: start,
		})
	}
}
