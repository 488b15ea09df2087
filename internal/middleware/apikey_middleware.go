package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yusuf/schoolregistry/internal/app/auth"
	"github.com/yusuf/schoolregistry/internal/pkg/apperrors"
	"github.com/yusuf/schoolregistry/internal/pkg/logger"
)

// APIKeyHeader carries the shared secret on every protected request.
const APIKeyHeader = "X-API-Key"

// RequireAPIKey rejects requests whose X-API-Key header does not match the
// configured secret. A missing header is treated the same as a wrong one.
func RequireAPIKey(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !gate.Authorize(c.GetHeader(APIKeyHeader)) {
			logger.Warn().
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("Rejected request with invalid API key")
			HandleAPIError(c, apperrors.ErrPermissionDenied)
			return
		}
		c.Next()
	}
}
