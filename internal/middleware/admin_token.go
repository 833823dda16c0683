package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"techconnect/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminToken protects the admin read models with a static bearer token.
func AdminToken(expected string, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		if expected == "" {
			logAuthFailure(log, c, http.StatusForbidden, "disabled")
			response.CustomError(c, http.StatusForbidden, "AUTH_INVALID", "Admin API disabled")
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logAuthFailure(log, c, http.StatusUnauthorized, "missing_auth")
			response.CustomError(c, http.StatusUnauthorized, "AUTH_MISSING", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logAuthFailure(log, c, http.StatusUnauthorized, "invalid_auth_format")
			response.CustomError(c, http.StatusUnauthorized, "AUTH_INVALID", "Authorization header must be 'Bearer <token>'")
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(expected)) != 1 {
			logAuthFailure(log, c, http.StatusForbidden, "invalid_token")
			response.CustomError(c, http.StatusForbidden, "AUTH_INVALID", "Invalid admin token")
			return
		}

		c.Next()
	}
}

func logAuthFailure(log *zap.Logger, c *gin.Context, status int, reason string) {
	log.Warn("admin auth failed",
		zap.Int("status", status),
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
		zap.String("client_ip", c.ClientIP()),
		zap.String("request_id", requestID(c)),
	)
}
