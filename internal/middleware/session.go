package middleware

import (
	"net/http"
	"strings"

	"techconnect/internal/pkg/jwt"
	"techconnect/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// SessionIDKey is the gin context key holding the authenticated session id.
const SessionIDKey = "session_id"

type sessionTokenValidator interface {
	ValidateToken(tokenStr string) (*jwt.Claims, error)
}

// SessionAuth accepts a registration session token from the Authorization
// header or, for websocket upgrades, from the token query parameter.
func SessionAuth(tokens sessionTokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				response.CustomError(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
				return
			}
			token = strings.TrimSpace(parts[1])
		}
		if token == "" {
			response.CustomError(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Session token is required")
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			response.CustomError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Session token is invalid or expired")
			return
		}

		c.Set(SessionIDKey, claims.SessionID)
		c.Next()
	}
}
