package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-helloworld/internal/domain/auth"
	apperrors "github.com/yanqian/weather-helloworld/pkg/errors"
)

// authMiddleware rejects requests without a valid access token.
func authMiddleware(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "Authentication required", nil))
			return
		}
		claims, err := svc.ValidateToken(c.Request.Context(), token)
		if err != nil {
			if apperrors.IsCode(err, "invalid_token") {
				abortWithError(c, NewHTTPError(http.StatusUnauthorized, "invalid_token", "Invalid or expired token", err))
				return
			}
			abortWithError(c, NewHTTPError(http.StatusInternalServerError, "auth_failed", "request failed", err))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// optionalAuthMiddleware attaches claims when a valid token is present and
// otherwise lets the request through anonymously.
func optionalAuthMiddleware(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if claims, err := svc.ValidateToken(c.Request.Context(), token); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// extractToken accepts "Bearer <token>", a bare Authorization value, or X-Auth-Token.
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	if token := strings.TrimSpace(header); token != "" {
		return token
	}
	return strings.TrimSpace(c.GetHeader("X-Auth-Token"))
}
