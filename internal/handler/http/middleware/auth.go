package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinova/clinic-backend/internal/infrastructure/security"
)

const (
	// ContextAccountID holds the caller's decoded internal account ID.
	ContextAccountID = "auth.account_id"
	// ContextClaims holds the caller's full session claims.
	ContextClaims = "auth.claims"
)

// TokenValidator validates a bearer token and returns its claims plus the
// decoded internal account ID.
type TokenValidator interface {
	Validate(tokenString string) (*security.SessionClaims, int64, error)
}

// RequireAuth rejects requests without a valid bearer session token and
// exposes the caller's identity on the gin context. Handlers read it there
// and pass it into services explicitly.
func RequireAuth(validator TokenValidator, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("auth_middleware")
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"succeeded": false,
				"errors":    []string{"missing bearer token"},
			})
			return
		}

		claims, accountID, err := validator.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			log.Debug("token validation failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"succeeded": false,
				"errors":    []string{"invalid or expired token"},
			})
			return
		}

		c.Set(ContextAccountID, accountID)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// AccountIDFromContext returns the authenticated caller's internal account
// ID, or false when the request is unauthenticated.
func AccountIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextAccountID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
