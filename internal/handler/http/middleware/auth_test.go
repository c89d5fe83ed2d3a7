package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clinova/clinic-backend/internal/infrastructure/security"
)

type stubValidator struct {
	claims    *security.SessionClaims
	accountID int64
	err       error
}

func (s *stubValidator) Validate(string) (*security.SessionClaims, int64, error) {
	return s.claims, s.accountID, s.err
}

func newProtectedRouter(v TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", RequireAuth(v, zap.NewNop()), func(c *gin.Context) {
		id, ok := AccountIDFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{})
			return
		}
		c.JSON(http.StatusOK, gin.H{"accountId": id})
	})
	return router
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	router := newProtectedRouter(&stubValidator{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_NonBearerHeader(t *testing.T) {
	router := newProtectedRouter(&stubValidator{})

	r := httptest.NewRequest("GET", "/protected", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwdw==")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	router := newProtectedRouter(&stubValidator{err: errors.New("bad signature")})

	r := httptest.NewRequest("GET", "/protected", nil)
	r.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired token")
}

func TestRequireAuth_ValidTokenExposesIdentity(t *testing.T) {
	router := newProtectedRouter(&stubValidator{
		claims:    &security.SessionClaims{Username: "jdoe"},
		accountID: 42,
	})

	r := httptest.NewRequest("GET", "/protected", nil)
	r.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"accountId":42`)
}
