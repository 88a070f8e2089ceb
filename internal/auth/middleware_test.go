package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/hanzi/internal/config"
	"github.com/mrlokans/hanzi/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newProtectedRouter(m *Middleware) *gin.Engine {
	router := gin.New()
	router.Use(m.Handler())
	router.GET("/whoami", func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"ok": ok, "user_id": p.UserID, "role": p.Role})
	})
	router.DELETE("/admin", m.RequireRole(entities.UserRoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func doRequest(router http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMiddleware_NoAuthModeActsAsAdmin(t *testing.T) {
	router := newProtectedRouter(NewMiddleware(nil, config.Auth{Mode: config.AuthModeNone}))

	w := doRequest(router, http.MethodDelete, "/admin", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMiddleware_JWTMode(t *testing.T) {
	tokens := NewTokenManager(testSecret, "hanzi", time.Hour)
	router := newProtectedRouter(NewMiddleware(tokens, config.Auth{Mode: config.AuthModeJWT}))

	adminToken, _, err := tokens.Issue(&entities.User{ID: 1, Username: "a", Role: entities.UserRoleAdmin})
	require.NoError(t, err)
	userToken, _, err := tokens.Issue(&entities.User{ID: 2, Username: "u", Role: entities.UserRoleUser})
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, doRequest(router, http.MethodDelete, "/admin", "").Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, doRequest(router, http.MethodDelete, "/admin", "bogus").Code)
	})

	t.Run("user lacks admin role", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, doRequest(router, http.MethodDelete, "/admin", userToken).Code)
	})

	t.Run("admin allowed", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, doRequest(router, http.MethodDelete, "/admin", adminToken).Code)
	})

	t.Run("public route resolves principal", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/whoami", userToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":2`)
	})
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doRequest(router, http.MethodGet, "/", "")

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
