package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/hanzi/internal/config"
	"github.com/mrlokans/hanzi/internal/entities"
)

// ContextKeyPrincipal holds the request's Principal in the gin context.
const ContextKeyPrincipal = "auth_principal"

// Middleware handles authentication for HTTP requests.
type Middleware struct {
	tokens *TokenManager
	config config.Auth
}

// NewMiddleware creates a new authentication middleware. tokens may be nil
// when auth is disabled.
func NewMiddleware(tokens *TokenManager, cfg config.Auth) *Middleware {
	return &Middleware{tokens: tokens, config: cfg}
}

// Handler returns a Gin middleware handler that resolves the caller. It never
// rejects a request; RequireRole does.
func (m *Middleware) Handler() gin.HandlerFunc {
	// If auth is disabled, every caller acts as the local admin
	if m.config.Mode == config.AuthModeNone || m.tokens == nil {
		return func(c *gin.Context) {
			c.Set(ContextKeyPrincipal, anonymousAdmin)
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if p, err := m.tokens.Authenticate(token); err == nil {
				c.Set(ContextKeyPrincipal, p)
			}
		}
		c.Next()
	}
}

// RequireRole aborts with 401 when no principal is present and 403 when the
// principal lacks the role.
func (m *Middleware) RequireRole(role entities.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		if !Authorize(p, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetPrincipal retrieves the authenticated caller from the context.
func GetPrincipal(c *gin.Context) (Principal, bool) {
	if v, exists := c.Get(ContextKeyPrincipal); exists {
		if p, ok := v.(Principal); ok {
			return p, true
		}
	}
	return Principal{}, false
}

// GetUserID retrieves the authenticated user's ID from the context.
// Returns DefaultUserID (0) if not authenticated or auth is disabled.
func GetUserID(c *gin.Context) uint {
	p, _ := GetPrincipal(c)
	return p.UserID
}
