package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/hanzi/internal/auth"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	authenticator Authenticator
	audit         AuditLogger
}

func NewAuthController(authenticator Authenticator, audit AuditLogger) *AuthController {
	return &AuthController{authenticator: authenticator, audit: audit}
}

// Login exchanges credentials for an access token
// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username and password are required")
		return
	}

	res, err := ac.authenticator.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			ac.logAuth(c, auth.DefaultUserID, false)
			respondError(c, http.StatusUnauthorized, "invalid username or password")
			return
		}
		respondInternalError(c, err, "login")
		return
	}

	ac.logAuth(c, res.User.ID, true)
	c.JSON(http.StatusOK, res)
}

// Me returns the caller's identity
// GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	p, ok := auth.GetPrincipal(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":  p.UserID,
		"username": p.Username,
		"role":     p.Role,
	})
}

func (ac *AuthController) logAuth(c *gin.Context, userID uint, success bool) {
	if ac.audit == nil {
		return
	}
	ac.audit.LogAuth(userID, "login", c.ClientIP(), success)
}
