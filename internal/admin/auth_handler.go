package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobs-backend/internal/shared/server/middleware"
	"jobs-backend/internal/shared/server/respond"
)

type AuthHandler struct {
	Svc *Service
	// SecureCookie marks the session cookie Secure; set outside local development.
	SecureCookie bool
}

func NewAuthHandler(svc *Service, secureCookie bool) *AuthHandler {
	return &AuthHandler{Svc: svc, SecureCookie: secureCookie}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.login)
	rg.POST("/auth/logout", h.logout)
}

// RegisterAdminRoutes mounts routes that need an authenticated admin.
func (h *AuthHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	session, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password!", nil)
		return
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "login failed", nil)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, session.Token, int(h.Svc.Signer.TTL().Seconds()), "/", "", h.SecureCookie, true)
	respond.OK(c, session)
}

func (h *AuthHandler) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.SecureCookie, true)
	respond.OK(c, gin.H{"message": "You have been logged out."})
}

func (h *AuthHandler) me(c *gin.Context) {
	respond.OK(c, gin.H{
		"id":       middleware.AdminIDFromContext(c),
		"username": middleware.AdminNameFromContext(c),
	})
}
