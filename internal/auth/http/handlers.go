package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playautopublish/console-backend/internal/auth/service"
)

type Handler struct {
	authService *service.AuthService
}

// Register mounts the session routes. Login sits on the public group; the
// rest require the bearer token it issues.
func Register(public, private *gin.RouterGroup, authService *service.AuthService) {
	h := &Handler{authService: authService}

	public.POST("/auth/login", h.login)
	private.POST("/auth/logout", h.logout)
	private.GET("/auth/me", h.me)
}

func (h *Handler) login(c *gin.Context) {
	user, token, err := h.authService.Login()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"user": user,
		"token": gin.H{
			"access_token": token.AccessToken,
			"token_type":   token.TokenType,
			"expiry":       token.Expiry,
		},
	})
}

func (h *Handler) logout(c *gin.Context) {
	h.authService.Logout()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.authService.CurrentUser()
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}
