package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playautopublish/console-backend/internal/state"
)

type Handler struct {
	store *state.Store
}

func Register(rg *gin.RouterGroup, store *state.Store) {
	h := &Handler{store: store}

	rg.GET("/notifications", h.list)
	rg.POST("/notifications/:id/read", h.markRead)
	rg.DELETE("/notifications", h.clear)
}

func (h *Handler) list(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"notifications": h.store.Notifications(),
		"unread":        h.store.UnreadCount(),
	})
}

func (h *Handler) markRead(c *gin.Context) {
	// Unknown ids are a no-op, mirroring the console UI.
	marked := h.store.MarkNotificationRead(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"ok": true, "marked": marked})
}

func (h *Handler) clear(c *gin.Context) {
	h.store.ClearNotifications()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
