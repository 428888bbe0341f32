package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playautopublish/console-backend/internal/projects/domain"
	"github.com/playautopublish/console-backend/internal/uploads"
)

type Handler struct {
	intake *uploads.Intake
}

func Register(rg *gin.RouterGroup, intake *uploads.Intake) {
	h := &Handler{intake: intake}
	rg.POST("/projects/:id/artifacts/:purpose", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "multipart form required"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		// Single-file clients post under "file".
		files = form.File["file"]
	}

	p, err := h.intake.Attach(c.Param("id"), c.Param("purpose"), files)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPurpose):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		case errors.Is(err, uploads.ErrNoFiles):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		case errors.Is(err, domain.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}
