package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/playautopublish/console-backend/internal/projects/domain"
	"github.com/playautopublish/console-backend/internal/projects/service"
)

type Handler struct {
	svc *service.ProjectService
}

func Register(rg *gin.RouterGroup, svc *service.ProjectService) {
	h := &Handler{svc: svc}

	rg.GET("/projects", h.list)
	rg.POST("/projects", h.create)
	rg.GET("/projects/:id", h.get)
	rg.PATCH("/projects/:id", h.update)
	rg.DELETE("/projects/:id", h.delete)
	rg.POST("/projects/:id/validate", h.validate)
	rg.POST("/projects/:id/errors/:error_id/fix", h.fixError)

	rg.GET("/selection", h.current)
	rg.PUT("/selection", h.selectProject)
	rg.DELETE("/selection", h.clearSelection)
}

type createReq struct {
	Name        string `json:"name"`
	PackageName string `json:"package_name"`
	Version     string `json:"version"`
	Track       string `json:"track"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.CreateDraft(service.CreateDraftRequest{
		Name:        strings.TrimSpace(req.Name),
		PackageName: strings.TrimSpace(req.PackageName),
		Version:     strings.TrimSpace(req.Version),
		Track:       strings.TrimSpace(req.Track),
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidTrack) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) list(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": h.svc.List()})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) update(c *gin.Context) {
	var patch domain.ProjectPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.Update(c.Param("id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrInvalidTrack):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) validate(c *gin.Context) {
	found, err := h.svc.Validate(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "errors": found})
}

func (h *Handler) fixError(c *gin.Context) {
	p, err := h.svc.FixError(c.Param("id"), c.Param("error_id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProjectNotFound), errors.Is(err, domain.ErrErrorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
		case errors.Is(err, domain.ErrErrorNotFixable):
			c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

type selectReq struct {
	ProjectID string `json:"project_id"`
}

func (h *Handler) selectProject(c *gin.Context) {
	var req selectReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ProjectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.Select(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) current(c *gin.Context) {
	p, err := h.svc.Current()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no project selected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) clearSelection(c *gin.Context) {
	h.svc.ClearSelection()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
