package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	projdomain "github.com/playautopublish/console-backend/internal/projects/domain"
	"github.com/playautopublish/console-backend/internal/publish/domain"
	"github.com/playautopublish/console-backend/internal/publish/service"
)

type Handler struct {
	runner *service.Runner
	wizard *service.Wizard
}

func Register(rg *gin.RouterGroup, runner *service.Runner, wizard *service.Wizard) {
	h := &Handler{runner: runner, wizard: wizard}

	rg.POST("/projects/:id/publish", h.startPublish)
	rg.GET("/projects/:id/publish", h.latestRun)
	rg.GET("/publish/runs/:id", h.getRun)
	rg.GET("/publish/runs/:id/stream", h.streamRun)

	rg.GET("/projects/:id/wizard", h.wizardStage)
	rg.POST("/projects/:id/wizard/next", h.wizardNext)
	rg.POST("/projects/:id/wizard/previous", h.wizardPrevious)
}

func (h *Handler) startPublish(c *gin.Context) {
	// The run outlives the request; publishing is not cancelable from the
	// client side once started.
	run, err := h.runner.Start(context.Background(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, projdomain.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		case errors.Is(err, domain.ErrRunInProgress):
			c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"ok": true, "run": run})
}

func (h *Handler) getRun(c *gin.Context) {
	run, err := h.runner.Run(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "run": run})
}

func (h *Handler) latestRun(c *gin.Context) {
	run, err := h.runner.RunForProject(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "run": run})
}

// streamRun pushes run progress over Server-Sent Events: an initial
// snapshot, an update whenever a step moves, and a final done event.
func (h *Handler) streamRun(c *gin.Context) {
	runID := c.Param("id")

	run, err := h.runner.Run(runID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "run not found"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "streaming unsupported"})
		return
	}

	writeEvent(c, flusher, "initial", run)
	if run.Status != domain.RunRunning {
		writeEvent(c, flusher, "done", run)
		return
	}

	ctx := c.Request.Context()

	keepAlive := time.NewTicker(15 * time.Second)
	defer keepAlive.Stop()

	poll := time.NewTicker(50 * time.Millisecond)
	defer poll.Stop()

	last := run

	for {
		select {
		case <-ctx.Done():
			return

		case <-keepAlive.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case <-poll.C:
			current, err := h.runner.Run(runID)
			if err != nil {
				// The next attempt for the project replaced this run.
				writeEvent(c, flusher, "discarded", gin.H{"run_id": runID})
				return
			}

			if changed(last, current) {
				last = current
				writeEvent(c, flusher, "update", current)
			}

			if current.Status != domain.RunRunning {
				writeEvent(c, flusher, "done", current)
				return
			}
		}
	}
}

func writeEvent(c *gin.Context, flusher http.Flusher, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(data))
	flusher.Flush()
}

func changed(prev, next domain.Run) bool {
	if prev.Status != next.Status {
		return true
	}
	for i := range next.Steps {
		if prev.Steps[i] != next.Steps[i] {
			return true
		}
	}
	return false
}

func (h *Handler) wizardStage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"stage":      h.wizard.Stage(c.Param("id")),
		"stages":     service.StageNames,
		"publishing": h.runner.Active(c.Param("id")),
	})
}

func (h *Handler) wizardNext(c *gin.Context) {
	h.wizardMove(c, h.wizard.Next)
}

func (h *Handler) wizardPrevious(c *gin.Context) {
	h.wizardMove(c, h.wizard.Previous)
}

func (h *Handler) wizardMove(c *gin.Context, move func(string) (service.Stage, error)) {
	stage, err := move(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error(), "stage": stage})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stage": stage})
}
