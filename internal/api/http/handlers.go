package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/gazeweb/internal/coordinator"
	"github.com/GriffinCanCode/gazeweb/internal/gaze"
	"github.com/GriffinCanCode/gazeweb/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/gazeweb/internal/pipeline"
	"github.com/GriffinCanCode/gazeweb/internal/tab"
)

// Version is reported by the root endpoint.
const Version = "0.3.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	tabs    *tab.Manager
	metrics *monitoring.Metrics
}

// NewHandlers creates a new handler set
func NewHandlers(tabs *tab.Manager, metrics *monitoring.Metrics) *Handlers {
	return &Handlers{tabs: tabs, metrics: metrics}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "gazeweb",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"tabs":   h.tabs.Stats(),
	})
}

// MetricsJSON returns a summary of the collected metrics.
func (h *Handlers) MetricsJSON(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

// ListTabs lists all open tabs
func (h *Handlers) ListTabs(c *gin.Context) {
	tabs := h.tabs.List()
	infos := make([]tab.Info, 0, len(tabs))
	for _, t := range tabs {
		infos = append(infos, h.tabs.Info(t))
	}
	c.JSON(http.StatusOK, gin.H{
		"tabs":  infos,
		"stats": h.tabs.Stats(),
	})
}

// OpenTab opens a tab and starts its frame loop
func (h *Handlers) OpenTab(c *gin.Context) {
	t, err := h.tabs.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, h.tabs.Info(t))
}

// GetTab returns one tab with its live status
func (h *Handlers) GetTab(c *gin.Context) {
	t, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.tabs.Info(t))
}

// CloseTab closes a tab, aborting its running pipelines
func (h *Handlers) CloseTab(c *gin.Context) {
	tabID := c.Param("id")
	if !h.tabs.Close(tabID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "tab not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tab_id":  tabID,
	})
}

// FocusTab makes a tab the target of the tracker stream
func (h *Handlers) FocusTab(c *gin.Context) {
	tabID := c.Param("id")
	if !h.tabs.Focus(tabID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "tab not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tab_id":  tabID,
	})
}

// ListPipelines returns the running pipelines and the kinds that can be
// started
func (h *Handlers) ListPipelines(c *gin.Context) {
	t, ok := h.lookup(c)
	if !ok {
		return
	}
	coord := t.Coordinator()
	c.JSON(http.StatusOK, gin.H{
		"running": coord.Status().Pipelines,
		"kinds":   coord.Registry().Kinds(),
		"slots":   coordinator.Slots(),
	})
}

// StartPipeline starts a pipeline on the next frame
func (h *Handlers) StartPipeline(c *gin.Context) {
	t, ok := h.lookup(c)
	if !ok {
		return
	}

	var req struct {
		Kind string `json:"kind" binding:"required"`
		Slot string `json:"slot"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	kind := pipeline.Kind(req.Kind)
	slot := pipeline.Slot(req.Slot)
	if slot == "" {
		slot = coordinator.DefaultSlot(kind)
	}
	if err := t.Coordinator().Start(kind, slot); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"kind":    kind,
		"slot":    slot,
	})
}

// AbortPipeline cancels the pipeline running in a slot
func (h *Handlers) AbortPipeline(c *gin.Context) {
	t, ok := h.lookup(c)
	if !ok {
		return
	}
	slot := pipeline.Slot(c.Param("slot"))
	if err := t.Coordinator().Abort(slot); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"slot":    slot,
	})
}

// Recalibrate discards the tab's learned drift offset
func (h *Handlers) Recalibrate(c *gin.Context) {
	t, ok := h.lookup(c)
	if !ok {
		return
	}
	if err := t.Coordinator().Recalibrate(); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"success": true})
}

// RequestDrift starts a drift correction against a target point
func (h *Handlers) RequestDrift(c *gin.Context) {
	t, ok := h.lookup(c)
	if !ok {
		return
	}

	var req struct {
		X       *float64 `json:"x" binding:"required"`
		Y       *float64 `json:"y" binding:"required"`
		Dynamic bool     `json:"dynamic"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	target := gaze.Point{X: *req.X, Y: *req.Y}
	if err := t.Coordinator().RequestDrift(target, req.Dynamic); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"target":  target,
		"dynamic": req.Dynamic,
	})
}

func (h *Handlers) lookup(c *gin.Context) (*tab.Tab, bool) {
	t, ok := h.tabs.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "tab not found"})
		return nil, false
	}
	return t, true
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pipeline.ErrUnknownKind), errors.Is(err, coordinator.ErrUnknownSlot):
		status = http.StatusBadRequest
	case errors.Is(err, pipeline.ErrClosed):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
