package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sj7trunks/datestack/middleware"
	"github.com/sj7trunks/datestack/services/events"
	"github.com/sj7trunks/datestack/utils"
)

// EventHandler serves calendar sources, pushed sync runs, the event
// timeline and calendar display settings.
type EventHandler struct {
	Events events.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(es events.EventService) *EventHandler {
	return &EventHandler{Events: es}
}

// ListSourcesHandler handles GET /api/sources.
func (eh *EventHandler) ListSourcesHandler(c *gin.Context) {
	sources, err := eh.Events.ListSources(middleware.UserID(c))
	if err != nil {
		utils.GetLogger().Error("Failed to list sources", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sources"})
		return
	}
	c.JSON(http.StatusOK, sources)
}

// CreateSourceHandler handles POST /api/sources, registering an ICS
// subscription.
func (eh *EventHandler) CreateSourceHandler(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
		URL  string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	src, err := eh.Events.CreateICSSource(c.Request.Context(), middleware.UserID(c), req.Name, req.URL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, src)
}

// DeleteSourceHandler handles DELETE /api/sources/:id.
func (eh *EventHandler) DeleteSourceHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source id"})
		return
	}

	if err := eh.Events.DeleteSource(middleware.UserID(c), uint(id)); err != nil {
		if errors.Is(err, events.ErrSourceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// RefreshSourceHandler handles POST /api/sources/:id/refresh.
func (eh *EventHandler) RefreshSourceHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source id"})
		return
	}

	result, err := eh.Events.RefreshSource(c.Request.Context(), middleware.UserID(c), uint(id))
	if err != nil {
		if errors.Is(err, events.ErrSourceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
