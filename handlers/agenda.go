package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sj7trunks/datestack/config"
	"github.com/sj7trunks/datestack/middleware"
	"github.com/sj7trunks/datestack/models"
	"github.com/sj7trunks/datestack/services/agenda"
)

// AgendaHandler serves the per-day task list.
type AgendaHandler struct {
	Agenda agenda.AgendaService
}

// NewAgendaHandler creates a new AgendaHandler.
func NewAgendaHandler(as agenda.AgendaService) *AgendaHandler {
	return &AgendaHandler{Agenda: as}
}

// ListAgendaHandler handles GET /api/agenda?date=YYYY-MM-DD&include_completed=.
func (ah *AgendaHandler) ListAgendaHandler(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().In(config.Location()).Format("2006-01-02")
	}
	includeCompleted := c.Query("include_completed") == "true"

	items, err := ah.Agenda.ListDay(middleware.UserID(c), date, includeCompleted)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateAgendaHandler handles POST /api/agenda.
func (ah *AgendaHandler) CreateAgendaHandler(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.Date == "" {
		req.Date = time.Now().In(config.Location()).Format("2006-01-02")
	}

	item, err := ah.Agenda.Add(middleware.UserID(c), req.Date, req.Text)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateAgendaHandler handles PATCH /api/agenda/:id.
func (ah *AgendaHandler) UpdateAgendaHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid agenda id"})
		return
	}

	var input models.AgendaUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	item, err := ah.Agenda.Update(middleware.UserID(c), uint(id), input)
	if err != nil {
		if errors.Is(err, agenda.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteAgendaHandler handles DELETE /api/agenda/:id.
func (ah *AgendaHandler) DeleteAgendaHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid agenda id"})
		return
	}

	if err := ah.Agenda.Delete(middleware.UserID(c), uint(id)); err != nil {
		if errors.Is(err, agenda.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
