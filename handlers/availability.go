package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sj7trunks/datestack/config"
	"github.com/sj7trunks/datestack/middleware"
	"github.com/sj7trunks/datestack/models"
	"github.com/sj7trunks/datestack/services/availability"
	"github.com/sj7trunks/datestack/utils"
)

// AvailabilityHandler serves the owner-facing settings endpoints and the
// public share pages.
type AvailabilityHandler struct {
	Availability availability.AvailabilityService
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(as availability.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Availability: as}
}

// GetSettingsHandler handles GET /api/availability/settings.
func (vh *AvailabilityHandler) GetSettingsHandler(c *gin.Context) {
	settings, err := vh.Availability.GetSettings(middleware.UserID(c))
	if err != nil {
		utils.GetLogger().Error("Failed to load availability settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettingsHandler handles PUT /api/availability/settings.
func (vh *AvailabilityHandler) UpdateSettingsHandler(c *gin.Context) {
	var input models.AvailabilityUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	settings, err := vh.Availability.UpdateSettings(middleware.UserID(c), input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// RotateTokenHandler handles POST /api/availability/settings/rotate-token.
func (vh *AvailabilityHandler) RotateTokenHandler(c *gin.Context) {
	settings, err := vh.Availability.RotateShareToken(middleware.UserID(c))
	if err != nil {
		utils.GetLogger().Error("Failed to rotate share token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rotate token"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// PublicAvailabilityHandler handles GET /api/public/availability/:token.
// Unknown and disabled tokens both return 404 so the route does not leak
// which tokens exist.
func (vh *AvailabilityHandler) PublicAvailabilityHandler(c *gin.Context) {
	var from *time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, config.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		from = &parsed
	}

	view, err := vh.Availability.Public(c.Param("token"), from)
	if err != nil {
		if errors.Is(err, availability.ErrNotShared) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		utils.GetLogger().Error("Failed to build public availability", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load availability"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// BusyFeedHandler handles GET /api/public/availability/:token/feed.ics.
func (vh *AvailabilityHandler) BusyFeedHandler(c *gin.Context) {
	feed, err := vh.Availability.BusyFeed(c.Param("token"))
	if err != nil {
		if errors.Is(err, availability.ErrNotShared) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		utils.GetLogger().Error("Failed to build busy feed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load feed"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="busy.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}
