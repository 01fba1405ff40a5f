package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sj7trunks/datestack/middleware"
	"github.com/sj7trunks/datestack/models"
)

// SyncHandler handles POST /api/events/sync, the push path used by the
// desktop sync client.
func (eh *EventHandler) SyncHandler(c *gin.Context) {
	var req models.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := eh.Events.Ingest(middleware.UserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
