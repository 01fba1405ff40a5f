package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sj7trunks/datestack/utils"
)

// HealthHandler handles GET /health.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": status.Database,
	})
}
