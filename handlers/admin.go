package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sj7trunks/datestack/config"
	"github.com/sj7trunks/datestack/models"
	"github.com/sj7trunks/datestack/services/backup"
	"github.com/sj7trunks/datestack/services/user"
	"github.com/sj7trunks/datestack/utils"
)

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	UserService   user.UserService
	BackupService backup.BackupService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(us user.UserService, bs backup.BackupService) *AdminHandler {
	return &AdminHandler{
		UserService:   us,
		BackupService: bs,
	}
}

// GetAllUsersHandler returns all users (with sensitive fields excluded).
func (ah *AdminHandler) GetAllUsersHandler(c *gin.Context) {
	users, err := ah.UserService.GetAllUsers()
	if err != nil {
		utils.GetLogger().Error("Failed to fetch all users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetStatsHandler returns instance-wide row counts and the database kind.
func (ah *AdminHandler) GetStatsHandler(c *gin.Context) {
	stats, err := ah.BackupService.Stats()
	if err != nil {
		utils.GetLogger().Error("Failed to gather stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to gather stats"})
		return
	}

	database := "sqlite"
	if config.IsPostgres() {
		database = "postgres"
	}
	c.JSON(http.StatusOK, gin.H{
		"database":     database,
		"users":        stats.Users,
		"sources":      stats.Sources,
		"events":       stats.Events,
		"agenda_items": stats.Agenda,
	})
}

// ExportBackupHandler streams a full JSON dump of the instance.
func (ah *AdminHandler) ExportBackupHandler(c *gin.Context) {
	dump, err := ah.BackupService.Export()
	if err != nil {
		utils.GetLogger().Error("Failed to export backup", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export backup"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="datestack-backup.json"`)
	c.JSON(http.StatusOK, dump)
}

// RestoreBackupHandler replaces the instance contents from a dump.
func (ah *AdminHandler) RestoreBackupHandler(c *gin.Context) {
	var dump models.Backup
	if err := c.ShouldBindJSON(&dump); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := ah.BackupService.Restore(&dump); err != nil {
		if errors.Is(err, backup.ErrUnsupportedVersion) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		utils.GetLogger().Error("Failed to restore backup", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restore backup"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Backup restored"})
}
