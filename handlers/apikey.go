package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sj7trunks/datestack/middleware"
	"github.com/sj7trunks/datestack/services/apikey"
	"github.com/sj7trunks/datestack/utils"
)

// APIKeyHandler manages sync client credentials.
type APIKeyHandler struct {
	Keys apikey.APIKeyService
}

// NewAPIKeyHandler creates a new APIKeyHandler.
func NewAPIKeyHandler(ks apikey.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{Keys: ks}
}

// ListKeysHandler handles GET /api/keys.
func (kh *APIKeyHandler) ListKeysHandler(c *gin.Context) {
	keys, err := kh.Keys.List(middleware.UserID(c))
	if err != nil {
		utils.GetLogger().Error("Failed to list api keys", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch api keys"})
		return
	}
	c.JSON(http.StatusOK, keys)
}

// CreateKeyHandler handles POST /api/keys. The raw key appears in this
// response and nowhere else.
func (kh *APIKeyHandler) CreateKeyHandler(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	raw, key, err := kh.Keys.Create(middleware.UserID(c), req.Name)
	if err != nil {
		utils.GetLogger().Error("Failed to create api key", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create api key"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":     key.ID,
		"name":   key.Name,
		"prefix": key.Prefix,
		"key":    raw,
	})
}

// DeleteKeyHandler handles DELETE /api/keys/:id.
func (kh *APIKeyHandler) DeleteKeyHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid key id"})
		return
	}

	if err := kh.Keys.Delete(middleware.UserID(c), uint(id)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
