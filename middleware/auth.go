package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sj7trunks/datestack/database/repository"
	"github.com/sj7trunks/datestack/models"
	"github.com/sj7trunks/datestack/services/apikey"
	"github.com/sj7trunks/datestack/utils"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID     = "userID"
	ContextUser       = "authUser"
	ContextAuthMethod = "authMethod"

	AuthMethodJWT    = "jwt"
	AuthMethodAPIKey = "api_key"
)

// AuthMiddleware authenticates a request with either a Bearer JWT or an
// X-API-Key header. Both resolve to a user, which is loaded into the
// context for handlers downstream.
func AuthMiddleware(users repository.UserRepository, keys apikey.APIKeyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader("X-API-Key"); raw != "" {
			key, err := keys.Authenticate(raw)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
				return
			}
			usr, err := users.GetByID(key.UserID)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
				return
			}
			c.Set(ContextUserID, usr.ID)
			c.Set(ContextUser, usr)
			c.Set(ContextAuthMethod, AuthMethodAPIKey)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		sub, err := utils.ExtractIDFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		id, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		usr, err := users.GetByID(uint(id))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextUserID, usr.ID)
		c.Set(ContextUser, usr)
		c.Set(ContextAuthMethod, AuthMethodJWT)
		c.Next()
	}
}

// UserID returns the authenticated user's ID from the context, or zero when
// the request did not pass AuthMiddleware.
func UserID(c *gin.Context) uint {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// AuthedUser returns the user row loaded by AuthMiddleware.
func AuthedUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextUser); ok {
		if usr, ok := v.(*models.User); ok {
			return usr
		}
	}
	return nil
}
