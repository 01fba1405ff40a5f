package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware allows only admin users authenticated with a session
// token. API keys are sync credentials and never grant admin access. It
// must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if method, _ := c.Get(ContextAuthMethod); method != AuthMethodJWT {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access requires a session token"})
			return
		}
		usr := AuthedUser(c)
		if usr == nil || !usr.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
