package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"educenter.io/educenter-server/api/httpbase"
	"educenter.io/educenter-server/common/config"
)

const userUUIDHeader = "X-User-UUID"

// Authenticator validates the server API key and records the acting user.
// Requests arrive through the platform gateway, which injects the user UUID
// after its own session check.
func Authenticator(config *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		if apiKey != config.APIToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}
		httpbase.SetAuthType(c, httpbase.AuthTypeApiKey)

		userUUID := c.Query(httpbase.CurrentUserUUIDQueryVar)
		if userUUID == "" {
			userUUID = c.GetHeader(userUUIDHeader)
		}
		if userUUID != "" {
			httpbase.SetCurrentUserUUID(c, userUUID)
		}
		c.Next()
	}
}

// NeedAPIKey guards endpoints that must never be reached with a user
// session alone.
func NeedAPIKey(config *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey, ok := bearerToken(c)
		if !ok || apiKey != config.APIToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "api key required"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.Request.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(authHeader, "Bearer "), true
}
