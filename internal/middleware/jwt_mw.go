package middleware

import (
	"net/http"
	"strings"

	"forum_api/internal/model"
	"forum_api/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserIDKey   = "authUserID"
	AuthUsernameKey = "authUsername"
)

const authInvalidMessage = "Authentication invalid"

// JWTAuthMiddleware creates a middleware for JWT authentication.
// Every failure aborts the chain with 401.
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c)
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c)
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c)
			return
		}

		// Set user information in context
		c.Set(AuthUserIDKey, claims.UserID)
		c.Set(AuthUsernameKey, claims.Username)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse(http.StatusUnauthorized, authInvalidMessage))
}

// AuthUsername returns the username set by JWTAuthMiddleware
func AuthUsername(c *gin.Context) (string, bool) {
	v, ok := c.Get(AuthUsernameKey)
	if !ok {
		return "", false
	}
	username, ok := v.(string)
	return username, ok && username != ""
}

// AuthUserID returns the user id set by JWTAuthMiddleware
func AuthUserID(c *gin.Context) (int, bool) {
	v, ok := c.Get(AuthUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}
