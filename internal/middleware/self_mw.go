package middleware

import (
	"net/http"

	"forum_api/internal/model"

	"github.com/gin-gonic/gin"
)

// SelfMiddleware allows the request only when the authenticated user is the
// one named by the route parameter param. Must run after JWTAuthMiddleware.
func SelfMiddleware(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := AuthUsername(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse(http.StatusUnauthorized, authInvalidMessage))
			return
		}

		if c.Param(param) != username {
			c.AbortWithStatusJSON(http.StatusForbidden,
				model.NewErrorResponse(http.StatusForbidden, "You are not authorized to update this profile."))
			return
		}

		c.Next()
	}
}
