package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/promanage-api/internal/auth"
	"github.com/yukikurage/promanage-api/internal/constants"
	apierrors "github.com/yukikurage/promanage-api/internal/errors"
)

// RequireToken checks the bearer token carried in the Authorization header.
// The raw token is the expected form; a "Bearer " prefix is also accepted.
func RequireToken(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader(constants.HeaderAuthorization))
		if header == "" {
			apierrors.Unauthorized(c, "Unauthorized: No token provided")
			c.Abort()
			return
		}

		token := header
		if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
			token = strings.TrimSpace(header[7:])
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			apierrors.Unauthorized(c, "Unauthorized: Invalid token")
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
