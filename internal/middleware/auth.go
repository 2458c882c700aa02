package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/leocodeio/gitsprint-api/internal/constants"
	apierrors "github.com/leocodeio/gitsprint-api/internal/errors"
	"github.com/leocodeio/gitsprint-api/internal/models"
	"github.com/leocodeio/gitsprint-api/internal/services"
)

// RequireAuth resolves the inbound session (cookie or bearer token) and
// stores the session and user in the request context.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := authService.SessionFromRequest(c.Request)
		if err != nil {
			apierrors.InternalError(c, "Failed to resolve session")
			c.Abort()
			return
		}
		if session == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeySession, session)
		c.Set(constants.ContextKeyUser, session.User)
		c.Set(constants.ContextKeyUserID, session.UserID)
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

// GetSession retrieves the resolved session from context
func GetSession(c *gin.Context) (*models.Session, bool) {
	value, exists := c.Get(constants.ContextKeySession)
	if !exists {
		return nil, false
	}
	session, ok := value.(*models.Session)
	return session, ok
}
