package middleware

import (
	"net/http"

	"github.com/franciscosanchezn/taist-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequireRole lets the request through when the caller has one of roles.
// It must run after JWTAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextUserID); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Failure(models.ErrUnauthorized, "Please log in to continue"))
			return
		}

		userRole := c.GetString(ContextUserRole)
		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}

		log.WithFields(logrus.Fields{
			"user_id":        c.GetUint(ContextUserID),
			"user_role":      userRole,
			"required_roles": roles,
		}).Info("Insufficient permissions")
		c.AbortWithStatusJSON(http.StatusForbidden, models.Failure(models.ErrForbidden, "You do not have access to this action"))
	}
}

// UserID is the authenticated caller's id, 0 when unauthenticated.
func UserID(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}

// IsAdmin reports whether the caller authenticated as an admin.
func IsAdmin(c *gin.Context) bool {
	return c.GetString(ContextUserRole) == models.RoleAdmin
}
