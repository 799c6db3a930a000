package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rileyblackwell/Imagi-sub001/internal/models"
	"github.com/rileyblackwell/Imagi-sub001/internal/utils"
)

// UserFinder resolves an authenticated user ID to its account record.
type UserFinder interface {
	FindUserByID(id uuid.UUID) (*models.User, error)
}

// RequireAdmin checks that the authenticated user holds the admin role.
// Must be used after the Authenticate middleware.
func RequireAdmin(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := utils.UserIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		id, err := utils.ParseUUID(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid user ID format"})
			return
		}

		user, err := users.FindUserByID(id)
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
			return
		}

		if user.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied. Admin privileges required."})
			return
		}

		// Store the authenticated user for handlers that need more than the ID.
		c.Set("authenticatedUser", user)
		c.Next()
	}
}
