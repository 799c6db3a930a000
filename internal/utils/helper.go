package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// Slugify derives a URL-safe slug from a project name.
func Slugify(name string) string {
	return slug.Make(name)
}

// UserIDFromContext reads the authenticated user ID set by the Authenticate
// middleware. The claims may carry it as a uuid.UUID or a plain string
// depending on the token path.
func UserIDFromContext(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		return "", false
	}

	switch v := userID.(type) {
	case uuid.UUID:
		return v.String(), true
	case string:
		return v, true
	default:
		return fmt.Sprintf("%v", v), true
	}
}
