package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rileyblackwell/Imagi-sub001/internal/handlers"
	"github.com/rileyblackwell/Imagi-sub001/internal/middlewares"
)

// AdminRoutes mounts the admin-only surface: hard delete of project rows.
type AdminRoutes struct {
	projects *handlers.ProjectHandler
	users    middlewares.UserFinder
}

func NewAdminRoutes(projects *handlers.ProjectHandler, users middlewares.UserFinder) *AdminRoutes {
	return &AdminRoutes{projects: projects, users: users}
}

func (r *AdminRoutes) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middlewares.Authenticate, middlewares.RequireAdmin(r.users))
	{
		admin.DELETE("/projects/:id", r.projects.HardDeleteProject)
	}
}
