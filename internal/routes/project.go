package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rileyblackwell/Imagi-sub001/internal/handlers"
	"github.com/rileyblackwell/Imagi-sub001/internal/middlewares"
)

// ProjectRoutes mounts the project lifecycle plus its nested file, version
// and preview resources.
type ProjectRoutes struct {
	projects *handlers.ProjectHandler
	files    *handlers.FileHandler
	versions *handlers.VersionHandler
	preview  *handlers.PreviewHandler
}

func NewProjectRoutes(
	projects *handlers.ProjectHandler,
	files *handlers.FileHandler,
	versions *handlers.VersionHandler,
	preview *handlers.PreviewHandler,
) *ProjectRoutes {
	return &ProjectRoutes{
		projects: projects,
		files:    files,
		versions: versions,
		preview:  preview,
	}
}

func (r *ProjectRoutes) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/projects")
	projects.Use(middlewares.Authenticate) // All project routes require authentication
	{
		projects.POST("", r.projects.CreateProject)
		projects.GET("", r.projects.ListProjects)
		projects.GET("/:id", r.projects.GetProject)
		projects.PATCH("/:id", r.projects.UpdateProject)
		projects.DELETE("/:id", r.projects.DeleteProject)

		projects.GET("/:id/files", r.files.ListFiles)
		projects.POST("/:id/files", r.files.CreateFile)
		projects.GET("/:id/files/*path", r.files.GetFileContent)
		projects.PUT("/:id/files/*path", r.files.UpdateFile)
		projects.DELETE("/:id/files/*path", r.files.DeleteFile)

		projects.GET("/:id/versions", r.versions.GetHistory)
		projects.POST("/:id/versions", r.versions.Commit)
		projects.POST("/:id/versions/:hash/reset", r.versions.Reset)

		projects.POST("/:id/preview/start", r.preview.Start)
		projects.POST("/:id/preview/stop", r.preview.Stop)
	}
}
