package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rileyblackwell/Imagi-sub001/internal/handlers"
	"github.com/rileyblackwell/Imagi-sub001/internal/middlewares"
)

func RegisterRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	projectHandler *handlers.ProjectHandler,
	fileHandler *handlers.FileHandler,
	versionHandler *handlers.VersionHandler,
	previewHandler *handlers.PreviewHandler,
	userFinder middlewares.UserFinder,
) {
	api := router.Group("/api/v1")

	authRoutes := NewAuthRoutes(authHandler)
	authRoutes.RegisterRoutes(api)

	userRoutes := NewUserRoutes(userHandler)
	userRoutes.RegisterRoutes(api)

	projectRoutes := NewProjectRoutes(projectHandler, fileHandler, versionHandler, previewHandler)
	projectRoutes.RegisterRoutes(api)

	adminRoutes := NewAdminRoutes(projectHandler, userFinder)
	adminRoutes.RegisterRoutes(api)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
