package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rileyblackwell/Imagi-sub001/internal/handlers"
	"github.com/rileyblackwell/Imagi-sub001/internal/middlewares"
)

type UserRoutes struct {
	handler *handlers.UserHandler
}

func NewUserRoutes(handler *handlers.UserHandler) *UserRoutes {
	return &UserRoutes{handler: handler}
}

func (r *UserRoutes) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	users.Use(middlewares.Authenticate)
	{
		users.GET("/me", r.handler.Me)
	}
}
