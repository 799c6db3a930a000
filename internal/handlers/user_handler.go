package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rileyblackwell/Imagi-sub001/internal/responses"
	"github.com/rileyblackwell/Imagi-sub001/internal/services"
	"github.com/rileyblackwell/Imagi-sub001/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me handles GET /api/v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	user, err := h.userService.GetUser(userID)
	if err != nil {
		responses.Fail(c, http.StatusNotFound, err, "User not found")
		return
	}

	responses.Success(c, http.StatusOK, user, "User retrieved successfully")
}
