package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rileyblackwell/Imagi-sub001/internal/responses"
	"github.com/rileyblackwell/Imagi-sub001/internal/services"
	"github.com/rileyblackwell/Imagi-sub001/internal/utils"
)

type PreviewHandler struct {
	preview *services.PreviewService
}

func NewPreviewHandler(preview *services.PreviewService) *PreviewHandler {
	return &PreviewHandler{preview: preview}
}

// Start handles POST /api/v1/projects/:id/preview/start
func (h *PreviewHandler) Start(c *gin.Context) {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	result, err := h.preview.StartPreview(userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			responses.Fail(c, http.StatusNotFound, err, "Project not found or access denied")
			return
		}
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to start preview")
		return
	}

	responses.Success(c, http.StatusOK, result, result.Message)
}

// Stop handles POST /api/v1/projects/:id/preview/stop
func (h *PreviewHandler) Stop(c *gin.Context) {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	result, err := h.preview.StopPreview(userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			responses.Fail(c, http.StatusNotFound, err, "Project not found or access denied")
			return
		}
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to stop preview")
		return
	}

	responses.Success(c, http.StatusOK, result, result.Message)
}
