package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rileyblackwell/Imagi-sub001/internal/responses"
	"github.com/rileyblackwell/Imagi-sub001/internal/services"
	"github.com/rileyblackwell/Imagi-sub001/internal/utils"
)

type VersionHandler struct {
	versions *services.VersionControlService
}

func NewVersionHandler(versions *services.VersionControlService) *VersionHandler {
	return &VersionHandler{versions: versions}
}

// GetHistory handles GET /api/v1/projects/:id/versions
func (h *VersionHandler) GetHistory(c *gin.Context) {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	history, err := h.versions.GetCommitHistory(userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			responses.Fail(c, http.StatusNotFound, err, "Project not found or access denied")
			return
		}
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to retrieve version history")
		return
	}

	responses.Success(c, http.StatusOK, history, "Version history retrieved successfully")
}

// Commit handles POST /api/v1/projects/:id/versions
func (h *VersionHandler) Commit(c *gin.Context) {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	var req struct {
		Description string `json:"description"`
		FilePath    string `json:"file_path"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	result, err := h.versions.CreateVersionAfterFileChange(userID, c.Param("id"), req.FilePath, req.Description)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			responses.Fail(c, http.StatusNotFound, err, "Project not found or access denied")
			return
		}
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to create version")
		return
	}

	responses.Success(c, http.StatusOK, result, result.Message)
}

// Reset handles POST /api/v1/projects/:id/versions/:hash/reset
func (h *VersionHandler) Reset(c *gin.Context) {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	result, err := h.versions.ResetToVersion(userID, c.Param("id"), c.Param("hash"))
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			responses.Fail(c, http.StatusNotFound, err, "Project not found or access denied")
			return
		}
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to reset version")
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	responses.Success(c, status, result, result.Message)
}
