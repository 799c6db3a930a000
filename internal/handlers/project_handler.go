package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rileyblackwell/Imagi-sub001/internal/responses"
	"github.com/rileyblackwell/Imagi-sub001/internal/services"
	"github.com/rileyblackwell/Imagi-sub001/internal/utils"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProject handles POST /api/v1/projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(userID, req)
	if err != nil {
		if errors.Is(err, services.ErrProjectNameTaken) {
			responses.Fail(c, http.StatusConflict, err, "Project name already in use")
			return
		}
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to create project")
		return
	}

	responses.Success(c, http.StatusCreated, project, "Project created successfully")
}

// ListProjects handles GET /api/v1/projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	projects, err := h.projectService.ListProjects(userID)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to retrieve projects")
		return
	}

	responses.Success(c, http.StatusOK, projects, "Projects retrieved successfully")
}

// GetProject handles GET /api/v1/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	project, err := h.projectService.GetProject(userID, c.Param("id"))
	if err != nil {
		responses.Fail(c, http.StatusNotFound, err, "Project not found or access denied")
		return
	}

	responses.Success(c, http.StatusOK, project, "Project retrieved successfully")
}

// UpdateProject handles PATCH /api/v1/projects/:id
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(userID, c.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			responses.Fail(c, http.StatusNotFound, err, "Project not found or access denied")
		case errors.Is(err, services.ErrProjectNameTaken):
			responses.Fail(c, http.StatusConflict, err, "Project name already in use")
		default:
			responses.Fail(c, http.StatusInternalServerError, err, "Failed to update project")
		}
		return
	}

	responses.Success(c, http.StatusOK, project, "Project updated successfully")
}

// HardDeleteProject handles DELETE /api/v1/admin/projects/:id. The row is
// removed permanently; on-disk cleanup follows the projects.cleanup_on_delete
// setting. Admin-only, gated by the RequireAdmin middleware.
func (h *ProjectHandler) HardDeleteProject(c *gin.Context) {
	if err := h.projectService.HardDeleteProject(c.Param("id")); err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			responses.Fail(c, http.StatusNotFound, err, "Project not found")
			return
		}
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to delete project")
		return
	}

	responses.Success(c, http.StatusOK, nil, "Project permanently deleted")
}

// DeleteProject handles DELETE /api/v1/projects/:id
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	if err := h.projectService.DeleteProject(userID, c.Param("id")); err != nil {
		responses.Fail(c, http.StatusNotFound, err, "Project not found or access denied")
		return
	}

	responses.Success(c, http.StatusOK, nil, "Project deleted successfully")
}
