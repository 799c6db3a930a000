package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rileyblackwell/Imagi-sub001/internal/responses"
	"github.com/rileyblackwell/Imagi-sub001/internal/services"
	"github.com/rileyblackwell/Imagi-sub001/internal/utils"
)

// FileHandler exposes the editor file operations. Every write is followed by
// a best-effort auto-commit so edits become versions without a separate call.
type FileHandler struct {
	fileService *services.FileService
	versions    *services.VersionControlService
}

func NewFileHandler(fileService *services.FileService, versions *services.VersionControlService) *FileHandler {
	return &FileHandler{fileService: fileService, versions: versions}
}

func failFileError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		responses.Fail(c, http.StatusNotFound, err, "Project not found or access denied")
	case errors.Is(err, services.ErrFileNotFound):
		responses.Fail(c, http.StatusNotFound, err, "File not found")
	default:
		responses.Fail(c, http.StatusInternalServerError, err, fallback)
	}
}

// ListFiles handles GET /api/v1/projects/:id/files
func (h *FileHandler) ListFiles(c *gin.Context) {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	files, err := h.fileService.ListFiles(userID, c.Param("id"))
	if err != nil {
		failFileError(c, err, "Failed to list files")
		return
	}

	responses.Success(c, http.StatusOK, files, "Files retrieved successfully")
}

// CreateFile handles POST /api/v1/projects/:id/files
func (h *FileHandler) CreateFile(c *gin.Context) {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	var req services.CreateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	projectID := c.Param("id")
	file, err := h.fileService.CreateFile(userID, projectID, req)
	if err != nil {
		failFileError(c, err, "Failed to create file")
		return
	}

	h.autoCommit(userID, projectID, file.Path, "Created "+file.Path)

	responses.Success(c, http.StatusCreated, file, "File created successfully")
}

// GetFileContent handles GET /api/v1/projects/:id/files/*path
func (h *FileHandler) GetFileContent(c *gin.Context) {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	file, err := h.fileService.GetFileContent(userID, c.Param("id"), filePathParam(c))
	if err != nil {
		failFileError(c, err, "Failed to read file")
		return
	}

	responses.Success(c, http.StatusOK, file, "File retrieved successfully")
}

// UpdateFile handles PUT /api/v1/projects/:id/files/*path
func (h *FileHandler) UpdateFile(c *gin.Context) {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	projectID := c.Param("id")
	file, err := h.fileService.UpdateFile(userID, projectID, filePathParam(c), req.Content)
	if err != nil {
		failFileError(c, err, "Failed to update file")
		return
	}

	h.autoCommit(userID, projectID, file.Path, "Updated "+file.Path)

	responses.Success(c, http.StatusOK, file, "File updated successfully")
}

// DeleteFile handles DELETE /api/v1/projects/:id/files/*path
func (h *FileHandler) DeleteFile(c *gin.Context) {
	userID, ok := utils.UserIDFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	projectID := c.Param("id")
	path := filePathParam(c)
	if err := h.fileService.DeleteFile(userID, projectID, path); err != nil {
		failFileError(c, err, "Failed to delete file")
		return
	}

	h.autoCommit(userID, projectID, "", "Deleted "+path)

	responses.Success(c, http.StatusOK, nil, "File deleted successfully")
}

// autoCommit records the change in version history. Failures never affect the
// file response; the write already happened.
func (h *FileHandler) autoCommit(userID, projectID, filePath, description string) {
	if _, err := h.versions.CreateVersionAfterFileChange(userID, projectID, filePath, description); err != nil {
		// Authorization passed moments ago; only a race can land here.
		return
	}
}

// filePathParam extracts the wildcard file path, which gin returns with a
// leading slash.
func filePathParam(c *gin.Context) string {
	path := c.Param("path")
	if len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	return path
}
