package models

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProjectFile is the optional DB tracking row for a file created through the
// API. Most files under a project tree have no row; listings are derived by
// walking the filesystem at request time.
type ProjectFile struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Path      string    `json:"path"` // relative to the project root
	FileType  string    `json:"file_type"`
	CreatedAt time.Time `json:"created_at"`
}

func (f *ProjectFile) Prepare() {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.FileType == "" {
		f.FileType = FileTypeFromName(f.Path)
	}
}

// FileDescriptor is the wire shape returned to the editor UI for a file on
// disk. Content is only populated by read operations.
type FileDescriptor struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Path         string `json:"path"`
	Type         string `json:"type"`
	Size         int64  `json:"size"`
	LastModified int64  `json:"lastModified"`
	Content      string `json:"content,omitempty"`
}

// FileTypeFromName infers the logical file type from the extension.
func FileTypeFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return "html"
	case ".css":
		return "css"
	case ".js":
		return "javascript"
	case ".json":
		return "json"
	case ".py":
		return "python"
	case ".md":
		return "markdown"
	case ".txt":
		return "text"
	case ".vue":
		return "vue"
	case ".ts":
		return "typescript"
	default:
		return "unknown"
	}
}
