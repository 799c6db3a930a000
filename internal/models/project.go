package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rileyblackwell/Imagi-sub001/internal/utils"
)

// Generation status of a project's on-disk tree. The row is created first
// (pending), the tree is generated asynchronously afterwards.
const (
	GenerationPending    = "pending"
	GenerationGenerating = "generating"
	GenerationCompleted  = "completed"
	GenerationFailed     = "failed"
)

type Project struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Description      *string   `json:"description,omitempty"`
	ProjectPath      string    `json:"project_path"`
	IsActive         bool      `json:"is_active"`
	GenerationStatus string    `json:"generation_status"`
	IsInitialized    bool      `json:"is_initialized"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (p *Project) Prepare() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Slug == "" {
		p.Slug = utils.Slugify(p.Name)
	}
	if p.GenerationStatus == "" {
		p.GenerationStatus = GenerationPending
	}
	p.IsActive = true
}
