package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rileyblackwell/Imagi-sub001/internal/models"
)

// ProjectFileRepository tracks files created through the API. The filesystem
// stays the source of truth; these rows are advisory and cleaned up on a
// best-effort basis.
type ProjectFileRepository struct {
	pool *pgxpool.Pool
}

func NewProjectFileRepository(pool *pgxpool.Pool) *ProjectFileRepository {
	return &ProjectFileRepository{pool: pool}
}

func (r *ProjectFileRepository) Upsert(file *models.ProjectFile) error {
	ctx := context.Background()

	file.Prepare()

	query := `
		INSERT INTO project_files (id, project_id, path, file_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (project_id, path) DO UPDATE SET file_type = EXCLUDED.file_type
	`

	_, err := r.pool.Exec(ctx, query,
		file.ID,
		file.ProjectID,
		file.Path,
		file.FileType,
		time.Now(),
	)

	return err
}

func (r *ProjectFileRepository) DeleteByPath(projectID uuid.UUID, path string) error {
	ctx := context.Background()

	_, err := r.pool.Exec(ctx,
		`DELETE FROM project_files WHERE project_id = $1 AND path = $2`,
		projectID, path)
	return err
}
