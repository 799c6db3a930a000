package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rileyblackwell/Imagi-sub001/internal/models"
)

const projectColumns = `id, user_id, name, slug, description, project_path,
	is_active, generation_status, is_initialized, created_at, updated_at`

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.ProjectPath,
		&p.IsActive,
		&p.GenerationStatus,
		&p.IsInitialized,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) Create(project *models.Project) error {
	ctx := context.Background()

	project.Prepare()

	query := `
		INSERT INTO projects (id, user_id, name, slug, description, project_path,
			is_active, generation_status, is_initialized, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		project.ID,
		project.UserID,
		project.Name,
		project.Slug,
		project.Description,
		project.ProjectPath,
		project.IsActive,
		project.GenerationStatus,
		project.IsInitialized,
		time.Now(),
	)

	return err
}

func (r *ProjectRepository) GetByID(id uuid.UUID) (*models.Project, error) {
	ctx := context.Background()

	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.pool.QueryRow(ctx, query, id))
}

// GetActiveByIDAndUserID is the ownership gate every file, version and
// preview operation goes through: the project must exist, belong to the user
// and not be soft-deleted. Returns (nil, nil) otherwise.
func (r *ProjectRepository) GetActiveByIDAndUserID(id uuid.UUID, userID uuid.UUID) (*models.Project, error) {
	ctx := context.Background()

	query := `SELECT ` + projectColumns + ` FROM projects
		WHERE id = $1 AND user_id = $2 AND is_active`
	return scanProject(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *ProjectRepository) GetActiveByUserID(userID uuid.UUID) ([]models.Project, error) {
	ctx := context.Background()

	query := `SELECT ` + projectColumns + ` FROM projects
		WHERE user_id = $1 AND is_active
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}

	return projects, rows.Err()
}

// ActiveExistsByUserAndName backs the at-most-one-active-project-per-
// (user, name) invariant; the partial unique index enforces it against races.
func (r *ProjectRepository) ActiveExistsByUserAndName(userID uuid.UUID, name string) (bool, error) {
	ctx := context.Background()

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM projects WHERE user_id = $1 AND name = $2 AND is_active)`
	err := r.pool.QueryRow(ctx, query, userID, name).Scan(&exists)
	return exists, err
}

func (r *ProjectRepository) Update(project *models.Project) error {
	ctx := context.Background()

	query := `
		UPDATE projects SET
			name = $2, slug = $3, description = $4, updated_at = $5
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query,
		project.ID,
		project.Name,
		project.Slug,
		project.Description,
		time.Now(),
	)

	return err
}

func (r *ProjectRepository) UpdateGenerationStatus(id uuid.UUID, status string) error {
	ctx := context.Background()

	query := `UPDATE projects SET generation_status = $2, updated_at = $3 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, status, time.Now())
	return err
}

func (r *ProjectRepository) MarkInitialized(id uuid.UUID) error {
	ctx := context.Background()

	query := `UPDATE projects SET is_initialized = true, updated_at = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, time.Now())
	return err
}

// SoftDelete flips is_active; the on-disk tree and git history are retained.
func (r *ProjectRepository) SoftDelete(id uuid.UUID, userID uuid.UUID) error {
	ctx := context.Background()

	query := `UPDATE projects SET is_active = false, updated_at = $3
		WHERE id = $1 AND user_id = $2 AND is_active`
	result, err := r.pool.Exec(ctx, query, id, userID, time.Now())
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return errors.New("project not found or access denied")
	}

	return nil
}

func (r *ProjectRepository) HardDelete(id uuid.UUID) error {
	ctx := context.Background()

	_, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}
