package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/rileyblackwell/Imagi-sub001/internal/config"
	"github.com/rileyblackwell/Imagi-sub001/internal/models"
	"github.com/rileyblackwell/Imagi-sub001/internal/repositories"
	"github.com/rileyblackwell/Imagi-sub001/internal/utils"
)

var ErrProjectNameTaken = errors.New("an active project with this name already exists")

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation. The partial unique index on (user_id, name) backstops the
// application-level name check against races; the insert losing that race
// must surface as a name conflict, not an internal error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ProjectService owns the project lifecycle: row-first creation, asynchronous
// tree generation, rename, soft delete and hard delete.
type ProjectService struct {
	projectRepo *repositories.ProjectRepository
	scaffold    *ScaffoldService
	versions    *VersionControlService
	preview     *PreviewService
	cfg         *config.ProjectsConfig
	logger      *logrus.Logger
}

func NewProjectService(
	projectRepo *repositories.ProjectRepository,
	scaffold *ScaffoldService,
	versions *VersionControlService,
	preview *PreviewService,
	cfg *config.ProjectsConfig,
	logger *logrus.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		scaffold:    scaffold,
		versions:    versions,
		preview:     preview,
		cfg:         cfg,
		logger:      logger,
	}
}

type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// CreateProject inserts the row with a pending status and returns it
// immediately; scaffolding and repository initialization run in the
// background so the API response never waits on disk or git.
func (s *ProjectService) CreateProject(userID string, req CreateProjectRequest) (*models.Project, error) {
	userUUID, err := utils.ParseUUID(userID)
	if err != nil {
		return nil, errors.New("invalid user id")
	}

	taken, err := s.projectRepo.ActiveExistsByUserAndName(userUUID, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check project name: %w", err)
	}
	if taken {
		return nil, ErrProjectNameTaken
	}

	slug := utils.Slugify(req.Name)
	path, err := filepath.Abs(filepath.Join(s.cfg.Root, userUUID.String(), slug))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project path: %w", err)
	}

	project := &models.Project{
		UserID:      userUUID,
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		ProjectPath: path,
	}

	if err := s.projectRepo.Create(project); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrProjectNameTaken
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	go s.generate(project)

	return project, nil
}

// generate runs in its own goroutine. Status transitions pending ->
// generating -> completed, or failed on the first error; the row survives
// either way so the client can poll generation_status.
func (s *ProjectService) generate(project *models.Project) {
	log := s.logger.WithFields(logrus.Fields{
		"project": project.ID,
		"slug":    project.Slug,
	})

	if err := s.projectRepo.UpdateGenerationStatus(project.ID, models.GenerationGenerating); err != nil {
		log.WithError(err).Error("failed to mark project generating")
	}

	if err := s.scaffold.Generate(project); err != nil {
		log.WithError(err).Error("project generation failed")
		s.fail(project)
		return
	}

	if s.versions.InitializeRepo(project.ProjectPath) {
		if err := s.projectRepo.MarkInitialized(project.ID); err != nil {
			log.WithError(err).Error("failed to mark project initialized")
		}
	} else {
		// The tree is usable without history; initialization is retried
		// lazily on the first commit.
		log.Warn("repository initialization deferred")
	}

	if err := s.projectRepo.UpdateGenerationStatus(project.ID, models.GenerationCompleted); err != nil {
		log.WithError(err).Error("failed to mark project completed")
	}
}

func (s *ProjectService) fail(project *models.Project) {
	if err := s.projectRepo.UpdateGenerationStatus(project.ID, models.GenerationFailed); err != nil {
		s.logger.WithError(err).Errorf("failed to mark project %s failed", project.ID)
	}
}

func (s *ProjectService) GetProject(userID, projectID string) (*models.Project, error) {
	return authorizeProject(s.projectRepo, userID, projectID)
}

func (s *ProjectService) ListProjects(userID string) ([]models.Project, error) {
	userUUID, err := utils.ParseUUID(userID)
	if err != nil {
		return nil, errors.New("invalid user id")
	}

	projects, err := s.projectRepo.GetActiveByUserID(userUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

// UpdateProject renames and/or re-describes a project. A rename re-derives
// the slug but never moves the on-disk tree; the original path stays bound to
// the row.
func (s *ProjectService) UpdateProject(userID, projectID string, req UpdateProjectRequest) (*models.Project, error) {
	project, err := authorizeProject(s.projectRepo, userID, projectID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != project.Name {
		taken, err := s.projectRepo.ActiveExistsByUserAndName(project.UserID, *req.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check project name: %w", err)
		}
		if taken {
			return nil, ErrProjectNameTaken
		}
		project.Name = *req.Name
		project.Slug = utils.Slugify(*req.Name)
	}
	if req.Description != nil {
		project.Description = req.Description
	}

	if err := s.projectRepo.Update(project); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrProjectNameTaken
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject soft-deletes: the row is deactivated, the tree and its git
// history stay on disk. Any running preview is stopped first, best effort.
func (s *ProjectService) DeleteProject(userID, projectID string) error {
	project, err := authorizeProject(s.projectRepo, userID, projectID)
	if err != nil {
		return err
	}

	if s.preview != nil {
		if _, err := s.preview.StopPreview(userID, projectID); err != nil {
			s.logger.WithError(err).Warnf("failed to stop preview for %s before delete", project.ID)
		}
	}

	if err := s.projectRepo.SoftDelete(project.ID, project.UserID); err != nil {
		return ErrProjectNotFound
	}

	return nil
}

// HardDeleteProject removes the row permanently. The on-disk tree is only
// removed when cleanup_on_delete is enabled; otherwise the orphaned tree is
// logged and retained.
func (s *ProjectService) HardDeleteProject(projectID string) error {
	projectUUID, err := utils.ParseUUID(projectID)
	if err != nil {
		return ErrProjectNotFound
	}

	project, err := s.projectRepo.GetByID(projectUUID)
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return ErrProjectNotFound
	}

	if s.cfg.CleanupOnDelete {
		if err := os.RemoveAll(project.ProjectPath); err != nil {
			s.logger.WithError(err).Warnf("failed to remove project tree %s", project.ProjectPath)
		}
	} else {
		s.logger.Warnf("project %s hard-deleted, tree retained at %s", project.ID, project.ProjectPath)
	}

	return s.projectRepo.HardDelete(project.ID)
}
