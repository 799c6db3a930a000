package services

import (
	"fmt"

	"github.com/rileyblackwell/Imagi-sub001/internal/models"
	"github.com/rileyblackwell/Imagi-sub001/internal/repositories"
	"github.com/rileyblackwell/Imagi-sub001/internal/utils"
)

// authorizeProject resolves a (user, project) pair to an active, owned
// project. Every disk-touching operation goes through it first; a missing,
// inactive or foreign project surfaces as ErrProjectNotFound so the caller
// never learns real filesystem paths.
func authorizeProject(repo *repositories.ProjectRepository, userID, projectID string) (*models.Project, error) {
	userUUID, err := utils.ParseUUID(userID)
	if err != nil {
		return nil, ErrProjectNotFound
	}

	projectUUID, err := utils.ParseUUID(projectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}

	project, err := repo.GetActiveByIDAndUserID(projectUUID, userUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	return project, nil
}
