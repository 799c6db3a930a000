package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rileyblackwell/Imagi-sub001/internal/models"
	"github.com/rileyblackwell/Imagi-sub001/internal/repositories"
	"github.com/rileyblackwell/Imagi-sub001/internal/utils"
)

// Extensions surfaced by the editor listing, per layout.
var (
	legacyListExtensions     = []string{".html", ".css", ".js", ".py", ".json", ".md", ".txt"}
	dualListExtensions       = []string{".vue", ".ts", ".js", ".css", ".json"}
	dualStackFrontendSubdirs = []string{
		"src/components", "src/views", "src/stores", "src/services",
		"src/router", "src/types", "src/apps",
	}
)

// FileService reads and writes files inside a project tree. It is scoped to
// what the editor UI needs, not a general file browser: dual-stack listings
// only browse the frontend tree.
type FileService struct {
	projectRepo *repositories.ProjectRepository
	fileRepo    *repositories.ProjectFileRepository
	locks       *ProjectLocks
	logger      *logrus.Logger
}

func NewFileService(
	projectRepo *repositories.ProjectRepository,
	fileRepo *repositories.ProjectFileRepository,
	locks *ProjectLocks,
	logger *logrus.Logger,
) *FileService {
	return &FileService{
		projectRepo: projectRepo,
		fileRepo:    fileRepo,
		locks:       locks,
		logger:      logger,
	}
}

type CreateFileRequest struct {
	Name    string `json:"name" binding:"required"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// ListFiles walks the directories relevant to the detected layout and returns
// descriptors sorted lexicographically by relative path.
func (s *FileService) ListFiles(userID, projectID string) ([]models.FileDescriptor, error) {
	project, err := authorizeProject(s.projectRepo, userID, projectID)
	if err != nil {
		return nil, err
	}

	layout := DetectLayout(project.ProjectPath)

	var files []models.FileDescriptor
	if layout.IsDualStack() {
		files = s.listDualStack(layout)
	} else {
		files = s.listLegacy(layout)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (s *FileService) listLegacy(layout ProjectLayout) []models.FileDescriptor {
	// Non-nil so an empty project serializes as [], not null.
	files := []models.FileDescriptor{}

	filepath.Walk(layout.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // tolerate unreadable entries
		}
		name := info.Name()
		if strings.HasPrefix(name, ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if !utils.Contains(legacyListExtensions, strings.ToLower(filepath.Ext(name))) {
			return nil
		}
		if rel, relErr := filepath.Rel(layout.Root, path); relErr == nil {
			files = append(files, descriptorFor(rel, info))
		}
		return nil
	})

	return files
}

// listDualStack restricts results to the frontend tree: the allowed src
// subdirectories plus entry files at the frontend root and directly under
// src. Backend files never appear in a dual-stack listing.
func (s *FileService) listDualStack(layout ProjectLayout) []models.FileDescriptor {
	files := []models.FileDescriptor{}

	filepath.Walk(layout.FrontendDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		name := info.Name()
		if strings.HasPrefix(name, ".") || name == "node_modules" {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(layout.FrontendDir, path)
		if relErr != nil {
			return nil
		}
		if !dualStackListable(filepath.ToSlash(rel)) {
			return nil
		}
		if !utils.Contains(dualListExtensions, strings.ToLower(filepath.Ext(name))) {
			return nil
		}

		projectRel := filepath.ToSlash(filepath.Join("frontend", "vuejs", rel))
		files = append(files, descriptorFor(projectRel, info))
		return nil
	})

	return files
}

func dualStackListable(rel string) bool {
	// Entry files directly at the frontend root or under src/.
	if !strings.Contains(rel, "/") {
		return true
	}
	if strings.HasPrefix(rel, "src/") && strings.Count(rel, "/") == 1 {
		return true
	}
	for _, dir := range dualStackFrontendSubdirs {
		if strings.HasPrefix(rel, dir+"/") {
			return true
		}
	}
	return false
}

// CreateFile writes a new file, inferring the target directory from the file
// type when the name carries no path. The write overwrites silently: last
// writer wins, no conflict detection.
func (s *FileService) CreateFile(userID, projectID string, req CreateFileRequest) (*models.FileDescriptor, error) {
	project, err := authorizeProject(s.projectRepo, userID, projectID)
	if err != nil {
		return nil, err
	}

	layout := DetectLayout(project.ProjectPath)
	rel := placementFor(req.Name, req.Type, layout)

	unlock := s.locks.Lock(project.ProjectPath)
	defer unlock()

	desc, err := s.writeFile(layout.Root, rel, req.Content)
	if err != nil {
		return nil, err
	}

	// Tracking row is advisory: failure is logged, never surfaced.
	track := &models.ProjectFile{ProjectID: project.ID, Path: rel, FileType: desc.Type}
	if err := s.fileRepo.Upsert(track); err != nil {
		s.logger.WithError(err).Warnf("failed to record project file %s", rel)
	}

	return desc, nil
}

// placementFor computes the project-relative path for a new file. CSS
// normalization runs unconditionally afterwards because the prefix checks
// above it can miss nested names.
func placementFor(name, fileType string, layout ProjectLayout) string {
	backendRel := ""
	if layout.IsDualStack() {
		backendRel = "backend/django"
	}

	if fileType == "" {
		fileType = models.FileTypeFromName(name)
	}

	var rel string
	if strings.ContainsRune(name, '/') {
		rel = filepath.ToSlash(filepath.Clean(name))
	} else {
		switch fileType {
		case "html":
			rel = joinRel(backendRel, "templates", name)
		case "css":
			rel = joinRel(backendRel, "static/css", name)
		case "javascript":
			rel = joinRel(backendRel, "static", name)
		case "vue", "typescript":
			rel = joinRel("frontend/vuejs/src", name)
		default:
			rel = name
		}
	}

	if fileType == "css" || strings.EqualFold(filepath.Ext(rel), ".css") {
		rel = joinRel(backendRel, "static/css", filepath.Base(rel))
	}

	return rel
}

func joinRel(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return filepath.ToSlash(filepath.Join(kept...))
}

// UpdateFile overwrites an existing path, creating parent directories as
// needed.
func (s *FileService) UpdateFile(userID, projectID, path, content string) (*models.FileDescriptor, error) {
	project, err := authorizeProject(s.projectRepo, userID, projectID)
	if err != nil {
		return nil, err
	}

	rel, err := safeRel(path)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(project.ProjectPath)
	defer unlock()

	return s.writeFile(project.ProjectPath, rel, content)
}

func (s *FileService) GetFileContent(userID, projectID, path string) (*models.FileDescriptor, error) {
	project, err := authorizeProject(s.projectRepo, userID, projectID)
	if err != nil {
		return nil, err
	}

	rel, err := safeRel(path)
	if err != nil {
		return nil, err
	}

	abs := filepath.Join(project.ProjectPath, rel)
	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return nil, ErrFileNotFound
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, ErrFileNotFound
	}

	desc := descriptorFor(rel, info)
	desc.Content = string(content)
	return &desc, nil
}

// DeleteFile removes the file from disk. Cleanup of the tracking row is
// best-effort: its failure never fails the deletion.
func (s *FileService) DeleteFile(userID, projectID, path string) error {
	project, err := authorizeProject(s.projectRepo, userID, projectID)
	if err != nil {
		return err
	}

	rel, err := safeRel(path)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(project.ProjectPath)
	defer unlock()

	abs := filepath.Join(project.ProjectPath, rel)
	if info, statErr := os.Stat(abs); statErr != nil || !info.Mode().IsRegular() {
		return ErrFileNotFound
	}

	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if err := s.fileRepo.DeleteByPath(project.ID, rel); err != nil {
		s.logger.WithError(err).Warnf("failed to clean up tracking row for %s", rel)
	}

	return nil
}

func (s *FileService) writeFile(root, rel, content string) (*models.FileDescriptor, error) {
	abs := filepath.Join(root, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create parent directories: %w", err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat written file: %w", err)
	}

	desc := descriptorFor(rel, info)
	return &desc, nil
}

// safeRel normalizes a caller-supplied relative path and rejects anything
// escaping the project root. Escapes surface as a not-found, same as any
// other unreachable file.
func safeRel(path string) (string, error) {
	rel := filepath.ToSlash(filepath.Clean(path))
	if rel == "." || rel == "" || strings.HasPrefix(rel, "..") || filepath.IsAbs(path) {
		return "", ErrFileNotFound
	}
	return rel, nil
}

func descriptorFor(rel string, info os.FileInfo) models.FileDescriptor {
	rel = filepath.ToSlash(rel)
	return models.FileDescriptor{
		ID:           rel,
		Name:         filepath.Base(rel),
		Path:         rel,
		Type:         models.FileTypeFromName(rel),
		Size:         info.Size(),
		LastModified: info.ModTime().Unix(),
	}
}
