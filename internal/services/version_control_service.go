package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sirupsen/logrus"

	"github.com/rileyblackwell/Imagi-sub001/internal/repositories"
)

// Fixed committer identity for all generated-project commits.
const (
	commitAuthorName  = "Imagi"
	commitAuthorEmail = "service@imagi.build"
)

const gitignoreContent = `__pycache__/
*.pyc
.env
db.sqlite3
node_modules/
`

// syncWait bounds the polling loop that tolerates filesystem write latency
// between a file-write call and the commit that follows it.
const (
	syncWaitTimeout  = 5 * time.Second
	syncWaitInterval = 150 * time.Millisecond
)

type CommitRecord struct {
	Hash         string `json:"hash"`
	Message      string `json:"message"`
	Author       string `json:"author"`
	Date         string `json:"date"`
	RelativeDate string `json:"relative_date"`
}

// VersionControlService wraps one git repository per project tree. All git
// failures are converted into OperationResult; only authorization errors
// propagate as Go errors.
type VersionControlService struct {
	projectRepo *repositories.ProjectRepository
	locks       *ProjectLocks
	logger      *logrus.Logger
}

func NewVersionControlService(
	projectRepo *repositories.ProjectRepository,
	locks *ProjectLocks,
	logger *logrus.Logger,
) *VersionControlService {
	return &VersionControlService{
		projectRepo: projectRepo,
		locks:       locks,
		logger:      logger,
	}
}

func serviceSignature() *object.Signature {
	return &object.Signature{
		Name:  commitAuthorName,
		Email: commitAuthorEmail,
		When:  time.Now(),
	}
}

// InitializeRepo creates a git repository at path if one does not exist yet,
// with a .gitignore and an initial commit of everything present. Idempotent:
// an existing repository is left untouched. Returns false on any failure so
// callers can degrade instead of erroring.
func (s *VersionControlService) InitializeRepo(path string) bool {
	if _, err := git.PlainOpen(path); err == nil {
		return true
	}

	repo, err := git.PlainInit(path, false)
	if err != nil {
		s.logger.WithError(err).Warn("failed to initialize git repository")
		return false
	}

	if err := os.WriteFile(filepath.Join(path, ".gitignore"), []byte(gitignoreContent), 0o644); err != nil {
		s.logger.WithError(err).Warn("failed to write .gitignore")
		return false
	}

	wt, err := repo.Worktree()
	if err != nil {
		s.logger.WithError(err).Warn("failed to open worktree")
		return false
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		s.logger.WithError(err).Warn("failed to stage initial files")
		return false
	}

	_, err = wt.Commit("Initial commit", &git.CommitOptions{
		Author:            serviceSignature(),
		AllowEmptyCommits: true,
	})
	if err != nil {
		s.logger.WithError(err).Warn("failed to create initial commit")
		return false
	}

	return true
}

// CommitChanges stages and commits everything under path. A clean tree after
// the sync-wait is a successful no-op with no commit hash. The repository is
// lazily initialized if missing.
func (s *VersionControlService) CommitChanges(path, message, filePath string) OperationResult {
	unlock := s.locks.Lock(path)
	defer unlock()

	repo, err := git.PlainOpen(path)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		if !s.InitializeRepo(path) {
			return OperationResult{Success: false, Message: "failed to initialize repository"}
		}
		repo, err = git.PlainOpen(path)
	}
	if err != nil {
		return OperationResult{Success: false, Message: fmt.Sprintf("failed to open repository: %v", err)}
	}

	wt, err := repo.Worktree()
	if err != nil {
		return OperationResult{Success: false, Message: fmt.Sprintf("failed to open worktree: %v", err)}
	}

	status := s.waitForSync(wt, path, filePath)
	if status == nil || status.IsClean() {
		return OperationResult{Success: true, Message: "no changes to commit"}
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return OperationResult{Success: false, Message: fmt.Sprintf("failed to stage changes: %v", err)}
	}

	if message == "" {
		message = fmt.Sprintf("Auto-save %s", time.Now().Format("2006-01-02 15:04:05"))
	}

	hash, err := wt.Commit(message, &git.CommitOptions{Author: serviceSignature()})
	if err != nil {
		return OperationResult{Success: false, Message: fmt.Sprintf("failed to commit: %v", err)}
	}

	return OperationResult{Success: true, Message: "changes committed", CommitHash: hash.String()}
}

// waitForSync polls worktree status until the named file is visible to git,
// or any change is visible, or the timeout elapses. This compensates for
// buffered-write and network-filesystem latency across service boundaries.
func (s *VersionControlService) waitForSync(wt *git.Worktree, path, filePath string) git.Status {
	deadline := time.Now().Add(syncWaitTimeout)

	var status git.Status
	for {
		var err error
		status, err = wt.Status()
		if err == nil {
			if filePath != "" {
				if _, statErr := os.Stat(filepath.Join(path, filepath.FromSlash(filePath))); statErr == nil {
					if fs, ok := status[filePath]; ok && fs.Worktree != git.Unmodified {
						return status
					}
				}
			}
			if !status.IsClean() {
				return status
			}
		}

		if time.Now().After(deadline) {
			return status
		}
		time.Sleep(syncWaitInterval)
	}
}

// GetCommitHistory returns the project's commits, most recent first. A
// repository that does not exist yet is initialized lazily; a repository
// with zero commits yields an empty history rather than an error.
func (s *VersionControlService) GetCommitHistory(userID, projectID string) ([]CommitRecord, error) {
	project, err := authorizeProject(s.projectRepo, userID, projectID)
	if err != nil {
		return nil, err
	}

	return s.history(project.ProjectPath), nil
}

func (s *VersionControlService) history(path string) []CommitRecord {
	repo, err := git.PlainOpen(path)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		if !s.InitializeRepo(path) {
			return []CommitRecord{}
		}
		repo, err = git.PlainOpen(path)
	}
	if err != nil {
		return []CommitRecord{}
	}

	head, err := repo.Head()
	if err != nil {
		// No commits yet is indistinguishable from "new, no history".
		return []CommitRecord{}
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return []CommitRecord{}
	}
	defer iter.Close()

	var records []CommitRecord
	iter.ForEach(func(c *object.Commit) error {
		records = append(records, CommitRecord{
			Hash:         c.Hash.String(),
			Message:      c.Message,
			Author:       fmt.Sprintf("%s <%s>", c.Author.Name, c.Author.Email),
			Date:         c.Author.When.Format(time.RFC3339),
			RelativeDate: humanize.Time(c.Author.When),
		})
		return nil
	})

	if records == nil {
		records = []CommitRecord{}
	}
	return records
}

// ResetToVersion moves HEAD and the working tree hard to a prior commit. The
// hash must resolve to a real commit before the reset is attempted; an
// invalid hash leaves the tree untouched.
func (s *VersionControlService) ResetToVersion(userID, projectID, hash string) (OperationResult, error) {
	project, err := authorizeProject(s.projectRepo, userID, projectID)
	if err != nil {
		return OperationResult{}, err
	}

	return s.reset(project.ProjectPath, hash), nil
}

func (s *VersionControlService) reset(path, hash string) OperationResult {
	unlock := s.locks.Lock(path)
	defer unlock()

	repo, err := git.PlainOpen(path)
	if err != nil {
		return OperationResult{Success: false, Message: "repository not found"}
	}

	rev, err := repo.ResolveRevision(plumbing.Revision(hash))
	if err != nil {
		return OperationResult{Success: false, Message: fmt.Sprintf("invalid commit hash: %s", hash)}
	}

	commit, err := repo.CommitObject(*rev)
	if err != nil {
		return OperationResult{Success: false, Message: fmt.Sprintf("invalid commit hash: %s", hash)}
	}

	wt, err := repo.Worktree()
	if err != nil {
		return OperationResult{Success: false, Message: fmt.Sprintf("failed to open worktree: %v", err)}
	}

	if err := wt.Reset(&git.ResetOptions{Commit: commit.Hash, Mode: git.HardReset}); err != nil {
		return OperationResult{Success: false, Message: fmt.Sprintf("reset failed: %v", err)}
	}

	return OperationResult{
		Success:    true,
		Message:    fmt.Sprintf("reset to %s", commit.Hash.String()[:8]),
		CommitHash: commit.Hash.String(),
	}
}

// CreateVersionAfterFileChange commits with a descriptive timestamped
// message, passing the changed file through for the sync-wait heuristic.
func (s *VersionControlService) CreateVersionAfterFileChange(userID, projectID, filePath, description string) (OperationResult, error) {
	project, err := authorizeProject(s.projectRepo, userID, projectID)
	if err != nil {
		return OperationResult{}, err
	}

	if description == "" {
		description = fmt.Sprintf("Updated %s", filePath)
	}
	message := fmt.Sprintf("%s (%s)", description, time.Now().Format("2006-01-02 15:04:05"))

	return s.CommitChanges(project.ProjectPath, message, filePath), nil
}
