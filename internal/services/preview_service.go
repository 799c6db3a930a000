package services

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	"github.com/sirupsen/logrus"

	"github.com/rileyblackwell/Imagi-sub001/internal/config"
	"github.com/rileyblackwell/Imagi-sub001/internal/models"
	"github.com/rileyblackwell/Imagi-sub001/internal/repositories"
)

// Slot kinds. A legacy project runs one "server" slot; a dual-stack project
// runs a "backend" and a "frontend" slot.
const (
	slotServer   = "server"
	slotFrontend = "frontend"
	slotBackend  = "backend"
)

// startupGrace is how long a freshly spawned dev server is watched for an
// immediate exit before it is declared started.
const startupGrace = 1500 * time.Millisecond

type PreviewResult struct {
	Success     bool   `json:"success"`
	PreviewURL  string `json:"preview_url,omitempty"`
	FrontendURL string `json:"frontend_url,omitempty"`
	BackendURL  string `json:"backend_url,omitempty"`
	IsDualStack bool   `json:"is_dual_stack"`
	Message     string `json:"message"`
}

// PreviewService spawns and tears down the dev servers that preview a
// generated project. The in-memory registry is the source of truth for live
// slots; PID files on disk let a restarted service find and kill orphans.
type PreviewService struct {
	projectRepo  *repositories.ProjectRepository
	registry     *ProcessRegistry
	allocator    *PortAllocator
	cfg          *config.PreviewConfig
	projectsRoot string
	logger       *logrus.Logger
}

func NewPreviewService(
	projectRepo *repositories.ProjectRepository,
	registry *ProcessRegistry,
	allocator *PortAllocator,
	cfg *config.PreviewConfig,
	projectsRoot string,
	logger *logrus.Logger,
) *PreviewService {
	return &PreviewService{
		projectRepo:  projectRepo,
		registry:     registry,
		allocator:    allocator,
		cfg:          cfg,
		projectsRoot: projectsRoot,
		logger:       logger,
	}
}

// pidFilePath is the slot's identity: deterministic from the owning user and
// the project slug.
func (s *PreviewService) pidFilePath(project *models.Project, kind string) string {
	name := project.Slug
	if name == "" {
		name = project.Name
	}
	return filepath.Join(s.projectsRoot, project.UserID.String(), fmt.Sprintf("%s_%s.pid", name, kind))
}

// portFilePath is the sidecar that records the port a slot was started on.
// The PID file itself stays a bare decimal PID; the sidecar lets a restarted
// service sweep the right port when only the files survive.
func portFilePath(pidFile string) string {
	return strings.TrimSuffix(pidFile, ".pid") + ".port"
}

// StartPreview starts the dev server(s) for a project. Start is restart: any
// process already tracked for the same slots is fully stopped first.
func (s *PreviewService) StartPreview(userID, projectID string) (*PreviewResult, error) {
	project, err := authorizeProject(s.projectRepo, userID, projectID)
	if err != nil {
		return nil, err
	}

	unlock := s.registry.LockSlot("preview:" + project.ID.String())
	defer unlock()

	s.stopProjectSlots(project)

	layout := DetectLayout(project.ProjectPath)
	if layout.IsDualStack() {
		return s.startDualStack(project, layout)
	}
	return s.startLegacy(project, layout)
}

func (s *PreviewService) startLegacy(project *models.Project, layout ProjectLayout) (*PreviewResult, error) {
	port := s.allocator.Allocate(s.cfg.LegacyPort, s.cfg.BackendPortEnd, s.cfg.BackendExcluded)

	pidFile := s.pidFilePath(project, slotServer)
	pid, err := s.startDjango(layout, port, pidFile)
	if err != nil {
		return nil, err
	}

	s.registry.Track(pidFile, &ServerProcess{PID: pid, Port: port, PIDFile: pidFile})

	url := fmt.Sprintf("http://localhost:%d", port)
	return &PreviewResult{
		Success:    true,
		PreviewURL: url,
		Message:    "development server started",
	}, nil
}

// startDualStack brings the backend up first, waits a fixed warm-up delay,
// then starts the frontend. A frontend failure tears the backend back down
// so a half-up preview never leaks.
func (s *PreviewService) startDualStack(project *models.Project, layout ProjectLayout) (*PreviewResult, error) {
	backendPort := s.allocator.AllocateBackend(s.cfg)
	backendPIDFile := s.pidFilePath(project, slotBackend)

	backendPID, err := s.startDjango(layout, backendPort, backendPIDFile)
	if err != nil {
		return nil, err
	}
	s.registry.Track(backendPIDFile, &ServerProcess{PID: backendPID, Port: backendPort, PIDFile: backendPIDFile})

	time.Sleep(s.cfg.WarmupDelay())

	frontendPort := s.allocator.AllocateFrontend(s.cfg)
	frontendPIDFile := s.pidFilePath(project, slotFrontend)

	frontendPID, err := s.startVite(layout, frontendPort, frontendPIDFile)
	if err != nil {
		s.stopSlot(backendPIDFile)
		return nil, err
	}
	s.registry.Track(frontendPIDFile, &ServerProcess{PID: frontendPID, Port: frontendPort, PIDFile: frontendPIDFile})

	frontendURL := fmt.Sprintf("http://localhost:%d", frontendPort)
	backendURL := fmt.Sprintf("http://localhost:%d", backendPort)
	return &PreviewResult{
		Success:     true,
		PreviewURL:  frontendURL,
		FrontendURL: frontendURL,
		BackendURL:  backendURL,
		IsDualStack: true,
		Message:     "development servers started",
	}, nil
}

// startDjango launches `python manage.py runserver` detached, persists the
// PID and watches briefly for an immediate exit.
func (s *PreviewService) startDjango(layout ProjectLayout, port int, pidFile string) (int, error) {
	if _, err := os.Stat(layout.ManagePath); err != nil {
		return 0, fmt.Errorf("manage.py not found for project")
	}

	settingsModule, err := findSettingsModule(layout.BackendDir)
	if err != nil {
		return 0, err
	}

	cmd := exec.Command("python", "manage.py", "runserver", fmt.Sprintf("0.0.0.0:%d", port))
	cmd.Dir = layout.BackendDir
	cmd.Env = append(os.Environ(), "DJANGO_SETTINGS_MODULE="+settingsModule)

	return s.spawn(cmd, pidFile, port)
}

// startVite launches the package-manager dev command in the frontend tree.
func (s *PreviewService) startVite(layout ProjectLayout, port int, pidFile string) (int, error) {
	if _, err := os.Stat(filepath.Join(layout.FrontendDir, "package.json")); err != nil {
		return 0, fmt.Errorf("package.json not found for project frontend")
	}

	cmd := exec.Command("npm", "run", "dev", "--", "--host", "0.0.0.0", "--port", strconv.Itoa(port))
	cmd.Dir = layout.FrontendDir
	cmd.Env = os.Environ()

	return s.spawn(cmd, pidFile, port)
}

func (s *PreviewService) spawn(cmd *exec.Cmd, pidFile string, port int) (int, error) {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start dev server: %w", err)
	}

	pid := cmd.Process.Pid
	if err := s.writeSlotFiles(pidFile, pid, port); err != nil {
		s.logger.WithError(err).Warnf("failed to persist PID file %s", pidFile)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-done:
		os.Remove(pidFile)
		os.Remove(portFilePath(pidFile))
		reason := strings.TrimSpace(stderr.String())
		if reason == "" {
			reason = "process exited immediately"
		}
		return 0, fmt.Errorf("dev server failed to start: %s", reason)
	case <-time.After(startupGrace):
		return pid, nil
	}
}

func (s *PreviewService) writeSlotFiles(pidFile string, pid, port int) error {
	if err := os.MkdirAll(filepath.Dir(pidFile), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(pidFile, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return err
	}
	return os.WriteFile(portFilePath(pidFile), []byte(strconv.Itoa(port)), 0o644)
}

// findSettingsModule derives the Django settings module name from the
// directory next to manage.py that contains settings.py.
func findSettingsModule(backendDir string) (string, error) {
	entries, err := os.ReadDir(backendDir)
	if err != nil {
		return "", fmt.Errorf("failed to inspect project backend")
	}

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if _, err := os.Stat(filepath.Join(backendDir, entry.Name(), "settings.py")); err == nil {
			return entry.Name() + ".settings", nil
		}
	}

	return "", fmt.Errorf("settings.py not found for project")
}

// StopPreview tears down every slot of the project. Stopping an
// already-stopped project is a safe no-op.
func (s *PreviewService) StopPreview(userID, projectID string) (*PreviewResult, error) {
	project, err := authorizeProject(s.projectRepo, userID, projectID)
	if err != nil {
		return nil, err
	}

	unlock := s.registry.LockSlot("preview:" + project.ID.String())
	defer unlock()

	s.stopProjectSlots(project)

	return &PreviewResult{Success: true, Message: "development servers stopped"}, nil
}

func (s *PreviewService) stopProjectSlots(project *models.Project) {
	for _, kind := range []string{slotServer, slotFrontend, slotBackend} {
		s.stopSlot(s.pidFilePath(project, kind))
	}
	// Belt and braces for legacy projects whose PID file predates the
	// registry: anything still bound to the default port is an orphan.
	if !DetectLayout(project.ProjectPath).IsDualStack() {
		s.sweepPort(s.cfg.LegacyPort)
	}
}

// stopSlot kills the slot's process tree, removes its PID file and sweeps
// the port it was known to hold. Absence of all three is a clean no-op.
func (s *PreviewService) stopSlot(pidFile string) {
	unlock := s.registry.LockSlot(pidFile)
	defer unlock()

	if proc, ok := s.registry.Lookup(pidFile); ok {
		s.killTree(int32(proc.PID))
		s.sweepPort(proc.Port)
		s.registry.Forget(pidFile)
	} else if data, err := os.ReadFile(pidFile); err == nil {
		if pid, convErr := strconv.Atoi(strings.TrimSpace(string(data))); convErr == nil {
			s.killTree(int32(pid))
		}
		// The registry entry died with the previous run; the port sidecar is
		// the only record of which port the slot held.
		if data, err := os.ReadFile(portFilePath(pidFile)); err == nil {
			if port, convErr := strconv.Atoi(strings.TrimSpace(string(data))); convErr == nil {
				s.sweepPort(port)
			}
		}
	}

	os.Remove(pidFile)
	os.Remove(portFilePath(pidFile))
}

// sweepPort kills any process still bound to the port, even absent a PID
// file. This handles orphans from a prior crash where the PID file write
// failed or went stale.
func (s *PreviewService) sweepPort(port int) {
	for _, pid := range pidsListeningOn(port) {
		s.logger.Warnf("killing orphaned process %d still bound to port %d", pid, port)
		s.killTree(pid)
	}
}

// killTree kills the process's children first, then the process itself.
// "Already gone" and permission errors are the goal state and are swallowed.
func (s *PreviewService) killTree(pid int32) {
	proc, err := process.NewProcess(pid)
	if err != nil {
		return
	}

	if children, err := proc.Children(); err == nil {
		for _, child := range children {
			s.killTree(child.Pid)
		}
	}

	if err := proc.Kill(); err != nil {
		s.logger.Debugf("kill %d: %v", pid, err)
	}
}

// StopAll tears down every tracked slot; used on graceful shutdown.
func (s *PreviewService) StopAll() {
	for _, key := range s.registry.Keys() {
		s.stopSlot(key)
	}
}
