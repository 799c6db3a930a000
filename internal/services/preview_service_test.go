package services

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyblackwell/Imagi-sub001/internal/config"
	"github.com/rileyblackwell/Imagi-sub001/internal/models"
)

func testPreviewService(t *testing.T) *PreviewService {
	cfg := &config.PreviewConfig{
		LegacyPort:        8080,
		BackendPortStart:  8080,
		BackendPortEnd:    8100,
		BackendExcluded:   []int{8000},
		FrontendPortStart: 5173,
		FrontendPortEnd:   5200,
		FrontendExcluded:  []int{5174},
	}
	return &PreviewService{
		registry:     NewProcessRegistry(),
		allocator:    testAllocator(),
		cfg:          cfg,
		projectsRoot: t.TempDir(),
		logger:       quietLogger(),
	}
}

func TestPIDFilePathDeterministic(t *testing.T) {
	svc := testPreviewService(t)
	project := &models.Project{ID: uuid.New(), UserID: uuid.New(), Slug: "my-app"}

	path := svc.pidFilePath(project, slotFrontend)

	assert.Equal(t,
		filepath.Join(svc.projectsRoot, project.UserID.String(), "my-app_frontend.pid"),
		path)

	// Same inputs, same path: a restarted service finds the same file.
	assert.Equal(t, path, svc.pidFilePath(project, slotFrontend))
}

func TestPIDFilePathFallsBackToName(t *testing.T) {
	svc := testPreviewService(t)
	project := &models.Project{ID: uuid.New(), UserID: uuid.New(), Name: "rawname"}

	assert.Equal(t,
		filepath.Join(svc.projectsRoot, project.UserID.String(), "rawname_server.pid"),
		svc.pidFilePath(project, slotServer))
}

func TestStopSlotNoProcessIsNoOp(t *testing.T) {
	svc := testPreviewService(t)
	pidFile := filepath.Join(svc.projectsRoot, "nobody", "ghost_server.pid")

	// Nothing tracked, no PID file on disk: must not panic or error.
	svc.stopSlot(pidFile)
	svc.stopSlot(pidFile)
}

func TestStopSlotRemovesStalePIDFile(t *testing.T) {
	svc := testPreviewService(t)
	dir := filepath.Join(svc.projectsRoot, "user")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	pidFile := filepath.Join(dir, "app_server.pid")
	// A PID that cannot exist: stale file from a dead run.
	require.NoError(t, os.WriteFile(pidFile, []byte(strconv.Itoa(1<<22-1)), 0o644))

	svc.stopSlot(pidFile)

	_, err := os.Stat(pidFile)
	assert.True(t, os.IsNotExist(err))
}

func TestStopSlotRemovesStalePortSidecar(t *testing.T) {
	svc := testPreviewService(t)
	dir := filepath.Join(svc.projectsRoot, "user")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	// Both files survive a dead run; stop must clear both so the next start
	// begins from a clean slate.
	pidFile := filepath.Join(dir, "app_backend.pid")
	require.NoError(t, os.WriteFile(pidFile, []byte(strconv.Itoa(1<<22-1)), 0o644))
	require.NoError(t, os.WriteFile(portFilePath(pidFile), []byte("65003"), 0o644))

	svc.stopSlot(pidFile)

	_, err := os.Stat(pidFile)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(portFilePath(pidFile))
	assert.True(t, os.IsNotExist(err))
}

func TestPortFilePathSitsNextToPIDFile(t *testing.T) {
	assert.Equal(t, "/tmp/u/app_server.port", portFilePath("/tmp/u/app_server.pid"))
}

func TestStopSlotForgetsRegistryEntry(t *testing.T) {
	svc := testPreviewService(t)
	pidFile := filepath.Join(svc.projectsRoot, "u", "app_backend.pid")

	// Registered but the process is long gone.
	svc.registry.Track(pidFile, &ServerProcess{PID: 1<<22 - 1, Port: 65001, PIDFile: pidFile})

	svc.stopSlot(pidFile)

	_, ok := svc.registry.Lookup(pidFile)
	assert.False(t, ok)
}

func TestStopAllDrainsRegistry(t *testing.T) {
	svc := testPreviewService(t)
	for _, key := range []string{"a.pid", "b.pid"} {
		pidFile := filepath.Join(svc.projectsRoot, key)
		svc.registry.Track(pidFile, &ServerProcess{PID: 1<<22 - 1, Port: 65002, PIDFile: pidFile})
	}

	svc.StopAll()

	assert.Empty(t, svc.registry.Keys())
}
