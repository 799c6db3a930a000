package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeDirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, dir := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}
}

func TestDetectLayoutDualStack(t *testing.T) {
	root := t.TempDir()
	makeDirs(t, root, "frontend/vuejs", "backend/django")

	layout := DetectLayout(root)

	assert.True(t, layout.IsDualStack())
	assert.Equal(t, LayoutDualStack, layout.Kind)
	assert.Equal(t, filepath.Join(root, "frontend", "vuejs"), layout.FrontendDir)
	assert.Equal(t, filepath.Join(root, "backend", "django"), layout.BackendDir)
	assert.Equal(t, filepath.Join(root, "backend", "django", "manage.py"), layout.ManagePath)
}

func TestDetectLayoutLegacy(t *testing.T) {
	root := t.TempDir()
	makeDirs(t, root, "templates", "static/css")

	layout := DetectLayout(root)

	assert.False(t, layout.IsDualStack())
	assert.Equal(t, LayoutLegacy, layout.Kind)
	assert.Equal(t, root, layout.BackendDir)
	assert.Equal(t, filepath.Join(root, "manage.py"), layout.ManagePath)
}

func TestDetectLayoutRequiresBothStacks(t *testing.T) {
	// Only one of the two stack directories present: still legacy.
	root := t.TempDir()
	makeDirs(t, root, "frontend/vuejs")

	assert.Equal(t, LayoutLegacy, DetectLayout(root).Kind)

	root = t.TempDir()
	makeDirs(t, root, "backend/django")

	assert.Equal(t, LayoutLegacy, DetectLayout(root).Kind)
}

func TestDetectLayoutUnknownShapeFallsBackToLegacy(t *testing.T) {
	root := t.TempDir()
	makeDirs(t, root, "something/else")

	// A file where a stack directory should be does not count as one.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "frontend"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "frontend", "vuejs"), []byte("not a dir"), 0o644))

	assert.Equal(t, LayoutLegacy, DetectLayout(root).Kind)
}

func TestDetectLayoutMissingRoot(t *testing.T) {
	layout := DetectLayout(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Equal(t, LayoutLegacy, layout.Kind)
}
