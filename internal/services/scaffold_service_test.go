package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyblackwell/Imagi-sub001/internal/models"
)

func TestScaffoldGeneratesDualStackTree(t *testing.T) {
	svc := NewScaffoldService(quietLogger())
	root := filepath.Join(t.TempDir(), "my-app")

	project := &models.Project{Name: "My App", Slug: "my-app", ProjectPath: root}
	project.Prepare()
	require.NoError(t, svc.Generate(project))

	layout := DetectLayout(root)
	assert.True(t, layout.IsDualStack())

	for _, rel := range []string{
		"backend/django/manage.py",
		"backend/django/config/settings.py",
		"backend/django/templates/index.html",
		"backend/django/static/css/styles.css",
		"frontend/vuejs/package.json",
		"frontend/vuejs/src/main.ts",
		"frontend/vuejs/src/App.vue",
	} {
		_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
		assert.NoError(t, err, "expected %s to exist", rel)
	}
}

func TestScaffoldSettingsModuleDiscoverable(t *testing.T) {
	svc := NewScaffoldService(quietLogger())
	root := filepath.Join(t.TempDir(), "demo")

	project := &models.Project{Name: "Demo", Slug: "demo", ProjectPath: root}
	project.Prepare()
	require.NoError(t, svc.Generate(project))

	module, err := findSettingsModule(DetectLayout(root).BackendDir)
	require.NoError(t, err)
	assert.Equal(t, "config.settings", module)
}

func TestScaffoldThenInitializeAndList(t *testing.T) {
	// The generated tree must be committable and listable end to end.
	scaffold := NewScaffoldService(quietLogger())
	root := filepath.Join(t.TempDir(), "flow")

	project := &models.Project{Name: "Flow", Slug: "flow", ProjectPath: root}
	project.Prepare()
	require.NoError(t, scaffold.Generate(project))

	vcs := newVCS()
	require.True(t, vcs.InitializeRepo(root))

	files := (&FileService{logger: quietLogger()}).listDualStack(DetectLayout(root))
	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.Contains(t, paths, "frontend/vuejs/package.json")
	assert.Contains(t, paths, "frontend/vuejs/src/App.vue")
}
