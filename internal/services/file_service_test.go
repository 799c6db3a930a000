package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func dualLayout(t *testing.T) ProjectLayout {
	root := t.TempDir()
	makeDirs(t, root, "frontend/vuejs/src", "backend/django")
	return DetectLayout(root)
}

func legacyLayout(t *testing.T) ProjectLayout {
	return DetectLayout(t.TempDir())
}

func TestPlacementForByType(t *testing.T) {
	legacy := legacyLayout(t)

	assert.Equal(t, "templates/index.html", placementFor("index.html", "", legacy))
	assert.Equal(t, "static/css/styles.css", placementFor("styles.css", "", legacy))
	assert.Equal(t, "static/app.js", placementFor("app.js", "", legacy))

	dual := dualLayout(t)

	assert.Equal(t, "backend/django/templates/index.html", placementFor("index.html", "", dual))
	assert.Equal(t, "backend/django/static/css/styles.css", placementFor("styles.css", "", dual))
	assert.Equal(t, "backend/django/static/app.js", placementFor("app.js", "", dual))
	assert.Equal(t, "frontend/vuejs/src/Button.vue", placementFor("Button.vue", "", dual))
	assert.Equal(t, "frontend/vuejs/src/api.ts", placementFor("api.ts", "", dual))
}

func TestPlacementForExplicitPathKept(t *testing.T) {
	dual := dualLayout(t)

	// A name that already carries a path is used as-is.
	assert.Equal(t, "frontend/vuejs/src/views/Home.vue",
		placementFor("frontend/vuejs/src/views/Home.vue", "", dual))
}

func TestPlacementForCSSAlwaysNormalized(t *testing.T) {
	// CSS lands in static/css no matter what path the caller supplied.
	legacy := legacyLayout(t)
	assert.Equal(t, "static/css/theme.css", placementFor("assets/deep/theme.css", "", legacy))

	dual := dualLayout(t)
	assert.Equal(t, "backend/django/static/css/theme.css", placementFor("whatever/theme.css", "", dual))
	assert.Equal(t, "backend/django/static/css/main.css", placementFor("main.css", "css", dual))
}

func TestPlacementForUnknownTypeStaysAtRoot(t *testing.T) {
	legacy := legacyLayout(t)
	assert.Equal(t, "notes.txt", placementFor("notes.txt", "", legacy))
}

func TestSafeRelRejectsEscapes(t *testing.T) {
	for _, bad := range []string{"../outside.txt", "..", "/etc/passwd", "a/../../b"} {
		_, err := safeRel(bad)
		assert.ErrorIs(t, err, ErrFileNotFound, "path %q should be rejected", bad)
	}

	rel, err := safeRel("templates/index.html")
	require.NoError(t, err)
	assert.Equal(t, "templates/index.html", rel)

	// Interior traversal that stays inside the root is normalized away.
	rel, err = safeRel("templates/../static/app.js")
	require.NoError(t, err)
	assert.Equal(t, "static/app.js", rel)
}

func TestDualStackListable(t *testing.T) {
	assert.True(t, dualStackListable("package.json"))
	assert.True(t, dualStackListable("src/main.ts"))
	assert.True(t, dualStackListable("src/components/Button.vue"))
	assert.True(t, dualStackListable("src/views/nested/Deep.vue"))

	assert.False(t, dualStackListable("src/assets/logo.css"))
	assert.False(t, dualStackListable("public/index.html"))
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
}

func TestListLegacySkipsHiddenAndForeignExtensions(t *testing.T) {
	svc := &FileService{logger: quietLogger()}
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"templates/index.html": "<html></html>",
		"static/css/main.css":  "body{}",
		"manage.py":            "",
		".env":                 "SECRET=1",
		".git/config":          "[core]",
		"db.sqlite3":           "binary",
	})

	files := svc.listLegacy(DetectLayout(root))

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.ElementsMatch(t, []string{"templates/index.html", "static/css/main.css", "manage.py"}, paths)
}

func TestListDualStackOnlyFrontend(t *testing.T) {
	svc := &FileService{logger: quietLogger()}
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"frontend/vuejs/package.json":                "{}",
		"frontend/vuejs/src/main.ts":                 "",
		"frontend/vuejs/src/App.vue":                 "",
		"frontend/vuejs/src/components/Button.vue":   "",
		"frontend/vuejs/src/assets/logo.css":         "",
		"frontend/vuejs/node_modules/vue/index.js":   "",
		"backend/django/manage.py":                   "",
		"backend/django/templates/index.html":        "",
	})

	files := svc.listDualStack(DetectLayout(root))

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.ElementsMatch(t, []string{
		"frontend/vuejs/package.json",
		"frontend/vuejs/src/main.ts",
		"frontend/vuejs/src/App.vue",
		"frontend/vuejs/src/components/Button.vue",
	}, paths)
}

func TestListEmptyProjectReturnsEmptySlice(t *testing.T) {
	// An empty tree lists as [] over the wire, never null.
	svc := &FileService{logger: quietLogger()}

	legacy := svc.listLegacy(DetectLayout(t.TempDir()))
	assert.NotNil(t, legacy)
	assert.Empty(t, legacy)

	dual := svc.listDualStack(dualLayout(t))
	assert.NotNil(t, dual)
	assert.Empty(t, dual)
}

func TestWriteFileCreatesParents(t *testing.T) {
	svc := &FileService{logger: quietLogger()}
	root := t.TempDir()

	desc, err := svc.writeFile(root, "backend/django/static/css/new.css", "body{}")
	require.NoError(t, err)

	assert.Equal(t, "backend/django/static/css/new.css", desc.Path)
	assert.Equal(t, "new.css", desc.Name)
	assert.Equal(t, "css", desc.Type)
	assert.Equal(t, int64(6), desc.Size)

	data, err := os.ReadFile(filepath.Join(root, "backend", "django", "static", "css", "new.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(data))
}
