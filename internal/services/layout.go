package services

import (
	"os"
	"path/filepath"
)

const (
	LayoutLegacy    = "legacy"
	LayoutDualStack = "dual-stack"
)

// ProjectLayout carries the canonical sub-paths of a generated project tree.
// It is always re-derived from the filesystem, never persisted, so it
// self-heals if a tree is moved or regenerated.
type ProjectLayout struct {
	Kind        string
	Root        string
	FrontendDir string // only set for dual-stack
	BackendDir  string // project root itself for legacy
	TemplatesDir string
	StaticDir   string
	ManagePath  string
}

func (l ProjectLayout) IsDualStack() bool {
	return l.Kind == LayoutDualStack
}

// DetectLayout decides dual-stack vs. legacy for a project root. Dual-stack
// requires both frontend/vuejs and backend/django to exist as directories;
// anything else, including an unrecognized shape, is treated as legacy so
// callers degrade to the legacy walker instead of erroring.
func DetectLayout(root string) ProjectLayout {
	frontend := filepath.Join(root, "frontend", "vuejs")
	backend := filepath.Join(root, "backend", "django")

	if isDir(frontend) && isDir(backend) {
		return ProjectLayout{
			Kind:         LayoutDualStack,
			Root:         root,
			FrontendDir:  frontend,
			BackendDir:   backend,
			TemplatesDir: filepath.Join(backend, "templates"),
			StaticDir:    filepath.Join(backend, "static"),
			ManagePath:   filepath.Join(backend, "manage.py"),
		}
	}

	return ProjectLayout{
		Kind:         LayoutLegacy,
		Root:         root,
		BackendDir:   root,
		TemplatesDir: filepath.Join(root, "templates"),
		StaticDir:    filepath.Join(root, "static"),
		ManagePath:   filepath.Join(root, "manage.py"),
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
