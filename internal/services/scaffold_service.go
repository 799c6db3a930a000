package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rileyblackwell/Imagi-sub001/internal/models"
)

// ScaffoldService writes the initial on-disk tree for a new project. New
// projects are always dual-stack; legacy single-backend trees only exist
// for projects generated before the split.
type ScaffoldService struct {
	logger *logrus.Logger
}

func NewScaffoldService(logger *logrus.Logger) *ScaffoldService {
	return &ScaffoldService{logger: logger}
}

func (s *ScaffoldService) Generate(project *models.Project) error {
	root := project.ProjectPath

	backend := filepath.Join(root, "backend", "django")
	frontend := filepath.Join(root, "frontend", "vuejs")

	dirs := []string{
		filepath.Join(backend, "config"),
		filepath.Join(backend, "templates"),
		filepath.Join(backend, "static", "css"),
		filepath.Join(frontend, "src", "components"),
		filepath.Join(frontend, "src", "views"),
		filepath.Join(frontend, "src", "stores"),
		filepath.Join(frontend, "src", "services"),
		filepath.Join(frontend, "src", "router"),
		filepath.Join(frontend, "src", "types"),
		filepath.Join(frontend, "src", "apps"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	files := map[string]string{
		filepath.Join(backend, "manage.py"):                   managePy,
		filepath.Join(backend, "config", "__init__.py"):       "",
		filepath.Join(backend, "config", "settings.py"):       settingsPy,
		filepath.Join(backend, "config", "urls.py"):           urlsPy,
		filepath.Join(backend, "templates", "index.html"):     indexHTML(project.Name),
		filepath.Join(backend, "static", "css", "styles.css"): stylesCSS,
		filepath.Join(frontend, "package.json"):               packageJSON(project.Slug),
		filepath.Join(frontend, "index.html"):                 viteIndexHTML(project.Name),
		filepath.Join(frontend, "src", "main.ts"):             mainTS,
		filepath.Join(frontend, "src", "App.vue"):             appVue(project.Name),
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
		}
	}

	s.logger.Infof("scaffolded project tree for %s", project.Slug)
	return nil
}

const managePy = `#!/usr/bin/env python
import os
import sys

if __name__ == "__main__":
    os.environ.setdefault("DJANGO_SETTINGS_MODULE", "config.settings")
    from django.core.management import execute_from_command_line
    execute_from_command_line(sys.argv)
`

const settingsPy = `import os
from pathlib import Path

BASE_DIR = Path(__file__).resolve().parent.parent

SECRET_KEY = os.environ.get("DJANGO_SECRET_KEY", "dev-only")
DEBUG = True
ALLOWED_HOSTS = ["*"]

INSTALLED_APPS = [
    "django.contrib.staticfiles",
]

ROOT_URLCONF = "config.urls"

TEMPLATES = [
    {
        "BACKEND": "django.template.backends.django.DjangoTemplates",
        "DIRS": [BASE_DIR / "templates"],
        "APP_DIRS": True,
        "OPTIONS": {"context_processors": []},
    },
]

STATIC_URL = "/static/"
STATICFILES_DIRS = [BASE_DIR / "static"]
`

const urlsPy = `from django.urls import path
from django.views.generic import TemplateView

urlpatterns = [
    path("", TemplateView.as_view(template_name="index.html")),
]
`

const stylesCSS = `body {
  font-family: sans-serif;
  margin: 0;
}
`

const mainTS = `import { createApp } from "vue";
import App from "./App.vue";

createApp(App).mount("#app");
`

func indexHTML(name string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <title>%s</title>
  <link rel="stylesheet" href="/static/css/styles.css">
</head>
<body>
  <h1>%s</h1>
</body>
</html>
`, name, name)
}

func viteIndexHTML(name string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <title>%s</title>
</head>
<body>
  <div id="app"></div>
  <script type="module" src="/src/main.ts"></script>
</body>
</html>
`, name)
}

func appVue(name string) string {
	return fmt.Sprintf(`<template>
  <main>
    <h1>%s</h1>
  </main>
</template>

<script setup lang="ts">
</script>
`, name)
}

func packageJSON(slug string) string {
	name := strings.ToLower(slug)
	return fmt.Sprintf(`{
  "name": "%s",
  "private": true,
  "scripts": {
    "dev": "vite",
    "build": "vite build"
  },
  "dependencies": {
    "vue": "^3.4.0"
  },
  "devDependencies": {
    "@vitejs/plugin-vue": "^5.0.0",
    "typescript": "^5.4.0",
    "vite": "^5.2.0"
  }
}
`, name)
}
