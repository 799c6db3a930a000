package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileTypeFromName(t *testing.T) {
	cases := map[string]string{
		"index.html":            "html",
		"legacy.HTM":            "html",
		"styles.css":            "css",
		"app.js":                "javascript",
		"package.json":          "json",
		"manage.py":             "python",
		"README.md":             "markdown",
		"notes.txt":             "text",
		"App.vue":               "vue",
		"main.ts":               "typescript",
		"binary.sqlite3":        "unknown",
		"no-extension":          "unknown",
		"src/components/B.vue":  "vue",
	}

	for name, want := range cases {
		assert.Equal(t, want, FileTypeFromName(name), "for %s", name)
	}
}
