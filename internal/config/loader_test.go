package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.GetAddress())
	assert.Equal(t, 8080, cfg.Preview.LegacyPort)
	assert.Equal(t, 8080, cfg.Preview.BackendPortStart)
	assert.Equal(t, 8100, cfg.Preview.BackendPortEnd)
	assert.Contains(t, cfg.Preview.BackendExcluded, 8000)
	assert.Equal(t, 5173, cfg.Preview.FrontendPortStart)
	assert.Equal(t, 5200, cfg.Preview.FrontendPortEnd)
	assert.Contains(t, cfg.Preview.FrontendExcluded, 5174)
	assert.Equal(t, 3*time.Second, cfg.Preview.WarmupDelay())
	assert.False(t, cfg.Projects.CleanupOnDelete)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
server:
  port: 9000
projects:
  root: `+filepath.Join(dir, "trees")+`
  cleanup_on_delete: true
preview:
  backend_port_start: 9100
  backend_port_end: 9120
`), 0o644))

	cfg, err := LoadConfig(configFile)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.Projects.CleanupOnDelete)
	assert.Equal(t, 9100, cfg.Preview.BackendPortStart)
	assert.Equal(t, 9120, cfg.Preview.BackendPortEnd)

	// The projects root is created during validation.
	info, err := os.Stat(filepath.Join(dir, "trees"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoadConfigRejectsInvertedPortRange(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
preview:
  backend_port_start: 9000
  backend_port_end: 8000
`), 0o644))

	_, err := LoadConfig(configFile)
	assert.Error(t, err)
}
