package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Hex.Resolution)
	assert.Equal(t, 6, cfg.Hex.ParentResolution)
	assert.InDelta(t, 0.5, cfg.Zones.Threshold, 0.001)
	assert.Equal(t, 8, cfg.Distance.Concurrency)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "hexfeat.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
hex:
  resolution: 9
  parent_resolution: 7
zones:
  threshold: 0.7
store:
  driver: postgres
  database_url: postgres://localhost/features
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Hex.Resolution)
	assert.Equal(t, 7, cfg.Hex.ParentResolution)
	assert.InDelta(t, 0.7, cfg.Zones.Threshold, 0.001)
	assert.Equal(t, "postgres", cfg.Store.Driver)
}

func TestLoad_RejectsNonCoarserParent(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
hex:
  resolution: 6
  parent_resolution: 8
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coarser")
}

func TestLoad_RejectsOutOfRangeResolution(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
hex:
  resolution: 19
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	_, err := Load()
	require.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	require.Error(t, InitLogger(LogConfig{Level: "shouting", Format: "json"}))
}
