package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestResolveDefaults(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "go.mod", "module example.com/acme/widgets/v2\n\ngo 1.24\n")

	cfg, err := Resolve(dir)
	require.NoError(t, err)

	assert.Equal(t, "example.com/acme/widgets/v2", cfg.ModulePath)
	assert.Equal(t, "widgets", cfg.AppName)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.True(t, cfg.Metrics)
	assert.False(t, cfg.SyncRebuild)
}

func TestResolveWithoutGoMod(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "playground")
	require.NoError(t, os.Mkdir(dir, 0o755))

	cfg, err := Resolve(dir)
	require.NoError(t, err)

	assert.Empty(t, cfg.ModulePath)
	assert.Equal(t, "playground", cfg.AppName)
}

func TestResolveFromFile(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, FileName, `
app:
  name: demo
log:
  level: DEBUG
  verbose: true
engine:
  sync_rebuild: true
metrics:
  disabled: true
`)

	cfg, err := Resolve(dir)
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.AppName)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.SyncRebuild)
	assert.False(t, cfg.Metrics)
}

func TestResolveErrors(t *testing.T) {
	t.Run("bad level", func(t *testing.T) {
		dir := t.TempDir()
		write(t, dir, FileName, "log:\n  level: loud\n")
		_, err := Resolve(dir)
		assert.ErrorContains(t, err, "log.level")
	})
	t.Run("bad yaml", func(t *testing.T) {
		dir := t.TempDir()
		write(t, dir, FileName, "app: [\n")
		_, err := Resolve(dir)
		assert.ErrorContains(t, err, "failed to parse compose.yaml")
	})
	t.Run("no module line", func(t *testing.T) {
		dir := t.TempDir()
		write(t, dir, "go.mod", "go 1.24\n")
		_, err := Resolve(dir)
		assert.ErrorContains(t, err, "module path")
	})
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	write(t, root, FileName, "app:\n  name: x\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Equal(t, root, FindProjectRoot(nested))
}
