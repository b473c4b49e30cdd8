package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/workspaced/internal/types"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Project.Root)
	assert.Equal(t, int64(types.DefaultMaxFileSize), cfg.Index.MaxFileSize)
	assert.True(t, cfg.Index.WatchMode)
	assert.Equal(t, types.DefaultWatchDebounceMs, cfg.Index.WatchDebounceMs)
	assert.False(t, cfg.Index.FollowSymlinks)
}

func TestLoadKDL(t *testing.T) {
	dir := t.TempDir()
	kdl := `
project {
    name "demo"
}
index {
    max_file_size 1048576
    watch_mode false
    watch_debounce_ms 50
}
exclude "**/testdata/**" "*.lock"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".workspaced.kdl"), []byte(kdl), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Project.Name)
	assert.Equal(t, int64(1048576), cfg.Index.MaxFileSize)
	assert.False(t, cfg.Index.WatchMode)
	assert.Equal(t, 50, cfg.Index.WatchDebounceMs)
	assert.Equal(t, []string{"**/testdata/**", "*.lock"}, cfg.Exclude)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	tomlBody := `
exclude = ["**/node_modules/**"]

[project]
name = "demo-toml"

[index]
watch_debounce_ms = 75
event_queue_size = 64
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".workspaced.toml"), []byte(tomlBody), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "demo-toml", cfg.Project.Name)
	assert.Equal(t, 75, cfg.Index.WatchDebounceMs)
	assert.Equal(t, 64, cfg.Index.EventQueueSize)
	assert.Equal(t, []string{"**/node_modules/**"}, cfg.Exclude)
	// Untouched fields keep defaults.
	assert.Equal(t, int64(types.DefaultMaxFileSize), cfg.Index.MaxFileSize)
}

func TestKDLWinsOverTOML(t *testing.T) {
	dir := t.TempDir()
	kdl := `
project {
    name "from-kdl"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".workspaced.kdl"), []byte(kdl), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".workspaced.toml"), []byte("[project]\nname = \"from-toml\"\n"), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-kdl", cfg.Project.Name)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default(t.TempDir())
	cfg.Index.MaxFileSize = 0
	assert.Error(t, cfg.Validate())

	cfg = Default(t.TempDir())
	cfg.Index.WatchDebounceMs = -1
	assert.Error(t, cfg.Validate())

	cfg = Default(t.TempDir())
	cfg.Index.EventQueueSize = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadRelativeRootMadeAbsolute(t *testing.T) {
	dir := t.TempDir()
	kdl := `
project {
    root "sub"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".workspaced.kdl"), []byte(kdl), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sub"), cfg.Project.Root)
	assert.True(t, filepath.IsAbs(cfg.Project.Root))
}
