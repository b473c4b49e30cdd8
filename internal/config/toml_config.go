package config

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// tomlConfig mirrors Config with the optional-field shape TOML wants.
type tomlConfig struct {
	Version *int      `toml:"version"`
	Project tomlProj  `toml:"project"`
	Index   tomlIndex `toml:"index"`
	Exclude []string  `toml:"exclude"`
}

type tomlProj struct {
	Root string `toml:"root"`
	Name string `toml:"name"`
}

type tomlIndex struct {
	MaxFileSize     *int64 `toml:"max_file_size"`
	FollowSymlinks  *bool  `toml:"follow_symlinks"`
	WatchMode       *bool  `toml:"watch_mode"`
	WatchDebounceMs *int   `toml:"watch_debounce_ms"`
	EventQueueSize  *int   `toml:"event_queue_size"`
}

// LoadTOML attempts to load configuration from a .workspaced.toml file.
// Returns (nil, nil) when no TOML config exists.
func LoadTOML(projectRoot string) (*Config, error) {
	tomlPath := filepath.Join(projectRoot, ".workspaced.toml")

	content, err := os.ReadFile(tomlPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read .workspaced.toml: %v", err)
	}

	var raw tomlConfig
	if err := toml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse .workspaced.toml: %w", err)
	}

	cfg := Default(projectRoot)
	if raw.Version != nil {
		cfg.Version = *raw.Version
	}
	if raw.Project.Root != "" {
		cfg.Project.Root = raw.Project.Root
	}
	if raw.Project.Name != "" {
		cfg.Project.Name = raw.Project.Name
	}
	if raw.Index.MaxFileSize != nil {
		cfg.Index.MaxFileSize = *raw.Index.MaxFileSize
	}
	if raw.Index.FollowSymlinks != nil {
		cfg.Index.FollowSymlinks = *raw.Index.FollowSymlinks
	}
	if raw.Index.WatchMode != nil {
		cfg.Index.WatchMode = *raw.Index.WatchMode
	}
	if raw.Index.WatchDebounceMs != nil {
		cfg.Index.WatchDebounceMs = *raw.Index.WatchDebounceMs
	}
	if raw.Index.EventQueueSize != nil {
		cfg.Index.EventQueueSize = *raw.Index.EventQueueSize
	}
	if raw.Exclude != nil {
		cfg.Exclude = raw.Exclude
	}

	return cfg, nil
}
