package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	wserrors "github.com/standardbeagle/workspaced/internal/errors"
	"github.com/standardbeagle/workspaced/internal/types"
)

type Config struct {
	Version int
	Project Project
	Index   Index
	Exclude []string
}

type Project struct {
	Root string
	Name string
}

type Index struct {
	MaxFileSize     int64
	FollowSymlinks  bool // Manual expansion never descends through symlinked dirs unless set
	WatchMode       bool // Enable file system watching for automatic reindexing
	WatchDebounceMs int  // Debounce time for file change events
	EventQueueSize  int  // Bound on the raw OS event channel
}

// Default returns the built-in configuration rooted at the given directory.
func Default(root string) *Config {
	return &Config{
		Version: 1,
		Project: Project{Root: root},
		Index: Index{
			MaxFileSize:     types.DefaultMaxFileSize,
			FollowSymlinks:  false,
			WatchMode:       true,
			WatchDebounceMs: types.DefaultWatchDebounceMs,
			EventQueueSize:  types.DefaultEventQueueSize,
		},
		Exclude: []string{},
	}
}

// Load reads configuration for a project root. A .workspaced.kdl in the root
// wins; a .workspaced.toml is tried next; otherwise defaults apply. The
// returned root is always absolute.
func Load(root string) (*Config, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root %q: %w", root, err)
	}

	cfg, err := LoadKDL(absRoot)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg, err = LoadTOML(absRoot)
		if err != nil {
			return nil, err
		}
	}
	if cfg == nil {
		cfg = Default(absRoot)
	}

	if cfg.Project.Root == "" {
		cfg.Project.Root = absRoot
	}
	if !filepath.IsAbs(cfg.Project.Root) {
		cfg.Project.Root = filepath.Clean(filepath.Join(absRoot, cfg.Project.Root))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that values are within reasonable ranges
func (c *Config) Validate() error {
	if c.Index.MaxFileSize <= 0 {
		return wserrors.NewConfigError("index.max_file_size",
			strconv.FormatInt(c.Index.MaxFileSize, 10), errors.New("must be positive"))
	}
	if c.Index.WatchDebounceMs < 0 {
		return wserrors.NewConfigError("index.watch_debounce_ms",
			strconv.Itoa(c.Index.WatchDebounceMs), errors.New("must not be negative"))
	}
	if c.Index.EventQueueSize <= 0 {
		return wserrors.NewConfigError("index.event_queue_size",
			strconv.Itoa(c.Index.EventQueueSize), errors.New("must be positive"))
	}
	if c.Project.Root != "" {
		if info, err := os.Stat(c.Project.Root); err == nil && !info.IsDir() {
			return wserrors.NewConfigError("project.root", c.Project.Root, errors.New("not a directory"))
		}
	}
	return nil
}
