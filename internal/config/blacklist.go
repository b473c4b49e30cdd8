package config

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// blacklistedDirs are build/dependency/cache directory names that never
// contribute workspace files, checked by name at every level of a walk.
var blacklistedDirs = map[string]bool{
	"target":       true,
	"node_modules": true,
	"vendor":       true,
	"build":        true,
	"dist":         true,
	"bin":          true,
	"pkg":          true,
	"lib":          true,
	"lib64":        true,
	"obj":          true,
	"out":          true,
	"venv":         true,
	"env":          true,
	"tmp":          true,
	"temp":         true,
	"logs":         true,
	"coverage":     true,
	"backup":       true,
}

// IsBlacklistedDir reports whether a bare directory name is excluded, either
// by the fixed blacklist or by the leading-dot convention for hidden dirs.
func IsBlacklistedDir(name string) bool {
	if name == "" {
		return false
	}
	if blacklistedDirs[name] {
		return true
	}
	return strings.HasPrefix(name, ".")
}

// InsideBlacklistedDir reports whether any directory component between root
// (exclusive) and path is blacklisted. The walk is bounded at root so a
// workspace that itself lives under a blacklisted-named or hidden ancestor
// (/tmp, ~/.local) is still fully trackable; discovery never descends above
// the workspace folder either, keeping the two checks in agreement. The
// final component itself is not checked, so a file named ".env" in a clean
// directory still passes.
func InsideBlacklistedDir(path, root string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	parts := strings.Split(rel, string(filepath.Separator))
	for _, name := range parts[:len(parts)-1] {
		if IsBlacklistedDir(name) {
			return true
		}
	}
	return false
}

// MatchesExclude reports whether path matches any configured exclude glob,
// tried against both the full path and the path relative to the project root.
func (c *Config) MatchesExclude(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range c.Exclude {
		if matched, err := doublestar.Match(pattern, slashed); err == nil && matched {
			return true
		}
		if c.Project.Root != "" {
			if rel, err := filepath.Rel(c.Project.Root, path); err == nil {
				if matched, _ := doublestar.Match(pattern, filepath.ToSlash(rel)); matched {
					return true
				}
			}
		}
	}
	return false
}
