// Package vcs lists the files a version-control system tracks under one
// directory by shelling out to that system's CLI. The external tool walks
// its own tree, so callers never recurse below a directory it handled.
package vcs

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/workspaced/internal/debug"
	wserrors "github.com/standardbeagle/workspaced/internal/errors"
)

// system describes one supported version-control system. Order in the
// systems slice is the detection priority.
type system struct {
	marker string
	tool   string
	args   []string
}

var systems = []system{
	{marker: ".git", tool: "git", args: []string{"ls-files"}},
	{marker: ".hg", tool: "hg", args: []string{"status", "-c"}},
	{marker: ".svn", tool: "svn", args: []string{"list", "-R"}},
}

// lookPath is swapped in tests to simulate a missing tool.
var lookPath = exec.LookPath

// ListTrackedFiles returns the tracked files under dir when dir is the root
// of a detectable repository and its tool is installed. The second return is
// false when no system claimed the directory or the tool failed; the caller
// then falls back to manual expansion for this subtree only.
func ListTrackedFiles(ctx context.Context, dir string) ([]string, bool) {
	for _, sys := range systems {
		if _, err := os.Stat(filepath.Join(dir, sys.marker)); err != nil {
			continue
		}
		if _, err := lookPath(sys.tool); err != nil {
			debug.LogDiscovery("%s repo at %s but %s not installed\n", sys.marker, dir, sys.tool)
			return nil, false
		}
		files, err := runListing(ctx, dir, sys)
		if err != nil {
			debug.LogDiscovery("%v\n", err)
			return nil, false
		}
		return files, true
	}
	return nil, false
}

// runListing executes the listing command with dir as working directory.
// Success is exit code zero; stdout is newline-separated paths relative to
// dir, joined back onto it.
func runListing(ctx context.Context, dir string, sys system) ([]string, error) {
	debug.LogDiscovery("%s EXEC %s %s\n", dir, sys.tool, strings.Join(sys.args, " "))

	cmd := exec.CommandContext(ctx, sys.tool, sys.args...)
	cmd.Dir = dir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return nil, wserrors.NewToolError(sys.tool, dir, err)
	}

	var files []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		// hg status -c prefixes each line with "C "
		if sys.tool == "hg" && strings.HasPrefix(line, "C ") {
			line = line[2:]
		}
		files = append(files, filepath.Join(dir, filepath.FromSlash(line)))
	}
	return files, nil
}
