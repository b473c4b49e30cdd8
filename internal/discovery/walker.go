// Package discovery enumerates the files of a workspace folder. Directories
// under version control are listed by their own tool (which already walks
// its tree); everything else is expanded one level at a time from a pending
// stack, so nested repositories are still found and handed to their tool.
package discovery

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/workspaced/internal/config"
	"github.com/standardbeagle/workspaced/internal/debug"
	"github.com/standardbeagle/workspaced/internal/scan"
	"github.com/standardbeagle/workspaced/internal/types"
	"github.com/standardbeagle/workspaced/internal/uri"
	"github.com/standardbeagle/workspaced/internal/vcs"
)

// Walker performs the version-control-aware, blacklist-aware discovery walk.
type Walker struct {
	cfg       *config.Config
	validator *scan.Validator
}

// NewWalker creates a walker bound to a configuration.
func NewWalker(cfg *config.Config, validator *scan.Validator) *Walker {
	return &Walker{cfg: cfg, validator: validator}
}

// Discover enumerates all valid files under each folder and returns them as
// DocumentInfo values with no overlay attached. Folders are walked
// concurrently; running twice on an unchanged tree yields the same identity
// set. Walk problems never fail the whole discovery.
func (w *Walker) Discover(ctx context.Context, folders []string) []types.DocumentInfo {
	results := make([][]types.DocumentInfo, len(folders))

	g, gctx := errgroup.WithContext(ctx)
	for i, folder := range folders {
		i, folder := i, folder
		g.Go(func() error {
			results[i] = w.walkFolder(gctx, folder)
			return nil
		})
	}
	_ = g.Wait()

	var all []types.DocumentInfo
	for _, docs := range results {
		all = append(all, docs...)
	}
	return all
}

// walkFolder drains a pending-work stack seeded with the folder itself.
// Rejections are tallied and logged once at the end, never per entry.
func (w *Walker) walkFolder(ctx context.Context, folder string) []types.DocumentInfo {
	var docs []types.DocumentInfo
	tally := scan.NewRejectTally()
	blacklistedCnt := 0
	visited := make(map[string]bool)

	root := filepath.Clean(folder)
	pending := []string{root}
	for len(pending) > 0 {
		if ctx.Err() != nil {
			return docs
		}
		path := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		info, err := os.Lstat(path)
		if err != nil {
			continue
		}
		if info.Mode()&os.ModeSymlink != 0 {
			if !w.cfg.Index.FollowSymlinks {
				continue
			}
			info, err = os.Stat(path)
			if err != nil {
				continue
			}
		}

		if !info.IsDir() {
			if err := w.validator.Check(path); err != nil {
				tally.Add(err.Error())
				continue
			}
			u, err := uri.Resolve(path)
			if err != nil {
				debug.LogDiscovery("skipping %s: %v\n", path, err)
				continue
			}
			docs = append(docs, types.DocumentInfo{URI: u})
			continue
		}

		// The seed folder is exempt: a workspace explicitly rooted at a
		// directory named like a build artifact is still a workspace.
		if path != root && config.IsBlacklistedDir(filepath.Base(path)) {
			blacklistedCnt++
			continue
		}

		// Cycle guard: expanding the same physical directory twice would
		// loop forever on symlinked structures.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			continue
		}
		if visited[realPath] {
			continue
		}
		visited[realPath] = true

		if tracked, ok := vcs.ListTrackedFiles(ctx, path); ok {
			for _, file := range tracked {
				if err := w.validator.Check(file); err != nil {
					tally.Add(err.Error())
					continue
				}
				u, err := uri.Resolve(file)
				if err != nil {
					continue
				}
				docs = append(docs, types.DocumentInfo{URI: u})
			}
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			pending = append(pending, filepath.Join(path, entry.Name()))
		}
	}

	log.Printf("discovery of %s: %d files, rejected: %s, %d blacklisted dirs",
		folder, len(docs), tally.Summary(), blacklistedCnt)
	return docs
}
