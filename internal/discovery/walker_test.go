package discovery

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/workspaced/internal/config"
	"github.com/standardbeagle/workspaced/internal/scan"
	"github.com/standardbeagle/workspaced/internal/types"
	"github.com/standardbeagle/workspaced/internal/uri"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))
}

func newTestWalker(cfg *config.Config) *Walker {
	return NewWalker(cfg, scan.NewValidator(cfg))
}

func discoveredPaths(t *testing.T, docs []types.DocumentInfo) []string {
	t.Helper()
	paths := make([]string, 0, len(docs))
	for _, doc := range docs {
		paths = append(paths, doc.URI.Path())
	}
	sort.Strings(paths)
	return paths
}

func TestDiscoverSkipsBlacklistedDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "main.rs"))
	writeFile(t, filepath.Join(dir, "build", "generated.rs"))
	writeFile(t, filepath.Join(dir, "node_modules", "pkg", "index.js"))
	writeFile(t, filepath.Join(dir, ".hidden", "secret.txt"))

	w := newTestWalker(config.Default(dir))
	docs := w.Discover(context.Background(), []string{dir})

	assert.Equal(t, []string{filepath.Join(dir, "src", "main.rs")}, discoveredPaths(t, docs))
}

func TestDiscoverKeepsDotFilesInNormalDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gitignore"))

	w := newTestWalker(config.Default(dir))
	docs := w.Discover(context.Background(), []string{dir})

	assert.Equal(t, []string{filepath.Join(dir, ".gitignore")}, discoveredPaths(t, docs),
		"only dot-named directories are pruned, not dot-named files")
}

func TestDiscoverRootNamedLikeArtifactDir(t *testing.T) {
	// The workspace folder itself is exempt from the name blacklist; only
	// directories below it are pruned.
	root := filepath.Join(t.TempDir(), "build")
	writeFile(t, filepath.Join(root, "main.go"))
	writeFile(t, filepath.Join(root, "dist", "bundle.js"))

	w := newTestWalker(config.Default(root))
	docs := w.Discover(context.Background(), []string{root})

	assert.Equal(t, []string{filepath.Join(root, "main.go")}, discoveredPaths(t, docs))
}

func TestDiscoverIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.go"))
	writeFile(t, filepath.Join(dir, "sub", "b.go"))
	writeFile(t, filepath.Join(dir, "sub", "deep", "c.go"))

	w := newTestWalker(config.Default(dir))
	first := discoveredPaths(t, w.Discover(context.Background(), []string{dir}))
	second := discoveredPaths(t, w.Discover(context.Background(), []string{dir}))

	assert.Len(t, first, 3)
	assert.Equal(t, first, second)
}

func TestDiscoverFallsBackWhenRepositoryToolFails(t *testing.T) {
	dir := t.TempDir()
	// An empty .git directory is not a usable repository, so listing fails
	// and the walker expands the directory manually instead.
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))
	writeFile(t, filepath.Join(dir, "kept.go"))

	w := newTestWalker(config.Default(dir))
	docs := w.Discover(context.Background(), []string{dir})

	assert.Equal(t, []string{filepath.Join(dir, "kept.go")}, discoveredPaths(t, docs))
}

func TestDiscoverMultipleFoldersMerge(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeFile(t, filepath.Join(dirA, "a.go"))
	writeFile(t, filepath.Join(dirB, "b.go"))

	w := newTestWalker(config.Default(dirA))
	docs := w.Discover(context.Background(), []string{dirA, dirB})

	assert.ElementsMatch(t,
		[]string{filepath.Join(dirA, "a.go"), filepath.Join(dirB, "b.go")},
		discoveredPaths(t, docs))
}

func TestDiscoverIgnoresSymlinksByDefault(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "real.go"))
	require.NoError(t, os.Symlink(filepath.Join(dir, "real.go"), filepath.Join(dir, "link.go")))

	w := newTestWalker(config.Default(dir))
	docs := w.Discover(context.Background(), []string{dir})

	assert.Equal(t, []string{filepath.Join(dir, "real.go")}, discoveredPaths(t, docs))
}

func TestDiscoverSymlinkCycleTerminates(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	writeFile(t, filepath.Join(sub, "file.go"))
	require.NoError(t, os.Symlink(dir, filepath.Join(sub, "loop")))

	cfg := config.Default(dir)
	cfg.Index.FollowSymlinks = true
	w := newTestWalker(cfg)

	docs := w.Discover(context.Background(), []string{dir})

	paths := discoveredPaths(t, docs)
	assert.Contains(t, paths, filepath.Join(sub, "file.go"))
}

func TestDiscoverRespectsCancellation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.go"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := newTestWalker(config.Default(dir))
	docs := w.Discover(ctx, []string{dir})
	assert.Empty(t, docs)
}

func TestDiscoverReturnsResolvedURIs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "x.go"))

	w := newTestWalker(config.Default(dir))
	docs := w.Discover(context.Background(), []string{dir})
	require.Len(t, docs, 1)

	want, err := uri.Resolve(filepath.Join(dir, "x.go"))
	require.NoError(t, err)
	assert.Equal(t, want, docs[0].URI)
	assert.Nil(t, docs[0].Document, "discovery attaches no overlay")
}
