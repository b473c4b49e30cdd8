package uri

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wserrors "github.com/standardbeagle/workspaced/internal/errors"
)

func TestResolveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "src", "main.go")

	u, err := Resolve(path)
	require.NoError(t, err)

	again, err := Resolve(u.Path())
	require.NoError(t, err)
	assert.Equal(t, u, again, "resolve(resolve(p).Path()) must round-trip")
}

func TestResolveIdempotentAcrossSpellings(t *testing.T) {
	dir := t.TempDir()
	canonical := filepath.Join(dir, "a", "b.go")

	spellings := []string{
		canonical,
		filepath.Join(dir, "a", ".", "b.go"),
		filepath.Join(dir, "x", "..", "a", "b.go"),
	}

	want, err := Resolve(canonical)
	require.NoError(t, err)
	for _, s := range spellings {
		got, err := Resolve(s)
		require.NoError(t, err)
		assert.Equal(t, want, got, "spelling %q produced a different identity", s)
	}
}

func TestResolveRelativePath(t *testing.T) {
	dir := t.TempDir()
	// EvalSymlinks because TempDir may itself be behind a symlink (macOS).
	real, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(real))
	defer os.Chdir(cwd)

	u, err := Resolve("note.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(real, "note.txt"), u.Path())
}

func TestResolveEmptyPath(t *testing.T) {
	_, err := Resolve("")
	require.Error(t, err)

	var resolveErr *wserrors.ResolveError
	assert.True(t, errors.As(err, &resolveErr))
	assert.True(t, errors.Is(err, wserrors.ErrEmptyPath))
}

func TestResolveSpecialCharacters(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "has space", "100%.go")

	u, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, path, u.Path(), "encoding must survive the round trip")

	again, err := Resolve(u.Path())
	require.NoError(t, err)
	assert.Equal(t, u, again)
}

func TestBase(t *testing.T) {
	u, err := Resolve(filepath.Join(t.TempDir(), "pkg", "file.rs"))
	require.NoError(t, err)
	assert.Equal(t, "file.rs", u.Base())
}

func TestURIIsFileScheme(t *testing.T) {
	u, err := Resolve(filepath.Join(t.TempDir(), "f.go"))
	require.NoError(t, err)
	assert.Contains(t, u.String(), "file://")
}
