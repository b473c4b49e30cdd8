// Package uri converts filesystem paths to canonical file:// identifiers.
//
// Architecture Pattern:
// workspaced tracks every file under a single canonical identifier so that
// two spellings of the same path (relative vs absolute, redundant separators,
// mixed slashes on Windows) can never produce two map entries. The DocURI is
// that identifier and is used as the key in every state map.
package uri

import (
	"net/url"
	"path/filepath"
	"runtime"
	"strings"

	wserrors "github.com/standardbeagle/workspaced/internal/errors"
)

// DocURI is a canonical, platform-normalized file identifier.
// It is always a percent-encoded file:// URL of an absolute, cleaned path.
type DocURI string

// String returns the URI in its wire form.
func (u DocURI) String() string {
	return string(u)
}

// Path converts the URI back to a native filesystem path.
// Resolve(u.Path()) yields u again for any URI produced by Resolve.
func (u DocURI) Path() string {
	parsed, err := url.Parse(string(u))
	if err != nil {
		return ""
	}
	p := parsed.Path
	if runtime.GOOS == "windows" && len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		// file:///C:/dir/file -> C:/dir/file
		p = p[1:]
	}
	return filepath.FromSlash(p)
}

// Base returns the final path component of the URI, decoded.
func (u DocURI) Base() string {
	return filepath.Base(u.Path())
}

// Resolve converts a filesystem path to its canonical DocURI.
// Relative paths are made absolute against the current working directory.
// Resolution is deterministic and idempotent; it fails only when the path
// cannot be made absolute (for example, the working directory is gone).
func Resolve(path string) (DocURI, error) {
	if path == "" {
		return "", wserrors.NewResolveError(path, wserrors.ErrEmptyPath)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", wserrors.NewResolveError(path, err)
	}
	abs = filepath.Clean(abs)

	slashed := filepath.ToSlash(abs)
	if runtime.GOOS == "windows" && len(slashed) >= 2 && slashed[1] == ':' {
		// Upper-case the volume so C:\x and c:\x are one identity.
		slashed = strings.ToUpper(slashed[:1]) + slashed[1:]
		slashed = "/" + slashed
	}
	if !strings.HasPrefix(slashed, "/") {
		return "", wserrors.NewResolveError(path, wserrors.ErrNotAbsolute)
	}

	u := url.URL{Scheme: "file", Path: slashed}
	return DocURI(u.String()), nil
}

// MustResolve is Resolve for paths known to be absolute, such as values
// already read back from a DocURI. It panics on failure and exists for tests.
func MustResolve(path string) DocURI {
	u, err := Resolve(path)
	if err != nil {
		panic(err)
	}
	return u
}
