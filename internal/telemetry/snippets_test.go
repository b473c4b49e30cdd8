package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/workspaced/internal/uri"
)

func TestSnippetsCounts(t *testing.T) {
	s := NewSnippets()
	a := uri.MustResolve("/work/a.go")
	b := uri.MustResolve("/work/b.go")

	assert.Equal(t, 0, s.ChangeCount(a))

	s.SourcesChanged(a, "v1")
	s.SourcesChanged(a, "v2")
	s.SourcesChanged(b, "v1")

	assert.Equal(t, 2, s.ChangeCount(a))
	assert.Equal(t, 1, s.ChangeCount(b))
}

func TestSnippetsNilReceiver(t *testing.T) {
	var s *Snippets
	s.SourcesChanged(uri.MustResolve("/work/a.go"), "x")
	assert.Equal(t, 0, s.ChangeCount(uri.MustResolve("/work/a.go")))
}
