// Package telemetry counts editor activity for later collection.
// Persistence lives elsewhere; this is the in-process tally only.
package telemetry

import (
	"sync"

	"github.com/standardbeagle/workspaced/internal/uri"
)

// Snippets records per-file edit activity reported by the editor.
type Snippets struct {
	mu      sync.Mutex
	changes map[uri.DocURI]int
}

// NewSnippets creates an empty collector.
func NewSnippets() *Snippets {
	return &Snippets{changes: make(map[uri.DocURI]int)}
}

// SourcesChanged notes one editor change event for the identity.
func (s *Snippets) SourcesChanged(u uri.DocURI, text string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.changes[u]++
	s.mu.Unlock()
}

// ChangeCount returns how many change events were recorded for the identity.
func (s *Snippets) ChangeCount(u uri.DocURI) int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changes[u]
}
