// Package store owns the authoritative workspace state: the folder list,
// the known-files set, the open-document overlay and the staleness flag for
// the derived lookup caches.
//
// Locking discipline: each field has its own lock so an editor buffer update
// never blocks a folder mutation. Callers clone what they need under one
// short inner lock and release it before doing I/O or calling an indexer;
// no indexer call ever runs under a store lock.
package store

import (
	"os"
	"path/filepath"
	"sync"

	wserrors "github.com/standardbeagle/workspaced/internal/errors"
	"github.com/standardbeagle/workspaced/internal/types"
	"github.com/standardbeagle/workspaced/internal/uri"
)

// State is the aggregate workspace state, created once at process start.
type State struct {
	foldersMu sync.Mutex
	folders   []string

	filesMu sync.Mutex
	files   []uri.DocURI
	fileSet map[uri.DocURI]bool

	overlayMu sync.RWMutex
	documents map[uri.DocURI]*types.Document

	dirtyMu    sync.Mutex
	cacheDirty bool
}

// NewState creates a state with the given initial workspace folders and no
// known files.
func NewState(folders []string) *State {
	cleaned := make([]string, 0, len(folders))
	for _, f := range folders {
		cleaned = append(cleaned, filepath.Clean(f))
	}
	return &State{
		folders:   cleaned,
		fileSet:   make(map[uri.DocURI]bool),
		documents: make(map[uri.DocURI]*types.Document),
	}
}

// AddFolder appends a discovery root and marks the caches stale.
func (s *State) AddFolder(path string) {
	path = filepath.Clean(path)
	s.foldersMu.Lock()
	s.folders = append(s.folders, path)
	s.foldersMu.Unlock()
	s.MarkDirty()
}

// RemoveFolder drops a discovery root. Returns false when the folder was
// not registered.
func (s *State) RemoveFolder(path string) bool {
	path = filepath.Clean(path)
	s.foldersMu.Lock()
	kept := s.folders[:0]
	removed := false
	for _, f := range s.folders {
		if f == path {
			removed = true
			continue
		}
		kept = append(kept, f)
	}
	s.folders = kept
	s.foldersMu.Unlock()
	if removed {
		s.MarkDirty()
	}
	return removed
}

// Folders returns a copy of the current folder list.
func (s *State) Folders() []string {
	s.foldersMu.Lock()
	defer s.foldersMu.Unlock()
	out := make([]string, len(s.folders))
	copy(out, s.folders)
	return out
}

// SnapshotFiles returns a copy of the known-files list. Concurrent rebuilds
// never leave a half-populated set visible here.
func (s *State) SnapshotFiles() []uri.DocURI {
	s.filesMu.Lock()
	defer s.filesMu.Unlock()
	out := make([]uri.DocURI, len(s.files))
	copy(out, s.files)
	return out
}

// KnownFile reports whether the identity is in the known-files set.
func (s *State) KnownFile(u uri.DocURI) bool {
	s.filesMu.Lock()
	defer s.filesMu.Unlock()
	return s.fileSet[u]
}

// FileCount returns the size of the known-files set.
func (s *State) FileCount() int {
	s.filesMu.Lock()
	defer s.filesMu.Unlock()
	return len(s.files)
}

// ReplaceFiles atomically swaps the known-files set for the given
// identities, deduplicated, and marks the caches stale. Readers observe
// either the old or the new set, never a partially-cleared one.
func (s *State) ReplaceFiles(us []uri.DocURI) {
	files := make([]uri.DocURI, 0, len(us))
	set := make(map[uri.DocURI]bool, len(us))
	for _, u := range us {
		if set[u] {
			continue
		}
		set[u] = true
		files = append(files, u)
	}

	s.filesMu.Lock()
	s.files = files
	s.fileSet = set
	s.filesMu.Unlock()
	s.MarkDirty()
}

// AppendFiles adds identities not yet known and marks the caches stale when
// anything was added.
func (s *State) AppendFiles(us []uri.DocURI) {
	s.filesMu.Lock()
	added := false
	for _, u := range us {
		if s.fileSet[u] {
			continue
		}
		s.fileSet[u] = true
		s.files = append(s.files, u)
		added = true
	}
	s.filesMu.Unlock()
	if added {
		s.MarkDirty()
	}
}

// OpenDocument installs an editor buffer overlay for the identity. While
// present the overlay is authoritative over on-disk content.
func (s *State) OpenDocument(u uri.DocURI, languageID, text string) {
	s.overlayMu.Lock()
	s.documents[u] = types.NewDocument(languageID, text)
	s.overlayMu.Unlock()
	s.MarkDirty()
}

// ChangeDocument updates the overlay text for the identity. When no overlay
// exists the document is inserted with an unknown language hint and true is
// returned so the caller can log the consistency warning; the caches are
// marked stale either way.
func (s *State) ChangeDocument(u uri.DocURI, text string) (inserted bool) {
	s.overlayMu.Lock()
	if doc, ok := s.documents[u]; ok {
		doc.Text = text
	} else {
		s.documents[u] = types.NewDocument("unknown", text)
		inserted = true
	}
	s.overlayMu.Unlock()
	if inserted {
		s.MarkDirty()
	}
	return inserted
}

// CloseDocument removes the overlay; content authority reverts to disk.
func (s *State) CloseDocument(u uri.DocURI) {
	s.overlayMu.Lock()
	delete(s.documents, u)
	s.overlayMu.Unlock()
	s.MarkDirty()
}

// Overlay returns a copy of the overlay document for the identity, if open.
func (s *State) Overlay(u uri.DocURI) (types.Document, bool) {
	s.overlayMu.RLock()
	defer s.overlayMu.RUnlock()
	doc, ok := s.documents[u]
	if !ok {
		return types.Document{}, false
	}
	return *doc, true
}

// OverlayCount returns the number of open documents.
func (s *State) OverlayCount() int {
	s.overlayMu.RLock()
	defer s.overlayMu.RUnlock()
	return len(s.documents)
}

// ReadCurrent returns the current content for the identity: the overlay
// text when the file is open, otherwise the on-disk content. The disk read
// happens after the overlay lock is released.
func (s *State) ReadCurrent(u uri.DocURI) (string, error) {
	s.overlayMu.RLock()
	doc, ok := s.documents[u]
	var text string
	if ok {
		text = doc.Text
	}
	s.overlayMu.RUnlock()

	if ok {
		return text, nil
	}
	data, err := os.ReadFile(u.Path())
	if err != nil {
		return "", wserrors.NewFileError("read", u.Path(), err)
	}
	return string(data), nil
}

// MarkDirty flags the derived lookup caches as stale.
func (s *State) MarkDirty() {
	s.dirtyMu.Lock()
	s.cacheDirty = true
	s.dirtyMu.Unlock()
}

// Dirty reports whether the derived caches are stale.
func (s *State) Dirty() bool {
	s.dirtyMu.Lock()
	defer s.dirtyMu.Unlock()
	return s.cacheDirty
}

// TakeDirty returns the staleness flag and resets it. The lookup cache is
// the single consumer.
func (s *State) TakeDirty() bool {
	s.dirtyMu.Lock()
	defer s.dirtyMu.Unlock()
	was := s.cacheDirty
	s.cacheDirty = false
	return was
}
