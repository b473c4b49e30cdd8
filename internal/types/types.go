// Package types holds the shared document model passed between the store,
// the discovery walker, the watcher and the indexer fan-out.
package types

import (
	"os"

	wserrors "github.com/standardbeagle/workspaced/internal/errors"
	"github.com/standardbeagle/workspaced/internal/uri"
)

// Shared limits and tuning defaults.
const (
	// DefaultMaxFileSize is the largest file the validity predicate accepts.
	DefaultMaxFileSize = 10 * 1024 * 1024

	// BinaryPreCheckSizeThreshold is the size above which file content is
	// sampled for binary signatures before the file is accepted.
	BinaryPreCheckSizeThreshold = 512 * 1024

	// BinaryPreCheckBytes is how many leading bytes the sample reads.
	BinaryPreCheckBytes = 512

	// DefaultWatchDebounceMs batches filesystem event storms.
	DefaultWatchDebounceMs = 200

	// DefaultEventQueueSize bounds the raw OS-event channel. When full the
	// oldest pending event is dropped; a later full rebuild makes that safe.
	DefaultEventQueueSize = 1024
)

// Document is an in-memory editor buffer overlay for one file. While present
// it is authoritative over on-disk content.
type Document struct {
	LanguageID string
	Text       string
}

// NewDocument creates an overlay with the given language hint and text.
func NewDocument(languageID, text string) *Document {
	return &Document{LanguageID: languageID, Text: text}
}

// DocumentInfo is the unit handed between components: a file identity plus,
// if the file is open in an editor, its buffer overlay. Constructed
// per-operation and never stored long-term.
type DocumentInfo struct {
	URI      uri.DocURI
	Document *Document
}

// NewDocumentInfo creates a DocumentInfo with no overlay for a path.
func NewDocumentInfo(path string) (DocumentInfo, error) {
	u, err := uri.Resolve(path)
	if err != nil {
		return DocumentInfo{}, err
	}
	return DocumentInfo{URI: u}, nil
}

// ReadFile returns the overlay text when one is attached, otherwise the
// current on-disk content.
func (d DocumentInfo) ReadFile() (string, error) {
	if d.Document != nil {
		return d.Document.Text, nil
	}
	data, err := os.ReadFile(d.URI.Path())
	if err != nil {
		return "", wserrors.NewFileError("read", d.URI.Path(), err)
	}
	return string(data), nil
}

// FileEventKind classifies a raw filesystem notification.
type FileEventKind int

const (
	FileEventOther FileEventKind = iota
	FileEventCreate
	FileEventModifyContent
	FileEventRemove
)

// String returns a short name for logging.
func (k FileEventKind) String() string {
	switch k {
	case FileEventCreate:
		return "create"
	case FileEventModifyContent:
		return "modify"
	case FileEventRemove:
		return "remove"
	default:
		return "other"
	}
}

// FileEvent is the tagged event the watcher delivers to the classifier.
// Kinds other than Create, ModifyContent and Remove are dropped.
type FileEvent struct {
	Kind  FileEventKind
	Paths []string
}
