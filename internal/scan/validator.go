// Package scan decides which files are worth tracking at all: text files of
// reasonable size that are not excluded by configuration. Rejections are
// tallied by reason so a big tree produces one summary log line, not one
// line per file.
package scan

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/standardbeagle/workspaced/internal/config"
	"github.com/standardbeagle/workspaced/internal/types"
)

// Reject reasons reported by Check.
const (
	RejectNotRegular = "not a regular file"
	RejectTooLarge   = "file too large"
	RejectBinaryExt  = "binary extension"
	RejectBinaryData = "binary content"
	RejectExcluded   = "excluded by pattern"
)

// Validator is the per-file validity predicate shared by the discovery
// walker and the watcher classifier.
type Validator struct {
	cfg      *config.Config
	detector *BinaryDetector
}

// NewValidator creates a validator bound to a configuration.
func NewValidator(cfg *config.Config) *Validator {
	return &Validator{
		cfg:      cfg,
		detector: NewBinaryDetector(),
	}
}

// Check returns nil when path is a valid workspace file, or an error whose
// message is the stable reject reason used for tallying.
func (v *Validator) Check(path string) error {
	if v.cfg.MatchesExclude(path) {
		return errors.New(RejectExcluded)
	}
	if v.detector.IsBinaryByExtension(path) {
		return errors.New(RejectBinaryExt)
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.New(RejectNotRegular)
	}
	if !info.Mode().IsRegular() {
		return errors.New(RejectNotRegular)
	}
	if info.Size() > v.cfg.Index.MaxFileSize {
		return errors.New(RejectTooLarge)
	}

	// Only sample content for files big enough that loading them by mistake
	// would hurt; small binaries slip through to the indexers, which cope.
	if info.Size() > types.BinaryPreCheckSizeThreshold {
		if v.sampleIsBinary(path) {
			return errors.New(RejectBinaryData)
		}
	}
	return nil
}

// IsValid is Check without the reason.
func (v *Validator) IsValid(path string) bool {
	return v.Check(path) == nil
}

func (v *Validator) sampleIsBinary(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return true
	}
	defer file.Close()

	buffer := make([]byte, types.BinaryPreCheckBytes)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return true
	}
	return v.detector.IsBinaryByContent(buffer[:n])
}

// RejectTally aggregates reject reasons across one walk.
type RejectTally struct {
	reasons map[string]int
}

// NewRejectTally creates an empty tally.
func NewRejectTally() *RejectTally {
	return &RejectTally{reasons: make(map[string]int)}
}

// Add records one rejection.
func (t *RejectTally) Add(reason string) {
	t.reasons[reason]++
}

// Total returns the number of rejected files.
func (t *RejectTally) Total() int {
	total := 0
	for _, n := range t.reasons {
		total += n
	}
	return total
}

// Summary renders the tally as one log-friendly line, reasons sorted for
// stable output.
func (t *RejectTally) Summary() string {
	if len(t.reasons) == 0 {
		return "no rejected files"
	}
	reasons := make([]string, 0, len(t.reasons))
	for reason := range t.reasons {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)

	parts := make([]string, 0, len(reasons))
	for _, reason := range reasons {
		parts = append(parts, fmt.Sprintf("%d %s", t.reasons[reason], reason))
	}
	return strings.Join(parts, ", ")
}
