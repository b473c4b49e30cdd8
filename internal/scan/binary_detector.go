// Binary file detection utility for early rejection of non-text files
// Prevents downstream indexers from being fed binary data as source code
package scan

import (
	"bytes"
	"path/filepath"
	"strings"
)

// BinaryDetector handles detection of binary files that should not be tracked
type BinaryDetector struct {
	binaryExtensions map[string]bool
}

// NewBinaryDetector creates a new binary file detector with a common extension database
func NewBinaryDetector() *BinaryDetector {
	extensions := map[string]bool{
		// Font files
		".woff":  true,
		".woff2": true,
		".ttf":   true,
		".otf":   true,
		".eot":   true,

		// Image files
		".png":  true,
		".jpg":  true,
		".jpeg": true,
		".gif":  true,
		".bmp":  true,
		".ico":  true,
		".webp": true,
		".svg":  false, // SVG is text-based XML
		".tiff": true,
		".tif":  true,

		// Archive files
		".zip": true,
		".tar": true,
		".gz":  true,
		".bz2": true,
		".xz":  true,
		".7z":  true,
		".rar": true,
		".jar": true,
		".war": true,

		// Binary executables
		".exe":   true,
		".dll":   true,
		".so":    true,
		".dylib": true,
		".a":     true,
		".o":     true,
		".obj":   true,
		".wasm":  true,

		// Media files
		".mp3":  true,
		".mp4":  true,
		".avi":  true,
		".mov":  true,
		".wav":  true,
		".flac": true,
		".ogg":  true,

		// Document files (binary formats)
		".pdf":  true,
		".doc":  true,
		".docx": true,
		".xls":  true,
		".xlsx": true,
		".ppt":  true,
		".pptx": true,

		// Database files
		".db":      true,
		".sqlite":  true,
		".sqlite3": true,

		// Compiled bytecode
		".pyc":   true,
		".pyo":   true,
		".class": true,
	}

	return &BinaryDetector{binaryExtensions: extensions}
}

// IsBinaryByExtension checks if a file is binary based on its extension alone.
// No I/O is performed.
func (bd *BinaryDetector) IsBinaryByExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	binary, known := bd.binaryExtensions[ext]
	return known && binary
}

// IsBinaryByContent checks a leading sample of file content for binary
// signatures: a NUL byte or common magic numbers.
func (bd *BinaryDetector) IsBinaryByContent(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}

	magics := [][]byte{
		{0x7f, 'E', 'L', 'F'},       // ELF
		{'M', 'Z'},                  // PE/DOS
		{0x89, 'P', 'N', 'G'},       // PNG
		{0xff, 0xd8, 0xff},          // JPEG
		{'P', 'K', 0x03, 0x04},      // ZIP
		{0x1f, 0x8b},                // gzip
		{0xca, 0xfe, 0xba, 0xbe},    // Mach-O fat / Java class
		{0xfe, 0xed, 0xfa, 0xce},    // Mach-O 32
		{0xfe, 0xed, 0xfa, 0xcf},    // Mach-O 64
		{'%', 'P', 'D', 'F'},        // PDF
		{0x00, 'a', 's', 'm'},       // WASM
	}
	for _, magic := range magics {
		if bytes.HasPrefix(sample, magic) {
			return true
		}
	}
	return false
}
