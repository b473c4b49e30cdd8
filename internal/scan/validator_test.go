package scan

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/workspaced/internal/config"
	"github.com/standardbeagle/workspaced/internal/types"
)

func newTestValidator(t *testing.T, root string) *Validator {
	t.Helper()
	return NewValidator(config.Default(root))
}

func TestCheckAcceptsTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.rs")
	require.NoError(t, os.WriteFile(path, []byte("fn main(){}"), 0644))

	v := newTestValidator(t, dir)
	assert.NoError(t, v.Check(path))
	assert.True(t, v.IsValid(path))
}

func TestCheckRejectsBinaryExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0644))

	v := newTestValidator(t, dir)
	err := v.Check(path)
	require.Error(t, err)
	assert.Equal(t, RejectBinaryExt, err.Error())
}

func TestCheckRejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 128), 0644))

	cfg := config.Default(dir)
	cfg.Index.MaxFileSize = 64
	v := NewValidator(cfg)

	err := v.Check(path)
	require.Error(t, err)
	assert.Equal(t, RejectTooLarge, err.Error())
}

func TestCheckRejectsMissingFile(t *testing.T) {
	dir := t.TempDir()
	v := newTestValidator(t, dir)

	err := v.Check(filepath.Join(dir, "nope.go"))
	require.Error(t, err)
	assert.Equal(t, RejectNotRegular, err.Error())
}

func TestCheckRejectsExcludedPattern(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.gen.go")
	require.NoError(t, os.WriteFile(path, []byte("package gen"), 0644))

	cfg := config.Default(dir)
	cfg.Exclude = []string{"*.gen.go"}
	v := NewValidator(cfg)

	err := v.Check(path)
	require.Error(t, err)
	assert.Equal(t, RejectExcluded, err.Error())
}

func TestCheckSamplesLargeFilesForBinaryContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.dat")

	content := make([]byte, types.BinaryPreCheckSizeThreshold+1)
	content[10] = 0 // NUL byte marks binary
	for i := range content {
		if i != 10 {
			content[i] = 'a'
		}
	}
	require.NoError(t, os.WriteFile(path, content, 0644))

	v := newTestValidator(t, dir)
	err := v.Check(path)
	require.Error(t, err)
	assert.Equal(t, RejectBinaryData, err.Error())
}

func TestBinaryDetectorExtension(t *testing.T) {
	bd := NewBinaryDetector()

	assert.True(t, bd.IsBinaryByExtension("a/b/c.PNG"), "extension check is case-insensitive")
	assert.True(t, bd.IsBinaryByExtension("x.wasm"))
	assert.False(t, bd.IsBinaryByExtension("x.svg"), "svg is text-based XML")
	assert.False(t, bd.IsBinaryByExtension("main.go"))
	assert.False(t, bd.IsBinaryByExtension("Makefile"))
}

func TestBinaryDetectorContent(t *testing.T) {
	bd := NewBinaryDetector()

	assert.True(t, bd.IsBinaryByContent([]byte{0x7f, 'E', 'L', 'F', 2, 1}))
	assert.True(t, bd.IsBinaryByContent([]byte("abc\x00def")))
	assert.False(t, bd.IsBinaryByContent([]byte("plain text content")))
	assert.False(t, bd.IsBinaryByContent(nil))
}

func TestRejectTallySummary(t *testing.T) {
	tally := NewRejectTally()
	assert.Equal(t, "no rejected files", tally.Summary())

	tally.Add(RejectTooLarge)
	tally.Add(RejectTooLarge)
	tally.Add(RejectBinaryExt)

	assert.Equal(t, 3, tally.Total())
	assert.Equal(t, "1 binary extension, 2 file too large", tally.Summary())
}
