package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
)

// Error types for the workspaced file-tracking core
type ErrorType string

const (
	// Path resolution errors
	ErrorTypeResolve ErrorType = "resolve"

	// External tool errors (version-control listing)
	ErrorTypeTool ErrorType = "tool"

	// Filesystem watch errors
	ErrorTypeWatch ErrorType = "watch"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypePermission   ErrorType = "permission"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// Sentinel causes used by the resolver.
var (
	ErrEmptyPath   = errors.New("empty path")
	ErrNotAbsolute = errors.New("path cannot be made absolute")
)

// ResolveError indicates a path could not be turned into a canonical identity.
// It propagates to the caller of the specific operation and never crashes a
// background loop.
type ResolveError struct {
	Type       ErrorType
	Path       string
	Underlying error
	Timestamp  time.Time
}

// NewResolveError creates a new resolve error for the given path
func NewResolveError(path string, err error) *ResolveError {
	return &ResolveError{
		Type:       ErrorTypeResolve,
		Path:       path,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ResolveError) Error() string {
	return fmt.Sprintf("cannot resolve %q to a file identity: %v", e.Path, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *ResolveError) Unwrap() error {
	return e.Underlying
}

// ToolError indicates a version-control tool was missing or exited non-zero.
// It is always recovered locally by falling back to a manual directory walk.
type ToolError struct {
	Type       ErrorType
	Tool       string
	Dir        string
	Underlying error
	Timestamp  time.Time
}

// NewToolError creates a new external tool error
func NewToolError(tool, dir string, err error) *ToolError {
	return &ToolError{
		Type:       ErrorTypeTool,
		Tool:       tool,
		Dir:        dir,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ToolError) Error() string {
	return fmt.Sprintf("%s failed in %s: %v", e.Tool, e.Dir, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ToolError) Unwrap() error {
	return e.Underlying
}

// WatchError indicates a filesystem watch could not be attached to a folder.
// The folder is left unmonitored; startup continues.
type WatchError struct {
	Type       ErrorType
	Folder     string
	Underlying error
	Timestamp  time.Time
}

// NewWatchError creates a new watch subscription error
func NewWatchError(folder string, err error) *WatchError {
	return &WatchError{
		Type:       ErrorTypeWatch,
		Folder:     folder,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *WatchError) Error() string {
	return fmt.Sprintf("cannot watch %s: %v", e.Folder, e.Underlying)
}

// Unwrap returns the underlying error
func (e *WatchError) Unwrap() error {
	return e.Underlying
}

// FileError represents a file-related error
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFileNotFound
	if isPermissionError(err) {
		errorType = ErrorTypePermission
	}

	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// isPermissionError checks if the error is a permission error
func isPermissionError(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}
