// Package logging configures the process-wide logger. Interactive runs log
// to stderr; daemon runs log to a size-rotated file so a long-lived watcher
// session cannot fill the disk.
package logging

import (
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup routes the standard logger. When logDir is empty output stays on
// stderr. Returns a close function.
func Setup(logDir string) func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if logDir == "" {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Printf("Warning: cannot create log directory %s: %v, logging to stderr", logDir, err)
		return func() {}
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "workspaced.log"),
		MaxSize:    20, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}
	log.SetOutput(rotator)
	return func() {
		log.SetOutput(os.Stderr)
		_ = rotator.Close()
	}
}
