// Package logging routes the standard logger, optionally into a rotating
// file so long-running watch commands don't grow logs without bound.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the global logger. With an empty path, logs go to
// stderr only; otherwise they go to both stderr and a size-rotated file.
// The returned func closes the file writer.
func Setup(path string, maxSizeMB, maxBackups int) func() error {
	if path == "" {
		log.SetOutput(os.Stderr)
		return func() error { return nil }
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
	return rotator.Close
}
