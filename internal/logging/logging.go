// Package logging sets up the rotating diagnostic log.
//
// The dashboard owns the terminal, so nothing may write to stdout or
// stderr while it runs; diagnostics go to a rotated file instead.
package logging

import (
	"io"
	"log/slog"
	"path/filepath"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults, in lumberjack semantics.
const (
	DefaultMaxSizeMB  = 5 // MB
	DefaultMaxBackups = 2 // number of backup files
	DefaultMaxAgeDays = 7 // days
)

// FileName is the diagnostic log file name inside the state directory.
const FileName = "watchpost.log"

// Open returns a slog.Logger writing to a rotated file under dir, plus a
// closer for the underlying sink.
func Open(dir string) (*slog.Logger, io.Closer) {
	sink := &lj.Logger{
		Filename:   filepath.Join(dir, FileName),
		MaxSize:    DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAgeDays,
	}
	logger := slog.New(slog.NewTextHandler(sink, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, sink
}

// Discard returns a logger that drops everything. Used by tests and by
// code paths that run before the state directory is known.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
