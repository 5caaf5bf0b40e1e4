// ABOUTME: slog setup for gridsync with optional rotating file output.
// ABOUTME: Console logs go to stderr; a logs directory adds a size-capped run log.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup installs the default logger. When logsDir is non-empty, log lines are
// duplicated into a rotating file there. Failure to create the logs directory
// degrades to stderr-only logging rather than failing the run.
func Setup(logsDir string, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	if logsDir != "" {
		if err := os.MkdirAll(logsDir, 0750); err == nil {
			w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
				Filename:   filepath.Join(logsDir, "gridsync.log"),
				MaxSize:    5, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
			})
		}
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
