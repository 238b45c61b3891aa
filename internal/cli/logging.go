package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
)

// newLogger builds the command logger: text to stderr when verbose, JSON to
// logFile when set. With neither, records are discarded.
//
// If logFile cannot be opened the logger is still returned, without the file
// handler, alongside the error. The cleanup function is never nil.
func newLogger(stderr io.Writer, verbose bool, logFile string) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var handlers []slog.Handler

	if verbose {
		handlers = append(handlers, slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	}

	cleanup := func() error { return nil }

	var openErr error

	if logFile != "" {
		file, err := openLogFile(logFile)
		if err != nil {
			openErr = err
		} else {
			handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}))
			cleanup = file.Close
		}
	}

	if len(handlers) == 0 {
		return slog.New(slog.DiscardHandler), cleanup, openErr
	}

	return slog.New(slogmulti.Fanout(handlers...)), cleanup, openErr
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	return file, nil
}
