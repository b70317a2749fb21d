package config

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// SetupLogger logs text to console and, when logFile is set, JSON lines to that
// file as well. An unopenable log file degrades to console only. The returned
// func closes the file.
func SetupLogger(console io.Writer, logFile string, level slog.Level) (*slog.Logger, func() error) {
	opts := &slog.HandlerOptions{Level: level}
	handlers := []slog.Handler{slog.NewTextHandler(console, opts)}
	closeFile := func() error { return nil }

	var openErr error
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			openErr = err
		} else {
			handlers = append(handlers, slog.NewJSONHandler(f, opts))
			closeFile = f.Close
		}
	}

	logger := slog.New(slogmulti.Fanout(handlers...))
	if openErr != nil {
		logger.Warn("log file unavailable, logging to console only", "file", logFile, "error", openErr)
	}
	return logger, closeFile
}
