package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogger installs the default slog logger. Logs go to a rotated file
// when one is configured, stderr otherwise. The returned closer is nil for stderr.
func setupLogger(config LogConfig) (io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(config.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", config.Level, err)
	}

	var w io.Writer = os.Stderr
	var closer io.Closer
	if config.File != "" {
		rw := &lumberjack.Logger{
			Filename:   config.File,
			MaxSize:    config.MaxSize,
			MaxAge:     config.MaxAge,
			MaxBackups: config.MaxBackups,
			Compress:   config.Compress,
		}
		w, closer = rw, rw
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return closer, nil
}
