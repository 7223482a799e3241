package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

// Log formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// LevelUsage is the flag usage text for log levels.
var LevelUsage = fmt.Sprintf(
	"The log level (%s>%s>%s>%s) (not case sensitive, from least to most restrictive)",
	slog.LevelDebug.String(),
	slog.LevelInfo.String(),
	slog.LevelWarn.String(),
	slog.LevelError.String(),
)

// New returns a logger writing to a given writer in a given format, and the
// level var that controls it.
func New(w io.Writer, format, level string) (*slog.Logger, *slog.LevelVar, error) {
	logLeveler := new(slog.LevelVar)
	if err := logLeveler.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}
	opts := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLeveler,
	}
	switch strings.ToLower(format) {
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), logLeveler, nil
	case FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), logLeveler, nil
	default:
		return nil, nil, fmt.Errorf("invalid log format: %q; expected %s or %s", format, FormatJSON, FormatText)
	}
}

// IncreaseVerbosity moves the level one step towards debug.
func IncreaseVerbosity(logLeveler *slog.LevelVar) {
	switch logLeveler.Level() {
	case slog.LevelInfo:
		logLeveler.Set(slog.LevelDebug)
	case slog.LevelWarn:
		logLeveler.Set(slog.LevelInfo)
	case slog.LevelError:
		logLeveler.Set(slog.LevelWarn)
	}
}

// DecreaseVerbosity moves the level one step towards error.
func DecreaseVerbosity(logLeveler *slog.LevelVar) {
	switch logLeveler.Level() {
	case slog.LevelDebug:
		logLeveler.Set(slog.LevelInfo)
	case slog.LevelInfo:
		logLeveler.Set(slog.LevelWarn)
	case slog.LevelWarn:
		logLeveler.Set(slog.LevelError)
	}
}

// HandleLevelSignals changes the log level on SIGUSR1 (less verbose) and
// SIGUSR2 (more verbose) until the context is cancelled.
func HandleLevelSignals(ctx context.Context, logLeveler *slog.LevelVar) error {
	updateLogLevel := make(chan os.Signal, 1)
	updateLogLevelSignals := []os.Signal{
		syscall.SIGUSR1,
		syscall.SIGUSR2,
	}
	signal.Notify(updateLogLevel, updateLogLevelSignals...)
	defer signal.Reset(updateLogLevelSignals...)
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-updateLogLevel:
			switch sig {
			case syscall.SIGUSR1:
				DecreaseVerbosity(logLeveler)
			case syscall.SIGUSR2:
				IncreaseVerbosity(logLeveler)
			}
			slog.Info("updated log level", slog.String("log_level", logLeveler.Level().String()))
		}
	}
}
