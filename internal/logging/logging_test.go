package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_New_json(t *testing.T) {
	buf := new(bytes.Buffer)
	log, logLeveler, err := New(buf, "json", "info")
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, logLeveler.Level())

	log.Debug("hidden")
	log.Info("shown", slog.String("role_name", "my-role"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "shown", line["msg"])
	require.Equal(t, "my-role", line["role_name"])
}

func Test_New_text(t *testing.T) {
	buf := new(bytes.Buffer)
	log, _, err := New(buf, "TEXT", "DEBUG")
	require.NoError(t, err)
	log.Debug("shown")
	require.Contains(t, buf.String(), "msg=shown")
}

func Test_New_invalid(t *testing.T) {
	_, _, err := New(new(bytes.Buffer), "json", "loud")
	require.Error(t, err)

	_, _, err = New(new(bytes.Buffer), "yaml", "info")
	require.Error(t, err)
}

func Test_Verbosity(t *testing.T) {
	logLeveler := new(slog.LevelVar)
	logLeveler.Set(slog.LevelError)

	IncreaseVerbosity(logLeveler)
	require.Equal(t, slog.LevelWarn, logLeveler.Level())
	IncreaseVerbosity(logLeveler)
	IncreaseVerbosity(logLeveler)
	require.Equal(t, slog.LevelDebug, logLeveler.Level())
	IncreaseVerbosity(logLeveler)
	require.Equal(t, slog.LevelDebug, logLeveler.Level())

	DecreaseVerbosity(logLeveler)
	require.Equal(t, slog.LevelInfo, logLeveler.Level())
	DecreaseVerbosity(logLeveler)
	DecreaseVerbosity(logLeveler)
	DecreaseVerbosity(logLeveler)
	require.Equal(t, slog.LevelError, logLeveler.Level())
}

func Test_HandleLevelSignals_cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, HandleLevelSignals(ctx, new(slog.LevelVar)))
}
