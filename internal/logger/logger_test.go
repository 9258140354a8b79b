package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestJSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(New(&buf, "json", "info"))
	log.Debug("hidden")
	log.Info("request", "status", 200)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "request", record["msg"])
	require.Equal(t, float64(200), record["status"])
}

func TestPrettyHandlerGroupsAndAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(New(&buf, "pretty", "debug")).With("service", "gateway").WithGroup("http")
	log.Debug("request", "status", 401, slog.Group("error", "code", "UNAUTHORIZED"))

	out := buf.String()
	require.Contains(t, out, "request")
	require.Contains(t, out, "service"+reset+"=gateway")
	require.Contains(t, out, "http.status"+reset+"=401")
	require.Contains(t, out, "http.error.code"+reset+"=UNAUTHORIZED")
}
