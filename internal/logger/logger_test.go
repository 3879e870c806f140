package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInit_DisabledDiscards(t *testing.T) {
	closeFn, err := Init(Options{})
	require.NoError(t, err)
	require.NoError(t, closeFn())
	require.False(t, L.Enabled(t.Context(), slog.LevelError))
}

func TestInit_DisableAfterEnable(t *testing.T) {
	var out bytes.Buffer
	_, err := Init(Options{Enabled: true, Level: slog.LevelDebug, Stderr: &out})
	require.NoError(t, err)
	_, err = Init(Options{})
	require.NoError(t, err)

	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		require.False(t, L.Enabled(t.Context(), level), level.String())
	}
	Error("dropped", "error", "x")
	require.Empty(t, out.String())
}

func TestInit_Stderr(t *testing.T) {
	var out bytes.Buffer
	closeFn, err := Init(Options{Enabled: true, Level: slog.LevelDebug, Stderr: &out})
	require.NoError(t, err)
	defer closeFn()
	t.Cleanup(func() { _, _ = Init(Options{}) })

	Debug("patched field", "field", "footerPosition")
	require.Contains(t, out.String(), "field=footerPosition")
}

func TestInit_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hicattr.log")
	closeFn, err := Init(Options{Enabled: true, File: path, Level: slog.LevelInfo})
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = Init(Options{}) })

	Debug("hidden")
	Info("wrote output", "delta", 4)
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &rec))
	require.Equal(t, "wrote output", rec["msg"])
	require.EqualValues(t, 4, rec["delta"])
}
