package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNew_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "json", false, nil)
	l.Info("hidden")
	l.Warn("shown", "k", "v")

	out := strings.TrimSpace(buf.String())
	require.NotContains(t, out, "hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "v", rec["k"])
}

func TestNew_DebugOverridesLevel(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "error", "text", true, nil).Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestAudit(t *testing.T) {
	var out, audit bytes.Buffer
	l := New(&out, "info", "text", false, &audit)

	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	l.Audit(AuditEntry{Timestamp: ts, Op: "check", User: "ci", RunID: "r1", Result: "success"})

	var got AuditEntry
	require.NoError(t, json.Unmarshal(audit.Bytes(), &got))
	assert.Equal(t, AuditEntry{Timestamp: ts, Op: "check", User: "ci", RunID: "r1", Result: "success"}, got)
	assert.Contains(t, out.String(), "audit")
}

func TestAudit_Disabled(t *testing.T) {
	var out bytes.Buffer
	l := New(&out, "info", "text", false, nil)
	assert.NotPanics(t, func() { l.Audit(AuditEntry{Op: "check", Result: "failure"}) })
}

func TestInit_WritesFiles(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	home := t.TempDir()
	logFile := filepath.Join(home, "logs", "nexusflow.log")

	l := Init("info", "text", logFile, home, false)
	assert.Same(t, l.Logger, slog.Default())
	l.Info("to-file")
	l.Audit(AuditEntry{Op: "check", Result: "success"})
	require.NoError(t, l.Close())
	assert.Same(t, prev, slog.Default())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to-file")

	audit, err := os.ReadFile(filepath.Join(home, "audit.log"))
	require.NoError(t, err)
	assert.Contains(t, string(audit), `"op":"check"`)
}
