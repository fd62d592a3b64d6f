// Package logger provides the structured logging engine for NexusFlow.
// Uses log/slog with two sinks: stderr and an optional append-only log file.
// Check runs are additionally recorded in an audit log.
package logger

import (
	"encoding/json"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Logger
// ─────────────────────────────────────────────────────────────────────────────

// Logger wraps slog.Logger with NexusFlow-specific utilities.
type Logger struct {
	*slog.Logger

	mu       sync.Mutex
	auditW   io.Writer    // append-only audit log writer (nil = disabled)
	closers  []io.Closer
	previous *slog.Logger // slog default replaced by Init, restored by Close
	stdOut   io.Writer    // stdlib log output redirected by slog.SetDefault
	stdFlags int
}

// ParseLevel maps a config level name to a slog.Level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a Logger writing to out. auditW may be nil.
func New(out io.Writer, level, format string, debug bool, auditW io.Writer) *Logger {
	lvl := ParseLevel(level)
	if debug {
		lvl = slog.LevelDebug
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: lvl, AddSource: debug}
	if format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return &Logger{Logger: slog.New(handler), auditW: auditW}
}

// Init builds the process logger from config, installs it as slog's default
// and opens the audit log under home. File sinks that cannot be opened are
// skipped; logging never blocks startup.
func Init(level, format, logFile, home string, debug bool) *Logger {
	writers := []io.Writer{os.Stderr}
	var closers []io.Closer

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0750); err == nil {
			if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640); err == nil {
				writers = append(writers, f)
				closers = append(closers, f)
			}
		}
	}

	var auditW io.Writer
	if home != "" {
		if err := os.MkdirAll(home, 0750); err == nil {
			if af, err := os.OpenFile(filepath.Join(home, "audit.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640); err == nil {
				auditW = af
				closers = append(closers, af)
			}
		}
	}

	l := New(io.MultiWriter(writers...), level, format, debug, auditW)
	l.closers = closers
	l.previous = slog.Default()
	l.stdOut, l.stdFlags = log.Writer(), log.Flags()
	slog.SetDefault(l.Logger)
	return l
}

// Close releases the file sinks opened by Init and reinstates the slog
// default that Init replaced.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.previous != nil {
		slog.SetDefault(l.previous)
		log.SetOutput(l.stdOut)
		log.SetFlags(l.stdFlags)
		l.previous = nil
	}
	var first error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	l.closers = nil
	l.auditW = nil
	return first
}

// ─────────────────────────────────────────────────────────────────────────────
// Audit logging
// ─────────────────────────────────────────────────────────────────────────────

// AuditEntry represents a single audit log event.
type AuditEntry struct {
	Timestamp time.Time         `json:"ts"`
	Op        string            `json:"op"`
	User      string            `json:"user,omitempty"`
	RunID     string            `json:"run,omitempty"`
	Result    string            `json:"result"` // success | failure
	Meta      map[string]string `json:"meta,omitempty"`
}

// Audit logs entry at info level and appends it as one JSON line to the audit log.
func (l *Logger) Audit(entry AuditEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.Timestamp = entry.Timestamp.UTC()
	if entry.User == "" {
		entry.User = currentUser()
	}

	l.Info("audit", "op", entry.Op, "run", entry.RunID, "result", entry.Result)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.auditW == nil {
		return
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = l.auditW.Write(append(line, '\n'))
}

func currentUser() string {
	for _, k := range []string{"USER", "USERNAME"} {
		if u := os.Getenv(k); u != "" {
			return u
		}
	}
	return "unknown"
}
