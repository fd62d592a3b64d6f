// Package nexusflow provides the NexusFlow subject type.
package nexusflow

import (
	"io"
	"log/slog"
)

// NexusFlow is the subject exercised by the self-check suite.
// The zero value is ready to use.
type NexusFlow struct {
	log *slog.Logger
}

// Option configures a NexusFlow at construction time.
type Option func(*NexusFlow)

// WithLogger sets the logger used for debug output. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(n *NexusFlow) {
		if l != nil {
			n.log = l
		}
	}
}

// New returns a NexusFlow. Construction never fails.
func New(opts ...Option) *NexusFlow {
	n := &NexusFlow{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Run invokes the flow and reports whether it succeeded. It is safe for
// concurrent use and always returns true.
func (n *NexusFlow) Run() bool {
	n.logger().Debug("nexusflow run")
	return true
}

func (n *NexusFlow) logger() *slog.Logger {
	if n == nil || n.log == nil {
		return discard
	}
	return n.log
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))
