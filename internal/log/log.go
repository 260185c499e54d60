package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// LoggerConfig is the small set of options the CLI exposes.
type LoggerConfig struct {
	Version string

	// If Out is nil, stderr is used so that token output on stdout stays clean.
	Out io.Writer

	Level slog.Level
	JSON  bool
}

// NewLogger creates a configured *slog.Logger.
func NewLogger(cfg LoggerConfig) *slog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}
	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler).With(slog.String("version", cfg.Version))
}

type nopHandler struct{}

func (n *nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (n *nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (n *nopHandler) WithAttrs(attrs []slog.Attr) slog.Handler  { return n }
func (n *nopHandler) WithGroup(name string) slog.Handler        { return n }

// NewNopLogger returns a logger that discards all log events.
func NewNopLogger() *slog.Logger {
	return slog.New(&nopHandler{})
}

// OrNop returns lg, or a discarding logger when lg is nil.
func OrNop(lg *slog.Logger) *slog.Logger {
	if lg == nil {
		return NewNopLogger()
	}
	return lg
}

var _ slog.Handler = (*nopHandler)(nil)

///////////////////////////////////////////////////////////////////////////////
// Test handler
///////////////////////////////////////////////////////////////////////////////

// LoggedEntry is one captured log record.
type LoggedEntry struct {
	Level slog.Level
	Msg   string
	Attrs map[string]any
}

// TestHandler captures structured entries for assertions.
type TestHandler struct {
	mu      sync.Mutex
	entries []LoggedEntry
}

func (h *TestHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *TestHandler) Handle(_ context.Context, r slog.Record) error {
	e := LoggedEntry{Level: r.Level, Msg: r.Message, Attrs: map[string]any{}}
	r.Attrs(func(a slog.Attr) bool {
		e.Attrs[a.Key] = a.Value.Any()
		return true
	})
	h.mu.Lock()
	h.entries = append(h.entries, e)
	h.mu.Unlock()
	return nil
}

func (h *TestHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *TestHandler) WithGroup(_ string) slog.Handler      { return h }

// Entries returns a copy of the captured entries.
func (h *TestHandler) Entries() []LoggedEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]LoggedEntry(nil), h.entries...)
}

// Find returns the captured entries matching pred.
func (h *TestHandler) Find(pred func(LoggedEntry) bool) []LoggedEntry {
	var out []LoggedEntry
	for _, e := range h.Entries() {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// NewTestLogger returns a logger backed by a capturing TestHandler.
func NewTestLogger() (*slog.Logger, *TestHandler) {
	th := &TestHandler{}
	return slog.New(th), th
}

var _ slog.Handler = (*TestHandler)(nil)
