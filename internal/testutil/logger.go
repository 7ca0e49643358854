// Package testutil provides helpers shared by package tests.
package testutil

import (
	"context"
	"log/slog"
	"sync"
	"testing"
)

// NewTestLogger returns a debug-level logger that writes to t.Log, so log
// lines only appear for failing tests or under -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	logger, _ := NewRecordingLogger(t)
	return logger
}

// NewRecordingLogger is NewTestLogger that also keeps every record, for
// tests that assert on what was logged.
func NewRecordingLogger(t testing.TB) (*slog.Logger, *LogRecorder) {
	t.Helper()
	rec := &LogRecorder{}
	text := slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(&recordingHandler{Handler: text, rec: rec}), rec
}

// LogRecorder collects log records. It is safe for concurrent use.
type LogRecorder struct {
	mu      sync.Mutex
	records []slog.Record
}

// Messages returns the messages logged at exactly level, in order.
func (r *LogRecorder) Messages(level slog.Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var msgs []string
	for _, rec := range r.records {
		if rec.Level == level {
			msgs = append(msgs, rec.Message)
		}
	}
	return msgs
}

type recordingHandler struct {
	slog.Handler
	rec *LogRecorder
}

func (h *recordingHandler) Handle(ctx context.Context, record slog.Record) error {
	h.rec.mu.Lock()
	h.rec.records = append(h.rec.records, record.Clone())
	h.rec.mu.Unlock()
	return h.Handler.Handle(ctx, record)
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &recordingHandler{Handler: h.Handler.WithAttrs(attrs), rec: h.rec}
}

func (h *recordingHandler) WithGroup(name string) slog.Handler {
	return &recordingHandler{Handler: h.Handler.WithGroup(name), rec: h.rec}
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
