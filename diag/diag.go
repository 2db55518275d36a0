// Package diag records failures that end a run in an append-only
// diagnostics log, so they survive after the console window is gone.
package diag

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"sync"
)

// DefaultPath is relative to the working directory.
const DefaultPath = "exceptions.log"

// Reporter accepts failures for the diagnostics log.
type Reporter interface {
	Report(err error)
}

// Sink writes entries to an open diagnostics log. The zero value and a nil
// *Sink discard everything.
type Sink struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	logger *slog.Logger
}

// Open appends to the log at path, creating it if needed. runID is attached
// to every entry.
func Open(path, runID string) (*Sink, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open diagnostics log: %w", err)
	}
	s := New(file, runID)
	s.closer = file
	return s, nil
}

// New writes entries to w.
func New(w io.Writer, runID string) *Sink {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelError})
	logger := slog.New(handler)
	if runID != "" {
		logger = logger.With("run", runID)
	}
	return &Sink{w: w, logger: logger}
}

// Report appends a timestamped entry with the whole error chain, followed by
// a blank line.
func (s *Sink) Report(err error) {
	if s == nil || s.logger == nil || err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Error("run failed", "err", err.Error(), "chain", chain(err))
	_, _ = io.WriteString(s.w, "\n")
}

// Recover records a panic with its stack and panics again. It must be
// deferred directly.
func (s *Sink) Recover() {
	v := recover()
	if v == nil {
		return
	}
	if s != nil && s.logger != nil {
		s.mu.Lock()
		s.logger.Error("panic", "value", fmt.Sprint(v), "stack", string(debug.Stack()))
		_, _ = io.WriteString(s.w, "\n")
		s.mu.Unlock()
	}
	panic(v)
}

// Close releases the log file.
func (s *Sink) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

func chain(err error) string {
	var parts []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		parts = append(parts, fmt.Sprintf("%T", e))
	}
	return strings.Join(parts, " <- ")
}
