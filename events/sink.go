package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Sink receives events after the state change they describe is committed.
type Sink interface {
	Emit(ctx context.Context, e Event) error
}

// LogSink writes the log form of each event through slog.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink returns a LogSink. A nil logger uses slog.Default().
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Emit logs e at Info.
func (s *LogSink) Emit(ctx context.Context, e Event) error {
	s.logger.InfoContext(ctx, e.String(), "event", e.Event)
	return nil
}

// Recorder keeps every emitted event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit appends e.
func (r *Recorder) Emit(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// MultiSink fans an event out to several sinks. Every sink is tried; the
// errors are joined.
type MultiSink []Sink

// Emit calls every sink in order.
func (m MultiSink) Emit(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
