// Package diagnostics records server-side events for failed weather lookups.
package diagnostics

import (
	"context"

	"go.uber.org/zap"
)

// Event is a single diagnostic entry. Fields carry context such as the city,
// the upstream status and the upstream response body.
type Event struct {
	Message string
	Fields  map[string]any
}

// Recorder records diagnostic events. Implementations must not fail the
// request they are called from.
type Recorder interface {
	Record(ctx context.Context, ev Event)
}

// LogRecorder writes events as error-level log entries.
type LogRecorder struct {
	logger *zap.SugaredLogger
}

func NewLogRecorder(logger *zap.SugaredLogger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

func (r *LogRecorder) Record(_ context.Context, ev Event) {
	kv := make([]any, 0, len(ev.Fields)*2)
	for k, v := range ev.Fields {
		kv = append(kv, k, v)
	}
	r.logger.Errorw(ev.Message, kv...)
}

// Multi fans an event out to every recorder in order.
type Multi []Recorder

func (m Multi) Record(ctx context.Context, ev Event) {
	for _, r := range m {
		r.Record(ctx, ev)
	}
}
