package diagnostics

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-gateway/internal/config"
)

// StreamAdder is the part of the Redis client the stream recorder uses.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redisv9.XAddArgs) *redisv9.StringCmd
}

// StreamRecorder appends events to a capped Redis stream so operators can
// inspect recent upstream failures.
type StreamRecorder struct {
	client StreamAdder
	stream string
	maxLen int64
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewStreamRecorder(client StreamAdder, stream string, maxLen int64, logger *zap.SugaredLogger) *StreamRecorder {
	return &StreamRecorder{
		client: client,
		stream: stream,
		maxLen: maxLen,
		logger: logger,
		now:    time.Now,
	}
}

// NewRedisClient opens a client for the diagnostics sink.
func NewRedisClient(cfg config.DiagnosticsConfig) *redisv9.Client {
	return redisv9.NewClient(&redisv9.Options{
		Addr: cfg.RedisAddr,
	})
}

func (r *StreamRecorder) Record(ctx context.Context, ev Event) {
	values := map[string]any{
		"message": ev.Message,
		"time":    r.now().UTC().Format(time.RFC3339Nano),
	}
	for k, v := range ev.Fields {
		values[k] = fmt.Sprint(v)
	}

	// The client may already be gone; the event must still be written.
	ctx = context.WithoutCancel(ctx)
	err := r.client.XAdd(ctx, &redisv9.XAddArgs{
		Stream: r.stream,
		MaxLen: r.maxLen,
		Approx: true,
		Values: values,
	}).Err()
	if err != nil {
		r.logger.Warnw("Could not write diagnostic event to stream", "stream", r.stream, "error", err)
	}
}
