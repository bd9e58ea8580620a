package diagnostics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fakhrymubarak/weather-gateway/internal/config"
)

func observedLogger() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core).Sugar(), logs
}

func TestLogRecorder(t *testing.T) {
	logger, logs := observedLogger()
	rec := NewLogRecorder(logger)

	rec.Record(context.Background(), Event{
		Message: "OpenWeatherMap API request failed.",
		Fields:  map[string]any{"city": "London", "status": 500, "response_body": "oops"},
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "OpenWeatherMap API request failed.", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "London", ctx["city"])
	assert.EqualValues(t, 500, ctx["status"])
	assert.Equal(t, "oops", ctx["response_body"])
}

func TestStreamRecorder_AppendsToStream(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedisClient(config.DiagnosticsConfig{RedisAddr: mr.Addr()})
	defer client.Close()

	logger, logs := observedLogger()
	rec := NewStreamRecorder(client, "weather:diagnostics", 100, logger)
	rec.now = func() time.Time { return time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC) }

	rec.Record(context.Background(), Event{
		Message: "OpenWeatherMap API request failed.",
		Fields:  map[string]any{"city": "Atlantis", "status": 404, "response_body": `{"cod":"404"}`},
	})

	msgs, err := client.XRange(context.Background(), "weather:diagnostics", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "OpenWeatherMap API request failed.", msgs[0].Values["message"])
	assert.Equal(t, "Atlantis", msgs[0].Values["city"])
	assert.Equal(t, "404", msgs[0].Values["status"])
	assert.Equal(t, `{"cod":"404"}`, msgs[0].Values["response_body"])
	assert.Equal(t, "2026-10-14T12:00:00Z", msgs[0].Values["time"])
	assert.Zero(t, logs.Len())
}

func TestStreamRecorder_CancelledContextStillWrites(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedisClient(config.DiagnosticsConfig{RedisAddr: mr.Addr()})
	defer client.Close()

	logger, _ := observedLogger()
	rec := NewStreamRecorder(client, "diag", 10, logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec.Record(ctx, Event{Message: "Could not connect", Fields: map[string]any{"city": "Paris"}})

	n, err := client.XLen(context.Background(), "diag").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

type failingAdder struct{}

func (failingAdder) XAdd(ctx context.Context, a *redisv9.XAddArgs) *redisv9.StringCmd {
	cmd := redisv9.NewStringCmd(ctx)
	cmd.SetErr(errors.New("connection refused"))
	return cmd
}

func TestStreamRecorder_WriteFailureIsLogged(t *testing.T) {
	logger, logs := observedLogger()
	rec := NewStreamRecorder(failingAdder{}, "diag", 10, logger)

	assert.NotPanics(t, func() {
		rec.Record(context.Background(), Event{Message: "x"})
	})
	require.Equal(t, 1, logs.FilterMessage("Could not write diagnostic event to stream").Len())
}

type countingRecorder struct{ events []Event }

func (c *countingRecorder) Record(_ context.Context, ev Event) { c.events = append(c.events, ev) }

func TestMulti(t *testing.T) {
	a, b := &countingRecorder{}, &countingRecorder{}
	Multi{a, b}.Record(context.Background(), Event{Message: "m"})

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}
