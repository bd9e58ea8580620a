package display

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakhrymubarak/weather-gateway/internal/client"
	"github.com/fakhrymubarak/weather-gateway/internal/model"
)

type fakeFetcher struct {
	calls  atomic.Int64
	result client.Result
	// during runs inside Fetch, before the result is returned.
	during func()
}

func (f *fakeFetcher) Fetch(ctx context.Context, city string) client.Result {
	f.calls.Add(1)
	if f.during != nil {
		f.during()
	}
	return f.result
}

func TestSession_StartsIdle(t *testing.T) {
	s := NewSession(&fakeFetcher{})
	snap := s.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.False(t, s.Loading())
	assert.Nil(t, snap.Weather)
	assert.Empty(t, snap.Error)
}

func TestSession_BlankCityNeverFetches(t *testing.T) {
	for _, city := range []string{"", "   ", "\t\n"} {
		f := &fakeFetcher{}
		s := NewSession(f)

		s.Submit(context.Background(), city)

		snap := s.Snapshot()
		assert.Equal(t, StateError, snap.State)
		assert.Equal(t, MsgEnterCity, snap.Error)
		assert.Zero(t, f.calls.Load())
	}
}

func TestSession_SuccessClearsLoading(t *testing.T) {
	w := &model.CurrentWeather{Name: "London"}
	f := &fakeFetcher{result: client.Ok(w)}
	s := NewSession(f)

	var loadingDuring bool
	f.during = func() { loadingDuring = s.Loading() }

	s.Submit(context.Background(), "London")

	assert.True(t, loadingDuring, "session reports loading while the fetch is in flight")
	snap := s.Snapshot()
	assert.Equal(t, StateSuccess, snap.State)
	assert.False(t, snap.Loading())
	assert.Same(t, w, snap.Weather)
	assert.Empty(t, snap.Error)
}

func TestSession_ErrorClearsLoading(t *testing.T) {
	f := &fakeFetcher{result: client.Err("City not found.")}
	s := NewSession(f)

	s.Submit(context.Background(), "Atlantis")

	snap := s.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.False(t, s.Loading())
	assert.Equal(t, "City not found.", snap.Error)
	assert.Nil(t, snap.Weather)
}

func TestSession_SubmitReplacesPreviousResult(t *testing.T) {
	f := &fakeFetcher{result: client.Ok(&model.CurrentWeather{Name: "London"})}
	s := NewSession(f)
	s.Submit(context.Background(), "London")
	require.Equal(t, StateSuccess, s.Snapshot().State)

	var during Snapshot
	f.result = client.Err("City not found.")
	f.during = func() { during = s.Snapshot() }
	s.Submit(context.Background(), "Atlantis")

	assert.Nil(t, during.Weather, "previous result is cleared when a new submit starts")
	assert.Empty(t, during.Error)
	assert.Equal(t, "City not found.", s.Snapshot().Error)
	assert.Nil(t, s.Snapshot().Weather)

	s.Submit(context.Background(), " ")
	assert.Equal(t, MsgEnterCity, s.Snapshot().Error)
	assert.Equal(t, int64(2), f.calls.Load())
}

func TestSession_InvalidResultShowsUnknownFailure(t *testing.T) {
	s := NewSession(&fakeFetcher{})
	s.Submit(context.Background(), "London")
	assert.Equal(t, client.MsgUnknownFailure, s.Snapshot().Error)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "success", StateSuccess.String())
	assert.Equal(t, "error", StateError.String())
}
