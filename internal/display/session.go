// Package display is the browser-facing weather UI: a per-submit session
// state machine, the view model built from a gateway result, and the
// HTTP handler that renders them.
package display

import (
	"context"
	"strings"
	"sync"

	"github.com/fakhrymubarak/weather-gateway/internal/client"
	"github.com/fakhrymubarak/weather-gateway/internal/model"
)

const MsgEnterCity = "Please enter a city name."

type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Snapshot is a consistent copy of a session's state.
type Snapshot struct {
	State   State
	Weather *model.CurrentWeather
	Error   string
}

func (s Snapshot) Loading() bool { return s.State == StateLoading }

// Session holds the latest result or error of a display client. Each Submit
// replaces whatever the previous one produced; concurrent submits are not
// serialised, so the last response to arrive wins.
type Session struct {
	fetcher client.Fetcher

	mu      sync.Mutex
	state   State
	weather *model.CurrentWeather
	errMsg  string
}

func NewSession(f client.Fetcher) *Session {
	return &Session{fetcher: f}
}

// Submit looks up city. A blank city sets a validation error without
// calling the gateway.
func (s *Session) Submit(ctx context.Context, city string) {
	city = strings.TrimSpace(city)
	if city == "" {
		s.set(StateError, nil, MsgEnterCity)
		return
	}

	s.set(StateLoading, nil, "")
	res := s.fetcher.Fetch(ctx, city)

	if w, ok := res.Weather(); ok {
		s.set(StateSuccess, w, "")
		return
	}
	msg := client.MsgUnknownFailure
	if f, ok := res.Failure(); ok && f.Error != "" {
		msg = f.Error
	}
	s.set(StateError, nil, msg)
}

func (s *Session) set(state State, w *model.CurrentWeather, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.weather = w
	s.errMsg = errMsg
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{State: s.state, Weather: s.weather, Error: s.errMsg}
}

// Loading is true between a submit and its resolution.
func (s *Session) Loading() bool {
	return s.Snapshot().Loading()
}
