package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"

	"github.com/fakhrymubarak/weather-gateway/internal/config"
)

// ErrAPIKeyMissing is returned before any network call when no key is configured.
var ErrAPIKeyMissing = errors.New("API key missing")

// ErrorKind classifies a failed upstream call.
type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	// KindConnectivity covers dial failures, refused or reset connections,
	// DNS failures and timeouts.
	KindConnectivity
)

func (k ErrorKind) String() string {
	if k == KindConnectivity {
		return "connectivity"
	}
	return "unexpected"
}

// CallError is returned when the upstream call produced no HTTP response.
type CallError struct {
	Kind ErrorKind
	Err  error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s error calling weather provider: %v", e.Kind, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// UpstreamResponse is whatever the provider answered, success or not.
type UpstreamResponse struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the provider answered with a 2xx status.
func (r *UpstreamResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// WeatherRepository defines access to the provider's current weather endpoint
type WeatherRepository interface {
	FetchCurrent(ctx context.Context, city string) (*UpstreamResponse, error)
}

type weatherRepository struct {
	cfg        config.OpenWeatherMapConfig
	httpClient *http.Client
}

// NewWeatherRepository creates a repository for the configured provider.
// An optional http.Client replaces http.DefaultClient.
func NewWeatherRepository(cfg config.OpenWeatherMapConfig, httpClient ...*http.Client) WeatherRepository {
	client := http.DefaultClient
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &weatherRepository{
		cfg:        cfg,
		httpClient: client,
	}
}

// FetchCurrent issues a single GET for city. Any HTTP response is returned as
// an UpstreamResponse; a transport failure is returned as *CallError.
func (r *weatherRepository) FetchCurrent(ctx context.Context, city string) (*UpstreamResponse, error) {
	if r.cfg.APIKey == "" {
		return nil, ErrAPIKeyMissing
	}

	u, err := url.Parse(r.cfg.APIURL)
	if err != nil {
		return nil, &CallError{Kind: KindUnexpected, Err: fmt.Errorf("parse api url: %w", err)}
	}
	q := u.Query()
	q.Set("q", city)
	q.Set("appid", r.cfg.APIKey)
	q.Set("units", "metric")
	u.RawQuery = q.Encode()

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &CallError{Kind: KindUnexpected, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &CallError{Kind: classify(err), Err: err}
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &CallError{Kind: classify(err), Err: fmt.Errorf("read response body: %w", err)}
	}

	return &UpstreamResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

// classify decides whether err means the provider could not be reached.
func classify(err error) ErrorKind {
	// *url.Error itself satisfies net.Error, so look at what it wraps.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return KindConnectivity
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindConnectivity
	}
	return KindUnexpected
}
