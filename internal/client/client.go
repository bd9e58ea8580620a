// Package client calls the weather gateway on behalf of the display client.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/fakhrymubarak/weather-gateway/internal/model"
)

// MsgUnknownFailure is shown when the gateway could not be reached or sent
// something unreadable on success.
const MsgUnknownFailure = "An unknown error occurred while fetching data."

// Result is either Ok with the current weather, or Err with a displayable
// error. The zero value is not a valid Result.
type Result struct {
	weather *model.CurrentWeather
	failure *model.ErrorResponse
}

func Ok(w *model.CurrentWeather) Result { return Result{weather: w} }

func Err(message string) Result { return Result{failure: &model.ErrorResponse{Error: message}} }

// IsOk reports whether the result carries weather data.
func (r Result) IsOk() bool { return r.weather != nil }

// Weather returns the weather and true for an Ok result.
func (r Result) Weather() (*model.CurrentWeather, bool) { return r.weather, r.weather != nil }

// Failure returns the error body and true for an Err result.
func (r Result) Failure() (model.ErrorResponse, bool) {
	if r.failure == nil {
		return model.ErrorResponse{}, false
	}
	return *r.failure, true
}

// Fetcher is satisfied by Client; the display session depends on it.
type Fetcher interface {
	Fetch(ctx context.Context, city string) Result
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the gateway at baseURL, e.g. http://localhost:8080.
// A nil httpClient means http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Fetch asks the gateway for the weather in city. It never returns a Go
// error; every failure becomes an Err result with a message for the user.
func (c *Client) Fetch(ctx context.Context, city string) Result {
	endpoint := c.baseURL + "/weather?city=" + url.QueryEscape(city)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Err(MsgUnknownFailure)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Err(MsgUnknownFailure)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Err(MsgUnknownFailure)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody model.ErrorResponse
		if err := json.Unmarshal(body, &errBody); err == nil && errBody.Error != "" {
			return Err(errBody.Error)
		}
		return Err(fmt.Sprintf("Failed to fetch weather data: %s", http.StatusText(resp.StatusCode)))
	}

	var weather model.CurrentWeather
	if err := json.Unmarshal(body, &weather); err != nil {
		return Err(MsgUnknownFailure)
	}
	return Ok(&weather)
}
