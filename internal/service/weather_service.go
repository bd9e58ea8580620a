package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fakhrymubarak/weather-gateway/internal/diagnostics"
	"github.com/fakhrymubarak/weather-gateway/internal/model"
	"github.com/fakhrymubarak/weather-gateway/internal/repository"
)

// ErrorKind is the client-facing error taxonomy of the gateway.
type ErrorKind string

const (
	ConfigurationError ErrorKind = "configuration"
	UpstreamAuthError  ErrorKind = "upstream_auth"
	NotFoundError      ErrorKind = "not_found"
	UpstreamError      ErrorKind = "upstream"
	ConnectivityError  ErrorKind = "connectivity"
	UnexpectedError    ErrorKind = "unexpected"
)

const (
	MsgAPIKeyMissing  = "Server configuration error: API key missing."
	MsgInvalidAPIKey  = "Invalid API key for OpenWeatherMap."
	MsgCityNotFound   = "City not found."
	MsgFetchFailed    = "Failed to fetch weather data."
	MsgCannotConnect  = "Could not connect to the weather service."
	MsgUnexpectedFail = "An unexpected error occurred."
)

// GatewayError is a terminal failure for a request, ready to be written to
// the client as Status with body {"error": Message}.
type GatewayError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GatewayError) Unwrap() error { return e.Err }

// Response returns the JSON body for the error.
func (e *GatewayError) Response() model.ErrorResponse {
	return model.ErrorResponse{Error: e.Message}
}

type WeatherServiceInterface interface {
	GetWeather(ctx context.Context, city string) (model.WeatherResult, error)
}

type WeatherService struct {
	WeatherRepo repository.WeatherRepository
	Recorder    diagnostics.Recorder
}

func NewWeatherService(repo repository.WeatherRepository, recorder diagnostics.Recorder) *WeatherService {
	return &WeatherService{
		WeatherRepo: repo,
		Recorder:    recorder,
	}
}

// GetWeather returns the provider payload for city unchanged, or a
// *GatewayError. Every failure is recorded before returning.
func (s *WeatherService) GetWeather(ctx context.Context, city string) (model.WeatherResult, error) {
	resp, err := s.WeatherRepo.FetchCurrent(ctx, city)
	if err != nil {
		return nil, s.callFailed(ctx, city, err)
	}

	if !resp.OK() {
		s.Recorder.Record(ctx, diagnostics.Event{
			Message: "OpenWeatherMap API request failed.",
			Fields: map[string]any{
				"city":          city,
				"status":        resp.StatusCode,
				"response_body": string(resp.Body),
			},
		})
		return nil, upstreamFailed(resp.StatusCode)
	}

	if !json.Valid(resp.Body) {
		s.Recorder.Record(ctx, diagnostics.Event{
			Message: "OpenWeatherMap API returned a malformed body.",
			Fields: map[string]any{
				"city":          city,
				"status":        resp.StatusCode,
				"response_body": string(resp.Body),
			},
		})
		return nil, &GatewayError{
			Kind:    UnexpectedError,
			Status:  http.StatusInternalServerError,
			Message: MsgUnexpectedFail,
			Err:     errors.New("upstream body is not valid JSON"),
		}
	}

	return model.WeatherResult(resp.Body), nil
}

func (s *WeatherService) callFailed(ctx context.Context, city string, err error) error {
	if errors.Is(err, repository.ErrAPIKeyMissing) {
		s.Recorder.Record(ctx, diagnostics.Event{Message: "OpenWeatherMap API key is not configured."})
		return &GatewayError{
			Kind:    ConfigurationError,
			Status:  http.StatusInternalServerError,
			Message: MsgAPIKeyMissing,
			Err:     err,
		}
	}

	var callErr *repository.CallError
	if errors.As(err, &callErr) && callErr.Kind == repository.KindConnectivity {
		s.Recorder.Record(ctx, diagnostics.Event{
			Message: "Could not connect to the OpenWeatherMap API.",
			Fields:  map[string]any{"city": city, "error_message": err.Error()},
		})
		return &GatewayError{
			Kind:    ConnectivityError,
			Status:  http.StatusServiceUnavailable,
			Message: MsgCannotConnect,
			Err:     err,
		}
	}

	s.Recorder.Record(ctx, diagnostics.Event{
		Message: "An unexpected error occurred while fetching weather data.",
		Fields:  map[string]any{"city": city, "error_message": err.Error()},
	})
	return &GatewayError{
		Kind:    UnexpectedError,
		Status:  http.StatusInternalServerError,
		Message: MsgUnexpectedFail,
		Err:     err,
	}
}

func upstreamFailed(status int) *GatewayError {
	switch status {
	case http.StatusUnauthorized:
		return &GatewayError{Kind: UpstreamAuthError, Status: http.StatusInternalServerError, Message: MsgInvalidAPIKey}
	case http.StatusNotFound:
		return &GatewayError{Kind: NotFoundError, Status: http.StatusNotFound, Message: MsgCityNotFound}
	default:
		return &GatewayError{Kind: UpstreamError, Status: status, Message: MsgFetchFailed}
	}
}
