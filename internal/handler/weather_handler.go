package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-gateway/internal/model"
	"github.com/fakhrymubarak/weather-gateway/internal/service"
)

type WeatherHandler struct {
	WeatherService service.WeatherServiceInterface
	validate       *validator.Validate
	logger         *zap.SugaredLogger
}

func NewWeatherHandler(svc service.WeatherServiceInterface, logger *zap.SugaredLogger) *WeatherHandler {
	return &WeatherHandler{
		WeatherService: svc,
		validate:       newValidator(),
		logger:         logger,
	}
}

func (h *WeatherHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warnw("could not encode json", "error", err)
	}
}

// HandleWeather serves GET /weather?city=<name>.
func (h *WeatherHandler) HandleWeather(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		h.writeJSONResponse(w, http.StatusMethodNotAllowed, model.ErrorResponse{Error: "Method not allowed."})
		return
	}

	query := model.WeatherQuery{City: strings.TrimSpace(r.URL.Query().Get("city"))}
	if err := h.validate.Struct(query); err != nil {
		h.writeJSONResponse(w, http.StatusUnprocessableEntity, validationResponse(err))
		return
	}

	weather, err := h.WeatherService.GetWeather(r.Context(), query.City)
	if err != nil {
		var gwErr *service.GatewayError
		if !errors.As(err, &gwErr) {
			gwErr = &service.GatewayError{
				Kind:    service.UnexpectedError,
				Status:  http.StatusInternalServerError,
				Message: service.MsgUnexpectedFail,
				Err:     err,
			}
		}
		h.writeJSONResponse(w, gwErr.Status, gwErr.Response())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(weather); err != nil {
		h.logger.Warnw("could not write weather response", "city", query.City, "error", err)
	}
}
