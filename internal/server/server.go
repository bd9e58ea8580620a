package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-gateway/internal/client"
	"github.com/fakhrymubarak/weather-gateway/internal/config"
	"github.com/fakhrymubarak/weather-gateway/internal/diagnostics"
	"github.com/fakhrymubarak/weather-gateway/internal/display"
	"github.com/fakhrymubarak/weather-gateway/internal/handler"
	"github.com/fakhrymubarak/weather-gateway/internal/middleware"
	"github.com/fakhrymubarak/weather-gateway/internal/repository"
	"github.com/fakhrymubarak/weather-gateway/internal/service"
)

const shutdownTimeout = 30 * time.Second

// Server is the weather gateway HTTP server.
type Server struct {
	cfg     *config.Config
	mux     *http.ServeMux
	handler http.Handler
	logger  *zap.SugaredLogger
	closers []func() error
}

// NewGateway assembles the gateway from configuration. httpClient is used for
// provider calls and may be nil.
func NewGateway(cfg *config.Config, logger *zap.SugaredLogger, httpClient *http.Client) *Server {
	recorders := diagnostics.Multi{diagnostics.NewLogRecorder(logger)}
	var closers []func() error
	if cfg.Diagnostics.RedisAddr != "" {
		client := diagnostics.NewRedisClient(cfg.Diagnostics)
		recorders = append(recorders, diagnostics.NewStreamRecorder(client, cfg.Diagnostics.Stream, cfg.Diagnostics.MaxLen, logger))
		closers = append(closers, client.Close)
		logger.Infow("Diagnostics stream enabled", "addr", cfg.Diagnostics.RedisAddr, "stream", cfg.Diagnostics.Stream)
	}
	if cfg.OpenWeatherMap.APIKey == "" {
		logger.Warnw("OPENWEATHERMAP_API_KEY is not set; /weather will answer 500")
	}

	repo := repository.NewWeatherRepository(cfg.OpenWeatherMap, httpClient)
	svc := service.NewWeatherService(repo, recorders)
	s := New(cfg, handler.NewWeatherHandler(svc, logger), logger)
	s.closers = closers
	return s
}

// New wires routes and middleware around an existing weather handler.
func New(cfg *config.Config, weather *handler.WeatherHandler, logger *zap.SugaredLogger) *Server {
	s := &Server{cfg: cfg, mux: http.NewServeMux(), logger: logger}
	s.routes(weather)
	s.handler = middleware.Chain(s.mux,
		middleware.RequestLogger(logger),
		middleware.CORS(cfg.CORS.FrontendURL),
	)
	return s
}

func (s *Server) routes(weather *handler.WeatherHandler) {
	s.mux.HandleFunc("/weather", weather.HandleWeather)
	s.mux.HandleFunc("/healthz", s.handleHealth)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

// NewDisplay returns the display client's root handler, talking to the
// gateway at cfg.Display.GatewayURL.
func NewDisplay(cfg *config.Config, logger *zap.SugaredLogger, httpClient *http.Client) http.Handler {
	ui := display.NewHandler(client.New(cfg.Display.GatewayURL, httpClient), logger)
	return middleware.Chain(ui, middleware.RequestLogger(logger))
}

// Router returns the root handler including middleware.
func (s *Server) Router() http.Handler { return s.handler }

// HTTPServer returns an http.Server for addr using the configured timeouts.
func (s *Server) HTTPServer(addr string) *http.Server {
	return NewHTTPServer(addr, s.handler, s.cfg.Server)
}

// Close releases resources opened by NewGateway.
func (s *Server) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func NewHTTPServer(addr string, h http.Handler, cfg config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Run serves srv until ctx is done, then shuts it down gracefully.
func Run(ctx context.Context, srv *http.Server, logger *zap.SugaredLogger) error {
	serverErr := make(chan error, 1)
	go func() {
		logger.Infow("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Infow("Shutting down server", "addr", srv.Addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
