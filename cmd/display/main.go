// Command display serves the browser UI for the weather gateway.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fakhrymubarak/weather-gateway/internal/config"
	"github.com/fakhrymubarak/weather-gateway/internal/logger"
	"github.com/fakhrymubarak/weather-gateway/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl := logger.New(cfg.Log)
	defer func() { _ = zl.Sync() }()
	sugar := zl.Sugar()

	// The gateway has its own upstream timeout; leave it room to answer.
	httpClient := &http.Client{Timeout: cfg.OpenWeatherMap.Timeout + cfg.Server.WriteTimeout}
	h := server.NewDisplay(cfg, sugar, httpClient)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sugar.Infow("Display client using gateway", "url", cfg.Display.GatewayURL)
	if err := server.Run(ctx, server.NewHTTPServer(cfg.DisplayAddr(), h, cfg.Server), sugar); err != nil {
		sugar.Errorw("Display client stopped", "error", err)
		os.Exit(1)
	}
}
