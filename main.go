package main

import (
	"context"
	"log"
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

	gw := server.NewGateway(cfg, sugar, nil)
	defer func() {
		if err := gw.Close(); err != nil {
			sugar.Warnw("Error closing gateway resources", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, gw.HTTPServer(cfg.Addr()), sugar); err != nil {
		sugar.Errorw("Weather gateway stopped", "error", err)
		os.Exit(1)
	}
}
