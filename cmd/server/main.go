// Command server runs the HTTP API: health checks and the admin-only spell
// reference hydration endpoint.
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/grimoire-backend/internal/app"
	"github.com/heartmarshall/grimoire-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunServer(ctx, cfg, logger); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}
