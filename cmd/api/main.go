package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ewilliams-labs/mashup/internal/app"
	"github.com/ewilliams-labs/mashup/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("FATAL: load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.NewLogger(os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("FATAL: build app", "error", err)
		os.Exit(1)
	}

	if err := a.Serve(ctx); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
