package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/common-nighthawk/go-figure"

	"backoffice-gateway/internal/app"
	"backoffice-gateway/internal/config"
	"backoffice-gateway/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(logger.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)))

	if cfg.LogFormat != "json" {
		figure.NewFigure("backoffice", "cybermedium", true).Print()
		fmt.Println()
	}

	application, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
