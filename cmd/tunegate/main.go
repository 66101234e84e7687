package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tunegate/tunegate/core/config"
	"github.com/tunegate/tunegate/core/logger"
	"github.com/tunegate/tunegate/internal/bot"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := logger.InitLogger(cfg); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() {
		_ = logger.Shutdown()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := bot.New(cfg)
	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.L.Error("bot stopped",
			slog.String("component", "app"),
			slog.String("err", err.Error()),
		)
		os.Exit(1)
	}
}
