package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/guitar-shop/internal/app"
	"github.com/example/guitar-shop/internal/config"
	"github.com/example/guitar-shop/internal/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	// The backend expects prices as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	cfg, envLoaded := config.Load(".env")

	log, err := logger.New(cfg.LogEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Debug("configuration loaded",
		zap.Bool("env_file", envLoaded),
		zap.String("api", cfg.APIBaseURL),
		zap.String("storage", cfg.StorageBackend),
		zap.String("profile", cfg.StorageProfile),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to start storefront", zap.Error(err))
		os.Exit(1)
	}

	err = run(ctx, a, os.Args[1:], os.Stdout)
	if cerr := a.Close(); cerr != nil {
		log.Warn("failed to close storefront", zap.Error(cerr))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
