package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/limepath/pathsys/internal/config"
	"github.com/limepath/pathsys/internal/container"
	"github.com/limepath/pathsys/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting PathSys",
		zap.Int("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Path))

	app, err := container.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to build container", zap.Error(err))
	}

	// Cancel the root context on SIGINT/SIGTERM; the container shuts
	// the HTTP server down gracefully when it fires.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
	app.Stop()

	logger.Info("Server exited")
}
