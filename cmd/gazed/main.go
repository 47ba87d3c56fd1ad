package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/gazeweb/internal/infrastructure/config"
	"github.com/GriffinCanCode/gazeweb/internal/infrastructure/logging"
	"github.com/GriffinCanCode/gazeweb/internal/infrastructure/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gazed:", err)
		os.Exit(1)
	}
}

func run() error {
	envFile := flag.String("env-file", ".env", "dotenv file loaded before the environment is read")
	port := flag.String("port", "", "server port (overrides GAZE_SERVER_PORT)")
	host := flag.String("host", "", "server host (overrides GAZE_SERVER_HOST)")
	profile := flag.String("profile", "", "device tuning profile, TOML or YAML (overrides GAZE_PROFILE_PATH)")
	level := flag.String("log-level", "", "log level: debug, info, warn, error")
	dev := flag.Bool("dev", false, "development mode (console logs, debug level)")
	flag.Parse()

	// A missing .env is fine; variables may come from the environment.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", *envFile, err)
	}
	if *profile != "" {
		os.Setenv("GAZE_PROFILE_PATH", *profile)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}
	if *level != "" {
		cfg.Logging.Level = *level
	}

	logger, err := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to create server", zap.Error(err))
		return err
	}

	errChan := make(chan error, 1)
	go func() { errChan <- srv.Run() }()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down gracefully", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	case err := <-errChan:
		if err != nil {
			logger.Error("Server error", zap.Error(err))
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
