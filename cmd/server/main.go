// Package main provides the entry point for the position sizing risk engine:
// - Inverse-volatility targeting
// - Regime and cycle context multipliers
// - Fractional Kelly leverage
// - Hard position bounds with temporal smoothing
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/atlas-desktop/risk-engine/internal/api"
	"github.com/atlas-desktop/risk-engine/internal/config"
	"github.com/atlas-desktop/risk-engine/pkg/types"
)

func main() {
	host := flag.String("host", "localhost", "Server host")
	port := flag.Int("port", 8080, "Server port")
	configPath := flag.String("config", "configs/risk.yaml", "Risk profile config file")
	mode := flag.String("mode", "paper", "Operating mode selecting the default risk profile (research, paper, live)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	enableMetrics := flag.Bool("metrics", true, "Expose Prometheus metrics on /metrics")
	flag.Parse()

	logger := setupLogger(*logLevel)
	defer logger.Sync()

	logger.Info("Starting risk engine",
		zap.String("host", *host),
		zap.Int("port", *port),
		zap.String("config", *configPath),
		zap.String("mode", *mode),
	)

	profiles, err := config.Load(logger, *configPath)
	if err != nil {
		logger.Fatal("Failed to load risk profiles", zap.Error(err))
	}

	serverConfig := &types.ServerConfig{
		Host:          *host,
		Port:          *port,
		WebSocketPath: "/ws",
		ReadTimeout:   30 * time.Second,
		WriteTimeout:  30 * time.Second,
		EnableMetrics: *enableMetrics,
	}

	server, err := api.NewServer(logger, serverConfig, profiles, *mode)
	if err != nil {
		logger.Fatal("Failed to initialize API server", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Fatal("Server error", zap.Error(err))
	case sig := <-sigCh:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("Error during server shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func setupLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	return logger
}
