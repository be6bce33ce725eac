// Package main - Entry point for the fincalc HTTP server
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"fincalc/api"
	"fincalc/core/tax"
	"fincalc/internal/config"
	"fincalc/internal/logging"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fincalc-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", os.Getenv("FINCALC_CONFIG"), "config file (JSON or YAML)")
	addr := flag.String("addr", "", "listen address (overrides config)")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before configuration")
	flag.Parse()

	// A missing .env is normal outside development
	envErr := godotenv.Load(*envFile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	defer logging.Sync()

	if envErr != nil && !os.IsNotExist(envErr) {
		logging.Warn("Failed to load env file", zap.String("path", *envFile), zap.Error(envErr))
	}

	tables, err := tax.NewDefaultRegistry(cfg.Tax.TablesDir)
	if err != nil {
		return err
	}
	logging.Info("Tax tables loaded", zap.Int("count", len(tables.List())), zap.String("dir", cfg.Tax.TablesDir))

	apiServer, err := api.NewServer(cfg, tables, version)
	if err != nil {
		return err
	}
	defer apiServer.Close()

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      apiServer,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info("Server listening", zap.String("addr", cfg.Server.Addr), zap.String("version", version))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		logging.Info("Shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logging.Error("Error during server shutdown", zap.Error(err))
		return err
	}

	logging.Info("Server exited")
	return nil
}
