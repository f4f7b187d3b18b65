package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/do"

	"imagegw/internal/infra"
	"imagegw/internal/inject"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	injector := inject.Setup(cfg, logger)
	server, err := do.Invoke[*infra.HTTPServer](injector)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build service")
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("default_model", cfg.DefaultModel).
			Int("api_keys", len(cfg.APIKeys)).
			Msgf("API listening on %s", server.Addr())
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	if err := injector.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("failed to release services")
	}
	logger.Info().Msg("server stopped")
}
