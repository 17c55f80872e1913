package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"orcamento/internal/backend"
	"orcamento/internal/cli"
	"orcamento/internal/config"
	apphttp "orcamento/internal/http"
	"orcamento/internal/identity"
	"orcamento/internal/ledger"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", backendCfg.Type)
		os.Exit(1)
	}

	tokens, err := config.ParseOwnerTokens(cfg.OwnerTokens)
	if err != nil {
		logger.Error("Invalid owner token configuration", "error", err)
		os.Exit(1)
	}

	svc := ledger.NewService(result.Store, result.Events)
	ids := identity.NewStaticProvider(tokens)

	srv := apphttp.NewServer(":"+cfg.Port, svc, ids)
	if err := srv.TrustProxies(cfg.TrustedProxyList()); err != nil {
		logger.Error("Invalid trusted proxy configuration", "error", err)
		os.Exit(1)
	}
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	logger.Info("Starting orcamento server",
		"port", cfg.Port,
		"backend", backendCfg.Type,
		"owners", len(tokens))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
