package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/serenity/server/internal/config"
	"codeberg.org/serenity/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// @title Serenity API
// @version 1.0
// @description Challenge gateway in front of the contest platform API
// @description
// @description Features:
// @description - Bearer token verification against the identity provider
// @description - Caller profile enrichment from the platform
// @description - Challenge listing, registration, documents and submissions

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT issued by the identity provider. Format: Bearer {token}

func main() {
	// load configuration from environment
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	logger.Init(cfg.Environment)
	logger.Info("starting serenity server", "environment", cfg.Environment)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)

		if len(cfg.CORSAllowedOrigins) == 0 {
			logger.Warn("CORS_ALLOWED_ORIGINS is empty, every origin is allowed")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := NewServer(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      srv.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15*time.Second + cfg.UpstreamTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.ErrorErr(err, "server forced to shutdown")
	}

	logger.Info("server stopped")
}
