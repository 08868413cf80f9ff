package main

import (
	"context"
	"fmt"

	"codeberg.org/serenity/server/internal/auth"
	"codeberg.org/serenity/server/internal/config"
	"codeberg.org/serenity/server/internal/logger"
	"codeberg.org/serenity/server/internal/upstream"
	"github.com/gin-gonic/gin"
)

// creates and configures a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	verifier, err := auth.NewVerifier(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	return newServer(cfg, verifier)
}

func newServer(cfg *config.Config, verifier auth.Verifier) (*Server, error) {
	client := upstream.New(cfg.TCAPIURL, cfg.UpstreamTimeout, cfg.UpstreamRateLimit)

	router := gin.New()

	// client IPs come from the peer address unless a trusted proxy forwarded the request
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	router.Use(gin.Recovery())
	router.Use(logger.Middleware())

	server := &Server{
		config:   cfg,
		verifier: verifier,
		upstream: client,
		router:   router,
	}

	if err := RegisterRoutes(router, server); err != nil {
		return nil, err
	}

	logger.Info("server initialized",
		"upstream", cfg.TCAPIURL,
		"upstream_timeout", cfg.UpstreamTimeout.String(),
		"rate_limit", cfg.RateLimit,
	)

	return server, nil
}
