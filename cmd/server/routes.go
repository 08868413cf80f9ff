package main

import (
	"fmt"
	"time"

	"codeberg.org/serenity/server/api/rest/challenges"
	"codeberg.org/serenity/server/api/rest/health"
	"codeberg.org/serenity/server/internal/errors"
	"codeberg.org/serenity/server/internal/ratelimit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) error {
	router.Use(CORSMiddleware(server.config.CORSAllowedOrigins))

	router.NoRoute(func(c *gin.Context) {
		errors.NotFound(c, "route")
	})

	router.GET("/health", health.Handler)
	router.GET("/ping", health.PingHandler)

	limit, err := ratelimit.Middleware(server.config.RateLimit)
	if err != nil {
		return fmt.Errorf("failed to configure rate limit: %w", err)
	}

	api := router.Group("")
	api.Use(limit)

	challenges.RegisterRoutes(api, server.verifier, server.upstream, server.upstream, server.config.MaxUploadBytes)

	return nil
}

// any origin when none are listed, otherwise only the listed ones
func CORSMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}

	return cors.New(cfg)
}
