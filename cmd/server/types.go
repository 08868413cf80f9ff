package main

import (
	"codeberg.org/serenity/server/internal/auth"
	"codeberg.org/serenity/server/internal/config"
	"codeberg.org/serenity/server/internal/upstream"
	"github.com/gin-gonic/gin"
)

// holds all dependencies and state for the API server
type Server struct {
	config   *config.Config
	verifier auth.Verifier
	upstream *upstream.Client
	router   *gin.Engine
}
