package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "serenity"
	serviceVersion = "1.0.0"
)

// Handler godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Router /health [get]
func Handler(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Status:  "healthy",
		Service: serviceName,
		Version: serviceVersion,
	})
}

// responds with pong for liveness probes
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{Message: "pong"})
}
