// Package ratelimit throttles inbound requests per client IP.
package ratelimit

import (
	"fmt"
	"strings"

	"codeberg.org/serenity/server/internal/errors"
	"codeberg.org/serenity/server/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// returns a per-IP limiter for a formatted rate such as "300-M".
// an empty rate disables limiting.
func Middleware(formatted string) (gin.HandlerFunc, error) {
	formatted = strings.TrimSpace(formatted)
	if formatted == "" {
		return func(c *gin.Context) { c.Next() }, nil
	}

	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", formatted, err)
	}

	instance := limiter.New(memory.NewStore(), rate)

	return mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(limitReached),
		mgin.WithErrorHandler(storeFailed),
	), nil
}

func limitReached(c *gin.Context) {
	logger.FromContext(c.Request.Context()).Warn("rate limit exceeded",
		"ip", c.ClientIP(),
		"path", c.Request.URL.Path,
	)

	errors.TooManyRequests(c, "too many requests. please slow down.")
}

func storeFailed(c *gin.Context, err error) {
	errors.InternalError(c, "rate limiter unavailable", err)
}
