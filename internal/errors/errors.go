package errors

import (
	"net/http"

	"codeberg.org/serenity/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// Error Handling Guidelines:
//
// For HTTP handlers and middleware:
//   - Use errors.Unauthorized(), errors.BadRequest(), etc.
//     These functions write the JSON response; middleware must also call c.Abort()
//   - Controllers that proxy upstream hand their error to the renderer instead
//   - Never call both logger.ErrorErr() and errors.InternalError() for the same error
//
// For services/clients/internal packages:
//   - Return wrapped errors with context using fmt.Errorf("context: %w", err)
//   - Let the caller (handler) decide how to log and respond
//   - Do not log errors in non-handler code (avoid double logging)

// returns a 401 unauthorized error
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}

	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   CodeUnauthorized,
		Message: message,
	})
}

// returns a 404 not found error
func NotFound(c *gin.Context, resource string) {
	message := "resource not found"

	if resource != "" {
		message = resource + " not found"
	}

	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:   CodeNotFound,
		Message: message,
	})
}

// returns a 400 bad request error
func BadRequest(c *gin.Context, message string, err error) {
	if message == "" {
		message = "invalid request"
	}

	response := ErrorResponse{
		Error:   CodeBadRequest,
		Message: message,
	}

	if err != nil {
		response.Details = sanitizeError(err)
	}

	c.JSON(http.StatusBadRequest, response)
}

// returns a 413 error for oversized request bodies
func PayloadTooLarge(c *gin.Context, message string) {
	if message == "" {
		message = "request body too large"
	}

	c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
		Error:   CodePayloadTooLarge,
		Message: message,
	})
}

// returns a 429 too many requests error
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "too many requests"
	}

	c.JSON(http.StatusTooManyRequests, ErrorResponse{
		Error:   CodeTooManyRequests,
		Message: message,
	})
}

// returns a 503 service unavailable error
func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "service unavailable"
	}

	c.JSON(http.StatusServiceUnavailable, ErrorResponse{
		Error:   CodeServiceUnavailable,
		Message: message,
	})
}

// returns a 500 internal server error
func InternalError(c *gin.Context, message string, err error) {
	if message == "" {
		message = "an error occurred"
	}

	// log full error server-side with context
	logger.FromContext(c.Request.Context()).Error(message,
		"error", err,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   CodeServerError,
		Message: message,
		Details: sanitizeError(err),
	})
}

// writes the response matching the error's classification
func FromError(c *gin.Context, err error) {
	info := classifyError(err)

	switch info.category {
	case CategoryUpstream:
		logger.FromContext(c.Request.Context()).Warn("upstream returned error status",
			"error", err,
			"status", info.status,
		)

		c.JSON(info.status, ErrorResponse{
			Error:   CodeUpstreamError,
			Message: http.StatusText(info.status),
			Details: info.sanitized,
		})
	case CategoryTimeout, CategoryNetwork:
		logger.FromContext(c.Request.Context()).Warn("upstream unreachable", "error", err)

		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   CodeServiceUnavailable,
			Message: "upstream service unavailable",
			Details: info.sanitized,
		})
	default:
		InternalError(c, "an error occurred", err)
	}
}
