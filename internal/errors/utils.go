package errors

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// analyzes an error and returns its category, status and sanitized message
func classifyError(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{CategoryUnknown, http.StatusInternalServerError, ""}
	}

	isProduction := gin.Mode() == gin.ReleaseMode

	// remote service answered with an error status
	var coder StatusCoder
	if errors.As(err, &coder) && coder.StatusCode() >= 400 {
		return ErrorInfo{
			category:  CategoryUpstream,
			status:    coder.StatusCode(),
			sanitized: ternary(isProduction, "upstream request failed", err.Error()),
		}
	}

	// context errors
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorInfo{
			category:  CategoryTimeout,
			status:    http.StatusServiceUnavailable,
			sanitized: ternary(isProduction, "request timed out", err.Error()),
		}
	}

	if errors.Is(err, context.Canceled) {
		return ErrorInfo{
			category:  CategoryTimeout,
			status:    http.StatusServiceUnavailable,
			sanitized: ternary(isProduction, "request canceled", err.Error()),
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		category := CategoryNetwork
		if netErr.Timeout() {
			category = CategoryTimeout
		}

		return ErrorInfo{
			category:  category,
			status:    http.StatusServiceUnavailable,
			sanitized: ternary(isProduction, "connection error occurred", err.Error()),
		}
	}

	// fallback to string matching for unknown error types
	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline") {
		return ErrorInfo{
			category:  CategoryTimeout,
			status:    http.StatusServiceUnavailable,
			sanitized: ternary(isProduction, "request timed out", err.Error()),
		}
	}

	if strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "network") ||
		strings.Contains(errMsg, "dial") {
		return ErrorInfo{
			category:  CategoryNetwork,
			status:    http.StatusServiceUnavailable,
			sanitized: ternary(isProduction, "connection error occurred", err.Error()),
		}
	}

	return ErrorInfo{
		category:  CategoryUnknown,
		status:    http.StatusInternalServerError,
		sanitized: ternary(isProduction, "an error occurred", err.Error()),
	}
}

// sanitizes error messages for production
func sanitizeError(err error) string {
	return classifyError(err).sanitized
}

// ternary helper for cleaner conditional assignment
func ternary(condition bool, trueVal, falseVal string) string {
	if condition {
		return trueVal
	}

	return falseVal
}
