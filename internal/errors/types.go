package errors

// represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`             // error code (e.g., "unauthorized", "not_found")
	Message string `json:"message"`           // user-friendly message
	Details string `json:"details,omitempty"` // optional details (sanitized in production)
}

// standard error codes
const (
	CodeUnauthorized       = "unauthorized"
	CodeNotFound           = "not_found"
	CodeServerError        = "server_error"
	CodeBadRequest         = "bad_request"
	CodeTooManyRequests    = "too_many_requests"
	CodePayloadTooLarge    = "payload_too_large"
	CodeServiceUnavailable = "service_unavailable"
	CodeUpstreamError      = "upstream_error"
)

// error categories for classification
const (
	CategoryNetwork  = "network"
	CategoryTimeout  = "timeout"
	CategoryUpstream = "upstream"
	CategoryUnknown  = "unknown"
)

// implemented by errors that carry an HTTP status from a remote service
type StatusCoder interface {
	StatusCode() int
}

type ErrorInfo struct {
	category  string
	status    int
	sanitized string
}
