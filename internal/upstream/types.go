package upstream

import (
	"encoding/json"
	"fmt"
	"io"
)

// describes one call to the contest-platform API
type Request struct {
	Method        string
	Path          string // escaped path relative to the base URL
	RawQuery      string
	Authorization string // forwarded verbatim when set
	ContentType   string
	Body          io.Reader
}

// a successful (2xx) upstream reply
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// returned when the upstream API answers with a non-success status
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s %s returned status %d", e.Method, e.Path, e.Status)
}

// StatusCode lets the error layer pass the upstream status through.
func (e *StatusError) StatusCode() int {
	return e.Status
}

// profile record served by /user/tcid/:sub
type UserRecord struct {
	UID    string
	Handle string
}

type userRecordPayload struct {
	UID    json.RawMessage `json:"uid"`
	Handle string          `json:"handle"`
}

// file content forwarded on submission upload
type Upload struct {
	FileName    string
	ContentType string
	Content     io.Reader
	Handle      string // enriched handle of the submitter, optional
}
