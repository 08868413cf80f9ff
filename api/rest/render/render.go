// Package render emits the response a controller left on the gin context.
package render

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"codeberg.org/serenity/server/internal/errors"
	"codeberg.org/serenity/server/internal/upstream"
	"github.com/gin-gonic/gin"
)

const (
	resultKey = "render_result"
	errorKey  = "render_error"
)

type result struct {
	status  int
	payload any
}

// stores a payload for the renderer. status 0 means 200.
func SetResult(c *gin.Context, status int, payload any) {
	if status == 0 {
		status = http.StatusOK
	}

	c.Set(resultKey, result{status: status, payload: payload})
}

// stores an upstream response as-is
func SetResponse(c *gin.Context, resp *upstream.Response) {
	if len(resp.Body) == 0 {
		SetResult(c, resp.StatusCode, gin.H{})
		return
	}

	SetResult(c, resp.StatusCode, resp.Body)
}

// stores an error for the renderer
func SetError(c *gin.Context, err error) {
	c.Set(errorKey, err)
}

// terminal handler writing the stored result or error exactly once
func JSON(c *gin.Context) {
	if c.Writer.Written() || c.IsAborted() {
		return
	}

	if value, ok := c.Get(errorKey); ok {
		if err, ok := value.(error); ok && err != nil {
			writeError(c, err)
			return
		}
	}

	value, _ := c.Get(resultKey)
	res, ok := value.(result)
	if !ok {
		errors.InternalError(c, "no result produced", nil)
		return
	}

	c.JSON(res.status, res.payload)
}

func writeError(c *gin.Context, err error) {
	var statusErr *upstream.StatusError
	if stderrors.As(err, &statusErr) && len(statusErr.Body) > 0 && json.Valid(statusErr.Body) {
		c.Data(statusErr.Status, "application/json; charset=utf-8", statusErr.Body)
		return
	}

	errors.FromError(c, err)
}
