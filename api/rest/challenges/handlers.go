package challenges

import (
	stderrors "errors"
	"net/http"

	"codeberg.org/serenity/server/api/rest/render"
	"codeberg.org/serenity/server/internal/errors"
	"codeberg.org/serenity/server/internal/profile"
	"codeberg.org/serenity/server/internal/upstream"
	"github.com/gin-gonic/gin"
)

// call performed by a proxying controller
type proxyFunc func(c *gin.Context, rawQuery, authorization string) (*upstream.Response, error)

// runs call with the caller's query string and token, leaving its outcome for the renderer
func proxy(call proxyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := call(c, c.Request.URL.RawQuery, c.GetHeader("Authorization"))
		if err != nil {
			render.SetError(c, err)
			return
		}

		render.SetResponse(c, resp)
	}
}

// ActiveChallenges godoc
// @Summary List active challenges
// @Description Proxies the active challenge listing; query parameters are forwarded untouched
// @Tags challenges
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object
// @Failure 401 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /getActiveChallenges [get]
func ActiveChallenges(api API) gin.HandlerFunc {
	return proxy(func(c *gin.Context, rawQuery, authorization string) (*upstream.Response, error) {
		return api.ActiveChallenges(c.Request.Context(), rawQuery, authorization)
	})
}

// Challenge godoc
// @Summary Get challenge details
// @Tags challenges
// @Produce json
// @Security BearerAuth
// @Param challengeId path string true "Challenge ID"
// @Success 200 {object} object
// @Failure 401 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /develop/challenges/{challengeId} [get]
func Challenge(api API) gin.HandlerFunc {
	return proxy(func(c *gin.Context, rawQuery, authorization string) (*upstream.Response, error) {
		return api.Challenge(c.Request.Context(), c.Param("challengeId"), rawQuery, authorization)
	})
}

// Checkpoints godoc
// @Summary Get challenge checkpoints
// @Description Returns an empty placeholder checkpoint list
// @Tags challenges
// @Produce json
// @Param challengeId path string true "Challenge ID"
// @Success 200 {object} CheckpointsResponse
// @Router /develop/challenges/checkpoint/{challengeId} [get]
func Checkpoints() gin.HandlerFunc {
	return func(c *gin.Context) {
		render.SetResult(c, http.StatusOK, CheckpointsResponse{
			ChallengeID: c.Param("challengeId"),
			Checkpoints: []Checkpoint{},
		})
	}
}

// Results godoc
// @Summary Get challenge results
// @Tags challenges
// @Produce json
// @Param challengeId path string true "Challenge ID"
// @Success 200 {object} object
// @Failure 503 {object} errors.ErrorResponse
// @Router /develop/challenges/result/{challengeId} [get]
func Results(api API) gin.HandlerFunc {
	return proxy(func(c *gin.Context, rawQuery, authorization string) (*upstream.Response, error) {
		return api.Results(c.Request.Context(), c.Param("challengeId"), rawQuery, authorization)
	})
}

// Register godoc
// @Summary Register for a challenge
// @Tags challenges
// @Produce json
// @Security BearerAuth
// @Param challengeId path string true "Challenge ID"
// @Success 200 {object} object
// @Failure 401 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /challenges/{challengeId}/register [post]
func Register(api API) gin.HandlerFunc {
	return proxy(func(c *gin.Context, rawQuery, authorization string) (*upstream.Response, error) {
		return api.Register(c.Request.Context(), c.Param("challengeId"), rawQuery, authorization)
	})
}

// Documents godoc
// @Summary List challenge documents
// @Tags challenges
// @Produce json
// @Param challengeId path string true "Challenge ID"
// @Success 200 {object} object
// @Failure 503 {object} errors.ErrorResponse
// @Router /challenges/{challengeId}/documents [get]
func Documents(api API) gin.HandlerFunc {
	return proxy(func(c *gin.Context, rawQuery, authorization string) (*upstream.Response, error) {
		return api.Documents(c.Request.Context(), c.Param("challengeId"), rawQuery, authorization)
	})
}

// Upload godoc
// @Summary Submit a file to a challenge
// @Description Streams the multipart "file" field to the platform together with the caller's handle
// @Tags challenges
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param challengeId path string true "Challenge ID"
// @Param file formData file true "Submission file"
// @Success 200 {object} object
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /develop/challenges/{challengeId}/upload [post]
func Upload(api API, maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		header, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case stderrors.As(err, &tooLarge):
				errors.PayloadTooLarge(c, "submission file too large")
			case stderrors.Is(err, http.ErrMissingFile):
				errors.BadRequest(c, "file is required", nil)
			default:
				errors.BadRequest(c, "invalid multipart form", err)
			}

			return
		}

		file, err := header.Open()
		if err != nil {
			errors.InternalError(c, "failed to read submission file", err)
			return
		}
		defer file.Close() //nolint:errcheck

		upload := upstream.Upload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     file,
		}

		if user, ok := profile.GetUser(c); ok {
			upload.Handle = user.Handle
		}

		resp, err := api.SubmitFile(c.Request.Context(), c.Param("challengeId"), c.Request.URL.RawQuery, c.GetHeader("Authorization"), upload)
		if err != nil {
			render.SetError(c, err)
			return
		}

		render.SetResponse(c, resp)
	}
}

// Terms godoc
// @Summary Get challenge terms
// @Tags challenges
// @Produce json
// @Param challengeId path string true "Challenge ID"
// @Success 200 {object} object
// @Failure 503 {object} errors.ErrorResponse
// @Router /terms/{challengeId} [get]
func Terms(api API) gin.HandlerFunc {
	return proxy(func(c *gin.Context, rawQuery, authorization string) (*upstream.Response, error) {
		return api.Terms(c.Request.Context(), c.Param("challengeId"), rawQuery, authorization)
	})
}

// FileURL godoc
// @Summary Get a challenge file download URL
// @Tags challenges
// @Produce json
// @Param challengeId path string true "Challenge ID"
// @Param fileId path string true "File ID"
// @Success 200 {object} object
// @Failure 503 {object} errors.ErrorResponse
// @Router /challenges/{challengeId}/files/{fileId}/download [get]
func FileURL(api API) gin.HandlerFunc {
	return proxy(func(c *gin.Context, rawQuery, authorization string) (*upstream.Response, error) {
		return api.ChallengeFileURL(c.Request.Context(), c.Param("challengeId"), c.Param("fileId"), rawQuery, authorization)
	})
}

// SubmissionFileURL godoc
// @Summary Get a submission file download URL
// @Tags challenges
// @Produce json
// @Param challengeId path string true "Challenge ID"
// @Param submissionId path string true "Submission ID"
// @Param fileId path string true "File ID"
// @Success 200 {object} object
// @Failure 503 {object} errors.ErrorResponse
// @Router /challenges/{challengeId}/submissions/{submissionId}/files/{fileId}/download [get]
func SubmissionFileURL(api API) gin.HandlerFunc {
	return proxy(func(c *gin.Context, rawQuery, authorization string) (*upstream.Response, error) {
		return api.SubmissionFileURL(c.Request.Context(),
			c.Param("challengeId"), c.Param("submissionId"), c.Param("fileId"), rawQuery, authorization)
	})
}
