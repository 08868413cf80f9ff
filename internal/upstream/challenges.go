package upstream

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escape(segments ...string) string {
	var b strings.Builder

	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}

	return b.String()
}

// lists currently active challenges; query is passed through untouched
func (c *Client) ActiveChallenges(ctx context.Context, rawQuery, authorization string) (*Response, error) {
	return c.Get(ctx, "/challenges/active", rawQuery, authorization)
}

func (c *Client) Challenge(ctx context.Context, challengeID, rawQuery, authorization string) (*Response, error) {
	return c.Get(ctx, "/develop/challenges"+escape(challengeID), rawQuery, authorization)
}

func (c *Client) Results(ctx context.Context, challengeID, rawQuery, authorization string) (*Response, error) {
	return c.Get(ctx, "/develop/challenges/result"+escape(challengeID), rawQuery, authorization)
}

// registers the token holder for the challenge
func (c *Client) Register(ctx context.Context, challengeID, rawQuery, authorization string) (*Response, error) {
	return c.Do(ctx, Request{
		Method:        http.MethodPost,
		Path:          "/challenges" + escape(challengeID, "register"),
		RawQuery:      rawQuery,
		Authorization: authorization,
	})
}

func (c *Client) Documents(ctx context.Context, challengeID, rawQuery, authorization string) (*Response, error) {
	return c.Get(ctx, "/challenges"+escape(challengeID, "documents"), rawQuery, authorization)
}

func (c *Client) Terms(ctx context.Context, challengeID, rawQuery, authorization string) (*Response, error) {
	return c.Get(ctx, "/terms"+escape(challengeID), rawQuery, authorization)
}

func (c *Client) ChallengeFileURL(ctx context.Context, challengeID, fileID, rawQuery, authorization string) (*Response, error) {
	return c.Get(ctx, "/challenges"+escape(challengeID, "files", fileID, "download"), rawQuery, authorization)
}

func (c *Client) SubmissionFileURL(ctx context.Context, challengeID, submissionID, fileID, rawQuery, authorization string) (*Response, error) {
	path := "/challenges" + escape(challengeID, "submissions", submissionID, "files", fileID, "download")
	return c.Get(ctx, path, rawQuery, authorization)
}

// streams a submission file to the upstream upload endpoint as multipart
func (c *Client) SubmitFile(ctx context.Context, challengeID, rawQuery, authorization string, upload Upload) (*Response, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	contentType := mw.FormDataContentType()

	go func() {
		pw.CloseWithError(writeUpload(mw, upload)) //nolint:errcheck,gosec // reported through the reader side
	}()

	resp, err := c.Do(ctx, Request{
		Method:        http.MethodPost,
		Path:          "/develop/challenges" + escape(challengeID, "upload"),
		RawQuery:      rawQuery,
		Authorization: authorization,
		ContentType:   contentType,
		Body:          pr,
	})

	// unblocks the writer if the request ended before the body was consumed
	pr.Close() //nolint:errcheck,gosec

	return resp, err
}

func writeUpload(mw *multipart.Writer, upload Upload) error {
	if upload.Handle != "" {
		if err := mw.WriteField("handle", upload.Handle); err != nil {
			return fmt.Errorf("failed to write handle field: %w", err)
		}
	}

	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(upload.FileName)))
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}

	if _, err := io.Copy(part, upload.Content); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}

	return mw.Close()
}
