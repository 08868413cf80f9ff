package upstream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeUpstream(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(server.URL+"/", 2*time.Second, 0), server
}

func TestClient_GetForwardsPathQueryAndAuthorization(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotAccept string

	client, _ := newFakeUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"challengeId":1}]}`))
	})

	resp, err := client.ActiveChallenges(context.Background(), "pageIndex=2&pageSize=10", "Bearer abc")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"data":[{"challengeId":1}]}`, string(resp.Body))
	assert.Equal(t, "/challenges/active", gotPath)
	assert.Equal(t, "pageIndex=2&pageSize=10", gotQuery)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
}

func TestClient_ChallengeEndpoints(t *testing.T) {
	var gotMethod, gotPath string

	client, _ := newFakeUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	})

	ctx := context.Background()

	testCases := []struct {
		name       string
		call       func() (*Response, error)
		wantMethod string
		wantPath   string
	}{
		{"challenge", func() (*Response, error) { return client.Challenge(ctx, "123", "", "") }, http.MethodGet, "/develop/challenges/123"},
		{"results", func() (*Response, error) { return client.Results(ctx, "123", "", "") }, http.MethodGet, "/develop/challenges/result/123"},
		{"register", func() (*Response, error) { return client.Register(ctx, "123", "", "Bearer t") }, http.MethodPost, "/challenges/123/register"},
		{"documents", func() (*Response, error) { return client.Documents(ctx, "123", "", "") }, http.MethodGet, "/challenges/123/documents"},
		{"terms", func() (*Response, error) { return client.Terms(ctx, "123", "", "") }, http.MethodGet, "/terms/123"},
		{"file url", func() (*Response, error) { return client.ChallengeFileURL(ctx, "123", "9", "", "") }, http.MethodGet, "/challenges/123/files/9/download"},
		{"submission file url", func() (*Response, error) { return client.SubmissionFileURL(ctx, "123", "77", "9", "", "") }, http.MethodGet, "/challenges/123/submissions/77/files/9/download"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.call()

			require.NoError(t, err)
			assert.Equal(t, tc.wantMethod, gotMethod)
			assert.Equal(t, tc.wantPath, gotPath)
		})
	}
}

func TestClient_PathSegmentsAreEscaped(t *testing.T) {
	var gotRawPath string

	client, _ := newFakeUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotRawPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.Challenge(context.Background(), "../admin", "", "")

	require.NoError(t, err)
	assert.Equal(t, "/develop/challenges/..%2Fadmin", gotRawPath)
}

func TestClient_NonSuccessReturnsStatusError(t *testing.T) {
	client, _ := newFakeUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"details":"already registered"}}`))
	})

	_, err := client.Register(context.Background(), "123", "", "Bearer t")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode())
	assert.JSONEq(t, `{"error":{"details":"already registered"}}`, string(statusErr.Body))
	assert.Contains(t, err.Error(), "/challenges/123/register")
}

func TestClient_MalformedJSON(t *testing.T) {
	client, _ := newFakeUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	})

	_, err := client.Terms(context.Background(), "1", "", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed JSON")
}

func TestClient_ResponseSizeLimit(t *testing.T) {
	testCases := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"at limit", maxResponseBytes, false},
		{"over limit", maxResponseBytes + 1, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// "{}" padded with insignificant whitespace stays valid JSON
			body := append([]byte("{}"), bytes.Repeat([]byte(" "), tc.size-2)...)

			client, _ := newFakeUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write(body)
			})

			resp, err := client.Documents(context.Background(), "1", "", "")

			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrResponseTooLarge))
				assert.NotContains(t, err.Error(), "malformed JSON")
				return
			}

			require.NoError(t, err)
			assert.Len(t, resp.Body, tc.size)
		})
	}
}

func TestClient_EmptyBody(t *testing.T) {
	client, _ := newFakeUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	resp, err := client.Register(context.Background(), "1", "", "Bearer t")

	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, resp.Body)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	client := New(server.URL, 50*time.Millisecond, 0)

	start := time.Now()
	_, err := client.Terms(context.Background(), "1", "", "")

	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second, "call should be bounded by the client timeout")
}

func TestClient_RateBudget(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	// one request per second with burst 1: the second call must wait
	client := New(server.URL, time.Second, 1)

	_, err := client.Terms(context.Background(), "1", "", "")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Terms(ctx, "1", "", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream rate budget")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_LookupUser(t *testing.T) {
	testCases := []struct {
		name       string
		status     int
		body       string
		wantUID    string
		wantHandle string
		wantErr    bool
	}{
		{"string uid", http.StatusOK, `{"uid":"42","handle":"coder1"}`, "42", "coder1", false},
		{"numeric uid", http.StatusOK, `{"uid":22655076,"handle":"tonyj"}`, "22655076", "tonyj", false},
		{"missing uid", http.StatusOK, `{"handle":"coder1"}`, "", "", true},
		{"non-200 success", http.StatusCreated, `{"uid":"42","handle":"coder1"}`, "", "", true},
		{"not found", http.StatusNotFound, `{"error":"not found"}`, "", "", true},
		{"malformed", http.StatusOK, `{"uid":`, "", "", true},
		{"wrong type", http.StatusOK, `{"uid":true,"handle":"x"}`, "", "", true},
		{"empty", http.StatusOK, ``, "", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotPath string

			client, _ := newFakeUpstream(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			record, err := client.LookupUser(context.Background(), "auth0|42")

			assert.Equal(t, "/user/tcid/auth0|42", gotPath)

			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantUID, record.UID)
			assert.Equal(t, tc.wantHandle, record.Handle)
		})
	}
}

func TestClient_SubmitFile(t *testing.T) {
	var gotHandle, gotFileName, gotContent, gotContentType, gotAuth string

	client, _ := newFakeUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		gotHandle = r.FormValue("handle")

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close() //nolint:errcheck

		content, err := io.ReadAll(file)
		assert.NoError(t, err)

		gotFileName = header.Filename
		gotContent = string(content)
		gotContentType = header.Header.Get("Content-Type")

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"submissionId":501}`))
	})

	resp, err := client.SubmitFile(context.Background(), "123", "", "Bearer t", Upload{
		FileName:    "solution.zip",
		ContentType: "application/zip",
		Content:     strings.NewReader("PK-zip-bytes"),
		Handle:      "coder1",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"submissionId":501}`, string(resp.Body))
	assert.Equal(t, "Bearer t", gotAuth)
	assert.Equal(t, "coder1", gotHandle)
	assert.Equal(t, "solution.zip", gotFileName)
	assert.Equal(t, "PK-zip-bytes", gotContent)
	assert.Equal(t, "application/zip", gotContentType)
}
