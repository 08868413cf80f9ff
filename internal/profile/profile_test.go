package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/serenity/server/internal/auth"
	"codeberg.org/serenity/server/internal/upstream"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type lookupFunc func(ctx context.Context, subject string) (*upstream.UserRecord, error)

func (f lookupFunc) LookupUser(ctx context.Context, subject string) (*upstream.UserRecord, error) {
	return f(ctx, subject)
}

const testSecret = "profile-test-secret"

func hmacVerifier() auth.Verifier {
	return auth.NewHMACVerifier([]byte(testSecret), "", "")
}

func signedHeader(t *testing.T) string {
	t.Helper()

	token, err := auth.GenerateJWT([]byte(testSecret), auth.Claims{
		Name:    "Coder One",
		Picture: "https://img.example/p.png",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "auth0|42",
		},
	}, time.Hour)
	require.NoError(t, err)

	return "Bearer " + token
}

// builds [auth gate, enrichment, controller] and reports whether the controller ran
func newRouter(lookup Lookup, reached *bool, seen **User) *gin.Engine {
	router := gin.New()
	router.GET("/probe", auth.ConditionalAuth(hmacVerifier()), Enrich(lookup), func(c *gin.Context) {
		*reached = true
		user, _ := GetUser(c)
		*seen = user
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return router
}

func TestEnrich_Success(t *testing.T) {
	var gotSubject string
	lookup := lookupFunc(func(_ context.Context, subject string) (*upstream.UserRecord, error) {
		gotSubject = subject
		return &upstream.UserRecord{UID: "42", Handle: "coder1"}, nil
	})

	var reached bool
	var user *User
	router := newRouter(lookup, &reached, &user)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", signedHeader(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)
	assert.Equal(t, "auth0|42", gotSubject)
	require.NotNil(t, user)
	assert.Equal(t, &User{
		ID:      "42",
		Name:    "Coder One",
		Handle:  "coder1",
		Picture: "https://img.example/p.png",
	}, user)
}

func TestEnrich_FailureStopsChain(t *testing.T) {
	testCases := []struct {
		name string
		err  error
	}{
		{"not found", &upstream.StatusError{Method: http.MethodGet, Path: "/user/tcid/x", Status: http.StatusNotFound}},
		{"malformed payload", errors.New("failed to decode user record: unexpected end of JSON input")},
		{"timeout", context.DeadlineExceeded},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lookup := lookupFunc(func(context.Context, string) (*upstream.UserRecord, error) {
				return nil, tc.err
			})

			var reached bool
			var user *User
			router := newRouter(lookup, &reached, &user)

			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			req.Header.Set("Authorization", signedHeader(t))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
			assert.False(t, reached, "controller must not run after a failed lookup")

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "service_unavailable", body["error"])
			assert.Equal(t, "TC API Unavailable", body["message"])
		})
	}
}

func TestEnrich_AnonymousPassesThrough(t *testing.T) {
	called := false
	lookup := lookupFunc(func(context.Context, string) (*upstream.UserRecord, error) {
		called = true
		return nil, errors.New("should not be called")
	})

	var reached bool
	var user *User
	router := newRouter(lookup, &reached, &user)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)
	assert.False(t, called)
	assert.Nil(t, user)
}

func TestGetUser_Absent(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	user, ok := GetUser(c)

	assert.False(t, ok)
	assert.Nil(t, user)
}
