package auth

import (
	"strings"

	"codeberg.org/serenity/server/internal/errors"
	"codeberg.org/serenity/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// gin context key holding *Claims after a successful verification
const claimsKey = "auth_claims"

// rejects requests without a valid bearer token
func RequireAuth(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			errors.Unauthorized(c, "authorization header required")
			c.Abort()
			return
		}

		authenticate(c, verifier)
	}
}

// validates the bearer token only when an Authorization header is present;
// requests without the header continue anonymously
func ConditionalAuth(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		authenticate(c, verifier)
	}
}

func authenticate(c *gin.Context, verifier Verifier) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		errors.Unauthorized(c, "invalid authorization header format")
		c.Abort()
		return
	}

	claims, err := verifier.Verify(c.Request.Context(), token)
	if err != nil {
		logger.FromContext(c.Request.Context()).Debug("token rejected", "error", err)
		errors.Unauthorized(c, "invalid or expired token")
		c.Abort()
		return
	}

	c.Set(claimsKey, claims)
	c.Next()
}

// extracts the token from a "Bearer <token>" header value
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	return parts[1], true
}

// returns the verified claims, if the request carried a token
func GetClaims(c *gin.Context) (*Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}

	claims, ok := value.(*Claims)
	return claims, ok && claims != nil
}
