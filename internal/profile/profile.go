// Package profile enriches authenticated requests with the caller's
// contest-platform profile.
package profile

import (
	"context"

	"codeberg.org/serenity/server/internal/auth"
	"codeberg.org/serenity/server/internal/errors"
	"codeberg.org/serenity/server/internal/logger"
	"codeberg.org/serenity/server/internal/upstream"
	"github.com/gin-gonic/gin"
)

// message returned when the profile lookup fails for any reason
const unavailableMessage = "TC API Unavailable"

// gin context key holding *User
const userKey = "tc_user"

// enriched identity of the caller
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Handle  string `json:"handle"`
	Picture string `json:"picture"`
}

// resolves a subject to its platform record
type Lookup interface {
	LookupUser(ctx context.Context, subject string) (*upstream.UserRecord, error)
}

// merges the platform profile into the request when a claim set is present.
// any lookup failure ends the request with 503 before later handlers run.
func Enrich(lookup Lookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.GetClaims(c)
		if !ok {
			c.Next()
			return
		}

		record, err := lookup.LookupUser(c.Request.Context(), claims.Subject)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("profile lookup failed",
				"subject", claims.Subject,
				"error", err,
			)
			errors.ServiceUnavailable(c, unavailableMessage)
			c.Abort()
			return
		}

		c.Set(userKey, &User{
			ID:      record.UID,
			Name:    claims.Name,
			Handle:  record.Handle,
			Picture: claims.Picture,
		})

		c.Next()
	}
}

// returns the enriched user, if the request is authenticated
func GetUser(c *gin.Context) (*User, bool) {
	value, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}

	user, ok := value.(*User)
	return user, ok && user != nil
}
