package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// represents the identity claims carried by a verified bearer token
type Claims struct {
	Name     string `json:"name,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Picture  string `json:"picture,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// checks a raw bearer token and returns its claims
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Claims, error)
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(ctx context.Context, rawToken string) (*Claims, error)

func (f VerifierFunc) Verify(ctx context.Context, rawToken string) (*Claims, error) {
	return f(ctx, rawToken)
}
