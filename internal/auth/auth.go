package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"codeberg.org/serenity/server/internal/config"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
)

// verifies HS256 tokens signed with the identity provider client secret
type HMACVerifier struct {
	secret   []byte
	audience string
	issuer   string
}

func NewHMACVerifier(secret []byte, audience, issuer string) *HMACVerifier {
	return &HMACVerifier{
		secret:   secret,
		audience: audience,
		issuer:   issuer,
	}
}

// validates a JWT token and returns the claims
func (v *HMACVerifier) Verify(_ context.Context, tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}

	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return v.secret, nil
	}, opts...)

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return claims, nil
}

// verifies RS256 tokens against the identity provider's published key set
type JWKSVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// keys are fetched lazily from https://<domain>/.well-known/jwks.json
func NewJWKSVerifier(ctx context.Context, domain, clientID string) *JWKSVerifier {
	issuer := "https://" + domain + "/"
	keySet := oidc.NewRemoteKeySet(ctx, issuer+".well-known/jwks.json")

	return newJWKSVerifier(issuer, keySet, clientID)
}

func newJWKSVerifier(issuer string, keySet oidc.KeySet, clientID string) *JWKSVerifier {
	return &JWKSVerifier{
		verifier: oidc.NewVerifier(issuer, keySet, &oidc.Config{ClientID: clientID}),
	}
}

func (v *JWKSVerifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	idToken, err := v.verifier.Verify(ctx, tokenString)
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	var claims Claims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse token claims: %w", err)
	}

	if claims.Subject == "" {
		claims.Subject = idToken.Subject
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return &claims, nil
}

// picks the verification strategy for the configured identity provider:
// HS256 when a client secret is set, RS256 via JWKS otherwise
func NewVerifier(ctx context.Context, cfg *config.Config) (Verifier, error) {
	issuer := ""
	if cfg.Auth0Domain != "" {
		issuer = "https://" + cfg.Auth0Domain + "/"
	}

	if cfg.Auth0ClientSecret != "" {
		secret := []byte(cfg.Auth0ClientSecret)

		if cfg.Auth0SecretBase64 {
			decoded, err := DecodeSecret(cfg.Auth0ClientSecret)
			if err != nil {
				return nil, fmt.Errorf("failed to decode AUTH0_CLIENT_SECRET: %w", err)
			}

			secret = decoded
		}

		return NewHMACVerifier(secret, cfg.Auth0ClientID, issuer), nil
	}

	if cfg.Auth0Domain == "" {
		return nil, fmt.Errorf("no token verification method configured")
	}

	return NewJWKSVerifier(ctx, cfg.Auth0Domain, cfg.Auth0ClientID), nil
}

// decodes a base64url (or standard base64) client secret
func DecodeSecret(secret string) ([]byte, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(secret, "="))
	if err == nil {
		return decoded, nil
	}

	decoded, stdErr := base64.StdEncoding.DecodeString(secret)
	if stdErr == nil {
		return decoded, nil
	}

	return nil, err
}

// signs an HS256 token carrying claims, for local tooling and tests
func GenerateJWT(secret []byte, claims Claims, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("signing secret not set")
	}

	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
