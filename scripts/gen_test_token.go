package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"codeberg.org/serenity/server/internal/auth"
	"codeberg.org/serenity/server/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// mints an HS256 token accepted by a server running with the same .env
func main() {
	subject := flag.String("sub", "auth0|test-user-123", "token subject")
	name := flag.String("name", "Test User", "display name claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Auth0ClientSecret == "" {
		log.Fatal("AUTH0_CLIENT_SECRET not set; tokens for JWKS-verified deployments come from the identity provider")
	}

	secret := []byte(cfg.Auth0ClientSecret)
	if cfg.Auth0SecretBase64 {
		if secret, err = auth.DecodeSecret(cfg.Auth0ClientSecret); err != nil {
			log.Fatalf("Failed to decode AUTH0_CLIENT_SECRET: %v", err)
		}
	}

	claims := auth.Claims{
		Name: *name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  *subject,
			Audience: jwt.ClaimStrings{cfg.Auth0ClientID},
		},
	}

	if cfg.Auth0Domain != "" {
		claims.Issuer = "https://" + cfg.Auth0Domain + "/"
	}

	token, err := auth.GenerateJWT(secret, claims, *ttl)
	if err != nil {
		log.Fatalf("Failed to generate JWT: %v", err)
	}

	fmt.Printf("\nTest JWT Token (sub %s, expires in %s):\n%s\n\n", *subject, *ttl, token)
	fmt.Printf("Export this token for testing:\nexport TEST_TOKEN=\"%s\"\n", token)
}
