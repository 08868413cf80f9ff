package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort            = "12345"
	defaultUpstreamTimeout = 10 * time.Second
	defaultRateLimit       = "300-M"
	defaultMaxUploadBytes  = 50 << 20
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	tcAPIURL := strings.TrimRight(os.Getenv("TC_API_URL"), "/")
	clientID := os.Getenv("AUTH0_CLIENT_ID")
	clientSecret := os.Getenv("AUTH0_CLIENT_SECRET")
	domain := strings.TrimSuffix(strings.TrimPrefix(os.Getenv("AUTH0_DOMAIN"), "https://"), "/")

	if tcAPIURL == "" {
		return nil, fmt.Errorf("TC_API_URL environment variable is required")
	}

	if clientID == "" {
		return nil, fmt.Errorf("AUTH0_CLIENT_ID environment variable is required")
	}

	if clientSecret == "" && domain == "" {
		return nil, fmt.Errorf("AUTH0_CLIENT_SECRET or AUTH0_DOMAIN environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	secretBase64 := true
	if v := os.Getenv("AUTH0_SECRET_BASE64"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("AUTH0_SECRET_BASE64 must be a boolean: %w", err)
		}

		secretBase64 = parsed
	}

	upstreamTimeout := defaultUpstreamTimeout
	if v := os.Getenv("UPSTREAM_TIMEOUT"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("UPSTREAM_TIMEOUT must be a duration: %w", err)
		}

		if parsed <= 0 {
			return nil, fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", v)
		}

		upstreamTimeout = parsed
	}

	var upstreamRate float64
	if v := os.Getenv("UPSTREAM_RATE_LIMIT"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("UPSTREAM_RATE_LIMIT must be a non-negative number, got %q", v)
		}

		upstreamRate = parsed
	}

	rateLimit, ok := os.LookupEnv("RATE_LIMIT")
	if !ok {
		rateLimit = defaultRateLimit
	}

	maxUpload := int64(defaultMaxUploadBytes)
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be a positive integer, got %q", v)
		}

		maxUpload = parsed
	}

	return &Config{
		TCAPIURL:           tcAPIURL,
		Port:               port,
		Auth0Domain:        domain,
		Auth0ClientID:      clientID,
		Auth0ClientSecret:  clientSecret,
		Auth0SecretBase64:  secretBase64,
		Environment:        environment,
		UpstreamTimeout:    upstreamTimeout,
		UpstreamRateLimit:  upstreamRate,
		RateLimit:          strings.TrimSpace(rateLimit),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		TrustedProxies:     splitList(os.Getenv("TRUSTED_PROXIES")),
		MaxUploadBytes:     maxUpload,
	}, nil
}

// splits a comma separated list, dropping empty entries
func splitList(raw string) []string {
	var out []string

	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
