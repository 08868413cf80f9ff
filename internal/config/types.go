package config

import "time"

// process-wide settings, loaded once at startup and never mutated
type Config struct {
	// contest-platform API base URL, without trailing slash
	TCAPIURL string
	Port     string

	Auth0Domain       string
	Auth0ClientID     string
	Auth0ClientSecret string
	// whether the client secret is base64url encoded (auth0 legacy apps)
	Auth0SecretBase64 bool

	Environment string

	UpstreamTimeout   time.Duration
	UpstreamRateLimit float64 // requests per second, 0 disables the budget

	RateLimit          string // ulule formatted rate, e.g. "300-M"; empty disables
	CORSAllowedOrigins []string
	// proxies whose X-Forwarded-For is honoured for the client IP; empty trusts none
	TrustedProxies     []string
	MaxUploadBytes     int64
}

// reports whether the process runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
