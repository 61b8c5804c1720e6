// Package config handles configuration for the mirror server: defaults,
// JSON overlay and command-line flags, later sources winning.
package config

import "time"

// Config holds runtime settings for the settlement mirror server.
type Config struct {
	// Addr is the bind address of the HTTP endpoint.
	Addr string
	// DatabaseDSN is the PostgreSQL DSN (pgx). Empty keeps the document
	// in memory only, which is fine for tests and demos.
	DatabaseDSN string
	// AccessKeyHash is the bcrypt hash clients must match at login.
	AccessKeyHash string
	// TokenSecret is the HMAC secret for signing JWTs (HS256).
	// Do not use test defaults in prod.
	TokenSecret string
	// TokenValidity bounds how long an issued token is accepted.
	TokenValidity time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.TokenSecret = "secretKey"
	c.TokenValidity = 24 * time.Hour
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
