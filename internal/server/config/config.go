// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the gophtodo server.
//
// Fields:
//   - Env: deployment name; "production" turns on secure cookies by default.
//   - EndpointAddrHTTP / EndpointAddrGRPC: bind addresses for the public endpoints.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - SecretKey: HMAC secret for signing tokens (HS256). Required.
//   - TokenTTL: lifetime of an issued token.
//   - HashCost: bcrypt work factor for password hashes.
//   - RedisURL: optional Redis for the shared rate limiter.
//   - AdminEmail / AdminPassword: optional administrator seeded at startup.
//   - TrustedProxies: addresses or CIDRs allowed to set X-Forwarded-For.
//     Empty means the client address is always the TCP peer.
//   - S3*: object storage for incident reports. Empty bucket logs only.
type Config struct {
	Env                string
	EndpointAddrHTTP   string
	EndpointAddrGRPC   string
	DatabaseDSN        string
	SecretKey          string
	TokenTTL           time.Duration
	HashCost           int
	CookieSecure       bool
	RedisURL           string
	RateLimitPerMinute int
	TrustedProxies     []string
	NotifyQueueSize    int
	AdminEmail         string
	AdminPassword      string
	S3RootUser         string
	S3RootPassword     string
	S3Bucket           string
	S3Region           string
	S3BaseEndpoint     string
}

// LoadDefaults populates Config with development defaults. SecretKey is
// intentionally left empty so that a forgotten secret fails Validate.
func (c *Config) LoadDefaults() {
	c.Env = "development"
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.SecretKey = ""
	c.TokenTTL = 48 * time.Hour
	c.HashCost = 10
	c.CookieSecure = false
	c.RedisURL = ""
	c.RateLimitPerMinute = 30
	c.NotifyQueueSize = 64
	c.S3Region = "us-east-1"
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is required (JWT_SECRET or -s)"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("token ttl must be positive, got %s", c.TokenTTL))
	}
	if c.HashCost < bcrypt.MinCost || c.HashCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("hash cost must be within [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, c.HashCost))
	}
	if c.RateLimitPerMinute < 0 {
		errs = append(errs, fmt.Errorf("rate limit must not be negative, got %d", c.RateLimitPerMinute))
	}
	for _, p := range c.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				errs = append(errs, fmt.Errorf("trusted proxy %q is neither an IP nor a CIDR", p))
			}
		}
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		errs = append(errs, errors.New("admin email and admin password must be set together"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the server runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment (and .env) and finally from
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
