package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays values from the process environment. A .env file in the
// working directory is loaded first if present; variables that are already
// set in the environment win over the file.
//
// Recognized variables:
//
//	ENV, HTTP_ADDR, GRPC_ADDR, DATABASE_URL, JWT_SECRET, TOKEN_TTL,
//	HASH_COST, COOKIE_SECURE, REDIS_URL, RATE_LIMIT_PER_MINUTE,
//	ADMIN_EMAIL, ADMIN_PASSWORD, S3_ROOT_USER, S3_ROOT_PASSWORD,
//	S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT, TRUSTED_PROXIES (comma separated)
//
// Malformed numeric, boolean or duration values panic, like a broken
// config file does.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	envString(&config.Env, "ENV")
	if config.IsProduction() {
		config.CookieSecure = true
	}
	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_URL")
	envString(&config.SecretKey, "JWT_SECRET")

	if v, ok := os.LookupEnv("TOKEN_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.TokenTTL = d
	}
	envInt(&config.HashCost, "HASH_COST")
	if v, ok := os.LookupEnv("COOKIE_SECURE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.CookieSecure = b
	}
	envString(&config.RedisURL, "REDIS_URL")
	envInt(&config.RateLimitPerMinute, "RATE_LIMIT_PER_MINUTE")
	envString(&config.AdminEmail, "ADMIN_EMAIL")
	envString(&config.AdminPassword, "ADMIN_PASSWORD")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	if v, ok := os.LookupEnv("TRUSTED_PROXIES"); ok && v != "" {
		config.TrustedProxies = splitList(v)
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}
