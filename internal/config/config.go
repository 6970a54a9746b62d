// Package config loads runtime configuration from environment variables.
// Required variables fail fast at startup; optional subsystems (Redis rate
// limiting and caching) carry their own loaders with defaults.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds the core settings of the service: HTTP, MySQL and token
// issuing. One field per environment variable.
type Config struct {
	Env            string // APP_ENV: dev, test or prod
	Port           string // APP_PORT: HTTP port to listen on
	DBUser         string
	DBPass         string // empty allowed
	DBHost         string
	DBPort         string
	DBName         string
	JWTSecret      string // secret used to sign access tokens
	AccessTTLMin   int    // access token lifetime in minutes
	RefreshTTLDays int    // refresh token lifetime in days
	BcryptCost     int    // bcrypt cost for password hashing
}

// Load reads the core configuration. Missing required variables abort the
// process with a fatal log line.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
