package config

import (
	"log"
	"os"
	"strconv"
)

// Config carries the runtime settings the booking engine needs at startup.
// Every field maps to one environment variable; the server refuses to start
// when a required variable is missing so misconfiguration surfaces early.
type Config struct {
	Env            string // deployment environment ("dev", "test", "prod")
	Port           string // HTTP listen port
	DBUser         string
	DBPass         string // may be empty for local development
	DBHost         string
	DBPort         string
	DBName         string
	JWTSecret      string // HMAC key for access tokens
	AccessTTLMin   int    // access token lifetime in minutes
	RefreshTTLDays int    // refresh token lifetime in days
	BcryptCost     int
}

// Load reads the process environment into a Config. Required variables go
// through must(), which exits the process when a value is absent.
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
