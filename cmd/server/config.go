package main

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"dragonden/internal/app/auth"
)

type config struct {
	Addr          string
	DSN           string
	JWTKey        []byte
	TokenTTL      time.Duration
	AdminPassword string
	SeedDragons   bool
	Env           string
	Migrate       bool
}

var errMissingJWTKey = errors.New("DRAGONDEN_JWT_KEY is required")

func loadConfig() (config, error) {
	cfg := config{
		Addr:          stringEnv("DRAGONDEN_ADDR", ":8080"),
		DSN:           stringEnv("DRAGONDEN_DB_DSN", ""),
		JWTKey:        []byte(stringEnv("DRAGONDEN_JWT_KEY", "")),
		TokenTTL:      durationEnv("DRAGONDEN_TOKEN_TTL", auth.DefaultTokenTTL),
		AdminPassword: os.Getenv("DRAGONDEN_ADMIN_PASSWORD"),
		SeedDragons:   boolEnv("DRAGONDEN_SEED_DRAGONS", false),
		Env:           stringEnv("DRAGONDEN_ENV", "production"),
		Migrate:       boolEnv("DRAGONDEN_MIGRATE", true),
	}
	if len(cfg.JWTKey) == 0 {
		return config{}, errMissingJWTKey
	}
	return cfg, nil
}

func (c config) dev() bool {
	return strings.EqualFold(c.Env, "dev")
}

func stringEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func boolEnv(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// durationEnv accepts Go durations ("36h") or a bare number of seconds.
func durationEnv(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n := intEnv(key, 0); n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}
