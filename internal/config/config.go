package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config is the process-wide configuration, loaded once at startup and
// passed by injection. Nothing else in the repo reads the environment.
type Config struct {
	Addr         string
	DatabasePath string
	JWTSecret    string
	TokenTTL     time.Duration
	CORSOrigins  []string
	Seed         bool
}

// Load builds a Config from the environment. It fails when the JWT secret is
// missing or the token TTL does not parse, rather than falling back to a
// baked-in default secret.
func Load() (*Config, error) {
	secret := strings.TrimSpace(os.Getenv("VIRTLAB_JWT_SECRET"))
	if secret == "" {
		return nil, fmt.Errorf("VIRTLAB_JWT_SECRET is required")
	}

	ttl := 24 * time.Hour
	if v := strings.TrimSpace(os.Getenv("VIRTLAB_TOKEN_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse VIRTLAB_TOKEN_TTL: %w", err)
		}
		ttl = d
	}

	origins := []string{"*"}
	if v := strings.TrimSpace(os.Getenv("VIRTLAB_CORS_ORIGINS")); v != "" {
		origins = origins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return &Config{
		Addr:         env("VIRTLAB_ADDR", ":8080"),
		DatabasePath: env("VIRTLAB_DB_PATH", "virtual_lab.db"),
		JWTSecret:    secret,
		TokenTTL:     ttl,
		CORSOrigins:  origins,
		Seed:         os.Getenv("VIRTLAB_SEED") == "1",
	}, nil
}

// env returns the environment variable value for key, or fallback if empty.
func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

