package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration for the dashboard server.
type Config struct {
	ListenAddr  string
	MetricsAddr string

	DB struct {
		DSN string
	}

	Google struct {
		// Timeout bounds every outbound Google API call. The API client
		// itself sets no timeout, so this is the only one in effect.
		Timeout time.Duration
	}

	ShutdownGrace  time.Duration
	TrustedProxies []string
}

// Load builds a Config from EDUOS_* environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.ListenAddr = getenvDefault("EDUOS_LISTEN_ADDR", ":8080")
	cfg.MetricsAddr = getenvDefault("EDUOS_METRICS_ADDR", ":9090")
	cfg.DB.DSN = os.Getenv("EDUOS_DB_DSN")

	if cfg.DB.DSN == "" {
		host := os.Getenv("EDUOS_DB_HOST")
		name := os.Getenv("EDUOS_DB_NAME")
		user := os.Getenv("EDUOS_DB_USER")
		password := os.Getenv("EDUOS_DB_PASSWORD")
		port := getenvDefault("EDUOS_DB_PORT", "5432")
		sslmode := getenvDefault("EDUOS_DB_SSLMODE", "disable")

		if host != "" && name != "" && user != "" {
			cfg.DB.DSN = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
				user, password, host, port, name, sslmode)
		}
	}

	timeout, err := getenvDuration("EDUOS_GOOGLE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.Google.Timeout = timeout

	grace, err := getenvDuration("EDUOS_SHUTDOWN_GRACE", 15*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.ShutdownGrace = grace

	cfg.TrustedProxies = getenvList("EDUOS_TRUSTED_PROXIES")

	if cfg.DB.DSN == "" {
		return nil, errors.New("EDUOS_DB_DSN is required (or set EDUOS_DB_HOST, EDUOS_DB_NAME, and EDUOS_DB_USER)")
	}
	if cfg.Google.Timeout <= 0 {
		return nil, errors.New("EDUOS_GOOGLE_TIMEOUT must be positive")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

func getenvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
