// Package config loads application configuration from environment variables.
// All variables use the EDGE_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Cache    CacheConfig
	Database DatabaseConfig
	Session  SessionConfig
	Samples  SamplesConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
}

// BackendConfig holds tutor-backend endpoint settings. ChatURL, when set,
// points chat turns at a direct endpoint that bypasses the gateway timeout.
type BackendConfig struct {
	APIURL         string
	ChatURL        string
	RequestTimeout time.Duration
	// ProxyUploads forwards text uploads to the backend parser instead of
	// parsing locally. Local parsing keeps demo preview at zero latency.
	ProxyUploads bool
}

// CacheConfig holds Redis connection settings. Empty URL means sessions are
// kept in process memory only.
type CacheConfig struct {
	URL string
}

// DatabaseConfig holds PostgreSQL settings for the analytics event log.
// Empty URL disables event persistence.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// SessionConfig holds demo-session storage settings.
type SessionConfig struct {
	TTL time.Duration
}

// SamplesConfig holds the sample-curricula directory.
type SamplesConfig struct {
	Path string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with EDGE_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("EDGE_SERVER_PORT", 8080),
			Host: envStr("EDGE_SERVER_HOST", "0.0.0.0"),
		},
		Backend: BackendConfig{
			APIURL:         envStr("EDGE_API_URL", "http://localhost:9000"),
			ChatURL:        envStr("EDGE_CHAT_URL", ""),
			RequestTimeout: time.Duration(envInt("EDGE_REQUEST_TIMEOUT_SECONDS", 120)) * time.Second,
			ProxyUploads:   envBool("EDGE_PROXY_UPLOADS", false),
		},
		Cache: CacheConfig{
			URL: envStr("EDGE_CACHE_URL", ""),
		},
		Database: DatabaseConfig{
			URL:      envStr("EDGE_DATABASE_URL", ""),
			MaxConns: envInt("EDGE_DATABASE_MAX_CONNS", 10),
			MinConns: envInt("EDGE_DATABASE_MIN_CONNS", 2),
		},
		Session: SessionConfig{
			TTL: time.Duration(envInt("EDGE_SESSION_TTL_MINUTES", 120)) * time.Minute,
		},
		Samples: SamplesConfig{
			Path: envStr("EDGE_SAMPLES_PATH", "./samples"),
		},
		Log: LogConfig{
			Level:  envStr("EDGE_LOG_LEVEL", "info"),
			Format: envStr("EDGE_LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Backend.APIURL == "" {
		return fmt.Errorf("EDGE_API_URL is required")
	}
	if !strings.HasPrefix(c.Backend.APIURL, "http://") && !strings.HasPrefix(c.Backend.APIURL, "https://") {
		return fmt.Errorf("EDGE_API_URL must be an http(s) URL, got %q", c.Backend.APIURL)
	}
	if c.Backend.RequestTimeout <= 0 {
		return fmt.Errorf("EDGE_REQUEST_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}
