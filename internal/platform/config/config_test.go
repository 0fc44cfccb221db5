package config

import (
	"os"
	"testing"
	"time"
)

// clearEnv unsets all EDGE_ environment variables for a clean test.
func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"EDGE_SERVER_PORT",
		"EDGE_SERVER_HOST",
		"EDGE_API_URL",
		"EDGE_CHAT_URL",
		"EDGE_REQUEST_TIMEOUT_SECONDS",
		"EDGE_PROXY_UPLOADS",
		"EDGE_CACHE_URL",
		"EDGE_DATABASE_URL",
		"EDGE_DATABASE_MAX_CONNS",
		"EDGE_DATABASE_MIN_CONNS",
		"EDGE_SESSION_TTL_MINUTES",
		"EDGE_SAMPLES_PATH",
		"EDGE_LOG_LEVEL",
		"EDGE_LOG_FORMAT",
	}
	for _, v := range envVars {
		_ = os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Backend.RequestTimeout != 2*time.Minute {
		t.Errorf("Backend.RequestTimeout = %v, want 2m", cfg.Backend.RequestTimeout)
	}
	if cfg.Backend.ChatURL != "" {
		t.Errorf("Backend.ChatURL = %q, want empty", cfg.Backend.ChatURL)
	}
	if cfg.Cache.URL != "" {
		t.Errorf("Cache.URL = %q, want empty (memory store)", cfg.Cache.URL)
	}
	if cfg.Session.TTL != 2*time.Hour {
		t.Errorf("Session.TTL = %v, want 2h", cfg.Session.TTL)
	}
	if cfg.Samples.Path != "./samples" {
		t.Errorf("Samples.Path = %q", cfg.Samples.Path)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("EDGE_SERVER_PORT", "9999")
	t.Setenv("EDGE_API_URL", "https://api.example.com")
	t.Setenv("EDGE_CHAT_URL", "https://chat.example.com/invoke")
	t.Setenv("EDGE_PROXY_UPLOADS", "true")
	t.Setenv("EDGE_SESSION_TTL_MINUTES", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Backend.APIURL != "https://api.example.com" {
		t.Errorf("Backend.APIURL = %q", cfg.Backend.APIURL)
	}
	if cfg.Backend.ChatURL != "https://chat.example.com/invoke" {
		t.Errorf("Backend.ChatURL = %q", cfg.Backend.ChatURL)
	}
	if !cfg.Backend.ProxyUploads {
		t.Error("Backend.ProxyUploads = false, want true")
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("Session.TTL = %v, want 30m", cfg.Session.TTL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(*Config) {}, false},
		{"empty api url", func(c *Config) { c.Backend.APIURL = "" }, true},
		{"non-http api url", func(c *Config) { c.Backend.APIURL = "localhost:9000" }, true},
		{"zero timeout", func(c *Config) { c.Backend.RequestTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvInt_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("EDGE_SERVER_PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want fallback 8080", cfg.Server.Port)
	}
}
