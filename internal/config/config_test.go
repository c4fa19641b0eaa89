package config

import (
	"strings"
	"testing"
	"time"
)

var keys = []string{
	"PORT", "LOG_LEVEL", "LOG_FORMAT", "SESSION_MAX_COUNT", "SESSION_MAX_AGE",
	"CLEANUP_INTERVAL", "HTTP_TIMEOUT", "FETCH_MAX_RETRIES", "FETCH_INITIAL_BACKOFF",
	"FETCH_MAX_BACKOFF", "REMOTE_MAX_BYTES", "MAX_UPLOAD_BYTES",
	"REMOTE_IMPORTS", "REMOTE_ALLOW_PRIVATE",
}

func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.SessionMaxCount != 100 || cfg.SessionMaxAge != 2*time.Hour {
		t.Errorf("unexpected retention %d / %v", cfg.SessionMaxCount, cfg.SessionMaxAge)
	}
	if cfg.CleanupInterval != 15*time.Minute || cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("unexpected intervals %v / %v", cfg.CleanupInterval, cfg.HTTPTimeout)
	}
	if cfg.FetchMaxRetries != 3 || cfg.FetchInitialBackoff != 500*time.Millisecond || cfg.FetchMaxBackoff != 5*time.Second {
		t.Errorf("unexpected backoff %+v", cfg)
	}
	if cfg.MaxUploadBytes != 32<<20 || cfg.RemoteMaxBytes != 32<<20 {
		t.Errorf("unexpected limits %d / %d", cfg.MaxUploadBytes, cfg.RemoteMaxBytes)
	}
	if cfg.RemoteImports || cfg.RemoteAllowPrivate {
		t.Errorf("expected remote imports off by default, got %v / %v", cfg.RemoteImports, cfg.RemoteAllowPrivate)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_MAX_AGE", "30m")
	t.Setenv("SESSION_MAX_COUNT", "5")
	t.Setenv("REMOTE_MAX_BYTES", "1024")
	t.Setenv("REMOTE_IMPORTS", "true")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" || cfg.SessionMaxAge != 30*time.Minute {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.SessionMaxCount != 5 || cfg.RemoteMaxBytes != 1024 {
		t.Errorf("expected 5 / 1024, got %d / %d", cfg.SessionMaxCount, cfg.RemoteMaxBytes)
	}
	if !cfg.RemoteImports || cfg.RemoteAllowPrivate {
		t.Errorf("expected imports on with private destinations refused, got %v / %v", cfg.RemoteImports, cfg.RemoteAllowPrivate)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"CLEANUP_INTERVAL", "often"},
		{"FETCH_MAX_RETRIES", "-1"},
		{"FETCH_INITIAL_BACKOFF", "0s"},
		{"SESSION_MAX_COUNT", "not-a-number"},
		{"FETCH_MAX_RETRIES", "three"},
		{"MAX_UPLOAD_BYTES", "32MB"},
		{"REMOTE_MAX_BYTES", "1.5"},
		{"REMOTE_IMPORTS", "sometimes"},
		{"REMOTE_ALLOW_PRIVATE", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			if err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Fatalf("expected error to name %s, got %v", tt.key, err)
			}
		})
	}
}
