package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string

	LogLevel  string
	LogFormat string

	// In-memory session retention.
	SessionMaxCount int           // max number of live sessions (0 = unlimited)
	SessionMaxAge   time.Duration // max idle time of a session (0 = unlimited)

	// CleanupInterval controls how often idle sessions are pruned.
	CleanupInterval time.Duration

	// Remote CSV imports.
	HTTPTimeout         time.Duration
	FetchMaxRetries     int
	FetchInitialBackoff time.Duration
	FetchMaxBackoff     time.Duration
	RemoteMaxBytes      int64

	// RemoteImports enables POST /imports. Off unless set.
	RemoteImports bool
	// RemoteAllowPrivate lets imports reach loopback and private networks.
	RemoteAllowPrivate bool

	// MaxUploadBytes caps the request body of file uploads.
	MaxUploadBytes int
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return FromEnv()
}

// FromEnv reads configuration from the process environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:      getenvDefault("PORT", "8080"),
		LogLevel:  getenvDefault("LOG_LEVEL", "info"),
		LogFormat: getenvDefault("LOG_FORMAT", "json"),
	}

	var remoteMaxBytes int
	ints := []struct {
		key  string
		def  int
		dest *int
	}{
		{"SESSION_MAX_COUNT", 100, &cfg.SessionMaxCount},
		{"FETCH_MAX_RETRIES", 3, &cfg.FetchMaxRetries},
		{"MAX_UPLOAD_BYTES", 32 << 20, &cfg.MaxUploadBytes},
		{"REMOTE_MAX_BYTES", 32 << 20, &remoteMaxBytes},
	}
	for _, n := range ints {
		v, err := getenvInt(n.key, n.def)
		if err != nil {
			return nil, err
		}
		*n.dest = v
	}
	cfg.RemoteMaxBytes = int64(remoteMaxBytes)

	bools := []struct {
		key  string
		dest *bool
	}{
		{"REMOTE_IMPORTS", &cfg.RemoteImports},
		{"REMOTE_ALLOW_PRIVATE", &cfg.RemoteAllowPrivate},
	}
	for _, b := range bools {
		v, err := getenvBool(b.key, false)
		if err != nil {
			return nil, err
		}
		*b.dest = v
	}

	durations := []struct {
		key  string
		def  string
		dest *time.Duration
	}{
		{"SESSION_MAX_AGE", "2h", &cfg.SessionMaxAge},
		{"CLEANUP_INTERVAL", "15m", &cfg.CleanupInterval},
		{"HTTP_TIMEOUT", "15s", &cfg.HTTPTimeout},
		{"FETCH_INITIAL_BACKOFF", "500ms", &cfg.FetchInitialBackoff},
		{"FETCH_MAX_BACKOFF", "5s", &cfg.FetchMaxBackoff},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getenvDefault(d.key, d.def))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dest = v
	}

	if cfg.FetchMaxRetries < 0 {
		return nil, fmt.Errorf("invalid FETCH_MAX_RETRIES: must not be negative")
	}
	if cfg.FetchInitialBackoff <= 0 {
		return nil, fmt.Errorf("invalid FETCH_INITIAL_BACKOFF: must be positive")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
