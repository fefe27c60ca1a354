package api

import (
	"os"
	"strconv"
	"time"
)

// Config holds HTTP server settings.
type Config struct {
	Addr string

	// SessionSecret signs the session cookie. When empty a random key is
	// generated at startup and sessions do not survive a restart.
	SessionSecret string
	SecureCookie  bool

	// MaxUploadBytes caps POST /api/upload bodies.
	MaxUploadBytes int64

	// SessionTTL evicts sessions idle for longer than this.
	SessionTTL time.Duration
}

// DefaultConfig returns the server defaults.
func DefaultConfig() Config {
	return Config{
		Addr:           "127.0.0.1:8080",
		MaxUploadBytes: 10 << 20,
		SessionTTL:     24 * time.Hour,
	}
}

// ApplyEnv overlays EDUTUTOR_ADDR, EDUTUTOR_SESSION_SECRET and
// EDUTUTOR_SECURE_COOKIE onto cfg.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("EDUTUTOR_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("EDUTUTOR_SESSION_SECRET"); v != "" {
		cfg.SessionSecret = v
	}
	if v := os.Getenv("EDUTUTOR_SECURE_COOKIE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SecureCookie = b
		}
	}
}
