package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the service configuration read from the environment. Database
// settings (DB_TYPE, DATABASE_PATH, DATABASE_URL) are read by the database
// package itself.
type Config struct {
	// HTTPAddr is the listen address for the API server
	HTTPAddr string
	// AutoMasterOnClear masters a training set automatically once every
	// member has been cleared in a session
	AutoMasterOnClear bool
	// SessionTTL is how long an idle training session is kept before the
	// janitor discards it
	SessionTTL time.Duration
}

// Load reads the configuration from environment variables with defaults
func Load() *Config {
	cfg := &Config{
		HTTPAddr:   ":8080",
		SessionTTL: 2 * time.Hour,
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("AUTO_MASTER_ON_CLEAR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AutoMasterOnClear = b
		}
	}
	if v := os.Getenv("SESSION_TTL_MINUTES"); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m > 0 {
			cfg.SessionTTL = time.Duration(m) * time.Minute
		}
	}
	return cfg
}
