package config

import (
	"fmt"
	"os"
	"time"
)

// Defaults for the assessment service connection.
const (
	DefaultServerURL = "http://localhost:8000"
	DefaultBand      = "2A"
	DefaultTimeout   = 15 * time.Second
)

// Config holds the client configuration.
type Config struct {
	// ServerURL is the base URL of the remote assessment service.
	ServerURL string

	// EmployeeID identifies the user against the service. Required.
	EmployeeID string

	// Band is the user's current band, e.g. "2A".
	Band string

	// Timeout bounds a single request to the service.
	Timeout time.Duration
}

// FromEnv builds a Config from environment variables:
// WOW_SERVER_URL, WOW_EMPLOYEE_ID, WOW_BAND, WOW_HTTP_TIMEOUT.
func FromEnv() Config {
	cfg := Config{
		ServerURL:  envOr("WOW_SERVER_URL", DefaultServerURL),
		EmployeeID: os.Getenv("WOW_EMPLOYEE_ID"),
		Band:       envOr("WOW_BAND", DefaultBand),
		Timeout:    DefaultTimeout,
	}
	if v := os.Getenv("WOW_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	return cfg
}

// Validate checks that required fields are present.
func (c Config) Validate() error {
	if c.EmployeeID == "" {
		return fmt.Errorf("employee id is required (set WOW_EMPLOYEE_ID or pass --employee)")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
