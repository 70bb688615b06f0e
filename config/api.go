package config

import (
	"strings"
	"time"
)

const defaultBaseURL = "https://clearance-asce.onrender.com"

// APIConfig contains backend API connection configuration.
type APIConfig struct {
	// BaseURL is the root of the clearance backend, without a trailing
	// slash.
	BaseURL string `env:"BASE_URL" envDefault:"https://clearance-asce.onrender.com"`

	// Timeout is the per-request HTTP client timeout.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to API configuration values.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}
