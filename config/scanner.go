package config

import "time"

// ScannerConfig contains scanner polling configuration.
type ScannerConfig struct {
	// PollInterval is the cadence of the retrieve-latest-scan poll while a
	// scan session is active. It is a scheduling parameter, not a request
	// timeout.
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"2s"`

	// TagBuffer is the capacity of the detected-tag notification channel.
	// Detections beyond an unread backlog of this size are dropped.
	TagBuffer int `env:"TAG_BUFFER" envDefault:"8"`
}

// Sanitize applies guardrails to scanner configuration values.
func (c *ScannerConfig) Sanitize() {
	if c.PollInterval <= 0 {
		c.PollInterval = 2 * time.Second
	}
	if c.TagBuffer < 1 {
		c.TagBuffer = 1
	}
}
