// internal/analysis/transport/config.go
package transport

import "time"

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// LoadConfig returns the transport defaults. BaseURL has no default.
func LoadConfig() *Config {
	return &Config{
		Timeout: 60 * time.Second,
	}
}
