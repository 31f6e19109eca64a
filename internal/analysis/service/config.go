// internal/analysis/service/config.go
package service

import (
	"time"

	"provider-visibility/internal/common/config"
)

type Config struct {
	DefaultProviderName    string
	DefaultProviderAliases []string
	Timeout                time.Duration
}

func LoadConfig() *Config {
	return &Config{
		DefaultProviderName:    config.DefaultProviderName,
		DefaultProviderAliases: append([]string(nil), config.DefaultProviderAliases...),
		Timeout:                60 * time.Second,
	}
}

// FromAppConfig takes the masking defaults and upstream timeout from the
// loaded application config.
func FromAppConfig(cfg *config.Config) *Config {
	return &Config{
		DefaultProviderName:    cfg.Masking.DefaultProviderName,
		DefaultProviderAliases: append([]string(nil), cfg.Masking.DefaultProviderAliases...),
		Timeout:                config.GetDuration(cfg.API.Timeout),
	}
}
