// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig     `mapstructure:"app"`
	API      APIConfig     `mapstructure:"api"`
	Masking  MaskingConfig `mapstructure:"masking"`
	Features FeatureConfig `mapstructure:"features"`
	Server   ServerConfig  `mapstructure:"server"`
	Logging  LoggingConfig `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIConfig points at the remote analysis service. An empty BaseURL is
// allowed at load time; requests then fail with API_NOT_CONFIGURED.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// MaskingConfig holds the provider identity sent when a request omits it.
type MaskingConfig struct {
	DefaultProviderName    string   `mapstructure:"default_provider_name"`
	DefaultProviderAliases []string `mapstructure:"default_provider_aliases"`
}

type FeatureConfig struct {
	SampleTranscript bool `mapstructure:"sample_transcript"`
}

// ServerConfig holds settings for the HTTP gateway.
type ServerConfig struct {
	Address         string `mapstructure:"address"`
	RequestTimeout  int    `mapstructure:"request_timeout"`  // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
