// cmd/visibility/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"provider-visibility/internal/analysis/service"
	"provider-visibility/internal/analysis/transport"
	"provider-visibility/internal/common/config"
	commonhttp "provider-visibility/internal/common/http"
	"provider-visibility/internal/common/logger"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "visibility",
		Short: "Measure how recognizable a masked AI provider is in a transcript",
		Long: `visibility submits a transcript to the analysis service with the provider
name masked, and reports which models still inferred the provider.

Configuration is read from configs/config.yaml (or --config) and can be
overridden with environment variables such as API_BASE_URL.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (default: configs/config.yaml)")

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newServeCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles what every subcommand needs.
type app struct {
	cfg     *config.Config
	logger  logger.Logger
	handler *service.Handler
}

func newApp() (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output).With(map[string]interface{}{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
	})

	transportCfg := transport.LoadConfig()
	transportCfg.BaseURL = cfg.API.BaseURL
	if timeout := config.GetDuration(cfg.API.Timeout); timeout > 0 {
		transportCfg.Timeout = timeout
	}
	client := transport.NewClient(transportCfg, commonhttp.NewClient(transportCfg.Timeout))

	return &app{
		cfg:     cfg,
		logger:  log,
		handler: service.NewHandler(service.FromAppConfig(cfg), client, log),
	}, nil
}
