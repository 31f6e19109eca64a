// cmd/visibility/serve.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"provider-visibility/internal/common/config"
	"provider-visibility/internal/common/observability"
	"provider-visibility/internal/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway in front of the analysis service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if addr != "" {
				a.cfg.Server.Address = addr
			}

			obs := observability.New(a.cfg.App.Name)
			defer obs.Shutdown()

			if a.cfg.API.BaseURL == "" {
				a.logger.Warn("api.base_url is not set; analyze requests will fail", nil)
			}

			srv := server.New(&server.Config{
				Address:         a.cfg.Server.Address,
				RequestTimeout:  config.GetDuration(a.cfg.Server.RequestTimeout),
				ShutdownTimeout: config.GetDuration(a.cfg.Server.ShutdownTimeout),
			}, a.handler, a.logger, obs)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from server.address)")
	return cmd
}
