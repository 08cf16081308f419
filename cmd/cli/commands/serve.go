package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jakechorley/working-groups/pkg/server"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the allocation HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := cmd.Flags().GetInt("port")
			if port == 0 {
				port = app.Cfg.Server.Port
			}

			ctx, stop := signal.NotifyContext(app.Ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			router := server.NewRouter(server.Deps{
				Sheet:     app.SheetsClient,
				History:   app.historyWriter(),
				Collector: app.Metrics,
				Gatherer:  app.Registry,
				Config:    app.Cfg,
				Logger:    app.Logger,
			})

			return server.Run(ctx, fmt.Sprintf(":%d", port), router, app.Logger)
		},
	}

	cmd.Flags().Int("port", 0, "Port to listen on (overrides server.port from the config)")

	return cmd
}
