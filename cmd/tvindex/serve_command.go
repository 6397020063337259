package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"tvindex/internal/api"
	"tvindex/internal/ingest"
	"tvindex/internal/logging"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP front end that receives listing pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if b := strings.TrimSpace(bind); b != "" {
				cfg.Server.Bind = b
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger := ctx.log()
			srv, err := api.NewServer(cfg, ingest.NewService(cfg, logger), logger)
			if err != nil {
				return err
			}
			logger.Info("tvindex serving",
				logging.String("catalog", cfg.CatalogPath()),
				logging.String("backend", cfg.Catalog.Backend),
				logging.String("queue_log", cfg.QueueLogPath()),
			)
			return srv.ListenAndServe(signalCtx)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (overrides server.bind)")
	return cmd
}
