// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/folio/internal/convert"
	"github.com/pdiddy/folio/internal/progress"
	"github.com/pdiddy/folio/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the conversion session over HTTP",
	Long: `Serve starts an HTTP API that holds one conversion session: upload a
document, convert it to a target format, poll progress, and download the
generated file. Stops on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		cfg := appConfig.Server
		if addr != "" {
			cfg.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		session := convert.NewSession(convert.NewDefaultPipeline(appConfig, logger), &progress.Signal{}, logger)
		return server.New(session, cfg, logger).ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")

	rootCmd.AddCommand(serveCmd)
}
