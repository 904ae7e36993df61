// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeranaias/vibecoder-tui/internal/proxy"
)

func newProxyCommand(opts *rootOptions) *cobra.Command {
	var (
		port    int
		backend string
	)
	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Run the development proxy",
		Long: `Serve the API under /api on the frontend port and forward it to the
backend with the prefix stripped. Browser clients served from the same port
can then call the backend without CORS configuration on the backend.`,
		Example: `  vibecoder proxy
  vibecoder proxy --port 3000 --backend http://localhost:9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := opts.loadConfig()
			if err != nil {
				return err
			}
			cfg := loaded.Clone()
			if cmd.Flags().Changed("port") {
				cfg.Proxy.Port = port
			}
			if backend != "" {
				cfg.Backend.URL = backend
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid proxy settings: %w", err)
			}

			srv, err := proxy.NewServer(cfg)
			if err != nil {
				return err
			}
			// Proxy lines are shown regardless of --verbose.
			log.SetOutput(cmd.ErrOrStderr())
			srv.WithLogger(log.New(cmd.ErrOrStderr(), "", 0))

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, TitleStyle.Render("vibecoder proxy"))
			fmt.Fprintf(out, "%s%s\n", RenderLabel("Listening"), ValueStyle.Render("http://localhost"+srv.Addr()))
			fmt.Fprintf(out, "%s%s -> %s\n", RenderLabel("Forwarding"), ValueStyle.Render(srv.Prefix()+"/*"), ValueStyle.Render(srv.Target()))
			fmt.Fprintln(out, DimStyle.Render("Press Ctrl+C to stop."))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config, 5173)")
	cmd.Flags().StringVarP(&backend, "backend", "b", "", "backend URL (default from config)")
	return cmd
}
