// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/vibecoder-tui/internal/api"
	"github.com/jeranaias/vibecoder-tui/internal/export"
	"github.com/jeranaias/vibecoder-tui/internal/session"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		output string
		format string
		noCode bool
		open   bool
	)
	cmd := &cobra.Command{
		Use:   "export <project-id>",
		Short: "Export a project conversation",
		Long: `Export a project's conversation and latest code. Markdown is written
by default; --format json writes the raw messages.`,
		Example: `  vibecoder export 3
  vibecoder export 3 -o todo-api.md
  vibecoder export /project/3 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := projectArg(args[0])
			if err != nil {
				return err
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			t, err := loadTranscript(cmd.Context(), opts.gateway(cfg), id, cfg.Backend.UserID)
			if err != nil {
				return err
			}

			exportOpts := export.DefaultOptions()
			exportOpts.IncludeEditor = !noCode
			exportOpts.IncludeTimestamps = cfg.UI.ShowTimestamps
			exportOpts.OpenAfterExport = open

			path, err := writeTranscript(t, format, output, exportOpts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Exported %d messages to %s\n",
				RenderStatus("ok"), len(t.Messages), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default vibecoder_<id>_<name>_<time>.<ext>)")
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "markdown or json")
	cmd.Flags().BoolVar(&noCode, "no-code", false, "leave out the current code")
	cmd.Flags().BoolVar(&open, "open", false, "open the file after exporting")
	return cmd
}

// loadTranscript loads a project the same way the project screen does, so
// the exported code is the code the editor would show.
func loadTranscript(ctx context.Context, gw api.Gateway, id int64, userID string) (export.Transcript, error) {
	view := session.NewProjectView(gw, id, userID)
	if err := view.Load(ctx); err != nil {
		return export.Transcript{}, err
	}
	return export.Transcript{
		Project:  view.Project(),
		Messages: view.Chat.Messages(),
		Editor:   view.Chat.Editor(),
	}, nil
}

// writeTranscript writes t to output, or to a generated name under
// opts.OutputDir when output is empty. It returns the written path.
func writeTranscript(t export.Transcript, format, output string, opts *export.Options) (string, error) {
	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		return "", err
	}
	if output == "" {
		return export.ExportToFile(t, exporter, opts)
	}
	if err := export.ExportToPath(t, exporter, output, opts); err != nil {
		return "", err
	}
	return output, nil
}
