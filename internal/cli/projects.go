// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/vibecoder-tui/internal/model"
	"github.com/jeranaias/vibecoder-tui/internal/router"
	"github.com/jeranaias/vibecoder-tui/internal/util"
)

func newProjectsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"p"},
		Short:   "List and create projects",
	}
	cmd.AddCommand(newProjectsListCommand(opts), newProjectsCreateCommand(opts))
	return cmd
}

func newProjectsListCommand(opts *rootOptions) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			gw := opts.gateway(cfg)
			out := cmd.OutOrStdout()
			return OutputJSON(out, jsonOut, "projects list", func() (any, error) {
				projects, err := gw.ListProjects(cmd.Context())
				if err != nil {
					return nil, err
				}
				if !jsonOut {
					printProjects(out, projects)
				}
				return projects, nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	return cmd
}

func newProjectsCreateCommand(opts *rootOptions) *cobra.Command {
	var (
		name     string
		language string
		jsonOut  bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Example: `  vibecoder projects create --name "Todo API" --language go
  vibecoder projects create --name scraper --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := model.NewProjectCreate(name, language)
			if err != nil {
				return err
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			gw := opts.gateway(cfg)
			out := cmd.OutOrStdout()
			return OutputJSON(out, jsonOut, "projects create", func() (any, error) {
				p, err := gw.CreateProject(cmd.Context(), req)
				if err != nil {
					return nil, err
				}
				if !jsonOut {
					fmt.Fprintf(out, "%s Created project #%d %s (%s)\n",
						RenderStatus("ok"), p.ID, p.Name, p.Language)
					fmt.Fprintln(out, DimStyle.Render("Open it with: vibecoder open "+router.Project(p.ID).Path()))
				}
				return p, nil
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "project name (required)")
	cmd.Flags().StringVarP(&language, "language", "l", model.Languages[0],
		"project language ("+strings.Join(model.Languages, ", ")+")")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func printProjects(w io.Writer, projects []model.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No projects yet. Create one with: vibecoder projects create --name NAME"))
		return
	}

	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("Projects (%d)", len(projects))))
	fmt.Fprintln(w, RenderSeparator())

	nameWidth := 0
	for _, p := range projects {
		if n := util.StringWidth(p.Name); n > nameWidth {
			nameWidth = n
		}
	}
	if nameWidth > 32 {
		nameWidth = 32
	}

	for _, p := range projects {
		id := util.PadRight("#"+strconv.FormatInt(p.ID, 10), 6)
		name := util.PadRight(p.Name, nameWidth)
		created := ""
		if !p.CreatedAt.IsZero() {
			created = "created " + p.CreatedAt.Local().Format("Jan 2, 2006")
		}
		fmt.Fprintf(w, "  %s %s  %s  %s\n",
			DimStyle.Render(id),
			ValueStyle.Render(name),
			util.PadRight(p.Language, 10),
			DimStyle.Render(created))
	}
}
