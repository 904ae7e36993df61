// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/vibecoder-tui/internal/api"
	"github.com/jeranaias/vibecoder-tui/internal/config"
	"github.com/jeranaias/vibecoder-tui/internal/router"
	"github.com/jeranaias/vibecoder-tui/internal/ui/app"
)

// Version information, set from main.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GatewayFactory builds the backend gateway for a loaded config.
type GatewayFactory func(cfg *config.Config) api.Gateway

// DefaultGateway returns the HTTP client for cfg.
func DefaultGateway(cfg *config.Config) api.Gateway {
	return api.NewClient(cfg.APIBaseURL()).
		WithTimeout(cfg.Timeout()).
		WithUserAgent("vibecoder/" + Version)
}

// rootOptions is the state shared by every command of one invocation.
type rootOptions struct {
	configPath string
	verbose    bool

	cfg     *config.Config
	gateway GatewayFactory
}

// loadConfig loads the configuration once per invocation.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFromPath(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	config.SetGlobal(cfg)
	o.cfg = cfg
	return cfg, nil
}

// configFile is the file `config` subcommands read and write.
func (o *rootOptions) configFile() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.ConfigPath()
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	log.SetFlags(log.LstdFlags)
	if o.verbose {
		log.SetOutput(cmd.ErrOrStderr())
	} else {
		log.SetOutput(io.Discard)
	}
	return nil
}

// NewRootCommand builds the command tree against the HTTP backend.
func NewRootCommand() *cobra.Command {
	return newRootCommand(DefaultGateway)
}

func newRootCommand(gateway GatewayFactory) *cobra.Command {
	opts := &rootOptions{gateway: gateway}

	cmd := &cobra.Command{
		Use:   "vibecoder",
		Short: "Vibe Coder AI in your terminal",
		Long: `vibecoder is a terminal client for Vibe Coder AI.
Create projects, ask the assistant to generate or analyze code, and keep
the latest code in an editor pane next to the conversation.

Run without a command to open the full-screen interface.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runTUI(router.Home)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.vibecoder/config.toml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")

	cmd.AddCommand(
		newOpenCommand(opts),
		newChatCommand(opts),
		newProjectsCommand(opts),
		newExportCommand(opts),
		newProxyCommand(opts),
		newConfigCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

// Execute runs the command tree with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// =============================================================================
// OPEN
// =============================================================================

func newOpenCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "open [route]",
		Short: "Open the full-screen interface at a route",
		Long: `Open the full-screen interface. The route is "/" for the project
list or "/project/<id>" (or just "<id>") for a project.`,
		Example: `  vibecoder open
  vibecoder open /project/3
  vibecoder open 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := router.Home
			if len(args) == 1 {
				route, err := router.Parse(args[0])
				if err != nil {
					return err
				}
				start = route
			}
			return opts.runTUI(start)
		},
	}
}

func (o *rootOptions) runTUI(start router.Route) error {
	if err := RequiresTTY("open the terminal interface"); err != nil {
		return err
	}
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}

	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	logPath, err := config.LogPath()
	if err != nil {
		return err
	}
	f, err := tea.LogToFile(logPath, "vibecoder")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	log.Printf("TUI_START | route=%s version=%s backend=%s", start, Version, cfg.APIBaseURL())
	return app.Run(cfg, o.gateway(cfg), start)
}

// projectArg parses a project ID given as "3" or "/project/3".
func projectArg(arg string) (int64, error) {
	route, err := router.Parse(arg)
	if err != nil {
		return 0, err
	}
	if route.Kind != router.KindProject {
		return 0, fmt.Errorf("%w: %q", router.ErrInvalidProjectID, arg)
	}
	return route.ProjectID, nil
}
