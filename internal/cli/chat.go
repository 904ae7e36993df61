// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/vibecoder-tui/internal/codeblock"
	"github.com/jeranaias/vibecoder-tui/internal/codediff"
	"github.com/jeranaias/vibecoder-tui/internal/config"
	"github.com/jeranaias/vibecoder-tui/internal/export"
	"github.com/jeranaias/vibecoder-tui/internal/model"
	"github.com/jeranaias/vibecoder-tui/internal/session"
	"github.com/jeranaias/vibecoder-tui/internal/ui/components"
	"github.com/jeranaias/vibecoder-tui/internal/ui/styles"
	"github.com/jeranaias/vibecoder-tui/internal/workspace"
)

// DefaultSummaryPrompt is sent by /summarize when no text is given.
const DefaultSummaryPrompt = "Summarize our conversation so far."

// =============================================================================
// INPUT HISTORY
// =============================================================================

// LineReader reads one line of user input.
type LineReader interface {
	ReadInput(prompt string) (string, error)
}

// ChatCLI provides line editing and persistent input history.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

var _ LineReader = (*ChatCLI)(nil)

// NewChatCLI creates a line editor and loads historyFile if it exists.
func NewChatCLI(historyFile string) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetMultiLineMode(true)

	c := &ChatCLI{line: line, historyFile: historyFile}
	c.LoadHistory()
	return c
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line, adding non-blank input to the history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory writes the history file with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		log.Printf("HISTORY_SAVE_FAILED | path=%s err=%v", c.historyFile, err)
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// REPL drives one project conversation a line at a time.
type REPL struct {
	view      *session.ProjectView
	out       io.Writer
	markdown  *components.Markdown
	codeStyle string
	width     int
	showTimes bool
	exportDir string
	mirror    *workspace.Mirror

	// lastChange is the editor diff of the most recent reply that changed it.
	lastChange *codediff.Change

	// now is stubbed in tests
	now func() time.Time
}

// NewREPL creates a REPL for a loaded project view.
func NewREPL(view *session.ProjectView, cfg *config.Config, out io.Writer) *REPL {
	r := &REPL{
		view:      view,
		out:       out,
		codeStyle: cfg.UI.CodeStyle,
		width:     GetTerminalWidth() - 2,
		showTimes: cfg.UI.ShowTimestamps,
		exportDir: ".",
		now:       time.Now,
	}
	if cfg.UI.RenderMarkdown {
		style := "notty"
		if ColorsEnabled() {
			style = styles.NewTheme(cfg.UI.Theme).GlamourStyle()
		}
		r.markdown = components.NewMarkdown(style)
	}
	return r
}

// WithWidth sets the render width.
func (r *REPL) WithWidth(width int) *REPL {
	r.width = width
	return r
}

// WithExportDir sets where /export writes generated file names.
func (r *REPL) WithExportDir(dir string) *REPL {
	r.exportDir = dir
	return r
}

// Mirror writes the editor buffer under dir and, with watch, applies
// external edits until ctx is done. The caller closes the mirror.
func (r *REPL) Mirror(ctx context.Context, dir string, watch bool) (*workspace.Mirror, error) {
	m := workspace.NewMirror(dir, r.view.Project())
	if err := m.Sync(r.view.Chat); err != nil {
		m.Close()
		return nil, fmt.Errorf("failed to mirror code: %w", err)
	}
	if watch {
		if err := m.Watch(); err != nil {
			m.Close()
			return nil, err
		}
		go m.Follow(ctx, r.view.Chat)
	}
	r.mirror = m
	return m, nil
}

// Run reads lines from in until /quit, Ctrl+C at the prompt or EOF.
func (r *REPL) Run(ctx context.Context, in LineReader) error {
	r.printWelcome()
	prompt := fmt.Sprintf("vibecoder:%d> ", r.view.ID())
	for {
		line, err := in.ReadInput(prompt)
		if err != nil {
			fmt.Fprintln(r.out)
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		more, err := r.Handle(ctx, line)
		if err != nil {
			r.printError(err)
		}
		if !more {
			return nil
		}
	}
}

// Handle processes one line. It returns false when the session should end.
func (r *REPL) Handle(ctx context.Context, input string) (bool, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return true, nil
	}
	if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
		return false, nil
	}
	if !strings.HasPrefix(input, "/") {
		return true, r.send(ctx, input, model.ActionGenerateCode)
	}

	command, rest, _ := strings.Cut(input, " ")
	command = strings.ToLower(command)
	rest = strings.TrimSpace(rest)

	switch command {
	case "/", "/help", "/h", "/?":
		r.printHelp()
	case "/generate", "/g":
		return true, r.send(ctx, rest, model.ActionGenerateCode)
	case "/analyze", "/a":
		if rest == "" {
			rest = r.view.Chat.Editor()
		}
		return true, r.send(ctx, rest, model.ActionAnalyzeCode)
	case "/summarize", "/s":
		if rest == "" {
			rest = DefaultSummaryPrompt
		}
		return true, r.send(ctx, rest, model.ActionSummarizeChat)
	case "/code", "/c":
		r.printCode()
	case "/diff", "/d":
		r.printDiff()
	case "/history":
		r.printHistory()
	case "/export", "/e":
		return true, r.export(rest)
	case "/quit", "/q", "/exit":
		return false, nil
	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
	return true, nil
}

// send submits text and prints the replies. Ctrl+C while waiting cancels
// the request and rolls the conversation back.
func (r *REPL) send(ctx context.Context, text string, action model.ChatAction) error {
	if strings.TrimSpace(text) == "" {
		return session.ErrEmptyInput
	}
	fmt.Fprintln(r.out, DimStyle.Render("Thinking ("+action.Label()+")..."))

	sendCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	before := r.view.Chat.Editor()
	start := time.Now()
	replies, err := r.view.Send(sendCtx, text, action)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			fmt.Fprintln(r.out, WarningStyle.Render("[Cancelled]"))
			return nil
		}
		return err
	}
	log.Printf("CHAT_REPLY | project=%d action=%s replies=%d duration=%s",
		r.view.ID(), action, len(replies), time.Since(start).Round(time.Millisecond))

	for _, m := range replies {
		if m.Role == model.RoleUser {
			continue
		}
		r.printMessage(m)
	}

	if after := r.view.Chat.Editor(); after != before {
		change := codediff.Compute(before, after)
		r.lastChange = &change
		fmt.Fprintf(r.out, "%s\n", DimStyle.Render(fmt.Sprintf(
			"Code updated (%s). Type /code to view it or /diff to compare.", change.Summary())))
	}
	return nil
}

func (r *REPL) export(path string) error {
	t := export.Transcript{
		Project:  r.view.Project(),
		Messages: r.view.Chat.Messages(),
		Editor:   r.view.Chat.Editor(),
	}
	opts := export.DefaultOptions()
	opts.OutputDir = r.exportDir
	opts.IncludeTimestamps = r.showTimes
	opts.Now = r.now

	written, err := writeTranscript(t, "markdown", path, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s Exported to %s\n", RenderStatus("ok"), written)
	return nil
}

// =============================================================================
// DISPLAY
// =============================================================================

func (r *REPL) printWelcome() {
	p := r.view.Project()
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, TitleStyle.Render(components.Brand))
	fmt.Fprintln(r.out, RenderSeparator(30))
	fmt.Fprintf(r.out, "%s%s\n", RenderLabel("Project:"), PromptStyle.Render(fmt.Sprintf("#%d %s", p.ID, p.Name)))
	fmt.Fprintf(r.out, "%s%s\n", RenderLabel("Language:"), ValueStyle.Render(p.Language))
	fmt.Fprintf(r.out, "%s%s\n", RenderLabel("Messages:"), ValueStyle.Render(fmt.Sprint(len(r.view.Chat.Messages()))))
	if r.mirror != nil {
		fmt.Fprintf(r.out, "%s%s\n", RenderLabel("Code file:"), ValueStyle.Render(r.mirror.Path()))
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, DimStyle.Render("Type a request and press Enter to generate code. Commands: /help, /quit"))
	fmt.Fprintln(r.out)
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, TitleStyle.Render("Available Commands"))
	fmt.Fprintln(r.out, RenderSeparator(20))

	commands := []struct {
		cmd  string
		desc string
	}{
		{"<text>", "Generate code for a request"},
		{"/analyze [text]", "Analyze text, or the current code"},
		{"/summarize [text]", "Summarize the conversation"},
		{"/code, /c", "Show the current code"},
		{"/diff, /d", "Show the last code change"},
		{"/history", "Show the conversation"},
		{"/export [file]", "Export the conversation as Markdown"},
		{"/help, /h", "Show this help"},
		{"/quit, /q", "Exit chat"},
	}
	for _, c := range commands {
		fmt.Fprintf(r.out, "  %s  %s\n",
			CommandStyle.Render(fmt.Sprintf("%-18s", c.cmd)),
			DimStyle.Render(c.desc))
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, DimStyle.Render("Tip: Ctrl+C cancels a pending request, Ctrl+D exits"))
	fmt.Fprintln(r.out)
}

func (r *REPL) printMessage(m model.Message) {
	header := RenderRole(m.Role)
	if r.showTimes && !m.CreatedAt.IsZero() {
		header += " " + DimStyle.Render(components.FormatTimestamp(m.CreatedAt, r.now()))
	}
	fmt.Fprintln(r.out, header)
	fmt.Fprintln(r.out, r.markdown.Render(m.Content, r.width))
	fmt.Fprintln(r.out)
}

func (r *REPL) printHistory() {
	msgs := r.view.Chat.Messages()
	if len(msgs) == 0 {
		fmt.Fprintln(r.out, DimStyle.Render("No messages yet."))
		return
	}
	preview := r.width - 16
	if preview < 20 {
		preview = 20
	}
	fmt.Fprintln(r.out, TitleStyle.Render(fmt.Sprintf("Conversation (%d messages)", len(msgs))))
	for _, m := range msgs {
		fmt.Fprintf(r.out, "  %s %s\n", RenderRole(m.Role), m.Preview(preview))
	}
}

func (r *REPL) printCode() {
	code := r.view.Chat.Editor()
	if strings.TrimSpace(code) == "" {
		fmt.Fprintln(r.out, DimStyle.Render("No code yet. Ask for some code first."))
		return
	}
	lang := r.view.Project().Language
	fmt.Fprintln(r.out, RenderSeparator()+" "+DimStyle.Render(lang))
	if ColorsEnabled() {
		code = codeblock.Highlight(code, lang, r.codeStyle)
	}
	fmt.Fprintln(r.out, strings.TrimRight(code, "\n"))
	fmt.Fprintln(r.out, RenderSeparator())
}

func (r *REPL) printDiff() {
	if r.lastChange == nil || r.lastChange.Empty() {
		fmt.Fprintln(r.out, DimStyle.Render("No code changes yet."))
		return
	}
	name := "main." + codeblock.Extension(r.view.Project().Language)
	for _, line := range strings.Split(strings.TrimRight(r.lastChange.Unified(name, 3), "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprintln(r.out, TitleStyle.Render(line))
		case strings.HasPrefix(line, "@@"):
			fmt.Fprintln(r.out, DimStyle.Render(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprintln(r.out, SuccessStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprintln(r.out, ErrorStyle.Render(line))
		default:
			fmt.Fprintln(r.out, line)
		}
	}
}

func (r *REPL) printError(err error) {
	info := components.Describe(err)
	fmt.Fprintf(r.out, "%s %s\n", ErrorStyle.Render("["+string(info.Category)+"]"), info.Message)
	if info.Suggestion != "" {
		fmt.Fprintln(r.out, DimStyle.Render("  "+info.Suggestion))
	}
}

// =============================================================================
// COMMAND
// =============================================================================

func newChatCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <project-id>",
		Short: "Chat with a project in line mode",
		Long: `Start a line-mode conversation with a project. Plain lines ask the
assistant to generate code; slash commands analyze, summarize, show the
current code and export the conversation. Input history is kept in
~/.vibecoder/chat_history.`,
		Example: `  vibecoder chat 3
  vibecoder chat /project/3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := projectArg(args[0])
			if err != nil {
				return err
			}
			if err := RequiresTTY("start an interactive chat"); err != nil {
				return err
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			view := session.NewProjectView(opts.gateway(cfg), id, cfg.Backend.UserID)
			if err := view.Load(ctx); err != nil {
				return err
			}

			repl := NewREPL(view, cfg, cmd.OutOrStdout())
			if cfg.Workspace.Dir != "" {
				mirror, err := repl.Mirror(ctx, cfg.Workspace.Dir, cfg.Workspace.Watch)
				if err != nil {
					return err
				}
				defer mirror.Close()
			}

			historyFile, err := config.HistoryPath()
			if err != nil {
				return err
			}
			input := NewChatCLI(historyFile)
			defer input.Close()

			return repl.Run(ctx, input)
		},
	}
}
