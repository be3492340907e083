// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jeranaias/gemchat-tui/internal/controller"
	"github.com/jeranaias/gemchat-tui/internal/model"
	"github.com/jeranaias/gemchat-tui/internal/render"
	"github.com/jeranaias/gemchat-tui/internal/ui/components"
	"github.com/jeranaias/gemchat-tui/internal/ui/styles"
)

// ExportFunc writes conv in format and returns the file path.
type ExportFunc func(conv *model.Conversation, format string) (string, error)

// Options configures a REPL.
type Options struct {
	Out     io.Writer
	Profile termenv.Profile
	Width   int
	Export  ExportFunc
	Now     func() time.Time
	Logger  zerolog.Logger
}

// REPL is the line-mode front end. It drives the same controller as the
// full-screen UI, one blocking send at a time.
type REPL struct {
	ctrl    *controller.Controller
	in      LineReader
	out     io.Writer
	p       Printer
	md      *components.Markdown
	profile termenv.Profile
	width   int
	export  ExportFunc
	now     func() time.Time
	logger  zerolog.Logger
}

// NewREPL creates a REPL reading from in.
func NewREPL(ctrl *controller.Controller, in LineReader, opts Options) *REPL {
	r := &REPL{
		ctrl:    ctrl,
		in:      in,
		out:     opts.Out,
		p:       NewPrinter(opts.Profile),
		profile: opts.Profile,
		width:   opts.Width,
		export:  opts.Export,
		now:     opts.Now,
		logger:  opts.Logger.With().Str("component", "repl").Logger(),
	}
	if r.out == nil {
		r.out = io.Discard
	}
	if r.width <= 0 {
		r.width = DefaultTerminalWidth
	}
	if r.now == nil {
		r.now = time.Now
	}
	r.md = components.NewMarkdown(r.markdownStyle(), r.profile)
	return r
}

func (r *REPL) markdownStyle() string {
	if r.profile == termenv.Ascii {
		return "notty"
	}
	if r.ctrl.Theme().IsDark() {
		return styles.GlamourDark
	}
	return styles.GlamourLight
}

// =============================================================================
// MAIN LOOP
// =============================================================================

// Run reads and handles lines until /quit, end of input or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	r.printWelcome()

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := r.in.Prompt(r.prompt())
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(r.out)
				return nil
			}
			if err == liner.ErrPromptAborted {
				// Ctrl+C on an empty prompt exits like the TUI does.
				return nil
			}
			return errors.Wrap(err, "read input")
		}

		if strings.TrimSpace(line) != "" {
			r.in.AppendHistory(line)
		}
		if quit := r.Handle(ctx, line); quit {
			return nil
		}
	}
}

func (r *REPL) prompt() string {
	conv := r.ctrl.Current()
	title := model.DefaultTitle
	if conv != nil {
		title = conv.GetTitle()
	}
	return fmt.Sprintf("[%s] > ", title)
}

// Handle processes one input line and reports whether the REPL should exit.
func (r *REPL) Handle(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)
	switch strings.ToLower(trimmed) {
	case "":
		return false
	case "exit", "quit":
		return true
	}

	if strings.HasPrefix(trimmed, "/") {
		return r.handleCommand(ctx, trimmed)
	}
	r.send(ctx, line)
	return false
}

// =============================================================================
// SENDING
// =============================================================================

func (r *REPL) send(ctx context.Context, text string) {
	fmt.Fprintln(r.out, r.p.Dim.Render(components.TypingText+"..."))

	out, err := r.ctrl.Send(ctx, text)
	switch {
	case errors.Is(err, controller.ErrEmptyInput):
		return
	case err != nil:
		r.printError(err)
		return
	}
	r.reportPersistError()

	switch {
	case out.Discarded:
		return
	case out.RateLimited:
		if text, ok := r.ctrl.Banner(r.now()); ok {
			fmt.Fprintln(r.out, r.p.Warning.Render("[!] "+text))
		}
	case out.Failed:
		r.logger.Debug().Err(out.Err).Msg("completion failed")
		fmt.Fprintln(r.out, r.p.Error.Render(controller.ApologyText))
	case out.Appended && out.Refresh:
		if conv := r.ctrl.Current(); conv != nil {
			if msg, ok := conv.LastAIMessage(); ok {
				r.printMessage(msg)
			}
		}
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func (r *REPL) handleCommand(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	cmd := strings.ToLower(parts[0])
	arg := strings.TrimSpace(strings.TrimPrefix(line, parts[0]))

	switch cmd {
	case "/quit", "/exit", "/q":
		return true

	case "/help", "/h", "/?":
		r.printHelp()

	case "/new", "/n":
		r.ctrl.NewChat()
		r.reportPersistError()
		r.printSuccess("Started a new chat")

	case "/clear", "/c":
		if err := r.ctrl.Clear(); err != nil {
			r.printError(err)
			return false
		}
		r.reportPersistError()
		r.printSuccess("Conversation cleared")

	case "/list", "/ls":
		PrintConversationList(r.out, r.p, r.ctrl.Store().List(), r.ctrl.Store().CurrentID(), r.now())

	case "/switch", "/s":
		n, err := strconv.Atoi(arg)
		if err != nil {
			r.printError(errors.Errorf("usage: /switch <number>"))
			return false
		}
		if err := r.ctrl.SelectIndex(n - 1); err != nil {
			r.printError(err)
			return false
		}
		r.reportPersistError()
		r.PrintTranscript()

	case "/show":
		r.PrintTranscript()

	case "/rename":
		if err := r.ctrl.Rename(arg); err != nil {
			r.printError(err)
			return false
		}
		r.reportPersistError()
		r.printSuccess("Renamed to " + r.ctrl.Current().GetTitle())

	case "/theme":
		mode, err := r.ctrl.ToggleTheme()
		r.md = components.NewMarkdown(r.markdownStyle(), r.profile)
		if err != nil {
			r.printError(err)
			return false
		}
		r.printSuccess("Theme: " + string(mode))

	case "/copy":
		if _, err := r.ctrl.CopyLastResponse(); err != nil {
			r.printError(err)
			return false
		}
		r.printSuccess("Copied last response to clipboard")

	case "/export":
		r.exportCurrent(arg)

	case "/prompt":
		n, err := strconv.Atoi(arg)
		if err != nil {
			r.printError(errors.Errorf("usage: /prompt <1-%d>", len(render.ExamplePrompts)))
			return false
		}
		text, ok := r.ctrl.ExamplePrompt(n)
		if !ok {
			r.printError(errors.New("example prompts are only available in an empty chat"))
			return false
		}
		fmt.Fprintln(r.out, r.p.Prompt.Render("You: ")+text)
		r.send(ctx, text)

	default:
		r.printError(errors.Errorf("unknown command %s (try /help)", cmd))
	}
	return false
}

func (r *REPL) exportCurrent(format string) {
	if r.export == nil {
		r.printError(errors.New("export is not available"))
		return
	}
	if format == "" {
		format = "md"
	}
	conv := r.ctrl.Current()
	if conv == nil {
		r.printError(errors.New("no conversation to export"))
		return
	}
	path, err := r.export(conv, format)
	if err != nil {
		r.printError(err)
		return
	}
	r.printSuccess("Exported to " + path)
}

// =============================================================================
// OUTPUT
// =============================================================================

// PrintTranscript writes the current conversation, or the welcome panel when
// it is empty.
func (r *REPL) PrintTranscript() {
	conv := r.ctrl.Current()
	if conv == nil || conv.IsEmpty() {
		r.printWelcomePanel()
		return
	}
	fmt.Fprintln(r.out, r.p.Title.Render(conv.GetTitle()))
	for _, msg := range conv.Messages {
		r.printMessage(msg)
	}
}

func (r *REPL) printMessage(msg model.Message) {
	label := msg.Sender.DisplayName() + ":"
	if msg.IsUser() {
		fmt.Fprintln(r.out, r.p.Prompt.Render(label)+" "+msg.Text)
		return
	}
	fmt.Fprintln(r.out, r.p.Title.Render(label))
	fmt.Fprintln(r.out, r.md.Render(msg.Text, r.width))
}

func (r *REPL) printWelcome() {
	fmt.Fprintln(r.out, r.p.Dim.Render("Type a message and press Enter. /help lists commands."))
	r.PrintTranscript()
}

func (r *REPL) printWelcomePanel() {
	fmt.Fprintln(r.out, r.p.Title.Render(render.WelcomeText))
	for i, prompt := range render.ExamplePrompts {
		fmt.Fprintf(r.out, "  %s %s\n", r.p.Label.Render(fmt.Sprintf("/prompt %d", i+1)), r.p.Value.Render(prompt))
	}
}

var helpLines = [][2]string{
	{"/new", "Start a new chat"},
	{"/clear", "Clear the current chat"},
	{"/list", "List chats"},
	{"/switch <n>", "Switch to chat n"},
	{"/show", "Print the current chat"},
	{"/rename <title>", "Rename the current chat"},
	{"/theme", "Toggle dark and light theme"},
	{"/copy", "Copy the last response"},
	{"/export [fmt]", "Export the chat (md, html, json, yaml)"},
	{"/prompt <n>", "Send example prompt n"},
	{"/help", "Show this help"},
	{"/quit", "Exit"},
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, r.p.Title.Render("Commands"))
	for _, l := range helpLines {
		fmt.Fprintf(r.out, "  %s %s\n", r.p.Label.Render(fmt.Sprintf("%-16s", l[0])), r.p.Value.Render(l[1]))
	}
}

func (r *REPL) printSuccess(msg string) {
	fmt.Fprintln(r.out, r.p.Success.Render("[OK] ")+msg)
}

func (r *REPL) printError(err error) {
	fmt.Fprintln(r.out, r.p.Error.Render("[X] ")+err.Error())
}

func (r *REPL) reportPersistError() {
	if err := r.ctrl.TakePersistError(); err != nil {
		fmt.Fprintln(r.out, r.p.Warning.Render("[!] ")+"could not save conversations: "+err.Error())
	}
}
