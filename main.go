// gemchat - a multi-conversation AI chat for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jeranaias/gemchat-tui/internal/cli"
	"github.com/jeranaias/gemchat-tui/internal/completion"
	"github.com/jeranaias/gemchat-tui/internal/config"
	"github.com/jeranaias/gemchat-tui/internal/controller"
	"github.com/jeranaias/gemchat-tui/internal/export"
	"github.com/jeranaias/gemchat-tui/internal/logging"
	"github.com/jeranaias/gemchat-tui/internal/model"
	"github.com/jeranaias/gemchat-tui/internal/session"
	"github.com/jeranaias/gemchat-tui/internal/storage"
	"github.com/jeranaias/gemchat-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath string
	plain      bool
	ephemeral  bool
	logStderr  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "gemchat",
		Short:         "Chat with an AI assistant in the terminal",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; the working directory wins over the config dir.
			_ = godotenv.Load()
			if dir, err := config.Dir(); err == nil {
				_ = godotenv.Load(filepath.Join(dir, ".env"))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (default ~/.gemchat/config.toml)")
	flags.BoolVar(&opts.ephemeral, "ephemeral", false, "Keep conversations in memory only")
	flags.BoolVar(&opts.logStderr, "log-stderr", false, "Also write logs to stderr")
	root.Flags().BoolVar(&opts.plain, "plain", false, "Use the line-mode interface even on a terminal")

	root.AddCommand(
		newListCmd(opts),
		newExportCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return root
}

// =============================================================================
// APPLICATION WIRING
// =============================================================================

// app bundles what every command that touches conversations needs.
type app struct {
	cfg       *config.Config
	cfgPath   string
	dataDir   string
	logger    zerolog.Logger
	logCloser io.Closer
	adapter   *storage.Adapter
	store     *session.Store
}

func openApp(opts *rootOptions, console bool) (*app, error) {
	cfgPath := opts.configPath
	if cfgPath == "" {
		p, err := config.PathTOML()
		if err != nil {
			return nil, err
		}
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if opts.ephemeral {
		cfg.Storage.Backend = string(storage.KindMemory)
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	logPath, err := cfg.LogPath()
	if err != nil {
		return nil, err
	}

	logger, closer, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		File:    logPath,
		Console: console,
	})
	if err != nil {
		return nil, err
	}

	backend, err := storage.Open(storage.Kind(cfg.Storage.Backend), dataDir)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	adapter := storage.NewAdapter(backend, logger)

	store := session.Open(adapter, session.Config{
		MaxMessages: cfg.History.MaxMessages,
		Logger:      logger,
	})

	logger.Info().
		Str("version", Version).
		Str("storage", cfg.Storage.Backend).
		Str("backend", cfg.Completion.Backend).
		Msg("gemchat starting")

	return &app{
		cfg:       cfg,
		cfgPath:   cfgPath,
		dataDir:   dataDir,
		logger:    logger,
		logCloser: closer,
		adapter:   adapter,
		store:     store,
	}, nil
}

func (a *app) Close() {
	if err := a.adapter.Close(); err != nil {
		a.logger.Error().Err(err).Msg("failed to close storage")
	}
	a.logCloser.Close()
}

func (a *app) newController(client completion.Client) *controller.Controller {
	return controller.New(a.store, client, controller.Options{
		Themes:         a.adapter,
		Theme:          model.Theme(a.cfg.UI.Theme),
		BannerDuration: a.cfg.UI.BannerDuration.Duration,
		Logger:         a.logger,
	})
}

func (a *app) exportOptions(theme model.Theme) *export.Options {
	opts := export.DefaultOptions()
	opts.OutputDir = filepath.Join(a.dataDir, "exports")
	opts.Theme = theme
	return opts
}

// =============================================================================
// CHAT
// =============================================================================

func runChat(cmd *cobra.Command, opts *rootOptions) error {
	interactive := !opts.plain && cli.Interactive()

	a, err := openApp(opts, opts.logStderr)
	if err != nil {
		return err
	}
	defer a.Close()

	client, err := completion.New(a.cfg.Completion, a.logger)
	if err != nil {
		return err
	}
	ctrl := a.newController(client)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if !interactive {
		return runREPL(ctx, a, ctrl)
	}
	return runTUI(ctx, a, ctrl)
}

func runTUI(ctx context.Context, a *app, ctrl *controller.Controller) error {
	m := chat.New(ctrl, chat.Options{
		Context:      ctx,
		SidebarWidth: a.cfg.UI.SidebarWidth,
		ShowSidebar:  a.cfg.UI.ShowSidebar,
		Export: func(conv *model.Conversation) (string, error) {
			return export.Export(conv, "html", a.exportOptions(ctrl.Theme()))
		},
		Logger: a.logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Hot reload: completion settings and layout apply without a restart.
	if w, err := config.NewWatcher(a.cfgPath, a.logger); err != nil {
		a.logger.Warn().Err(err).Str("path", a.cfgPath).Msg("config watch disabled")
	} else {
		go w.Run(ctx, func(cfg *config.Config) {
			client, err := completion.New(cfg.Completion, a.logger)
			if err != nil {
				a.logger.Error().Err(err).Msg("reloaded completion settings are unusable")
				client = nil
			}
			p.Send(chat.ConfigReloadedMsg{Client: client, UI: cfg.UI})
		})
	}

	final, err := p.Run()
	if fm, ok := final.(chat.Model); ok {
		fm.Shutdown()
	}
	if err != nil {
		return fmt.Errorf("run chat: %w", err)
	}
	return nil
}

func runREPL(ctx context.Context, a *app, ctrl *controller.Controller) error {
	reader := cli.NewLineReader(filepath.Join(a.dataDir, "history"))
	defer reader.Close()

	repl := cli.NewREPL(ctrl, reader, cli.Options{
		Out:     os.Stdout,
		Profile: cli.ColorProfile(),
		Width:   cli.TerminalWidth(),
		Export: func(conv *model.Conversation, format string) (string, error) {
			return export.Export(conv, format, a.exportOptions(ctrl.Theme()))
		},
		Logger: a.logger,
	})
	return repl.Run(ctx)
}
