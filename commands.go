// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/gemchat-tui/internal/cli"
	"github.com/jeranaias/gemchat-tui/internal/config"
	"github.com/jeranaias/gemchat-tui/internal/export"
	"github.com/jeranaias/gemchat-tui/internal/model"
	"github.com/jeranaias/gemchat-tui/internal/session"
)

// =============================================================================
// LIST
// =============================================================================

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored conversations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts, opts.logStderr)
			if err != nil {
				return err
			}
			defer a.Close()

			cli.PrintConversationList(cmd.OutOrStdout(), cli.NewPrinter(cli.ColorProfile()),
				a.store.List(), a.store.CurrentID(), time.Now())
			return nil
		},
	}
}

// =============================================================================
// EXPORT
// =============================================================================

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		output string
		open   bool
	)

	cmd := &cobra.Command{
		Use:   "export <id|number>",
		Short: "Export a conversation to a file",
		Long: "Export a conversation by id, or by its number in `gemchat list`.\n" +
			"Formats: md, html, json, yaml.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts, opts.logStderr)
			if err != nil {
				return err
			}
			defer a.Close()

			conv, err := resolveConversation(a.store, args[0])
			if err != nil {
				return err
			}

			exportOpts := a.exportOptions(a.adapter.LoadTheme(model.Theme(a.cfg.UI.Theme)))
			if output != "" {
				exportOpts.OutputDir = output
			}
			exportOpts.OpenAfterExport = open

			path, err := export.Export(conv, format, exportOpts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "md", "Export format (md, html, json, yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default <data dir>/exports)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the file after exporting")
	return cmd
}

// resolveConversation accepts a conversation id or a 1-based list number.
func resolveConversation(store *session.Store, ref string) (*model.Conversation, error) {
	if conv, err := store.Get(ref); err == nil {
		return conv, nil
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", session.ErrNotFound, ref)
	}
	id, err := store.IDAt(n - 1)
	if err != nil {
		return nil, err
	}
	return store.Get(id)
}

// =============================================================================
// CONFIG
// =============================================================================

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(opts)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.SaveTOML(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(opts)
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), cfg.String())
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd, pathCmd)
	return cmd
}

func configPath(opts *rootOptions) (string, error) {
	if opts.configPath != "" {
		return opts.configPath, nil
	}
	return config.PathTOML()
}

// =============================================================================
// VERSION
// =============================================================================

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "gemchat %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  built:  %s\n", BuildDate)
		},
	}
}
