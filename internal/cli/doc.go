// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the line-mode front end used when stdin or stdout is
// not a terminal, or when --plain is given.
//
// The REPL drives the same controller as the full-screen UI. Plain input is
// sent as a chat message; lines starting with "/" are commands.
//
// # Key Types
//
//   - REPL: the read-handle loop
//   - LineReader: line input, backed by liner on a terminal
//   - Printer: lipgloss styles for line output
//
// # Usage
//
//	reader := cli.NewLineReader(historyPath)
//	defer reader.Close()
//	repl := cli.NewREPL(ctrl, reader, cli.Options{
//		Out:     os.Stdout,
//		Profile: cli.ColorProfile(),
//		Width:   cli.TerminalWidth(),
//	})
//	err := repl.Run(ctx)
package cli
