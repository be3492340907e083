// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the gemchat packages.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: rune-safe truncation with a trailing "…"
//   - TruncateWidth, PadWidth, StringWidth: terminal cell math via go-runewidth
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync + rename
//
// # Usage
//
//	title := util.TruncateRunes(firstMessage, 30)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
