// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render builds the view model of the chat screen from conversation
// state. It is pure: the drawers in ui/components (terminal) and export
// (HTML) turn its output into text.
//
// # Key Types
//
//   - Transcript: the welcome panel or a list of Bubble values
//   - Segment: prose or fenced code inside an AI reply
//   - HistoryItem: one sidebar entry
package render
