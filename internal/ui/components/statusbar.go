// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gemchat-tui/internal/ui/styles"
)

// Shortcut is one key hint in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// RenderStatusBar draws the bottom line: a status on the left and as many
// shortcuts as fit on the right.
func RenderStatusBar(theme *styles.Theme, status string, shortcuts []Shortcut, width int) string {
	left := theme.ShortcutDesc.Render(status)
	room := width - theme.StatusBar.GetHorizontalFrameSize() - lipgloss.Width(left) - 2

	var hints []string
	used := 0
	for _, s := range shortcuts {
		hint := theme.ShortcutKey.Render(s.Key) + " " + theme.ShortcutDesc.Render(s.Desc)
		w := lipgloss.Width(hint) + 2
		if used+w > room {
			break
		}
		hints = append(hints, hint)
		used += w
	}
	right := strings.Join(hints, "  ")

	gap := width - theme.StatusBar.GetHorizontalFrameSize() - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return theme.StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
