// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gemchat-tui/internal/ui/styles"
	"github.com/jeranaias/gemchat-tui/internal/util"
)

// RenderHeader draws the top line: app name, conversation title and the
// active theme.
func RenderHeader(theme *styles.Theme, title string, width int) string {
	brand := theme.HeaderTitle.Render("gemchat")
	mode := theme.HeaderHint.Render(string(theme.Mode))

	frame := theme.Header.GetHorizontalFrameSize()
	room := width - frame - lipgloss.Width(brand) - lipgloss.Width(mode) - 4
	name := theme.WelcomeText.Render(util.TruncateWidth(title, room))

	left := brand + "  " + name
	gap := width - frame - lipgloss.Width(left) - lipgloss.Width(mode)
	if gap < 1 {
		gap = 1
	}
	return theme.Header.Width(width).Render(left + strings.Repeat(" ", gap) + mode)
}
