// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gemchat-tui/internal/render"
	"github.com/jeranaias/gemchat-tui/internal/ui/styles"
)

// WelcomeHint explains how to pick an example prompt.
const WelcomeHint = "Press a number to try an example, or type your own message."

// RenderWelcome draws the greeting panel with numbered example prompts,
// centered in width.
func RenderWelcome(theme *styles.Theme, w *render.Welcome, width int) string {
	if w == nil {
		return ""
	}

	chips := make([]string, 0, len(w.Prompts))
	for i, p := range w.Prompts {
		chips = append(chips, theme.Chip.Render(theme.ChipKey.Render(strconv.Itoa(i+1))+" "+p))
	}

	var b strings.Builder
	b.WriteString(theme.WelcomeTitle.Render("gemchat"))
	b.WriteString("\n\n")
	b.WriteString(theme.WelcomeText.Render(w.Text))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinVertical(lipgloss.Center, chips...))
	b.WriteString("\n\n")
	b.WriteString(theme.HeaderHint.Render(WelcomeHint))

	box := theme.WelcomeBox.Render(b.String())
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}
