// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/jeranaias/gemchat-tui/internal/ui/styles"
)

// RenderBanner draws a full-width warning line. Empty text renders nothing.
func RenderBanner(theme *styles.Theme, text string, width int) string {
	if text == "" {
		return ""
	}
	return theme.Banner.Width(width).Render(styles.Indicators.Warning + " " + text)
}
