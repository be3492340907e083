// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the gemchat TUI.

# Color System (colors.go)

The theme is toggled explicitly by the user, so there is one Palette per
mode instead of lipgloss.AdaptiveColor values:

	DarkPalette  - Catppuccin Mocha surfaces, violet assistant bubbles
	LightPalette - Catppuccin Latte surfaces, pale blue user bubbles

# Theme (theme.go)

Theme bundles every lipgloss style of the chat screen plus the glamour and
chroma style names used for markdown and code. Those names are fixed per
mode so rendering is stable.

	theme := styles.NewTheme(model.ThemeDark)
	theme.SetSize(width, height)
	next := theme.Toggled()

# Animations (animations.go)

SpinnerConfig frames drive the typing bubble through bubbles/spinner.
*/
package styles
