// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gemchat-tui/internal/model"
)

// Palette is the set of colors for one theme mode. The theme toggle is
// explicit, so colors are picked per mode rather than through
// lipgloss.AdaptiveColor.
type Palette struct {
	// Accents
	Purple  lipgloss.Color
	Cyan    lipgloss.Color
	Emerald lipgloss.Color
	Rose    lipgloss.Color
	Amber   lipgloss.Color

	// Surfaces
	Surface       lipgloss.Color
	SurfaceDim    lipgloss.Color
	SurfaceBright lipgloss.Color
	Overlay       lipgloss.Color

	// Text
	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color
	TextInverse   lipgloss.Color

	// Bubbles
	UserBubbleBg          lipgloss.Color
	UserBubbleFg          lipgloss.Color
	UserBubbleBorder      lipgloss.Color
	AssistantBubbleBg     lipgloss.Color
	AssistantBubbleFg     lipgloss.Color
	AssistantBubbleBorder lipgloss.Color

	// Banner
	BannerBg lipgloss.Color
	BannerFg lipgloss.Color

	SelectionBg lipgloss.Color
}

// =============================================================================
// DARK
// =============================================================================

// DarkPalette is the Catppuccin Mocha based dark palette.
var DarkPalette = Palette{
	Purple:  "#A78BFA",
	Cyan:    "#22D3EE",
	Emerald: "#34D399",
	Rose:    "#FB7185",
	Amber:   "#FBBF24",

	Surface:       "#1E1E2E",
	SurfaceDim:    "#181825",
	SurfaceBright: "#313244",
	Overlay:       "#45475A",

	TextPrimary:   "#CDD6F4",
	TextSecondary: "#A6ADC8",
	TextMuted:     "#6C7086",
	TextInverse:   "#1E1E2E",

	UserBubbleBg:          "#1D4ED8",
	UserBubbleFg:          "#E0F2FE",
	UserBubbleBorder:      "#3B82F6",
	AssistantBubbleBg:     "#3B3655",
	AssistantBubbleFg:     "#E9E4F5",
	AssistantBubbleBorder: "#A78BFA",

	BannerBg: "#78350F",
	BannerFg: "#FEF3C7",

	SelectionBg: "#1E3A5F",
}

// =============================================================================
// LIGHT
// =============================================================================

// LightPalette is the Catppuccin Latte based light palette.
var LightPalette = Palette{
	Purple:  "#7C3AED",
	Cyan:    "#0891B2",
	Emerald: "#059669",
	Rose:    "#E11D48",
	Amber:   "#D97706",

	Surface:       "#FFFFFF",
	SurfaceDim:    "#F5F5F5",
	SurfaceBright: "#FAFAFA",
	Overlay:       "#D4D4D4",

	TextPrimary:   "#1F2937",
	TextSecondary: "#6B7280",
	TextMuted:     "#9CA3AF",
	TextInverse:   "#FFFFFF",

	UserBubbleBg:          "#DBEAFE",
	UserBubbleFg:          "#1E40AF",
	UserBubbleBorder:      "#3B82F6",
	AssistantBubbleBg:     "#F5F3FF",
	AssistantBubbleFg:     "#5B4B8A",
	AssistantBubbleBorder: "#C4B5FD",

	BannerBg: "#FEF3C7",
	BannerFg: "#92400E",

	SelectionBg: "#BFDBFE",
}

// PaletteFor returns the palette of a theme mode. Unknown modes get the dark
// palette.
func PaletteFor(mode model.Theme) Palette {
	if mode == model.ThemeLight {
		return LightPalette
	}
	return DarkPalette
}
