// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/gemchat-tui/internal/model"
)

// Glamour and chroma style names per mode. They are fixed so that the same
// message renders the same way every time.
const (
	GlamourDark  = "dark"
	GlamourLight = "light"
	ChromaDark   = "monokai"
	ChromaLight  = "github"
)

// Theme holds all the styled components for the application.
type Theme struct {
	Mode         model.Theme
	Palette      Palette
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// Renderer style names
	GlamourStyle string
	ChromaStyle  string

	// ==========================================================================
	// APPLICATION
	// ==========================================================================

	App         lipgloss.Style
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderHint  lipgloss.Style

	// ==========================================================================
	// MESSAGES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	SenderLabel     lipgloss.Style
	TypingText      lipgloss.Style
	Spinner         lipgloss.Style

	// ==========================================================================
	// CODE
	// ==========================================================================

	CodeBlock     lipgloss.Style
	CodeLangBadge lipgloss.Style
	CodeLineNum   lipgloss.Style

	// ==========================================================================
	// WELCOME
	// ==========================================================================

	WelcomeBox   lipgloss.Style
	WelcomeTitle lipgloss.Style
	WelcomeText  lipgloss.Style
	Chip         lipgloss.Style
	ChipKey      lipgloss.Style

	// ==========================================================================
	// SIDEBAR
	// ==========================================================================

	Sidebar           lipgloss.Style
	SidebarFocused    lipgloss.Style
	SidebarTitle      lipgloss.Style
	SidebarItem       lipgloss.Style
	SidebarItemActive lipgloss.Style
	SidebarCursor     lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS
	// ==========================================================================

	InputContainer lipgloss.Style
	InputDisabled  lipgloss.Style
	StatusBar      lipgloss.Style
	ShortcutKey    lipgloss.Style
	ShortcutDesc   lipgloss.Style

	// ==========================================================================
	// NOTICES
	// ==========================================================================

	Banner       lipgloss.Style
	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
}

// NewTheme creates a theme for mode using the terminal's color profile.
func NewTheme(mode model.Theme) *Theme {
	return NewThemeWithProfile(mode, termenv.ColorProfile())
}

// NewThemeWithProfile creates a theme for mode with an explicit color
// profile. Tests pass termenv.Ascii for stable output.
func NewThemeWithProfile(mode model.Theme, profile termenv.Profile) *Theme {
	if !mode.Valid() {
		mode = model.ThemeDark
	}
	t := &Theme{
		Mode:         mode,
		Palette:      PaletteFor(mode),
		ColorProfile: profile,
		GlamourStyle: GlamourDark,
		ChromaStyle:  ChromaDark,
	}
	if mode == model.ThemeLight {
		t.GlamourStyle = GlamourLight
		t.ChromaStyle = ChromaLight
	}
	t.initStyles()
	return t
}

// Toggled returns a theme for the other mode with the same size.
func (t *Theme) Toggled() *Theme {
	next := NewThemeWithProfile(t.Mode.Toggle(), t.ColorProfile)
	next.SetSize(t.Width, t.Height)
	return next
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	p := t.Palette

	// Styles render with the theme's profile, not the global default.
	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(t.ColorProfile)

	t.App = r.NewStyle()

	// Header
	t.Header = r.NewStyle().
		Background(p.SurfaceDim).
		Padding(0, 1)
	t.HeaderTitle = r.NewStyle().
		Bold(true).
		Foreground(p.Purple)
	t.HeaderHint = r.NewStyle().
		Foreground(p.TextMuted).
		Italic(true)

	// Message bubbles
	t.UserBubble = r.NewStyle().
		Foreground(p.UserBubbleFg).
		Background(p.UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.UserBubbleBorder).
		Padding(0, 1)

	t.AssistantBubble = r.NewStyle().
		Foreground(p.AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.AssistantBubbleBorder).
		Padding(0, 1)

	t.SenderLabel = r.NewStyle().
		Foreground(p.TextSecondary).
		Bold(true)

	t.TypingText = r.NewStyle().
		Foreground(p.TextMuted).
		Italic(true)

	t.Spinner = r.NewStyle().
		Foreground(p.Purple)

	// Code
	t.CodeBlock = r.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Overlay).
		Padding(0, 1)
	t.CodeLangBadge = r.NewStyle().
		Foreground(p.TextMuted).
		Background(p.SurfaceBright).
		Padding(0, 1).
		Bold(true)
	t.CodeLineNum = r.NewStyle().
		Foreground(p.TextMuted).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	// Welcome
	t.WelcomeBox = r.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Purple).
		Padding(1, 3).
		Align(lipgloss.Center)
	t.WelcomeTitle = r.NewStyle().
		Bold(true).
		Foreground(p.Cyan)
	t.WelcomeText = r.NewStyle().
		Foreground(p.TextPrimary)
	t.Chip = r.NewStyle().
		Foreground(p.TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Overlay).
		Padding(0, 1)
	t.ChipKey = r.NewStyle().
		Foreground(p.Purple).
		Bold(true)

	// Sidebar
	t.Sidebar = r.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(p.Overlay).
		Padding(0, 1)
	t.SidebarFocused = t.Sidebar.
		BorderForeground(p.Cyan)
	t.SidebarTitle = r.NewStyle().
		Foreground(p.TextSecondary).
		Bold(true).
		MarginBottom(1)
	t.SidebarItem = r.NewStyle().
		Foreground(p.TextSecondary)
	t.SidebarItemActive = r.NewStyle().
		Foreground(p.Purple).
		Bold(true)
	t.SidebarCursor = r.NewStyle().
		Background(p.SelectionBg)

	// Input and status
	t.InputContainer = r.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Purple)
	t.InputDisabled = t.InputContainer.
		BorderForeground(p.Overlay)
	t.StatusBar = r.NewStyle().
		Foreground(p.TextMuted).
		Padding(0, 1)
	t.ShortcutKey = r.NewStyle().
		Foreground(p.Cyan).
		Bold(true)
	t.ShortcutDesc = r.NewStyle().
		Foreground(p.TextMuted)

	// Notices
	t.Banner = r.NewStyle().
		Foreground(p.BannerFg).
		Background(p.BannerBg).
		Bold(true).
		Padding(0, 1)
	t.ToastInfo = r.NewStyle().
		Foreground(p.Cyan).
		Padding(0, 1)
	t.ToastSuccess = r.NewStyle().
		Foreground(p.Emerald).
		Padding(0, 1)
	t.ToastError = r.NewStyle().
		Foreground(p.Rose).
		Bold(true).
		Padding(0, 1)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns, sidebar hidden
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
