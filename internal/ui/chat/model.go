// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"

	"github.com/jeranaias/gemchat-tui/internal/controller"
	"github.com/jeranaias/gemchat-tui/internal/model"
	"github.com/jeranaias/gemchat-tui/internal/ui/components"
	"github.com/jeranaias/gemchat-tui/internal/ui/styles"
)

// =============================================================================
// FOCUS
// =============================================================================

// Focus is the part of the screen receiving keys.
type Focus int

const (
	FocusInput Focus = iota
	FocusSidebar
	FocusRename
)

// Layout constants.
const (
	inputHeight         = 3
	DefaultSidebarWidth = 28
	minSidebarWidth     = 16
)

// =============================================================================
// OPTIONS
// =============================================================================

// ExportFunc writes a conversation somewhere and returns the location.
type ExportFunc func(conv *model.Conversation) (string, error)

// Options configures the chat model.
type Options struct {
	// Context bounds completion requests. Cancelled requests fail like any
	// other request.
	Context context.Context

	// ColorProfile overrides the detected terminal profile.
	ColorProfile *termenv.Profile

	SidebarWidth int
	ShowSidebar  bool

	// Export is called by the export key. Nil disables it.
	Export ExportFunc

	// Now overrides time.Now.
	Now func() time.Time

	Logger zerolog.Logger
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	ctrl   *controller.Controller
	keys   KeyMap
	theme  *styles.Theme
	md     *components.Markdown
	toasts *components.ToastManager
	reqs   *requestContexts

	// UI components
	input    textarea.Model
	rename   textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model

	focus         Focus
	cursor        int
	showSidebar   bool
	sidebarWidth  int
	showHelp      bool
	bannerVisible bool

	// pending is the request in flight, if any.
	pending *controller.Request

	width  int
	height int
	ready  bool

	profile termenv.Profile
	export  ExportFunc
	now     func() time.Time
	logger  zerolog.Logger
}

// New creates the chat model over ctrl.
func New(ctrl *controller.Controller, opts Options) Model {
	profile := termenv.ColorProfile()
	if opts.ColorProfile != nil {
		profile = *opts.ColorProfile
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	sidebarWidth := opts.SidebarWidth
	if sidebarWidth < minSidebarWidth {
		sidebarWidth = DefaultSidebarWidth
	}

	theme := styles.NewThemeWithProfile(ctrl.Theme(), profile)
	keys := DefaultKeyMap()

	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline = keys.Newline
	ta.Focus()

	ti := textinput.New()
	ti.Prompt = "Rename: "
	ti.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = styles.DotsSpinner.Bubbles()
	sp.Style = theme.Spinner

	return Model{
		ctrl:         ctrl,
		keys:         keys,
		theme:        theme,
		md:           components.NewMarkdown(theme.GlamourStyle, profile),
		toasts:       components.NewToastManager(now),
		reqs:         newRequestContexts(opts.Context),
		input:        ta,
		rename:       ti,
		viewport:     viewport.New(80, 20),
		spinner:      sp,
		help:         help.New(),
		showSidebar:  opts.ShowSidebar,
		sidebarWidth: sidebarWidth,
		profile:      profile,
		export:       opts.Export,
		now:          now,
		logger:       opts.Logger.With().Str("component", "chat").Logger(),
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink and the toast ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, components.ToastTickCmd())
}

// Shutdown cancels requests still in flight. Call it after the program
// exits.
func (m Model) Shutdown() {
	m.reqs.cancelAll()
}

// Focus returns the focused area.
func (m Model) Focus() Focus {
	return m.focus
}

// Theme returns the active theme.
func (m Model) Theme() *styles.Theme {
	return m.theme
}

// Pending returns the request in flight, if any.
func (m Model) Pending() *controller.Request {
	return m.pending
}
