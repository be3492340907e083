// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gemchat-tui/internal/ui/components"
	"github.com/jeranaias/gemchat-tui/internal/ui/styles"
)

// View renders the chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, components.RenderHeader(m.theme, m.currentTitle(), m.width))

	if text, ok := m.ctrl.Banner(m.now()); ok {
		sections = append(sections, components.RenderBanner(m.theme, text, m.width))
	}

	body := m.viewport.View()
	if m.sidebarShown() {
		sidebar := components.RenderSidebar(m.theme, m.ctrl.History(), m.cursor,
			m.focus == FocusSidebar, m.sidebarWidth, m.viewport.Height)
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, body)
	}
	sections = append(sections, body)

	sections = append(sections, m.renderInput())
	sections = append(sections, m.renderStatus())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderInput() string {
	frame := m.theme.InputContainer
	if m.pending != nil {
		frame = m.theme.InputDisabled
	}
	inner := m.width - frame.GetHorizontalBorderSize()

	if m.focus == FocusRename {
		return frame.Width(inner).Render(m.rename.View())
	}
	return frame.Width(inner).Render(m.input.View())
}

func (m Model) renderStatus() string {
	if toasts := m.toasts.Tick(); len(toasts) > 0 {
		return components.RenderToast(m.theme, toasts[0])
	}

	status := "Ready"
	switch {
	case m.pending != nil:
		status = "Waiting for reply..."
	case m.focus == FocusSidebar:
		status = "History: up/down to move, enter to open, esc to return"
	case m.focus == FocusRename:
		status = "Enter to save, esc to cancel"
	}

	bindings := m.keys.ShortHelp()
	shortcuts := make([]components.Shortcut, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		shortcuts = append(shortcuts, components.Shortcut{Key: h.Key, Desc: h.Desc})
	}
	return components.RenderStatusBar(m.theme, status, shortcuts, m.width)
}

// =============================================================================
// LAYOUT
// =============================================================================

// layout sizes the viewport and input for the current window, sidebar and
// banner state.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	m.theme.SetSize(m.width, m.height)

	chrome := 1 + inputHeight + 2 + 1 // header, input with border, status
	if m.bannerVisible {
		chrome++
	}
	height := m.height - chrome
	if height < 3 {
		height = 3
	}

	width := m.width
	if m.sidebarShown() {
		width -= m.sidebarWidth
	}
	if width < 10 {
		width = 10
	}

	m.viewport.Width = width
	m.viewport.Height = height
	m.input.SetWidth(m.width - m.theme.InputContainer.GetHorizontalFrameSize())
	m.rename.Width = m.width - m.theme.InputContainer.GetHorizontalFrameSize() - len(m.rename.Prompt)
}

// sidebarShown hides the sidebar on narrow terminals unless it has focus.
func (m Model) sidebarShown() bool {
	if m.focus == FocusSidebar {
		return true
	}
	return m.showSidebar && m.theme.GetLayoutMode() != styles.LayoutNarrow
}

// refresh re-renders the transcript into the viewport.
func (m *Model) refresh(gotoBottom bool) {
	if !m.ready {
		return
	}
	var content string
	if m.showHelp {
		content = m.help.FullHelpView(m.keys.FullHelp())
	} else {
		tr := m.ctrl.Transcript()
		content = components.RenderTranscript(m.theme, m.md, tr, m.viewport.Width-1, m.spinner.View())
	}
	m.viewport.SetContent(content)
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}

func (m Model) currentTitle() string {
	if conv := m.ctrl.Current(); conv != nil {
		return conv.GetTitle()
	}
	return ""
}
