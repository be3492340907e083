// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/gemchat-tui/internal/controller"
	"github.com/jeranaias/gemchat-tui/internal/ui/components"
	"github.com/jeranaias/gemchat-tui/internal/ui/styles"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		m.refresh(true)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ReplyMsg:
		return m.handleReply(msg)

	case BannerExpiredMsg:
		if _, visible := m.ctrl.Banner(m.now()); !visible && m.bannerVisible {
			m.bannerVisible = false
			m.layout()
		}
		return m, nil

	case spinner.TickMsg:
		if m.pending == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh(false)
		return m, cmd

	case components.ToastTickMsg:
		m.toasts.Tick()
		return m, components.ToastTickCmd()

	case ExportDoneMsg:
		if msg.Err != nil {
			m.toasts.Error("Export failed: " + msg.Err.Error())
		} else {
			m.toasts.Success("Exported to " + msg.Path)
		}
		return m, nil

	case ConfigReloadedMsg:
		if msg.Client != nil {
			m.ctrl.SetClient(msg.Client)
		}
		m.showSidebar = msg.UI.ShowSidebar
		if msg.UI.SidebarWidth >= minSidebarWidth {
			m.sidebarWidth = msg.UI.SidebarWidth
		}
		m.layout()
		m.refresh(false)
		m.toasts.Status("Configuration reloaded")
		return m, nil
	}

	return m.updateInput(msg)
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.reqs.cancelAll()
		return m, tea.Quit
	}

	switch m.focus {
	case FocusRename:
		return m.handleRenameKey(msg)
	case FocusSidebar:
		return m.handleSidebarKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Send):
		return m.send(m.input.Value())

	case key.Matches(msg, m.keys.NewChat):
		m.ctrl.NewChat()
		m.cursor = 0
		m.afterMutation()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		if err := m.ctrl.Clear(); err != nil {
			m.toasts.Error(err.Error())
		}
		m.pending = m.pendingAfterClear()
		m.afterMutation()
		return m, nil

	case key.Matches(msg, m.keys.Theme):
		return m.toggleTheme(), nil

	case key.Matches(msg, m.keys.Sidebar):
		m.focus = FocusSidebar
		m.cursor = m.activeIndex()
		m.input.Blur()
		if !m.showSidebar {
			m.showSidebar = true
			m.layout()
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if _, err := m.ctrl.CopyLastResponse(); err != nil {
			m.toasts.Error(err.Error())
		} else {
			m.toasts.Success("Copied to clipboard")
		}
		return m, nil

	case key.Matches(msg, m.keys.Rename):
		m.focus = FocusRename
		m.input.Blur()
		if conv := m.ctrl.Current(); conv != nil {
			m.rename.SetValue(conv.GetTitle())
		}
		m.rename.CursorEnd()
		return m, m.rename.Focus()

	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.refresh(false)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	if prompt, ok := m.examplePrompt(msg); ok {
		return m.send(prompt)
	}

	return m.updateInput(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.ctrl.History()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if err := m.ctrl.SelectIndex(m.cursor); err != nil {
			m.toasts.Error(err.Error())
		}
		m.focus = FocusInput
		m.refresh(true)
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Sidebar):
		m.focus = FocusInput
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.NewChat):
		m.ctrl.NewChat()
		m.cursor = 0
		m.afterMutation()
	case key.Matches(msg, m.keys.Theme):
		return m.toggleTheme(), nil
	}
	return m, nil
}

func (m Model) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.focus = FocusInput
		m.rename.Blur()
		return m, m.input.Focus()

	case msg.Type == tea.KeyEnter:
		if err := m.ctrl.Rename(m.rename.Value()); err != nil {
			m.toasts.Error(err.Error())
			return m, nil
		}
		m.focus = FocusInput
		m.rename.Blur()
		m.afterMutation()
		return m, m.input.Focus()
	}

	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus != FocusInput {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// SEND
// =============================================================================

// send starts a request for text. Blank input and sends while a request is
// in flight are ignored and keep the input as typed.
func (m Model) send(text string) (tea.Model, tea.Cmd) {
	req, ok := m.ctrl.BeginSend(text)
	if !ok {
		return m, nil
	}
	m.pending = req
	m.input.Reset()
	m.showHelp = false
	m.afterMutation()

	return m, tea.Batch(m.completeCmd(req), m.spinner.Tick)
}

// completeCmd runs the request off the event loop.
func (m Model) completeCmd(req *controller.Request) tea.Cmd {
	ctx := m.reqs.start(req.Token)
	ctrl := m.ctrl
	return func() tea.Msg {
		reply, err := ctrl.Complete(ctx, req)
		return ReplyMsg{Request: req, Reply: reply, Err: err}
	}
}

func (m Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	m.reqs.done(msg.Request.Token)
	out := m.ctrl.Finish(msg.Request, msg.Reply, msg.Err)
	if m.pending == msg.Request {
		m.pending = nil
	}
	m.reportPersistError()

	var cmd tea.Cmd
	if out.RateLimited {
		m.bannerVisible = true
		m.layout()
		cmd = bannerTimer(m.ctrl.BannerDeadline(), m.now())
	}
	if out.Refresh || out.RateLimited {
		m.refresh(true)
	}
	if !out.Refresh && out.Appended {
		m.logger.Debug().Str("id", msg.Request.ConversationID).Msg("background reply stored")
	}
	return m, cmd
}

// pendingAfterClear drops the pending request when Clear released it.
func (m Model) pendingAfterClear() *controller.Request {
	if m.pending != nil && !m.ctrl.Sending() {
		return nil
	}
	return m.pending
}

// examplePrompt maps the digit keys to welcome prompts while the welcome
// panel is shown and the input is empty.
func (m Model) examplePrompt(msg tea.KeyMsg) (string, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 || m.input.Value() != "" {
		return "", false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return "", false
	}
	return m.ctrl.ExamplePrompt(int(r - '0'))
}

// =============================================================================
// ACTIONS
// =============================================================================

func (m Model) toggleTheme() Model {
	mode, err := m.ctrl.ToggleTheme()
	if err != nil {
		m.toasts.Error("Theme not saved: " + err.Error())
	}
	theme := styles.NewThemeWithProfile(mode, m.profile)
	theme.SetSize(m.width, m.height)
	m.theme = theme
	m.md = components.NewMarkdown(m.theme.GlamourStyle, m.profile)
	m.spinner.Style = m.theme.Spinner
	m.refresh(false)
	return m
}

func (m Model) exportCmd() tea.Cmd {
	if m.export == nil {
		m.toasts.Error("Export is not available")
		return nil
	}
	conv := m.ctrl.Current()
	export := m.export
	return func() tea.Msg {
		path, err := export(conv)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// afterMutation re-renders after a store change and surfaces save failures.
func (m *Model) afterMutation() {
	m.reportPersistError()
	m.refresh(true)
}

func (m *Model) reportPersistError() {
	if err := m.ctrl.TakePersistError(); err != nil {
		m.toasts.Error("Could not save conversations: " + err.Error())
	}
}

func (m Model) activeIndex() int {
	for i, item := range m.ctrl.History() {
		if item.Active {
			return i
		}
	}
	return 0
}
