// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/gemchat-tui/internal/completion"
	"github.com/jeranaias/gemchat-tui/internal/config"
	"github.com/jeranaias/gemchat-tui/internal/controller"
)

// =============================================================================
// MESSAGES
// =============================================================================

// ReplyMsg carries the result of a completion request back to Update.
type ReplyMsg struct {
	Request *controller.Request
	Reply   string
	Err     error
}

// BannerExpiredMsg is sent when the rate-limit banner deadline passes.
type BannerExpiredMsg struct {
	Deadline time.Time
}

// ExportDoneMsg reports the result of an export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// ConfigReloadedMsg is sent by the config watcher. Client is nil when the
// completion settings did not produce a usable client.
type ConfigReloadedMsg struct {
	Client completion.Client
	UI     config.UIConfig
}

// bannerTimer fires BannerExpiredMsg at deadline.
func bannerTimer(deadline time.Time, now time.Time) tea.Cmd {
	d := deadline.Sub(now)
	if d < 0 {
		d = 0
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return BannerExpiredMsg{Deadline: deadline}
	})
}
