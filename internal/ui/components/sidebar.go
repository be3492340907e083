// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/gemchat-tui/internal/render"
	"github.com/jeranaias/gemchat-tui/internal/ui/styles"
	"github.com/jeranaias/gemchat-tui/internal/util"
)

// SidebarTitle heads the history list.
const SidebarTitle = "Chats"

// RenderSidebar draws the history list. cursor is the highlighted row while
// the sidebar has focus. Rows scroll so the cursor stays visible.
func RenderSidebar(theme *styles.Theme, items []render.HistoryItem, cursor int, focused bool, width, height int) string {
	frame := theme.Sidebar
	if focused {
		frame = theme.SidebarFocused
	}
	inner := width - frame.GetHorizontalFrameSize()
	if inner < 4 {
		inner = 4
	}

	rows := height - 2
	if rows < 1 {
		rows = 1
	}
	start := 0
	if focused && cursor >= rows {
		start = cursor - rows + 1
	}

	lines := []string{theme.SidebarTitle.Render(SidebarTitle)}
	for i := start; i < len(items) && i < start+rows; i++ {
		item := items[i]
		marker := "  "
		style := theme.SidebarItem
		if item.Active {
			marker = "> "
			style = theme.SidebarItemActive
		}
		title := util.TruncateWidth(item.Title, inner-2)
		line := style.Render(util.PadWidth(marker+title, inner))
		if focused && i == cursor {
			line = theme.SidebarCursor.Render(line)
		}
		lines = append(lines, line)
	}

	return frame.Width(width - frame.GetHorizontalBorderSize()).Height(height).Render(strings.Join(lines, "\n"))
}
