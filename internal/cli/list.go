// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jeranaias/gemchat-tui/internal/model"
	"github.com/jeranaias/gemchat-tui/internal/util"
)

const (
	// listTitleWidth bounds the title column of PrintConversationList.
	listTitleWidth = 40
	// listPreviewLen bounds the trailing last-message preview.
	listPreviewLen = 32
)

// PrintConversationList writes one numbered line per conversation in history
// order. The current conversation is marked with "*". A conversation with
// messages ends its line with a preview of the latest one.
func PrintConversationList(w io.Writer, p Printer, convs []*model.Conversation, currentID string, now time.Time) {
	if len(convs) == 0 {
		fmt.Fprintln(w, p.Dim.Render("No conversations yet."))
		return
	}

	for i, conv := range convs {
		if conv == nil {
			continue
		}
		marker := " "
		title := util.PadWidth(util.TruncateWidth(conv.GetTitle(), listTitleWidth), listTitleWidth)
		if conv.ID == currentID {
			marker = "*"
			title = p.Active.Render(title)
		} else {
			title = p.Value.Render(title)
		}

		line := fmt.Sprintf("%s %s %s %s %s",
			marker,
			p.Label.Render(fmt.Sprintf("%2d.", i+1)),
			title,
			p.Dim.Render(fmt.Sprintf("%3d msgs", conv.MessageCount())),
			p.Dim.Render(relativeTime(conv.CreatedAt(), now)),
		)
		if n := len(conv.Messages); n > 0 {
			line += "  " + p.Dim.Render(conv.Messages[n-1].Preview(listPreviewLen))
		}
		fmt.Fprintln(w, line)
	}
}

func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
