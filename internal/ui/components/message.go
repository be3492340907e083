// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gemchat-tui/internal/model"
	"github.com/jeranaias/gemchat-tui/internal/render"
	"github.com/jeranaias/gemchat-tui/internal/ui/styles"
)

// TypingText is shown next to the spinner while a reply is pending.
const TypingText = "Assistant is typing"

// bubbleFrame is the horizontal space taken by border and padding.
const bubbleFrame = 4

// =============================================================================
// TRANSCRIPT
// =============================================================================

// RenderTranscript draws the welcome panel or every bubble of tr, separated
// by blank lines. spinnerFrame is drawn in the typing bubble.
func RenderTranscript(theme *styles.Theme, md *Markdown, tr render.Transcript, width int, spinnerFrame string) string {
	if tr.IsWelcome() {
		return RenderWelcome(theme, tr.Welcome, width)
	}

	parts := make([]string, 0, len(tr.Bubbles))
	for _, b := range tr.Bubbles {
		parts = append(parts, RenderBubble(theme, md, b, width, spinnerFrame))
	}
	return strings.Join(parts, "\n\n")
}

// =============================================================================
// BUBBLES
// =============================================================================

// RenderBubble draws one message. User bubbles are right-aligned plain text;
// assistant bubbles are left-aligned with markdown prose and highlighted
// code.
func RenderBubble(theme *styles.Theme, md *Markdown, b render.Bubble, width int, spinnerFrame string) string {
	bubbleWidth := bubbleWidthFor(width)
	label := theme.SenderLabel.Render(b.Sender.DisplayName())

	if b.Placeholder {
		body := theme.Spinner.Render(spinnerFrame) + " " + theme.TypingText.Render(TypingText)
		return label + "\n" + theme.AssistantBubble.Render(body)
	}

	if b.Sender == model.SenderUser {
		body := theme.UserBubble.Width(bubbleWidth).Render(b.Text)
		block := lipgloss.JoinVertical(lipgloss.Right, label, body)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
	}

	inner := bubbleWidth - bubbleFrame
	rendered := make([]string, 0, len(b.Segments))
	for _, seg := range b.Segments {
		if seg.IsCode() {
			rendered = append(rendered, RenderCodeBlock(theme, seg.Language, seg.Text, inner))
		} else {
			rendered = append(rendered, md.Render(seg.Text, inner))
		}
	}
	body := theme.AssistantBubble.Width(bubbleWidth).Render(strings.Join(rendered, "\n"))

	if b.Copyable {
		label += " " + theme.ShortcutDesc.Render("(ctrl+y copy)")
	}
	return label + "\n" + body
}

// bubbleWidthFor leaves a gutter so user and assistant bubbles are visually
// offset.
func bubbleWidthFor(width int) int {
	w := width * 4 / 5
	if w < 24 {
		w = width
	}
	if w < bubbleFrame+1 {
		w = bubbleFrame + 1
	}
	return w
}
