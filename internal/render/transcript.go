// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"github.com/jeranaias/gemchat-tui/internal/model"
)

// =============================================================================
// WELCOME
// =============================================================================

// WelcomeText greets the user in an empty conversation.
const WelcomeText = "Hello! I'm your Gemini AI assistant. How can I help you today?"

// ExamplePrompts are offered on the welcome panel. Selecting one sends it.
var ExamplePrompts = []string{
	"Explain quantum computing",
	"Write a poem about AI",
	"Help with coding",
}

// Welcome is the panel shown instead of bubbles for an empty conversation.
type Welcome struct {
	Text    string
	Prompts []string
}

// Prompt returns the 1-based example prompt n.
func (w *Welcome) Prompt(n int) (string, bool) {
	if w == nil || n < 1 || n > len(w.Prompts) {
		return "", false
	}
	return w.Prompts[n-1], true
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Bubble is one rendered message. Placeholder marks the typing bubble,
// which has no Index.
type Bubble struct {
	Sender      model.Sender
	Text        string
	Segments    []Segment
	Index       int
	Copyable    bool
	Placeholder bool
}

// Transcript is the visible content of the current conversation: either the
// welcome panel or the message bubbles.
type Transcript struct {
	Welcome *Welcome
	Bubbles []Bubble
}

// IsWelcome reports whether the welcome panel is shown.
func (t Transcript) IsWelcome() bool {
	return t.Welcome != nil
}

// BuildTranscript maps a message log to its visible form. It never mutates
// msgs and returns equal output for equal input.
func BuildTranscript(msgs []model.Message, typing bool) Transcript {
	if len(msgs) == 0 && !typing {
		prompts := make([]string, len(ExamplePrompts))
		copy(prompts, ExamplePrompts)
		return Transcript{Welcome: &Welcome{Text: WelcomeText, Prompts: prompts}}
	}

	bubbles := make([]Bubble, 0, len(msgs)+1)
	for i, m := range msgs {
		b := Bubble{Sender: m.Sender, Text: m.Text, Index: i}
		if m.Sender == model.SenderAI {
			b.Segments = SplitSegments(m.Text)
			b.Copyable = true
		}
		bubbles = append(bubbles, b)
	}
	if typing {
		bubbles = append(bubbles, Bubble{Sender: model.SenderAI, Index: -1, Placeholder: true})
	}
	return Transcript{Bubbles: bubbles}
}

// =============================================================================
// HISTORY
// =============================================================================

// HistoryItem is one sidebar entry.
type HistoryItem struct {
	ID     string
	Title  string
	Active bool
}

// BuildHistory lists conversations in collection order (newest first), with
// exactly the current one marked active.
func BuildHistory(convs []*model.Conversation, currentID string) []HistoryItem {
	items := make([]HistoryItem, 0, len(convs))
	for _, c := range convs {
		if c == nil {
			continue
		}
		items = append(items, HistoryItem{
			ID:     c.ID,
			Title:  c.GetTitle(),
			Active: c.ID == currentID,
		})
	}
	return items
}
