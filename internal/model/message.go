// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"fmt"
	"strings"

	"github.com/jeranaias/gemchat-tui/internal/util"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderAI:
		return "Assistant"
	default:
		return string(s)
	}
}

// Valid reports whether s is one of the known senders.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAI
}

// ParseSender converts a stored string into a Sender.
func ParseSender(v string) (Sender, error) {
	s := Sender(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown sender %q", v)
	}
	return s, nil
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single turn in a conversation. User text is stored raw; AI
// text is markdown source.
type Message struct {
	Sender Sender `json:"sender" yaml:"sender"`
	Text   string `json:"text" yaml:"text"`
}

// NewUserMessage creates a user message.
func NewUserMessage(text string) Message {
	return Message{Sender: SenderUser, Text: text}
}

// NewAIMessage creates an assistant message.
func NewAIMessage(text string) Message {
	return Message{Sender: SenderAI, Text: text}
}

// IsUser reports whether the message came from the user.
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// Preview returns the message text on one line, shortened to maxLen runes.
func (m Message) Preview(maxLen int) string {
	return util.TruncateRunes(strings.Join(strings.Fields(m.Text), " "), maxLen)
}
