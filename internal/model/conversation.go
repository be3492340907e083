// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/gemchat-tui/internal/util"
)

const (
	// DefaultTitle is the title of a conversation that has not completed an
	// exchange yet.
	DefaultTitle = "New Chat"

	// TitleMaxRunes is how much of the first user message becomes the title.
	TitleMaxRunes = 30
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is a titled, ordered log of messages with a stable identifier.
type Conversation struct {
	ID       string    `json:"id" yaml:"id"`
	Title    string    `json:"title" yaml:"title"`
	Messages []Message `json:"messages" yaml:"messages"`

	// Titled is set once the title has been derived or renamed. Cleared by
	// ClearHistory.
	Titled bool `json:"titled,omitempty" yaml:"titled,omitempty"`
}

// NewConversation creates an empty conversation with a time-ordered ID.
func NewConversation() *Conversation {
	return &Conversation{
		ID:       generateConversationID(),
		Title:    DefaultTitle,
		Messages: make([]Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends msg and derives the title when the log becomes exactly one
// user message and one AI reply. It reports whether the title changed.
func (c *Conversation) AddMessage(msg Message) bool {
	c.Messages = append(c.Messages, msg)
	return c.deriveTitle(msg)
}

// ClearHistory removes all messages and resets the title.
func (c *Conversation) ClearHistory() {
	c.Messages = make([]Message, 0)
	c.Title = DefaultTitle
	c.Titled = false
}

// SetTitle manually sets the conversation title. A manual title is never
// replaced by a derived one.
func (c *Conversation) SetTitle(title string) {
	c.Title = title
	c.Titled = true
}

// GetTitle returns the conversation title or the default.
func (c *Conversation) GetTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return DefaultTitle
}

// LastAIMessage returns the most recent assistant message.
func (c *Conversation) LastAIMessage() (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Sender == SenderAI {
			return c.Messages[i], true
		}
	}
	return Message{}, false
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// PruneTo drops the oldest messages so at most max remain. max <= 0 keeps
// everything.
func (c *Conversation) PruneTo(max int) int {
	if max <= 0 || len(c.Messages) <= max {
		return 0
	}
	dropped := len(c.Messages) - max
	kept := make([]Message, max)
	copy(kept, c.Messages[dropped:])
	c.Messages = kept
	return dropped
}

// Clone creates a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	clone := &Conversation{
		ID:       c.ID,
		Title:    c.Title,
		Titled:   c.Titled,
		Messages: make([]Message, len(c.Messages)),
	}
	copy(clone.Messages, c.Messages)
	return clone
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// DeriveTitle turns the first user message into a conversation title:
// at most TitleMaxRunes runes, with "…" appended when it was longer.
func DeriveTitle(text string) string {
	return util.TruncateRunes(text, TitleMaxRunes)
}

// deriveTitle titles the conversation only when the log becomes exactly one
// user message followed by one AI reply. A log that reaches its first reply
// any other way (a rate-limited send left an unanswered message) keeps the
// default title.
func (c *Conversation) deriveTitle(added Message) bool {
	if c.Titled || added.Sender != SenderAI || len(c.Messages) != 2 {
		return false
	}
	first := c.Messages[0]
	if first.Sender != SenderUser {
		return false
	}
	c.Title = DeriveTitle(first.Text)
	c.Titled = true
	return true
}

// CreatedAt recovers the creation time embedded in a UUIDv7 id. It returns
// the zero time for ids from other sources.
func (c *Conversation) CreatedAt() time.Time {
	id, err := uuid.Parse(c.ID)
	if err != nil || id.Version() != 7 {
		return time.Time{}
	}
	sec, nsec := id.Time().UnixTime()
	return time.Unix(sec, nsec)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateConversationID creates a unique, creation-time-ordered ID.
func generateConversationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Only fails when the random source does.
		return uuid.NewString()
	}
	return id.String()
}
