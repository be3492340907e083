// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jeranaias/gemchat-tui/internal/model"
)

// Adapter reads and writes the application state through a Backend. The
// conversation collection is always written whole.
type Adapter struct {
	backend Backend
	logger  zerolog.Logger
}

// NewAdapter wraps backend.
func NewAdapter(backend Backend, logger zerolog.Logger) *Adapter {
	return &Adapter{
		backend: backend,
		logger:  logger.With().Str("component", "storage").Logger(),
	}
}

// Backend returns the underlying backend.
func (a *Adapter) Backend() Backend {
	return a.backend
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

// LoadConversations returns the stored collection. Missing or unreadable
// state yields an empty collection; the problem is logged, not returned.
func (a *Adapter) LoadConversations() []*model.Conversation {
	data, ok, err := a.backend.Get(KeyConversations)
	if err != nil {
		a.logger.Warn().Err(err).Msg("failed to read conversations, starting empty")
		return []*model.Conversation{}
	}
	if !ok || len(strings.TrimSpace(string(data))) == 0 {
		return []*model.Conversation{}
	}

	var convs []*model.Conversation
	if err := json.Unmarshal(data, &convs); err != nil {
		a.logger.Warn().Err(err).Int("bytes", len(data)).Msg("malformed conversations, starting empty")
		return []*model.Conversation{}
	}

	out, dropped := sanitize(convs)
	if dropped > 0 {
		a.logger.Warn().Int("dropped", dropped).Msg("dropped stored messages with unknown sender")
	}
	return out
}

// SaveConversations serializes and writes the whole collection.
func (a *Adapter) SaveConversations(convs []*model.Conversation) error {
	if convs == nil {
		convs = []*model.Conversation{}
	}
	data, err := json.Marshal(convs)
	if err != nil {
		return fmt.Errorf("failed to encode conversations: %w", err)
	}
	if err := a.backend.Put(KeyConversations, data); err != nil {
		return fmt.Errorf("failed to save conversations: %w", err)
	}
	a.logger.Debug().Int("conversations", len(convs)).Int("bytes", len(data)).Msg("conversations saved")
	return nil
}

// sanitize drops entries that cannot be valid conversations (null, no id,
// duplicate id) and fills in missing defaults. Messages whose sender is not
// user or ai are dropped; the rest get the normalized sender. The second
// return value counts dropped messages.
func sanitize(convs []*model.Conversation) ([]*model.Conversation, int) {
	dropped := 0
	seen := make(map[string]bool, len(convs))
	out := make([]*model.Conversation, 0, len(convs))
	for _, c := range convs {
		if c == nil || c.ID == "" || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		if c.Title == "" {
			c.Title = model.DefaultTitle
		}
		msgs := make([]model.Message, 0, len(c.Messages))
		for _, m := range c.Messages {
			sender, err := model.ParseSender(string(m.Sender))
			if err != nil {
				dropped++
				continue
			}
			m.Sender = sender
			msgs = append(msgs, m)
		}
		c.Messages = msgs
		// Stored data from older builds has no flag; a non-default title
		// with a completed exchange was derived already.
		if !c.Titled && c.Title != model.DefaultTitle {
			c.Titled = true
		}
		out = append(out, c)
	}
	return out, dropped
}

// =============================================================================
// THEME
// =============================================================================

// LoadTheme returns the stored theme, or fallback when none is stored or the
// stored value is unknown.
func (a *Adapter) LoadTheme(fallback model.Theme) model.Theme {
	data, ok, err := a.backend.Get(KeyTheme)
	if err != nil {
		a.logger.Warn().Err(err).Msg("failed to read theme")
		return fallback
	}
	if !ok {
		return fallback
	}
	theme := model.Theme(strings.Trim(strings.TrimSpace(string(data)), `"`))
	if !theme.Valid() {
		a.logger.Warn().Str("theme", string(theme)).Msg("unknown stored theme")
		return fallback
	}
	return theme
}

// SaveTheme stores the theme preference.
func (a *Adapter) SaveTheme(theme model.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("invalid theme %q", theme)
	}
	return a.backend.Put(KeyTheme, []byte(theme))
}

// Close closes the backend.
func (a *Adapter) Close() error {
	return a.backend.Close()
}
