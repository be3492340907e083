// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the in-memory conversation collection and the
// current-conversation pointer.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jeranaias/gemchat-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is returned for ids that are not in the collection.
	ErrNotFound = errors.New("conversation not found")

	// ErrEmptyTitle is returned by Rename for a blank title.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrInvalidSender is returned by AppendMessage for unknown senders.
	ErrInvalidSender = errors.New("invalid message sender")
)

// =============================================================================
// STORE
// =============================================================================

// Persister loads and saves the whole conversation collection.
type Persister interface {
	LoadConversations() []*model.Conversation
	SaveConversations(convs []*model.Conversation) error
}

// Config holds configuration for the store.
type Config struct {
	// MaxMessages caps messages per conversation, oldest dropped first.
	// 0 means unlimited.
	MaxMessages int

	// Logger receives persistence failures and mutations at debug level.
	Logger zerolog.Logger
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{
		MaxMessages: 0,
		Logger:      zerolog.Nop(),
	}
}

// Store is the single source of truth for what gets rendered and persisted.
// Every mutation rewrites the whole collection through the Persister.
type Store struct {
	mu sync.RWMutex

	convs     []*model.Conversation
	currentID string

	persister   Persister
	maxMessages int
	logger      zerolog.Logger

	onPersistError func(error)
}

// Open loads the collection from p. When nothing is stored, a first
// conversation is created. The first conversation in the collection becomes
// current.
func Open(p Persister, cfg Config) *Store {
	s := &Store{
		persister:   p,
		maxMessages: cfg.MaxMessages,
		logger:      cfg.Logger.With().Str("component", "session").Logger(),
	}

	s.convs = p.LoadConversations()
	if len(s.convs) == 0 {
		s.CreateConversation()
		return s
	}

	s.currentID = s.convs[0].ID
	s.logger.Debug().Int("conversations", len(s.convs)).Msg("collection loaded")
	return s
}

// SetPersistErrorCallback registers fn to be called when a save fails. fn
// runs with the store locked and must not call back into it.
func (s *Store) SetPersistErrorCallback(fn func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPersistError = fn
}

// =============================================================================
// MUTATIONS
// =============================================================================

// CreateConversation inserts a new empty conversation at the front of the
// collection, makes it current, persists, and returns its id.
func (s *Store) CreateConversation() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := model.NewConversation()
	s.convs = append([]*model.Conversation{conv}, s.convs...)
	s.currentID = conv.ID
	s.persistLocked()

	s.logger.Debug().Str("id", conv.ID).Msg("conversation created")
	return conv.ID
}

// SelectConversation makes id current. Unknown ids leave the state unchanged.
func (s *Store) SelectConversation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(id) == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.currentID = id
	return nil
}

// ClearConversation empties the messages of id and resets its title.
func (s *Store) ClearConversation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findLocked(id)
	if conv == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	conv.ClearHistory()
	s.persistLocked()
	return nil
}

// AppendMessage pushes a message onto the log of id. An AI reply that makes
// the log exactly [user, ai] sets the title from the user message.
func (s *Store) AppendMessage(id string, sender model.Sender, text string) error {
	if !sender.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSender, sender)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findLocked(id)
	if conv == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	msg := model.NewUserMessage(text)
	if sender == model.SenderAI {
		msg = model.NewAIMessage(text)
	}
	if conv.AddMessage(msg) {
		s.logger.Debug().Str("id", id).Str("title", conv.Title).Msg("title derived")
	}
	if dropped := conv.PruneTo(s.maxMessages); dropped > 0 {
		s.logger.Debug().Str("id", id).Int("dropped", dropped).Msg("history pruned")
	}
	s.persistLocked()
	return nil
}

// Rename sets a manual title on id.
func (s *Store) Rename(id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findLocked(id)
	if conv == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	conv.SetTitle(title)
	s.persistLocked()
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// List returns copies of all conversations in collection order.
func (s *Store) List() []*model.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Conversation, len(s.convs))
	for i, c := range s.convs {
		out[i] = c.Clone()
	}
	return out
}

// Len returns the number of conversations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.convs)
}

// CurrentID returns the id of the current conversation.
func (s *Store) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentID
}

// Current returns a copy of the current conversation.
func (s *Store) Current() *model.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if conv := s.findLocked(s.currentID); conv != nil {
		return conv.Clone()
	}
	return nil
}

// Get returns a copy of the conversation with the given id.
func (s *Store) Get(id string) (*model.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv := s.findLocked(id)
	if conv == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return conv.Clone(), nil
}

// IDAt returns the id at position index of the collection.
func (s *Store) IDAt(index int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.convs) {
		return "", fmt.Errorf("%w: index %d", ErrNotFound, index)
	}
	return s.convs[index].ID, nil
}

// =============================================================================
// INTERNAL
// =============================================================================

func (s *Store) findLocked(id string) *model.Conversation {
	for _, c := range s.convs {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// persistLocked writes the full collection. Failures never roll back the
// in-memory state.
func (s *Store) persistLocked() {
	if err := s.persister.SaveConversations(s.convs); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist conversations")
		if s.onPersistError != nil {
			s.onPersistError(err)
		}
	}
}
