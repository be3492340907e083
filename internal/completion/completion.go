// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"context"

	"github.com/pkg/errors"

	"github.com/jeranaias/gemchat-tui/internal/model"
)

// =============================================================================
// TURNS
// =============================================================================

// Role is the author of a turn as the backend sees it.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one entry of the history sent to the backend.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TurnsFromMessages maps a conversation log to backend turns. AI messages
// become model turns.
func TurnsFromMessages(msgs []model.Message) []Turn {
	turns := make([]Turn, 0, len(msgs))
	for _, m := range msgs {
		role := RoleUser
		if m.Sender == model.SenderAI {
			role = RoleModel
		}
		turns = append(turns, Turn{Role: role, Content: m.Text})
	}
	return turns
}

// LastUserTurn returns the content of the most recent user turn.
func LastUserTurn(turns []Turn) (string, bool) {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == RoleUser {
			return turns[i].Content, true
		}
	}
	return "", false
}

// =============================================================================
// CLIENT
// =============================================================================

// Client produces a reply for the full conversation so far. Implementations
// must return within a bounded time or when ctx is done. Every failure wraps
// either ErrRateLimited or ErrRequestFailed.
type Client interface {
	Complete(ctx context.Context, turns []Turn) (string, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, turns []Turn) (string, error)

// Complete calls f.
func (f ClientFunc) Complete(ctx context.Context, turns []Turn) (string, error) {
	return f(ctx, turns)
}

var (
	// ErrRateLimited means the backend rejected the request for throughput
	// reasons (HTTP 429 or equivalent).
	ErrRateLimited = errors.New("rate limited")

	// ErrRequestFailed covers every other transport, server or decoding
	// failure.
	ErrRequestFailed = errors.New("completion request failed")

	// ErrNoUserTurn is wrapped in ErrRequestFailed when the history has no
	// user turn to answer.
	ErrNoUserTurn = errors.New("no user turn in history")
)

// IsRateLimited reports whether err is a rate-limit failure.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// classify makes sure err wraps one of the two public failure kinds.
func classify(err error) error {
	if err == nil || errors.Is(err, ErrRateLimited) || errors.Is(err, ErrRequestFailed) {
		return err
	}
	return errors.Wrap(ErrRequestFailed, err.Error())
}
