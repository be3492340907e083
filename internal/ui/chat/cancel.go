// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"
)

// =============================================================================
// REQUEST CONTEXT MANAGEMENT (THREAD-SAFE)
// =============================================================================

// requestContexts hands out a context per completion request and cancels
// all of them on shutdown. It is shared by pointer so Bubble Tea's model
// copies do not copy the mutex.
type requestContexts struct {
	mu      sync.Mutex
	parent  context.Context
	cancels map[uint64]context.CancelFunc
}

func newRequestContexts(parent context.Context) *requestContexts {
	if parent == nil {
		parent = context.Background()
	}
	return &requestContexts{parent: parent, cancels: make(map[uint64]context.CancelFunc)}
}

// start derives a context for the request with the given token.
func (r *requestContexts) start(token uint64) context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx, cancel := context.WithCancel(r.parent)
	r.cancels[token] = cancel
	return ctx
}

// done releases the context of a finished request.
func (r *requestContexts) done(token uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cancel, ok := r.cancels[token]; ok {
		cancel()
		delete(r.cancels, token)
	}
}

// cancelAll cancels every outstanding request. Safe to call more than once.
func (r *requestContexts) cancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, cancel := range r.cancels {
		cancel()
		delete(r.cancels, token)
	}
}

// pending returns the number of outstanding requests.
func (r *requestContexts) pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cancels)
}
