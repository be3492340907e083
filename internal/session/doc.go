// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the in-memory conversation collection and the
// current-conversation pointer.
//
// The Store is created by the application root and handed to whatever needs
// it; nothing in gemchat reaches it through a package variable.
//
// # Key Types
//
//   - Store: ordered collection (newest first) plus the current id
//   - Persister: whole-collection load/save, implemented by storage.Adapter
//
// # Invariants
//
//   - ids are unique; the collection is never reordered or shrunk
//   - after Open, CurrentID always names a conversation in the collection
//   - every mutation persists the full collection
//
// # Usage
//
//	store := session.Open(adapter, session.DefaultConfig())
//	id := store.CreateConversation()
//	store.AppendMessage(id, model.SenderUser, "hello")
package session
