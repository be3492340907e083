// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the conversation collection and the theme
// preference in a key-value store.
//
// Two keys exist: "conversations" holds the whole collection as one JSON
// array and "theme" holds "dark" or "light". The collection is rewritten in
// full after every change. There is no schema versioning.
//
// # Backends
//
//   - FileBackend: one file per key, written atomically (default)
//   - SQLiteBackend: a kv table in a pure-Go SQLite database
//   - MemoryBackend: process memory, for tests and ephemeral runs
//
// # Usage
//
//	backend, err := storage.Open(storage.KindFile, dataDir)
//	adapter := storage.NewAdapter(backend, logger)
//	convs := adapter.LoadConversations() // never fails; corrupt data loads empty
package storage
