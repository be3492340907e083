// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the conversation collection and the theme
// preference in a key-value store.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// =============================================================================
// KEYS
// =============================================================================

const (
	// KeyConversations holds the JSON-serialized conversation collection.
	KeyConversations = "conversations"

	// KeyTheme holds "dark" or "light".
	KeyTheme = "theme"
)

// =============================================================================
// BACKEND
// =============================================================================

// Backend is a minimal key-value store. Put replaces the whole value.
type Backend interface {
	// Get returns the value for key. ok is false when the key was never set.
	Get(key string) (value []byte, ok bool, err error)

	// Put stores value under key.
	Put(key string, value []byte) error

	// Close releases any resources held by the backend.
	Close() error
}

// Kind names a Backend implementation.
type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// ErrUnknownBackend is returned by Open for an unrecognized kind.
var ErrUnknownBackend = errors.New("unknown storage backend")

// ErrInvalidKey is returned for keys that cannot be stored safely.
var ErrInvalidKey = errors.New("invalid storage key")

// Open creates the backend of the given kind rooted at dir. The SQLite
// backend keeps its database in dir/gemchat.db.
func Open(kind Kind, dir string) (Backend, error) {
	switch Kind(strings.ToLower(string(kind))) {
	case KindFile, "":
		return NewFileBackend(filepath.Join(dir, "store"))
	case KindSQLite:
		return NewSQLiteBackend(filepath.Join(dir, "gemchat.db"))
	case KindMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
}

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
