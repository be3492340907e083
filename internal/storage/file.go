// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jeranaias/gemchat-tui/internal/util"
)

// FileBackend stores each key as a file named after it under BaseDir.
type FileBackend struct {
	// BaseDir is the directory holding one file per key.
	// Default: ~/.gemchat/store/
	BaseDir string

	mu sync.Mutex
}

// NewFileBackend creates a file backend, creating baseDir if needed.
func NewFileBackend(baseDir string) (*FileBackend, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileBackend{BaseDir: baseDir}, nil
}

// Get reads the file for key.
func (f *FileBackend) Get(key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Put replaces the file for key.
func (f *FileBackend) Put(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// RELIABILITY: a crash mid-write leaves the previous value intact.
	return util.AtomicWriteFileWithDir(f.path(key), value, 0600, 0700)
}

// Close is a no-op for the file backend.
func (f *FileBackend) Close() error {
	return nil
}

func (f *FileBackend) path(key string) string {
	return filepath.Join(f.BaseDir, key+".json")
}
