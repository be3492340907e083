// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/gemchat-tui/internal/model"
	"github.com/jeranaias/gemchat-tui/internal/session"
	"github.com/jeranaias/gemchat-tui/internal/storage"
)

// execute runs the root command with GEMCHAT_HOME pointed at a temp dir.
func execute(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GEMCHAT_HOME", home)
	t.Setenv("NO_COLOR", "1")
	t.Setenv("GEMCHAT_BACKEND", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigCommands(t *testing.T) {
	home := t.TempDir()
	want := filepath.Join(home, "config.toml")

	out, err := execute(t, home, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, want+"\n", out)

	_, err = execute(t, home, "config", "init")
	require.NoError(t, err)
	_, err = os.Stat(want)
	require.NoError(t, err)

	_, err = execute(t, home, "config", "init")
	assert.Error(t, err, "init refuses to overwrite")

	_, err = execute(t, home, "config", "init", "--force")
	assert.NoError(t, err)

	out, err = execute(t, home, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "backend = \"simulator\"")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "gemchat "+Version))
}

func TestListAndExport(t *testing.T) {
	home := t.TempDir()

	backend, err := storage.Open(storage.KindFile, home)
	require.NoError(t, err)
	conv := model.NewConversation()
	conv.AddMessage(model.NewUserMessage("Explain quantum computing"))
	conv.AddMessage(model.NewAIMessage("It uses **qubits**."))
	adapter := storage.NewAdapter(backend, zerolog.Nop())
	require.NoError(t, adapter.SaveConversations([]*model.Conversation{conv}))
	require.NoError(t, adapter.Close())

	out, err := execute(t, home, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Explain quantum computing")
	assert.Contains(t, out, " 1.")

	outDir := t.TempDir()
	out, err = execute(t, home, "export", "1", "--format", "json", "--output", outDir)
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	assert.Equal(t, outDir, filepath.Dir(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "qubits")

	_, err = execute(t, home, "export", conv.ID, "--format", "pdf", "--output", outDir)
	assert.Error(t, err)

	_, err = execute(t, home, "export", "missing", "--output", outDir)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestListEphemeral(t *testing.T) {
	out, err := execute(t, t.TempDir(), "list", "--ephemeral")
	require.NoError(t, err)
	assert.Contains(t, out, model.DefaultTitle)
}
