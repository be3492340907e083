// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/gemchat-tui/internal/model"
)

// backends returns one fresh instance of every backend kind.
func backends(t *testing.T) map[string]Backend {
	t.Helper()

	fileBackend, err := NewFileBackend(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)

	sqliteBackend, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "gemchat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteBackend.Close() })

	return map[string]Backend{
		"file":   fileBackend,
		"sqlite": sqliteBackend,
		"memory": NewMemoryBackend(),
	}
}

func sampleCollection() []*model.Conversation {
	first := model.NewConversation()
	first.AddMessage(model.NewUserMessage("hello"))
	first.AddMessage(model.NewAIMessage("Hello there! How can I assist you today?"))

	second := model.NewConversation()
	second.AddMessage(model.NewUserMessage("Write a poem about AI"))

	return []*model.Conversation{second, first, model.NewConversation()}
}

// =============================================================================
// BACKEND TESTS
// =============================================================================

func TestBackends_GetPut(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := b.Get(KeyTheme)
			require.NoError(t, err)
			assert.False(t, ok, "unset key must report ok=false")

			require.NoError(t, b.Put(KeyTheme, []byte("light")))
			require.NoError(t, b.Put(KeyTheme, []byte("dark")))

			got, ok, err := b.Get(KeyTheme)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "dark", string(got))
		})
	}
}

func TestBackends_RejectBadKeys(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../escape", ".hidden", `a\b`} {
				assert.ErrorIs(t, b.Put(key, []byte("x")), ErrInvalidKey, "key %q", key)
			}
		})
	}
}

func TestOpen_Kinds(t *testing.T) {
	dir := t.TempDir()

	b, err := Open(KindSQLite, dir)
	require.NoError(t, err)
	require.NoError(t, b.Close())
	assert.FileExists(t, filepath.Join(dir, "gemchat.db"))

	b, err = Open("", dir)
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	_, err = Open("redis", dir)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

// =============================================================================
// ADAPTER TESTS
// =============================================================================

func TestAdapter_RoundTrip(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			adapter := NewAdapter(b, zerolog.Nop())
			want := sampleCollection()

			require.NoError(t, adapter.SaveConversations(want))
			got := adapter.LoadConversations()

			require.Len(t, got, len(want))
			for i := range want {
				assert.Equal(t, want[i].ID, got[i].ID)
				assert.Equal(t, want[i].Title, got[i].Title)
				assert.Equal(t, want[i].Titled, got[i].Titled)
				assert.Equal(t, want[i].Messages, got[i].Messages)
			}
		})
	}
}

func TestAdapter_MissingStateLoadsEmpty(t *testing.T) {
	adapter := NewAdapter(NewMemoryBackend(), zerolog.Nop())

	convs := adapter.LoadConversations()
	assert.NotNil(t, convs)
	assert.Empty(t, convs)
}

func TestAdapter_MalformedStateLoadsEmpty(t *testing.T) {
	for _, raw := range []string{"{not json", `{"id":"x"}`, "   ", "42"} {
		b := NewMemoryBackend()
		require.NoError(t, b.Put(KeyConversations, []byte(raw)))

		convs := NewAdapter(b, zerolog.Nop()).LoadConversations()
		assert.Empty(t, convs, "input %q", raw)
	}
}

func TestAdapter_SanitizesEntries(t *testing.T) {
	b := NewMemoryBackend()
	raw := `[null,{"id":""},{"id":"a","title":"","messages":null},{"id":"a","title":"dup"},{"id":"b","title":"hello","messages":[{"sender":"user","text":"hello"}]}]`
	require.NoError(t, b.Put(KeyConversations, []byte(raw)))

	convs := NewAdapter(b, zerolog.Nop()).LoadConversations()

	require.Len(t, convs, 2)
	assert.Equal(t, "a", convs[0].ID)
	assert.Equal(t, model.DefaultTitle, convs[0].Title)
	assert.NotNil(t, convs[0].Messages)
	assert.True(t, convs[1].Titled, "legacy derived title should be treated as derived")
}

func TestAdapter_DropsMessagesWithUnknownSender(t *testing.T) {
	b := NewMemoryBackend()
	raw := `[{"id":"a","title":"hi","messages":[` +
		`{"sender":"user","text":"hi"},` +
		`{"sender":"bot","text":"spoofed"},` +
		`{"sender":"","text":"blank"},` +
		`{"sender":" AI ","text":"Hello!"}]}]`
	require.NoError(t, b.Put(KeyConversations, []byte(raw)))

	convs := NewAdapter(b, zerolog.Nop()).LoadConversations()

	require.Len(t, convs, 1)
	require.Len(t, convs[0].Messages, 2)
	assert.Equal(t, model.SenderUser, convs[0].Messages[0].Sender)
	assert.Equal(t, model.SenderAI, convs[0].Messages[1].Sender, "sender should be normalized")
	assert.Equal(t, "Hello!", convs[0].Messages[1].Text)
	for _, m := range convs[0].Messages {
		assert.True(t, m.Sender.Valid())
	}
}

func TestAdapter_FileLayout(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	adapter := NewAdapter(b, zerolog.Nop())

	require.NoError(t, adapter.SaveConversations(sampleCollection()))
	require.NoError(t, adapter.SaveTheme(model.ThemeLight))

	data, err := os.ReadFile(filepath.Join(dir, "conversations.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sender":"ai"`)

	theme, err := os.ReadFile(filepath.Join(dir, "theme.json"))
	require.NoError(t, err)
	assert.Equal(t, "light", string(theme))
}

func TestAdapter_Theme(t *testing.T) {
	b := NewMemoryBackend()
	adapter := NewAdapter(b, zerolog.Nop())

	assert.Equal(t, model.ThemeDark, adapter.LoadTheme(model.ThemeDark), "unset theme uses fallback")

	require.NoError(t, adapter.SaveTheme(model.ThemeLight))
	assert.Equal(t, model.ThemeLight, adapter.LoadTheme(model.ThemeDark))

	require.NoError(t, b.Put(KeyTheme, []byte("sepia")))
	assert.Equal(t, model.ThemeDark, adapter.LoadTheme(model.ThemeDark), "unknown theme uses fallback")

	assert.Error(t, adapter.SaveTheme("sepia"))
}
