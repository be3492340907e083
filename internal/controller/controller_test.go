// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/gemchat-tui/internal/completion"
	"github.com/jeranaias/gemchat-tui/internal/model"
	"github.com/jeranaias/gemchat-tui/internal/session"
	"github.com/jeranaias/gemchat-tui/internal/storage"
)

// =============================================================================
// HELPERS
// =============================================================================

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func replyWith(text string, err error) completion.Client {
	return completion.ClientFunc(func(ctx context.Context, turns []completion.Turn) (string, error) {
		return text, err
	})
}

type harness struct {
	ctrl    *Controller
	adapter *storage.Adapter
	backend *storage.MemoryBackend
	clock   *fakeClock
	copied  []string
}

func newHarness(t *testing.T, client completion.Client) *harness {
	t.Helper()
	h := &harness{
		backend: storage.NewMemoryBackend(),
		clock:   &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)},
	}
	h.adapter = storage.NewAdapter(h.backend, zerolog.Nop())
	store := session.Open(h.adapter, session.DefaultConfig())
	h.ctrl = New(store, client, Options{
		Themes: h.adapter,
		Now:    h.clock.Now,
		Clipboard: func(text string) error {
			h.copied = append(h.copied, text)
			return nil
		},
	})
	return h
}

// reload opens a fresh store over the same backend.
func (h *harness) reload() *session.Store {
	return session.Open(storage.NewAdapter(h.backend, zerolog.Nop()), session.DefaultConfig())
}

// =============================================================================
// SEND CYCLE
// =============================================================================

func TestSend_Success(t *testing.T) {
	h := newHarness(t, completion.NewSimulator(completion.SimulatorOptions{}))

	out, err := h.ctrl.Send(context.Background(), "  hello  ")
	require.NoError(t, err)
	assert.True(t, out.Appended)
	assert.True(t, out.Refresh)
	assert.Equal(t, StateIdle, h.ctrl.State())

	conv := h.ctrl.Current()
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, model.NewUserMessage("hello"), conv.Messages[0])
	assert.Equal(t, model.NewAIMessage(completion.ReplyGreeting), conv.Messages[1])
	assert.Equal(t, "hello", conv.Title)

	reloaded := h.reload().Current()
	assert.Equal(t, conv.Messages, reloaded.Messages)
	assert.Equal(t, "hello", reloaded.Title)
}

func TestSend_EmptyInput(t *testing.T) {
	h := newHarness(t, replyWith("x", nil))

	_, err := h.ctrl.Send(context.Background(), " \n\t ")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, h.ctrl.Current().Messages)
	assert.Equal(t, 1, h.backend.Puts(), "only the initial create is persisted")
}

func TestSend_NormalizesNFC(t *testing.T) {
	h := newHarness(t, replyWith("ok", nil))

	_, err := h.ctrl.Send(context.Background(), "café")
	require.NoError(t, err)
	assert.Equal(t, "café", h.ctrl.Current().Messages[0].Text)
}

func TestSend_IgnoredWhileSending(t *testing.T) {
	h := newHarness(t, replyWith("ok", nil))

	req, ok := h.ctrl.BeginSend("first")
	require.True(t, ok)
	assert.True(t, h.ctrl.Sending())

	_, ok = h.ctrl.BeginSend("second")
	assert.False(t, ok)
	_, err := h.ctrl.Send(context.Background(), "third")
	assert.ErrorIs(t, err, ErrBusy)

	h.ctrl.Finish(req, "done", nil)
	assert.False(t, h.ctrl.Sending())
	assert.Len(t, h.ctrl.Current().Messages, 2)
}

func TestSend_RateLimited(t *testing.T) {
	h := newHarness(t, replyWith("", completion.ErrRateLimited))

	out, err := h.ctrl.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.True(t, out.RateLimited)
	assert.False(t, out.Appended)
	assert.Equal(t, StateIdle, h.ctrl.State())

	conv := h.ctrl.Current()
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, model.SenderUser, conv.Messages[0].Sender)
	assert.Equal(t, model.DefaultTitle, conv.Title)

	text, visible := h.ctrl.Banner(h.clock.Now())
	assert.True(t, visible)
	assert.Equal(t, RateLimitText, text)

	h.clock.Advance(4 * time.Second)
	_, visible = h.ctrl.Banner(h.clock.Now())
	assert.True(t, visible)

	h.clock.Advance(time.Second)
	_, visible = h.ctrl.Banner(h.clock.Now())
	assert.False(t, visible)
}

func TestSend_RateLimitedThenSuccessKeepsDefaultTitle(t *testing.T) {
	h := newHarness(t, replyWith("", completion.ErrRateLimited))
	_, err := h.ctrl.Send(context.Background(), "first question")
	require.NoError(t, err)

	h.ctrl.SetClient(replyWith("answer", nil))
	_, err = h.ctrl.Send(context.Background(), "second question")
	require.NoError(t, err)

	conv := h.ctrl.Current()
	require.Len(t, conv.Messages, 3)
	assert.Equal(t, model.DefaultTitle, conv.Title)
	assert.False(t, conv.Titled)

	// The stored copy agrees after a reload.
	reloaded := h.reload().Current()
	assert.Equal(t, model.DefaultTitle, reloaded.Title)
}

func TestSend_FailureAppendsApology(t *testing.T) {
	h := newHarness(t, replyWith("", errors.New("connection refused")))

	out, err := h.ctrl.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.True(t, out.Failed)
	assert.True(t, out.Appended)
	assert.Error(t, out.Err)

	conv := h.ctrl.Current()
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, model.NewAIMessage(ApologyText), conv.Messages[1])
	assert.Equal(t, conv.Messages, h.reload().Current().Messages)

	_, visible := h.ctrl.Banner(h.clock.Now())
	assert.False(t, visible)
}

func TestSend_TitleTruncated(t *testing.T) {
	h := newHarness(t, replyWith("ok", nil))
	long := strings.Repeat("a", 31)

	_, err := h.ctrl.Send(context.Background(), long)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 30)+"…", h.ctrl.Current().Title)
}

// =============================================================================
// STALE REPLIES
// =============================================================================

func TestFinish_AfterSwitchStoresSilently(t *testing.T) {
	h := newHarness(t, replyWith("", nil))
	first := h.ctrl.Current().ID

	req, ok := h.ctrl.BeginSend("hello")
	require.True(t, ok)

	second := h.ctrl.NewChat()
	require.NotEqual(t, first, second)

	out := h.ctrl.Finish(req, "late reply", nil)
	assert.True(t, out.Appended)
	assert.False(t, out.Refresh)

	assert.Empty(t, h.ctrl.Current().Messages)
	conv, err := h.ctrl.Store().Get(first)
	require.NoError(t, err)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "late reply", conv.Messages[1].Text)
	assert.Equal(t, "hello", conv.Title)
}

func TestFinish_AfterClearDiscarded(t *testing.T) {
	h := newHarness(t, replyWith("", nil))

	req, ok := h.ctrl.BeginSend("hello")
	require.True(t, ok)
	require.NoError(t, h.ctrl.Clear())
	assert.Equal(t, StateIdle, h.ctrl.State())

	out := h.ctrl.Finish(req, "late reply", nil)
	assert.True(t, out.Discarded)
	assert.False(t, out.Appended)
	assert.Empty(t, h.ctrl.Current().Messages)
	assert.Equal(t, model.DefaultTitle, h.ctrl.Current().Title)
}

func TestFinish_ClearDoesNotAffectNewRequest(t *testing.T) {
	h := newHarness(t, replyWith("", nil))

	stale, _ := h.ctrl.BeginSend("one")
	require.NoError(t, h.ctrl.Clear())

	fresh, ok := h.ctrl.BeginSend("two")
	require.True(t, ok)

	assert.True(t, h.ctrl.Finish(stale, "old", nil).Discarded)
	assert.True(t, h.ctrl.Sending(), "stale finish must not end the fresh request")

	out := h.ctrl.Finish(fresh, "new", nil)
	assert.True(t, out.Refresh)
	msgs := h.ctrl.Current().Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, "two", msgs[0].Text)
	assert.Equal(t, "new", msgs[1].Text)
}

// =============================================================================
// ACTIONS
// =============================================================================

func TestNewChatAndSelect(t *testing.T) {
	h := newHarness(t, replyWith("ok", nil))
	first := h.ctrl.Current().ID

	second := h.ctrl.NewChat()
	history := h.ctrl.History()
	require.Len(t, history, 2)
	assert.Equal(t, second, history[0].ID)
	assert.True(t, history[0].Active)

	require.NoError(t, h.ctrl.SelectIndex(1))
	assert.Equal(t, first, h.ctrl.Current().ID)
	require.NoError(t, h.ctrl.Select(second))
	assert.Error(t, h.ctrl.Select("missing"))
	assert.Equal(t, second, h.ctrl.Current().ID)
}

func TestRename(t *testing.T) {
	h := newHarness(t, replyWith("ok", nil))

	require.NoError(t, h.ctrl.Rename("  My chat "))
	_, err := h.ctrl.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "My chat", h.ctrl.Current().Title)
	assert.ErrorIs(t, h.ctrl.Rename(" "), session.ErrEmptyTitle)
}

func TestToggleThemePersists(t *testing.T) {
	h := newHarness(t, replyWith("ok", nil))
	assert.Equal(t, model.ThemeDark, h.ctrl.Theme())

	theme, err := h.ctrl.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, model.ThemeLight, theme)
	assert.Equal(t, model.ThemeLight, h.adapter.LoadTheme(model.ThemeDark))

	again := New(h.reload(), replyWith("", nil), Options{Themes: h.adapter})
	assert.Equal(t, model.ThemeLight, again.Theme())
}

func TestCopy(t *testing.T) {
	h := newHarness(t, replyWith("```go\nx := 1\n```", nil))

	_, err := h.ctrl.CopyLastResponse()
	assert.ErrorIs(t, err, ErrNothingToCopy)

	_, err = h.ctrl.Send(context.Background(), "code")
	require.NoError(t, err)

	text, err := h.ctrl.CopyLastResponse()
	require.NoError(t, err)
	assert.Equal(t, "```go\nx := 1\n```", text)

	_, err = h.ctrl.CopyMessage(0)
	assert.ErrorIs(t, err, ErrNothingToCopy)
	_, err = h.ctrl.CopyMessage(1)
	require.NoError(t, err)
	assert.Len(t, h.copied, 2)
}

func TestTranscript(t *testing.T) {
	h := newHarness(t, replyWith("ok", nil))

	tr := h.ctrl.Transcript()
	require.True(t, tr.IsWelcome())
	prompt, ok := h.ctrl.ExamplePrompt(1)
	assert.True(t, ok)
	assert.Equal(t, "Explain quantum computing", prompt)

	req, _ := h.ctrl.BeginSend(prompt)
	tr = h.ctrl.Transcript()
	require.Len(t, tr.Bubbles, 2)
	assert.True(t, tr.Bubbles[1].Placeholder)
	_, ok = h.ctrl.ExamplePrompt(1)
	assert.False(t, ok)

	h.ctrl.Finish(req, "ok", nil)
	tr = h.ctrl.Transcript()
	require.Len(t, tr.Bubbles, 2)
	assert.False(t, tr.Bubbles[1].Placeholder)
}

func TestPersistErrorReported(t *testing.T) {
	ctrl := New(session.Open(failingPersister{}, session.DefaultConfig()), replyWith("ok", nil), Options{})
	_, err := ctrl.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Error(t, ctrl.TakePersistError())
	assert.NoError(t, ctrl.TakePersistError())
	assert.Len(t, ctrl.Current().Messages, 2)
}

type failingPersister struct{}

func (failingPersister) LoadConversations() []*model.Conversation { return nil }
func (failingPersister) SaveConversations([]*model.Conversation) error {
	return errors.New("disk full")
}
