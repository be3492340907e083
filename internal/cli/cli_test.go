// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/peterh/liner"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/gemchat-tui/internal/completion"
	"github.com/jeranaias/gemchat-tui/internal/controller"
	"github.com/jeranaias/gemchat-tui/internal/model"
	"github.com/jeranaias/gemchat-tui/internal/render"
	"github.com/jeranaias/gemchat-tui/internal/session"
	"github.com/jeranaias/gemchat-tui/internal/storage"
	"github.com/jeranaias/gemchat-tui/internal/util"
)

// =============================================================================
// HELPERS
// =============================================================================

// scriptReader replays fixed lines, then returns end.
type scriptReader struct {
	lines   []string
	end     error
	history []string
	closed  bool
}

func (s *scriptReader) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		if s.end != nil {
			return "", s.end
		}
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptReader) AppendHistory(line string) { s.history = append(s.history, line) }
func (s *scriptReader) Close() error              { s.closed = true; return nil }

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestREPL(t *testing.T, client completion.Client, lines ...string) (*REPL, *scriptReader, *bytes.Buffer, *controller.Controller) {
	t.Helper()
	adapter := storage.NewAdapter(storage.NewMemoryBackend(), zerolog.Nop())
	store := session.Open(adapter, session.DefaultConfig())
	ctrl := controller.New(store, client, controller.Options{
		Themes:    adapter,
		Now:       func() time.Time { return testNow },
		Clipboard: func(string) error { return nil },
	})

	in := &scriptReader{lines: lines}
	out := &bytes.Buffer{}
	r := NewREPL(ctrl, in, Options{
		Out:     out,
		Profile: termenv.Ascii,
		Width:   80,
		Now:     func() time.Time { return testNow },
	})
	return r, in, out, ctrl
}

func reply(text string, err error) completion.Client {
	return completion.ClientFunc(func(context.Context, []completion.Turn) (string, error) {
		return text, err
	})
}

// =============================================================================
// MAIN LOOP
// =============================================================================

func TestRun_WelcomeAndEOF(t *testing.T) {
	r, _, out, _ := newTestREPL(t, reply("ok", nil))

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), render.WelcomeText)
	for _, p := range render.ExamplePrompts {
		assert.Contains(t, out.String(), p)
	}
}

func TestRun_CtrlCExits(t *testing.T) {
	r, in, _, _ := newTestREPL(t, reply("ok", nil))
	in.end = liner.ErrPromptAborted

	assert.NoError(t, r.Run(context.Background()))
}

func TestRun_ReadErrorIsReturned(t *testing.T) {
	r, in, _, _ := newTestREPL(t, reply("ok", nil))
	in.end = errors.New("broken tty")

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken tty")
}

func TestRun_SendsAndRecordsHistory(t *testing.T) {
	r, in, out, ctrl := newTestREPL(t, reply("Hi **there**", nil), "hello", "   ", "quit", "never reached")

	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, []string{"hello", "quit"}, in.history)
	assert.Len(t, in.lines, 1, "quit stops the loop")
	assert.Contains(t, out.String(), "there")

	conv := ctrl.Current()
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "hello", conv.GetTitle())
}

// =============================================================================
// SENDING
// =============================================================================

func TestHandle_RateLimited(t *testing.T) {
	r, _, out, ctrl := newTestREPL(t, reply("", completion.ErrRateLimited))

	assert.False(t, r.Handle(context.Background(), "hello"))
	assert.Contains(t, out.String(), controller.RateLimitText)
	assert.Len(t, ctrl.Current().Messages, 1)
}

func TestHandle_Failure(t *testing.T) {
	r, _, out, ctrl := newTestREPL(t, reply("", errors.New("boom")))

	r.Handle(context.Background(), "hello")
	assert.Contains(t, out.String(), controller.ApologyText)

	msgs := ctrl.Current().Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, controller.ApologyText, msgs[1].Text)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func TestCommands_NewListSwitch(t *testing.T) {
	r, _, out, ctrl := newTestREPL(t, reply("answer", nil))
	ctx := context.Background()

	r.Handle(ctx, "first question")
	r.Handle(ctx, "/new")
	assert.Equal(t, 2, ctrl.Store().Len())

	out.Reset()
	r.Handle(ctx, "/list")
	listed := out.String()
	assert.Contains(t, listed, "first question")
	assert.Contains(t, listed, model.DefaultTitle)
	assert.Contains(t, listed, "* ")

	r.Handle(ctx, "/switch 2")
	assert.Equal(t, "first question", ctrl.Current().GetTitle())

	out.Reset()
	r.Handle(ctx, "/switch nope")
	assert.Contains(t, out.String(), "usage: /switch")

	out.Reset()
	r.Handle(ctx, "/switch 9")
	assert.Contains(t, out.String(), "[X]")
}

func TestCommands_ClearRename(t *testing.T) {
	r, _, out, ctrl := newTestREPL(t, reply("answer", nil))
	ctx := context.Background()

	r.Handle(ctx, "hello")
	r.Handle(ctx, "/rename   My chat  ")
	assert.Equal(t, "My chat", ctrl.Current().GetTitle())

	r.Handle(ctx, "/clear")
	assert.True(t, ctrl.Current().IsEmpty())
	assert.Equal(t, model.DefaultTitle, ctrl.Current().GetTitle())

	out.Reset()
	r.Handle(ctx, "/rename")
	assert.Contains(t, out.String(), "[X]")
}

func TestCommands_Theme(t *testing.T) {
	r, _, out, ctrl := newTestREPL(t, reply("answer", nil))

	r.Handle(context.Background(), "/theme")
	assert.Equal(t, model.ThemeLight, ctrl.Theme())
	assert.Contains(t, out.String(), "Theme: light")
}

func TestCommands_Prompt(t *testing.T) {
	r, _, out, ctrl := newTestREPL(t, reply("answer", nil))
	ctx := context.Background()

	r.Handle(ctx, "/prompt 2")
	msgs := ctrl.Current().Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, render.ExamplePrompts[1], msgs[0].Text)

	out.Reset()
	r.Handle(ctx, "/prompt 1")
	assert.Contains(t, out.String(), "only available in an empty chat")
}

func TestCommands_CopyAndExport(t *testing.T) {
	r, _, out, _ := newTestREPL(t, reply("answer", nil))
	ctx := context.Background()

	r.Handle(ctx, "/copy")
	assert.Contains(t, out.String(), "[X]")

	out.Reset()
	r.Handle(ctx, "/export")
	assert.Contains(t, out.String(), "export is not available")

	var gotFormat string
	r.export = func(conv *model.Conversation, format string) (string, error) {
		gotFormat = format
		return "/tmp/chat." + format, nil
	}
	r.Handle(ctx, "hello")
	r.Handle(ctx, "/copy")
	r.Handle(ctx, "/export html")
	assert.Equal(t, "html", gotFormat)
	assert.Contains(t, out.String(), "Exported to /tmp/chat.html")
}

func TestCommands_HelpAndUnknown(t *testing.T) {
	r, _, out, _ := newTestREPL(t, reply("answer", nil))

	assert.False(t, r.Handle(context.Background(), "/help"))
	assert.Contains(t, out.String(), "/switch <n>")

	out.Reset()
	r.Handle(context.Background(), "/bogus")
	assert.Contains(t, out.String(), "unknown command /bogus")

	assert.True(t, r.Handle(context.Background(), "/quit"))
	assert.True(t, r.Handle(context.Background(), "EXIT"))
}

// =============================================================================
// LIST
// =============================================================================

func TestPrintConversationList(t *testing.T) {
	p := NewPrinter(termenv.Ascii)

	var empty bytes.Buffer
	PrintConversationList(&empty, p, nil, "", testNow)
	assert.Contains(t, empty.String(), "No conversations yet.")

	conv := model.NewConversation()
	conv.SetTitle("Quantum")
	conv.AddMessage(model.NewUserMessage("what is entanglement?"))
	conv.AddMessage(model.NewAIMessage("Entanglement links\nthe states of two particles so that measuring one fixes the other."))
	legacy := &model.Conversation{ID: "legacy-id", Title: "Old"}

	var buf bytes.Buffer
	PrintConversationList(&buf, p, []*model.Conversation{conv, nil, legacy}, conv.ID, conv.CreatedAt().Add(2*time.Hour))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "*  1."))
	assert.Contains(t, lines[0], "2 hours ago")
	assert.Contains(t, lines[0], "Entanglement links the states of"+util.Ellipsis)
	assert.True(t, strings.HasSuffix(lines[1], "unknown"), "empty conversation has no preview")
	assert.Contains(t, lines[1], " 3.")
	assert.Contains(t, lines[1], "unknown")
}

func TestColorsEnabled(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("FORCE_COLOR", "1")
	assert.False(t, ColorsEnabled())
	assert.Equal(t, termenv.Ascii, ColorProfile())

	t.Setenv("NO_COLOR", "")
	assert.True(t, ColorsEnabled())
}
