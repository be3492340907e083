// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/gemchat-tui/internal/completion"
	"github.com/jeranaias/gemchat-tui/internal/model"
	"github.com/jeranaias/gemchat-tui/internal/render"
	"github.com/jeranaias/gemchat-tui/internal/session"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// ApologyText is appended as an AI message when a request fails.
	ApologyText = "Sorry, I encountered an error. Please try again."

	// RateLimitText is shown in the banner when a request is rate limited.
	RateLimitText = "Rate limit exceeded. Please wait a moment before sending more messages."

	// DefaultBannerDuration is how long the rate-limit banner stays visible.
	DefaultBannerDuration = 5 * time.Second
)

var (
	// ErrEmptyInput is returned by Send for blank input.
	ErrEmptyInput = errors.New("message is empty")

	// ErrBusy is returned by Send while a request is in flight.
	ErrBusy = errors.New("a message is already being sent")

	// ErrNothingToCopy is returned when there is no assistant reply to copy.
	ErrNothingToCopy = errors.New("no assistant reply to copy")
)

// =============================================================================
// TYPES
// =============================================================================

// State is the send state machine.
type State int

const (
	StateIdle State = iota
	StateSending
)

// String returns the state name.
func (s State) String() string {
	if s == StateSending {
		return "sending"
	}
	return "idle"
}

// ThemeStore persists the theme preference.
type ThemeStore interface {
	LoadTheme(fallback model.Theme) model.Theme
	SaveTheme(theme model.Theme) error
}

// Request is one in-flight completion. It is created by BeginSend and must
// be handed back to Finish.
type Request struct {
	ConversationID string
	Token          uint64
	Text           string
	Turns          []completion.Turn

	generation uint64
}

// Outcome describes what Finish did with a reply.
type Outcome struct {
	// Appended is set when a message (reply or apology) was added.
	Appended bool

	// Refresh is set when the reply belongs to the visible conversation and
	// the view must be redrawn.
	Refresh bool

	// RateLimited is set when the banner was raised.
	RateLimited bool

	// Failed is set when the apology was appended.
	Failed bool

	// Discarded is set when the conversation was cleared while the request
	// was in flight.
	Discarded bool

	// Err is the completion error, if any.
	Err error
}

// Options configures a Controller.
type Options struct {
	// Themes persists theme changes. Nil keeps the theme in memory only.
	Themes ThemeStore

	// Theme is the initial theme when Themes has none stored.
	Theme model.Theme

	// BannerDuration overrides DefaultBannerDuration.
	BannerDuration time.Duration

	// Now overrides time.Now for the banner clock.
	Now func() time.Time

	// Clipboard overrides clipboard.WriteAll.
	Clipboard func(text string) error

	Logger zerolog.Logger
}

// Controller binds user actions to Store mutations and completion requests.
// It is safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	store  *session.Store
	client completion.Client

	state    State
	inflight *Request
	nextTok  uint64
	latest   map[string]uint64
	cleared  map[string]uint64

	theme  model.Theme
	themes ThemeStore

	bannerText     string
	bannerUntil    time.Time
	bannerDuration time.Duration
	now            func() time.Time

	copyFn func(string) error
	logger zerolog.Logger

	errMu      sync.Mutex
	persistErr error
}

// New creates a controller over store that answers with client.
func New(store *session.Store, client completion.Client, opts Options) *Controller {
	c := &Controller{
		store:          store,
		client:         client,
		latest:         make(map[string]uint64),
		cleared:        make(map[string]uint64),
		themes:         opts.Themes,
		bannerDuration: opts.BannerDuration,
		now:            opts.Now,
		copyFn:         opts.Clipboard,
		logger:         opts.Logger.With().Str("component", "controller").Logger(),
	}
	if c.bannerDuration <= 0 {
		c.bannerDuration = DefaultBannerDuration
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.copyFn == nil {
		c.copyFn = clipboard.WriteAll
	}

	c.theme = opts.Theme
	if !c.theme.Valid() {
		c.theme = model.ThemeDark
	}
	if c.themes != nil {
		c.theme = c.themes.LoadTheme(c.theme)
	}

	store.SetPersistErrorCallback(func(err error) {
		c.errMu.Lock()
		c.persistErr = err
		c.errMu.Unlock()
	})
	return c
}

// SetClient swaps the completion backend. A request already in flight
// finishes on the old one.
func (c *Controller) SetClient(client completion.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.client = client
}

// State returns the send state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Sending reports whether a request is in flight.
func (c *Controller) Sending() bool {
	return c.State() == StateSending
}

// Store returns the conversation store.
func (c *Controller) Store() *session.Store {
	return c.store
}

// TakePersistError returns and clears the last save failure.
func (c *Controller) TakePersistError() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	err := c.persistErr
	c.persistErr = nil
	return err
}

// =============================================================================
// SEND CYCLE
// =============================================================================

// NormalizeInput trims text and converts it to NFC.
func NormalizeInput(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

// BeginSend validates text, appends it as a user message to the current
// conversation and moves to Sending. It returns false for blank input or
// when a request is already in flight.
func (c *Controller) BeginSend(text string) (*Request, bool) {
	text = NormalizeInput(text)
	if text == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateSending {
		c.logger.Debug().Msg("send ignored while sending")
		return nil, false
	}

	id := c.store.CurrentID()
	if err := c.store.AppendMessage(id, model.SenderUser, text); err != nil {
		c.logger.Error().Err(err).Str("id", id).Msg("failed to append user message")
		return nil, false
	}
	conv, err := c.store.Get(id)
	if err != nil {
		return nil, false
	}

	c.nextTok++
	req := &Request{
		ConversationID: id,
		Token:          c.nextTok,
		Text:           text,
		Turns:          completion.TurnsFromMessages(conv.Messages),
		generation:     c.cleared[id],
	}
	c.latest[id] = req.Token
	c.inflight = req
	c.state = StateSending

	c.logger.Debug().Str("id", id).Uint64("token", req.Token).Int("turns", len(req.Turns)).Msg("send started")
	return req, true
}

// Complete runs req against the current client. It does not touch the
// controller state and may be called from any goroutine.
func (c *Controller) Complete(ctx context.Context, req *Request) (string, error) {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()
	return client.Complete(ctx, req.Turns)
}

// Finish applies the result of req and returns to Idle.
func (c *Controller) Finish(req *Request, reply string, err error) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight == req {
		c.inflight = nil
		c.state = StateIdle
	}

	log := c.logger.With().Str("id", req.ConversationID).Uint64("token", req.Token).Logger()

	if c.cleared[req.ConversationID] != req.generation {
		log.Debug().Msg("reply discarded after clear")
		return Outcome{Discarded: true, Err: err}
	}

	visible := req.ConversationID == c.store.CurrentID() && c.latest[req.ConversationID] == req.Token

	if err != nil && completion.IsRateLimited(err) {
		log.Warn().Err(err).Msg("rate limited")
		c.bannerText = RateLimitText
		c.bannerUntil = c.now().Add(c.bannerDuration)
		return Outcome{RateLimited: true, Refresh: visible, Err: err}
	}

	out := Outcome{Err: err}
	text := reply
	if err != nil {
		log.Error().Err(err).Msg("completion failed")
		text = ApologyText
		out.Failed = true
	}

	if appendErr := c.store.AppendMessage(req.ConversationID, model.SenderAI, text); appendErr != nil {
		log.Error().Err(appendErr).Msg("failed to append reply")
		return out
	}
	out.Appended = true
	out.Refresh = visible
	if !visible {
		log.Debug().Msg("reply stored for background conversation")
	}
	return out
}

// Send runs a full send cycle synchronously.
func (c *Controller) Send(ctx context.Context, text string) (Outcome, error) {
	if NormalizeInput(text) == "" {
		return Outcome{}, ErrEmptyInput
	}
	req, ok := c.BeginSend(text)
	if !ok {
		return Outcome{}, ErrBusy
	}
	reply, err := c.Complete(ctx, req)
	return c.Finish(req, reply, err), nil
}

// =============================================================================
// CONVERSATION ACTIONS
// =============================================================================

// NewChat creates an empty conversation and makes it current.
func (c *Controller) NewChat() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.CreateConversation()
}

// Clear empties the current conversation. A reply still in flight for it is
// dropped, and the controller returns to Idle.
func (c *Controller) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.store.CurrentID()
	if err := c.store.ClearConversation(id); err != nil {
		return err
	}
	c.cleared[id]++
	if c.inflight != nil && c.inflight.ConversationID == id {
		c.inflight = nil
		c.state = StateIdle
	}
	return nil
}

// Select makes id the current conversation.
func (c *Controller) Select(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.SelectConversation(id)
}

// SelectIndex selects the conversation at position i of the history list.
func (c *Controller) SelectIndex(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := c.store.IDAt(i)
	if err != nil {
		return err
	}
	return c.store.SelectConversation(id)
}

// Rename sets a manual title on the current conversation.
func (c *Controller) Rename(title string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Rename(c.store.CurrentID(), NormalizeInput(title))
}

// Current returns a copy of the current conversation.
func (c *Controller) Current() *model.Conversation {
	return c.store.Current()
}

// =============================================================================
// THEME
// =============================================================================

// Theme returns the active theme.
func (c *Controller) Theme() model.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme
}

// ToggleTheme switches between dark and light and persists the choice. The
// in-memory theme changes even when saving fails.
func (c *Controller) ToggleTheme() (model.Theme, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.theme = c.theme.Toggle()
	if c.themes == nil {
		return c.theme, nil
	}
	if err := c.themes.SaveTheme(c.theme); err != nil {
		c.logger.Error().Err(err).Msg("failed to save theme")
		return c.theme, errors.Wrap(err, "save theme")
	}
	return c.theme, nil
}

// =============================================================================
// CLIPBOARD
// =============================================================================

// CopyLastResponse copies the newest assistant reply of the current
// conversation and returns it.
func (c *Controller) CopyLastResponse() (string, error) {
	conv := c.store.Current()
	if conv == nil {
		return "", ErrNothingToCopy
	}
	msg, ok := conv.LastAIMessage()
	if !ok {
		return "", ErrNothingToCopy
	}
	return msg.Text, c.copy(msg.Text)
}

// CopyMessage copies message i of the current conversation. Only assistant
// messages are copyable.
func (c *Controller) CopyMessage(i int) (string, error) {
	conv := c.store.Current()
	if conv == nil || i < 0 || i >= len(conv.Messages) || conv.Messages[i].IsUser() {
		return "", ErrNothingToCopy
	}
	text := conv.Messages[i].Text
	return text, c.copy(text)
}

func (c *Controller) copy(text string) error {
	if err := c.copyFn(text); err != nil {
		return errors.Wrap(err, "copy to clipboard")
	}
	return nil
}

// =============================================================================
// BANNER
// =============================================================================

// Banner returns the rate-limit banner text while it is visible at now.
func (c *Controller) Banner(now time.Time) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bannerText == "" || !now.Before(c.bannerUntil) {
		return "", false
	}
	return c.bannerText, true
}

// BannerDeadline returns when the current banner hides.
func (c *Controller) BannerDeadline() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bannerUntil
}

// DismissBanner hides the banner immediately.
func (c *Controller) DismissBanner() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bannerText = ""
	c.bannerUntil = time.Time{}
}

// =============================================================================
// VIEW
// =============================================================================

// Transcript renders the current conversation, with the typing placeholder
// while its reply is pending.
func (c *Controller) Transcript() render.Transcript {
	c.mu.Lock()
	defer c.mu.Unlock()

	conv := c.store.Current()
	if conv == nil {
		return render.BuildTranscript(nil, false)
	}
	typing := c.inflight != nil && c.inflight.ConversationID == conv.ID
	return render.BuildTranscript(conv.Messages, typing)
}

// History renders the sidebar list.
func (c *Controller) History() []render.HistoryItem {
	return render.BuildHistory(c.store.List(), c.store.CurrentID())
}

// ExamplePrompt returns welcome prompt n (1-based) when the current
// conversation shows the welcome panel.
func (c *Controller) ExamplePrompt(n int) (string, bool) {
	return c.Transcript().Welcome.Prompt(n)
}
