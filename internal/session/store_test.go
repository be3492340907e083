// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jeranaias/gemchat-tui/internal/model"
)

// memPersister records every save and can be told to fail.
type memPersister struct {
	mu      sync.Mutex
	initial []*model.Conversation
	saved   []*model.Conversation
	saves   int
	fail    error
}

func (p *memPersister) LoadConversations() []*model.Conversation {
	return p.initial
}

func (p *memPersister) SaveConversations(convs []*model.Conversation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves++
	if p.fail != nil {
		return p.fail
	}
	p.saved = make([]*model.Conversation, len(convs))
	for i, c := range convs {
		p.saved[i] = c.Clone()
	}
	return nil
}

func (p *memPersister) saveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}

// =============================================================================
// OPEN TESTS
// =============================================================================

func TestOpen_EmptyCreatesFirstConversation(t *testing.T) {
	p := &memPersister{}
	s := Open(p, DefaultConfig())

	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	cur := s.Current()
	if cur == nil || cur.ID != s.CurrentID() {
		t.Fatal("current conversation not set")
	}
	if p.saveCount() != 1 {
		t.Errorf("first run should persist once, saved %d times", p.saveCount())
	}
}

func TestOpen_LoadsExistingAndSelectsFirst(t *testing.T) {
	a, b := model.NewConversation(), model.NewConversation()
	p := &memPersister{initial: []*model.Conversation{b, a}}
	s := Open(p, DefaultConfig())

	if s.CurrentID() != b.ID {
		t.Errorf("CurrentID = %s, want first stored %s", s.CurrentID(), b.ID)
	}
	if p.saveCount() != 0 {
		t.Errorf("loading should not write, saved %d times", p.saveCount())
	}
}

// =============================================================================
// MUTATION TESTS
// =============================================================================

func TestCreateConversation(t *testing.T) {
	p := &memPersister{}
	s := Open(p, DefaultConfig())
	first := s.CurrentID()

	id := s.CreateConversation()

	conv, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !conv.IsEmpty() || conv.Title != model.DefaultTitle {
		t.Errorf("new conversation not empty/default: %+v", conv)
	}
	if s.CurrentID() != id {
		t.Error("new conversation should become current")
	}
	list := s.List()
	if list[0].ID != id || list[1].ID != first {
		t.Error("new conversation should be inserted at the front")
	}
	if len(p.saved) != 2 {
		t.Errorf("persisted %d conversations, want 2", len(p.saved))
	}
}

func TestSelectConversation(t *testing.T) {
	s := Open(&memPersister{}, DefaultConfig())
	first := s.CurrentID()
	s.CreateConversation()

	if err := s.SelectConversation(first); err != nil {
		t.Fatalf("SelectConversation: %v", err)
	}
	if s.CurrentID() != first {
		t.Error("selection not applied")
	}

	err := s.SelectConversation("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if s.CurrentID() != first {
		t.Error("failed selection must not change current")
	}
}

func TestAppendMessage_FirstExchangeSetsTitle(t *testing.T) {
	p := &memPersister{}
	s := Open(p, DefaultConfig())
	id := s.CreateConversation()
	before := p.saveCount()

	if err := s.AppendMessage(id, model.SenderUser, "hello"); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendMessage(id, model.SenderAI, "Hello there! How can I assist you today?"); err != nil {
		t.Fatal(err)
	}

	conv, _ := s.Get(id)
	if conv.Title != "hello" {
		t.Errorf("Title = %q, want %q", conv.Title, "hello")
	}
	if conv.MessageCount() != 2 {
		t.Errorf("MessageCount = %d, want 2", conv.MessageCount())
	}
	if got := p.saveCount() - before; got != 2 {
		t.Errorf("expected a persist per append, got %d", got)
	}

	s.AppendMessage(id, model.SenderUser, "another question")
	s.AppendMessage(id, model.SenderAI, "another answer")
	conv, _ = s.Get(id)
	if conv.Title != "hello" {
		t.Errorf("title changed to %q", conv.Title)
	}
}

func TestAppendMessage_LongTitle(t *testing.T) {
	s := Open(&memPersister{}, DefaultConfig())
	id := s.CurrentID()
	text := strings.Repeat("x", 31)

	s.AppendMessage(id, model.SenderUser, text)
	s.AppendMessage(id, model.SenderAI, "ok")

	conv, _ := s.Get(id)
	if conv.Title != strings.Repeat("x", 30)+"…" {
		t.Errorf("Title = %q", conv.Title)
	}
}

func TestAppendMessage_Errors(t *testing.T) {
	s := Open(&memPersister{}, DefaultConfig())

	if err := s.AppendMessage("missing", model.SenderUser, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := s.AppendMessage(s.CurrentID(), "model", "x"); !errors.Is(err, ErrInvalidSender) {
		t.Errorf("err = %v, want ErrInvalidSender", err)
	}
}

func TestAppendMessage_MaxMessages(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMessages = 3
	s := Open(&memPersister{}, cfg)
	id := s.CurrentID()

	for _, text := range []string{"a", "b", "c", "d", "e"} {
		s.AppendMessage(id, model.SenderUser, text)
	}

	conv, _ := s.Get(id)
	if conv.MessageCount() != 3 || conv.Messages[0].Text != "c" {
		t.Errorf("messages = %+v", conv.Messages)
	}
}

func TestClearConversation(t *testing.T) {
	p := &memPersister{}
	s := Open(p, DefaultConfig())
	id := s.CurrentID()
	s.AppendMessage(id, model.SenderUser, "hello")
	s.AppendMessage(id, model.SenderAI, "hi")

	if err := s.ClearConversation(id); err != nil {
		t.Fatal(err)
	}

	conv, _ := s.Get(id)
	if !conv.IsEmpty() || conv.Title != model.DefaultTitle {
		t.Errorf("after clear: %d messages, title %q", conv.MessageCount(), conv.Title)
	}
	if p.saved[0].Title != model.DefaultTitle {
		t.Error("clear was not persisted")
	}

	if err := s.ClearConversation("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRename(t *testing.T) {
	s := Open(&memPersister{}, DefaultConfig())
	id := s.CurrentID()

	if err := s.Rename(id, "  "); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("err = %v, want ErrEmptyTitle", err)
	}
	if err := s.Rename(id, " Quantum notes "); err != nil {
		t.Fatal(err)
	}
	s.AppendMessage(id, model.SenderUser, "Explain quantum computing")
	s.AppendMessage(id, model.SenderAI, "...")

	conv, _ := s.Get(id)
	if conv.Title != "Quantum notes" {
		t.Errorf("Title = %q", conv.Title)
	}
}

// =============================================================================
// QUERY TESTS
// =============================================================================

func TestList_InsertionOrderAndCopies(t *testing.T) {
	s := Open(&memPersister{}, DefaultConfig())
	oldest := s.CurrentID()
	middle := s.CreateConversation()
	newest := s.CreateConversation()

	// Activity in an older conversation must not reorder the list.
	s.AppendMessage(oldest, model.SenderUser, "bump")

	list := s.List()
	got := []string{list[0].ID, list[1].ID, list[2].ID}
	want := []string{newest, middle, oldest}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}

	list[2].Messages[0].Text = "mutated"
	conv, _ := s.Get(oldest)
	if conv.Messages[0].Text != "bump" {
		t.Error("List must return copies")
	}
}

func TestIDAt(t *testing.T) {
	s := Open(&memPersister{}, DefaultConfig())
	id := s.CreateConversation()

	got, err := s.IDAt(0)
	if err != nil || got != id {
		t.Errorf("IDAt(0) = %s, %v", got, err)
	}
	if _, err := s.IDAt(5); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// =============================================================================
// PERSISTENCE FAILURE TESTS
// =============================================================================

func TestPersistFailure_KeepsMemoryState(t *testing.T) {
	p := &memPersister{}
	s := Open(p, DefaultConfig())

	var reported error
	s.SetPersistErrorCallback(func(err error) { reported = err })
	p.fail = errors.New("disk full")

	id := s.CreateConversation()

	if reported == nil {
		t.Error("persist failure was not reported")
	}
	if s.CurrentID() != id || s.Len() != 2 {
		t.Error("in-memory state should survive a failed save")
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := Open(&memPersister{}, DefaultConfig())
	id := s.CurrentID()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.AppendMessage(id, model.SenderUser, "x")
		}()
		go func() {
			defer wg.Done()
			_ = s.List()
			_ = s.Current()
		}()
	}
	wg.Wait()

	conv, _ := s.Get(id)
	if conv.MessageCount() != 50 {
		t.Errorf("MessageCount = %d, want 50", conv.MessageCount())
	}
}
