// Package chat provides test utilities for TUI testing.
package chat

import (
	"context"
	"sync"
	"testing"

	"chatbox/cmd/chatbox/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// fakeSender records calls and answers with a fixed reply or error.
type fakeSender struct {
	mu    sync.Mutex
	calls []string
	reply string
	err   error
}

func (f *fakeSender) Send(_ context.Context, message string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, message)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeSender) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// NewTestModel returns a sized model without markdown rendering.
func NewTestModel(t *testing.T, client Sender) Model {
	t.Helper()
	m := New(Config{
		Client:      client,
		Styles:      ui.NewStyles(ui.LightTheme()),
		Endpoint:    "http://localhost:8000",
		Placeholder: "Type a message",
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

// update feeds msg to m and returns the concrete model.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	result, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return result, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func pressEnter(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

// drain runs cmd, expanding batches, and returns every message produced.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// outcome picks the request result out of drained messages.
func outcome(t *testing.T, msgs []tea.Msg) tea.Msg {
	t.Helper()
	for _, msg := range msgs {
		switch msg.(type) {
		case replyMsg, failureMsg:
			return msg
		}
	}
	t.Fatalf("no request outcome among %d messages", len(msgs))
	return nil
}
