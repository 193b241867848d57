// Package chat provides tests for the Update loop and message routing.
package chat

import (
	"errors"
	"testing"

	"chatbox/internal/logging"
	"chatbox/internal/widget"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// =============================================================================
// WINDOW SIZE MESSAGE TESTS
// =============================================================================

func TestUpdate_WindowSize(t *testing.T) {
	t.Parallel()
	m := NewTestModel(t, &fakeSender{})

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
	assert.True(t, m.ready)
	assert.Equal(t, 118, m.viewport.Width)
}

func TestUpdate_WindowSize_Degenerate(t *testing.T) {
	t.Parallel()
	m := NewTestModel(t, &fakeSender{})

	for _, size := range []tea.WindowSizeMsg{{Width: 0, Height: 0}, {Width: -1, Height: -1}, {Width: 10000, Height: 5000}} {
		assert.NotPanics(t, func() {
			m, _ = update(t, m, size)
			_ = m.View()
		})
		assert.GreaterOrEqual(t, m.viewport.Height, 1)
		assert.GreaterOrEqual(t, m.input.Width, 1)
	}
}

// =============================================================================
// DRAFT TESTS
// =============================================================================

func TestUpdate_TypingUpdatesDraft(t *testing.T) {
	t.Parallel()
	m := NewTestModel(t, &fakeSender{})

	m = typeText(t, m, "Hel")
	m = typeText(t, m, "lo")

	assert.Equal(t, "Hello", m.State().Draft)
	assert.Equal(t, "Hello", m.input.Value())
	assert.Empty(t, m.State().History)
}

// =============================================================================
// SEND TESTS
// =============================================================================

func TestUpdate_SendSuccess(t *testing.T) {
	t.Parallel()
	client := &fakeSender{reply: "Hi there"}
	m := NewTestModel(t, client)

	m = typeText(t, m, "Hello")
	m, cmd := pressEnter(t, m)

	// The user message is visible before the request resolves.
	require.Len(t, m.State().History, 1)
	assert.Equal(t, widget.Message{Sender: widget.SenderUser, Text: "Hello"}, m.State().History[0])
	assert.True(t, m.State().InFlight)
	assert.False(t, m.SendEnabled())
	require.NotNil(t, cmd)

	m, _ = update(t, m, outcome(t, drain(cmd)))

	want := []widget.Message{
		{Sender: widget.SenderUser, Text: "Hello"},
		{Sender: widget.SenderBot, Text: "Hi there"},
	}
	if diff := cmp.Diff(want, m.State().History); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "", m.State().Draft)
	assert.Equal(t, "", m.input.Value())
	assert.False(t, m.State().InFlight)
	assert.True(t, m.SendEnabled())
	assert.Equal(t, []string{"Hello"}, client.Calls())
}

func TestUpdate_SendBlankIsNoOp(t *testing.T) {
	t.Parallel()
	client := &fakeSender{reply: "unused"}
	m := NewTestModel(t, client)

	m = typeText(t, m, "   ")
	m, cmd := pressEnter(t, m)

	assert.Nil(t, cmd)
	assert.Empty(t, m.State().History)
	assert.False(t, m.State().InFlight)
	assert.Equal(t, "   ", m.State().Draft)
	assert.Equal(t, "   ", m.input.Value())
	assert.Empty(t, client.Calls())
}

func TestUpdate_SendDisabledWhileInFlight(t *testing.T) {
	t.Parallel()
	client := &fakeSender{reply: "ok"}
	m := NewTestModel(t, client)

	m = typeText(t, m, "first")
	m, first := pressEnter(t, m)
	require.NotNil(t, first)

	// Editing still works while waiting, but Enter does nothing.
	m = typeText(t, m, " more")
	before := m.State()
	m, second := pressEnter(t, m)

	assert.Nil(t, second)
	if diff := cmp.Diff(before, m.State()); diff != "" {
		t.Errorf("state changed by disabled send (-want +got):\n%s", diff)
	}
	assert.Contains(t, m.View(), "Sending...")

	// Completing the first request clears the draft unconditionally.
	m, _ = update(t, m, outcome(t, drain(first)))
	assert.Equal(t, "", m.State().Draft)
	assert.Len(t, m.State().History, 2)
	assert.Equal(t, []string{"first"}, client.Calls())
}

func TestUpdate_SendFailure(t *testing.T) {
	// Not parallel: swaps the global logger.
	core, logs := observer.New(zapcore.DebugLevel)
	logging.InitializeWithCore(core, nil)
	t.Cleanup(logging.CloseAll)

	client := &fakeSender{err: errors.New("connection refused")}
	m := NewTestModel(t, client)

	m = typeText(t, m, "Test")
	m, cmd := pressEnter(t, m)
	m, after := update(t, m, outcome(t, drain(cmd)))

	assert.Nil(t, after)
	assert.Equal(t, []widget.Message{{Sender: widget.SenderUser, Text: "Test"}}, m.State().History)
	assert.Equal(t, "", m.State().Draft)
	assert.False(t, m.State().InFlight)
	assert.NotContains(t, m.View(), "connection refused")

	errorsLogged := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errorsLogged, 1)
	assert.Contains(t, errorsLogged[0].Message, "Error sending message")
	assert.Contains(t, errorsLogged[0].Message, "connection refused")
	assert.Equal(t, "api", errorsLogged[0].ContextMap()["cat"])
}

func TestUpdate_NoClientFailsQuietly(t *testing.T) {
	t.Parallel()
	m := NewTestModel(t, nil)

	m = typeText(t, m, "anyone?")
	m, cmd := pressEnter(t, m)
	msg := outcome(t, drain(cmd))

	failure, ok := msg.(failureMsg)
	require.True(t, ok)
	assert.ErrorIs(t, failure.err, errNoClient)

	m, _ = update(t, m, msg)
	assert.Len(t, m.State().History, 1)
	assert.False(t, m.State().InFlight)
}

func TestUpdate_StaleReplyIgnored(t *testing.T) {
	t.Parallel()
	m := NewTestModel(t, &fakeSender{reply: "ok"})

	m, _ = update(t, m, replyMsg{id: "nobody", text: "ghost"})
	assert.Empty(t, m.State().History)

	m = typeText(t, m, "hi")
	m, _ = pressEnter(t, m)
	m, _ = update(t, m, replyMsg{id: "nobody", text: "ghost"})

	assert.Len(t, m.State().History, 1)
	assert.True(t, m.State().InFlight)
}

func TestUpdate_ConsecutiveExchanges(t *testing.T) {
	t.Parallel()
	client := &fakeSender{reply: "ack"}
	m := NewTestModel(t, client)

	for _, text := range []string{"one", "two", "three"} {
		m = typeText(t, m, text)
		var cmd tea.Cmd
		m, cmd = pressEnter(t, m)
		m, _ = update(t, m, outcome(t, drain(cmd)))
	}

	require.Len(t, m.State().History, 6)
	assert.Equal(t, "You: one\nBot: ack\nYou: two\nBot: ack\nYou: three\nBot: ack\n", m.State().Transcript())
}

// =============================================================================
// KEY HANDLING TESTS
// =============================================================================

func TestUpdate_QuitKeys(t *testing.T) {
	t.Parallel()
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		m := NewTestModel(t, &fakeSender{})
		_, cmd := update(t, m, tea.KeyMsg{Type: key})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestUpdate_QuitLogsSummary(t *testing.T) {
	// Not parallel: swaps the global logger.
	core, logs := observer.New(zapcore.DebugLevel)
	logging.InitializeWithCore(core, nil)
	t.Cleanup(logging.CloseAll)

	m := NewTestModel(t, &fakeSender{reply: "Hi there"})
	m = typeText(t, m, "Hello")
	m, cmd := pressEnter(t, m)
	m, _ = update(t, m, outcome(t, drain(cmd)))

	_, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	closed := logs.FilterMessageSnippet("chat closed").All()
	require.Len(t, closed, 1)
	assert.Equal(t, zapcore.InfoLevel, closed[0].Level)
	assert.Equal(t, "ui", closed[0].ContextMap()["cat"])
	assert.Contains(t, closed[0].Message, "2 messages")
}

func TestUpdate_SpinnerIdleIgnored(t *testing.T) {
	t.Parallel()
	m := NewTestModel(t, &fakeSender{})

	_, cmd := update(t, m, m.spinner.Tick())
	assert.Nil(t, cmd)
}
