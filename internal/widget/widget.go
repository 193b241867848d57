// Package widget holds the chat box state and the single transition function
// that drives it. Nothing in here performs I/O: callers feed commands to
// Dispatch, receive a new state snapshot plus an optional effect, execute the
// effect themselves and feed its outcome back as another command.
package widget

import (
	"strings"

	"github.com/google/uuid"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Label is the prefix shown before a message in the transcript.
func (s Sender) Label() string {
	if s == SenderUser {
		return "You"
	}
	return "Bot"
}

// Message is one entry of the conversation. Its position in the history is
// its only identity.
type Message struct {
	Sender Sender
	Text   string
}

// State is the full widget state: the draft being composed, the conversation
// so far, and whether a request is outstanding.
type State struct {
	Draft    string
	History  []Message
	InFlight bool

	// Pending is the request ID of the outstanding PostMessage effect.
	// Empty when idle.
	Pending string
}

// CanSend reports whether the send control is enabled.
func (s State) CanSend() bool {
	return !s.InFlight
}

// Transcript renders the history one message per line, "You: " / "Bot: "
// prefixed.
func (s State) Transcript() string {
	var sb strings.Builder
	for _, msg := range s.History {
		sb.WriteString(msg.Sender.Label())
		sb.WriteString(": ")
		sb.WriteString(msg.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Dispatch applies cmd to s and returns the resulting state along with the
// effect the caller must run, or nil. The input state is never modified.
func Dispatch(s State, cmd Command) (State, Effect) {
	switch c := cmd.(type) {
	case UpdateDraft:
		s.Draft = c.Text
		return s, nil

	case Send:
		if strings.TrimSpace(s.Draft) == "" || s.InFlight {
			return s, nil
		}
		id := uuid.NewString()
		s.History = appendMessage(s.History, Message{Sender: SenderUser, Text: s.Draft})
		s.InFlight = true
		s.Pending = id
		return s, PostMessage{ID: id, Text: s.Draft}

	case ReplyReceived:
		if !s.owns(c.ID) {
			return s, nil
		}
		// Appended to the history as it is now, not as it was when the
		// request went out.
		s.History = appendMessage(s.History, Message{Sender: SenderBot, Text: c.Text})
		return s.settle(), nil

	case RequestFailed:
		if !s.owns(c.ID) {
			return s, nil
		}
		return s.settle(), LogFailure{ID: c.ID, Err: c.Err}
	}

	return s, nil
}

// owns reports whether id names the outstanding request.
func (s State) owns(id string) bool {
	return s.InFlight && id != "" && id == s.Pending
}

// settle returns the widget to idle after a send attempt completes.
func (s State) settle() State {
	s.Draft = ""
	s.InFlight = false
	s.Pending = ""
	return s
}

func appendMessage(history []Message, msg Message) []Message {
	out := make([]Message, len(history), len(history)+1)
	copy(out, history)
	return append(out, msg)
}
