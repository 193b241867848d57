package widget

// Command is an input to Dispatch.
type Command interface {
	isCommand()
}

// UpdateDraft replaces the draft verbatim.
type UpdateDraft struct {
	Text string
}

// Send submits the current draft.
type Send struct{}

// ReplyReceived carries the chat service's answer to request ID.
type ReplyReceived struct {
	ID   string
	Text string
}

// RequestFailed reports that request ID did not produce a reply.
type RequestFailed struct {
	ID  string
	Err error
}

func (UpdateDraft) isCommand()   {}
func (Send) isCommand()          {}
func (ReplyReceived) isCommand() {}
func (RequestFailed) isCommand() {}

// Effect is work Dispatch asks the caller to perform.
type Effect interface {
	isEffect()
}

// PostMessage asks the caller to send Text to the chat service and report
// the outcome as ReplyReceived or RequestFailed carrying the same ID.
type PostMessage struct {
	ID   string
	Text string
}

// LogFailure asks the caller to write one diagnostic entry for a failed
// request. Nothing is shown to the user.
type LogFailure struct {
	ID  string
	Err error
}

func (PostMessage) isEffect() {}
func (LogFailure) isEffect()  {}
