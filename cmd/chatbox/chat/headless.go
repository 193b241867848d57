package chat

import (
	"context"
	"errors"

	"chatbox/internal/widget"
)

var errNoClient = errors.New("no chat client configured")

// SendOnce drives a single exchange without a terminal: draft text, send,
// run the request, settle. It returns the final state and, when the request
// failed, the failure (already logged).
func SendOnce(ctx context.Context, client Sender, text string) (widget.State, error) {
	state, _ := widget.Dispatch(widget.State{}, widget.UpdateDraft{Text: text})
	state, eff := widget.Dispatch(state, widget.Send{})

	post, ok := eff.(widget.PostMessage)
	if !ok {
		return state, nil
	}

	var outcome widget.Command
	if client == nil {
		outcome = widget.RequestFailed{ID: post.ID, Err: errNoClient}
	} else if reply, err := client.Send(ctx, post.Text); err != nil {
		outcome = widget.RequestFailed{ID: post.ID, Err: err}
	} else {
		outcome = widget.ReplyReceived{ID: post.ID, Text: reply}
	}

	state, eff = widget.Dispatch(state, outcome)
	if failure, ok := eff.(widget.LogFailure); ok {
		logFailure(failure)
		return state, failure.Err
	}
	return state, nil
}
