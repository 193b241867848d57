package chatclient

import (
	"fmt"
	"net/http"
)

// RequestFailure is the only error the client returns: the chat service was
// unreachable, answered with a non-2xx status, or sent a body that did not
// decode.
type RequestFailure struct {
	Endpoint string
	// Status is the HTTP status code, or zero when no response arrived.
	Status int
	Err    error
}

func (e *RequestFailure) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("chat request to %s failed (%d %s): %v",
			e.Endpoint, e.Status, http.StatusText(e.Status), e.Err)
	}
	return fmt.Sprintf("chat request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *RequestFailure) Unwrap() error {
	return e.Err
}
