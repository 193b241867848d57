// Package chatclient talks to the external chat service: one POST per user
// message, one reply back.
package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chatbox/internal/logging"
)

// DefaultBaseURL is where the chat service listens when nothing else is
// configured.
const DefaultBaseURL = "http://localhost:8000"

// chatPath is the fixed endpoint path on the chat service.
const chatPath = "/chat"

// maxErrorBody bounds how much of a failed response body is kept for the log.
const maxErrorBody = 512

// slowReplyThreshold is how long a reply may take before it is logged as slow.
const slowReplyThreshold = 10 * time.Second

// Config configures a Client.
type Config struct {
	BaseURL string
	// Timeout of zero means the request runs until it completes or the
	// caller's context ends.
	Timeout time.Duration
	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{BaseURL: DefaultBaseURL}
}

// Request is the body posted to the chat service.
type Request struct {
	Message string `json:"message"`
}

// Reply is the chat service's answer. Only Response is shown to the user;
// the rest is diagnostic metadata some services attach.
type Reply struct {
	Response                 string `json:"response"`
	Timestamp                string `json:"timestamp,omitempty"`
	StressDetectedText       *bool  `json:"stress_detected_text,omitempty"`
	StressDetectedSmartwatch *bool  `json:"stress_detected_smartwatch,omitempty"`
	OverallStressDetected    *bool  `json:"overall_stress_detected,omitempty"`
}

// Client posts messages to the chat service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client with the given config.
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// Endpoint returns the full URL messages are posted to.
func (c *Client) Endpoint() string {
	return c.baseURL + chatPath
}

// Send posts message and returns the reply text verbatim.
func (c *Client) Send(ctx context.Context, message string) (string, error) {
	reply, err := c.Exchange(ctx, message)
	if err != nil {
		return "", err
	}
	return reply.Response, nil
}

// Exchange posts message and returns the decoded reply. Every failure is a
// *RequestFailure.
func (c *Client) Exchange(ctx context.Context, message string) (*Reply, error) {
	timer := logging.StartTimer(logging.CategoryAPI, "POST "+chatPath)
	defer timer.StopWithThreshold(slowReplyThreshold)

	jsonData, err := json.Marshal(Request{Message: message})
	if err != nil {
		return nil, &RequestFailure{Endpoint: c.Endpoint(), Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(jsonData))
	if err != nil {
		return nil, &RequestFailure{Endpoint: c.Endpoint(), Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	logging.APIDebug("posting %d bytes to %s", len(jsonData), c.Endpoint())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestFailure{Endpoint: c.Endpoint(), Err: err}
	}
	defer resp.Body.Close()
	logging.API("POST %s -> %d", c.Endpoint(), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &RequestFailure{
			Endpoint: c.Endpoint(),
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(body))),
		}
	}

	var reply Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, &RequestFailure{
			Endpoint: c.Endpoint(),
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("failed to decode response: %w", err),
		}
	}

	if reply.Response == "" {
		logging.APIWarn("reply from %s has an empty response field", c.Endpoint())
	}
	logging.APIDebug("reply received: %d chars, timestamp=%q", len(reply.Response), reply.Timestamp)
	return &reply, nil
}
