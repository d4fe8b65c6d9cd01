// Package chat implements the JSON client for the remote chat endpoint.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// NoReply is returned when the endpoint answered successfully but the
// reply field was absent or empty.
const NoReply = "(no reply)"

// ServerError is a failure reported by the endpoint itself: a non-2xx
// status, or an error field present in the body.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return "chat: server error: " + e.Message
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error"`
}

// Client posts user messages to a fixed chat endpoint.
type Client struct {
	HTTPClient *http.Client
	URL        string
}

// NewClient returns a client for the given endpoint URL.
func NewClient(url string) *Client {
	return &Client{
		HTTPClient: &http.Client{},
		URL:        url,
	}
}

// Send posts one user message and returns the assistant reply. A
// *ServerError means the endpoint reported the failure; any other error
// means the request never completed or the body was undecodable.
func (c *Client) Send(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(chatRequest{Message: text})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("post message: %w", err)
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || parsed.Error != "" {
		msg := parsed.Error
		if msg == "" {
			msg = "Server error"
		}
		return "", &ServerError{Message: msg}
	}

	if parsed.Reply == "" {
		return NoReply, nil
	}
	return parsed.Reply, nil
}
