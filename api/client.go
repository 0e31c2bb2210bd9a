// Package api is the http client for a running kompas server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	default_address = "http://127.0.0.1:11823"
)

type Client struct {
	client   *http.Client
	Endpoint string
	key      string
}

func NewClient(endpoint, key string) *Client {
	if endpoint == "" {
		endpoint = default_address
	}
	return &Client{
		client:   http.DefaultClient,
		Endpoint: endpoint,
		key:      key,
	}
}

// Chat is the stateless completion call, the caller carries the history.
func (c *Client) Chat(ctx context.Context, in ChatRequest) (*ChatResponse, error) {
	var out ChatResponse
	if err := c.do(ctx, http.MethodPost, "v1/chat/completions", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSession opens a server side conversation.
func (c *Client) CreateSession(ctx context.Context) (*Session, error) {
	var out Session
	if err := c.do(ctx, http.MethodPost, "v1/sessions", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetSession(ctx context.Context, id string) (*Session, error) {
	var out Session
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("v1/sessions/%s", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Send submits one user message to the session and returns the assistant turn.
func (c *Client) Send(ctx context.Context, id string, text string) (*Turn, error) {
	in := map[string]string{"content": text}
	var out Turn
	path := fmt.Sprintf("v1/sessions/%s/messages", id)
	if err := c.do(ctx, http.MethodPost, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetSession clears the session history.
func (c *Client) ResetSession(ctx context.Context, id string) (*Session, error) {
	var out Session
	path := fmt.Sprintf("v1/sessions/%s/reset", id)
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	urlString := fmt.Sprintf("%s/%s", c.Endpoint, path)

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlString, body)
	if err != nil {
		return fmt.Errorf("client failed create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.key))

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: status %d, body: %s", resp.StatusCode, string(b))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return err
		}
	}
	return nil
}
