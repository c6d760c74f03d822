// Package completion posts single-turn chat completion requests to a hosted
// inference API and extracts the reply text.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultURL       = "https://router.huggingface.co/together/v1/chat/completions"
	DefaultModel     = "mistralai/Mistral-7B-Instruct-v0.3"
	DefaultMaxTokens = 512
	DefaultTimeout   = 30 * time.Second
)

// Config controls client construction. Zero fields use the defaults.
type Config struct {
	URL        string
	Model      string
	MaxTokens  int
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client issues one POST per Complete call. It never retries.
type Client struct {
	url       string
	model     string
	maxTokens int
	client    *http.Client
}

func New(cfg Config) *Client {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		url = DefaultURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		url:       url,
		model:     model,
		maxTokens: maxTokens,
		client:    httpClient,
	}
}

func (c *Client) Model() string { return c.model }

func (c *Client) CloseIdleConnections() { c.client.CloseIdleConnections() }

// NewRequest builds the payload for userText. Prior turns are never included.
func (c *Client) NewRequest(userText string) Request {
	return Request{
		Messages:  []Message{{Role: "user", Content: userText}},
		MaxTokens: c.maxTokens,
		Model:     c.model,
	}
}

// Complete sends userText to the inference API authorized by credential and
// returns the first choice's content.
func (c *Client) Complete(ctx context.Context, userText, credential string) (string, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return "", ErrMissingCredential
	}

	payload, err := json.Marshal(c.NewRequest(userText))
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+credential)

	res, err := c.client.Do(httpReq)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return "", &HTTPStatusError{StatusCode: res.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	var parsed Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	reply, ok := parsed.Reply()
	if !ok {
		return "", ErrMalformedResponse
	}
	return reply, nil
}
