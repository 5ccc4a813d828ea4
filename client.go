package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	messagesPath     = "/v1/messages"
	anthropicVersion = "2023-06-01"
)

// MessageRequest is the request body for the Messages API.
type MessageRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system,omitempty"`
	Messages  []Message    `json:"messages"`
	Tools     []ToolSchema `json:"tools,omitempty"`
}

// Usage reports token consumption for one API call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// MessageResponse is one assistant reply: an ordered sequence of content
// blocks plus a stop reason.
type MessageResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Model      string         `json:"model"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      Usage          `json:"usage"`
}

// MessageSender is the boundary to the remote LLM service: a synchronous call
// that either returns a well-formed reply or fails.
type MessageSender interface {
	CreateMessage(ctx context.Context, req *MessageRequest) (*MessageResponse, error)
}

// errorResponse models the API error envelope.
type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithHTTPLogging wraps the client's transport so every HTTP request and
// response is logged through the given logger.
func WithHTTPLogging(logger *zap.Logger) ClientOption {
	return func(c *Client) { c.logHTTP = logger }
}

// Client is a Messages API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logHTTP    *zap.Logger
}

// NewClient creates a client from the given configuration.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logHTTP != nil {
		base := c.httpClient.Transport
		hc := *c.httpClient
		hc.Transport = &LoggingTransport{Base: base, Logger: c.logHTTP}
		c.httpClient = &hc
	}
	return c, nil
}

// CreateMessage sends the request and returns the assistant's reply.
func (c *Client) CreateMessage(ctx context.Context, req *MessageRequest) (*MessageResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("X-API-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		var envelope errorResponse
		if json.Unmarshal(b, &envelope) == nil && envelope.Error.Message != "" {
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Type:       envelope.Error.Type,
				Message:    envelope.Error.Message,
			}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(b)}
	}

	var msg MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(msg.Content) == 0 {
		return nil, ErrNoContent
	}
	return &msg, nil
}

var _ MessageSender = (*Client)(nil)

// LoggingTransport wraps an http.RoundTripper and logs every request/response
// cycle: method, URL, status, body sizes, and elapsed time. Requests are
// numbered so a response can be matched to its request in the log.
type LoggingTransport struct {
	Base   http.RoundTripper
	Logger *zap.Logger

	count atomic.Int64
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	id := t.count.Add(1)
	t.Logger.Debug("http request",
		zap.Int64("request_id", id),
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int64("body_bytes", req.ContentLength),
	)
	start := time.Now()
	resp, err := base.RoundTrip(req)
	elapsed := time.Since(start)
	if err != nil {
		t.Logger.Error("http error",
			zap.Int64("request_id", id),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, err
	}
	t.Logger.Debug("http response",
		zap.Int64("request_id", id),
		zap.Int("status", resp.StatusCode),
		zap.Int64("body_bytes", resp.ContentLength),
		zap.Duration("elapsed", elapsed),
	)
	return resp, nil
}
