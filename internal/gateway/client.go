// Package gateway performs the network exchange with the external
// chat-completion inference service.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL points at the DigitalOcean Gradient inference endpoint.
	DefaultBaseURL = "https://inference.do-ai.run"

	// DefaultChatTimeout bounds a full chat completion exchange.
	DefaultChatTimeout = 120 * time.Second

	// DefaultProbeTimeout bounds the lightweight connectivity probe.
	DefaultProbeTimeout = 10 * time.Second

	// maxDiagnosticBytes caps the upstream body carried in an Error.
	maxDiagnosticBytes = 512
)

// Error is a gateway failure: a non-success upstream status, a malformed
// success payload, or a transport failure (Status 0).
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("gateway: %s", e.Message)
	}
	return fmt.Sprintf("gateway: status %d: %s", e.Status, e.Message)
}

// ChatRequest carries one non-streaming completion exchange: exactly two
// messages (system, then user) plus the sampling parameters.
type ChatRequest struct {
	Model        string
	SystemPrompt string
	UserMessage  string
	Temperature  float64
	MaxTokens    int
}

// ChatResult is the extracted completion.
type ChatResult struct {
	Text        string
	TotalTokens int
}

// ProbeResult reports gateway reachability. Failures are captured in the
// struct, never returned as an error.
type ProbeResult struct {
	Reachable  bool   `json:"reachable"`
	StatusCode int    `json:"status_code,omitempty"`
	Model      string `json:"model"`
	BaseURL    string `json:"base_url"`
	Detail     string `json:"detail,omitempty"`
}

// Config holds the gateway connection parameters. The API key comes from
// secure configuration only; there is no compiled-in default.
type Config struct {
	BaseURL      string
	APIKey       string
	Model        string
	ChatTimeout  time.Duration
	ProbeTimeout time.Duration
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	chatClient  *http.Client
	probeClient *http.Client
}

// New creates a gateway client, filling unset config fields with defaults.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ChatTimeout <= 0 {
		cfg.ChatTimeout = DefaultChatTimeout
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		chatClient:  &http.Client{Timeout: cfg.ChatTimeout},
		probeClient: &http.Client{Timeout: cfg.ProbeTimeout},
	}
}

// Chat issues a single non-streaming completion request and extracts the
// first choice's text and the total token usage. Both fields are required in
// the upstream payload; their absence is itself a gateway error.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	body := chatRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserMessage},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      false,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	slog.Info("gateway request starting", "model", req.Model,
		"prompt_chars", len(req.SystemPrompt)+len(req.UserMessage))

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.chatClient.Do(httpReq)
	if err != nil {
		slog.Error("gateway request failed", "model", req.Model, "elapsed", time.Since(start), "error", err)
		return nil, &Error{Message: truncate(err.Error())}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Status: resp.StatusCode, Message: truncate("read response: " + err.Error())}
	}

	if resp.StatusCode != http.StatusOK {
		errMsg := extractAPIError(respBody)
		if errMsg == "" {
			errMsg = string(respBody)
		}
		slog.Error("gateway API error", "status", resp.StatusCode, "model", req.Model, "error", truncate(errMsg))
		return nil, &Error{Status: resp.StatusCode, Message: truncate(errMsg)}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, &Error{Status: resp.StatusCode, Message: truncate("parse response: " + err.Error())}
	}

	if len(chatResp.Choices) == 0 {
		return nil, &Error{Status: resp.StatusCode, Message: "response contains no choices"}
	}
	if chatResp.Choices[0].Message.Content == nil {
		return nil, &Error{Status: resp.StatusCode, Message: "response is missing choices[0].message.content"}
	}
	if chatResp.Usage == nil || chatResp.Usage.TotalTokens == nil {
		return nil, &Error{Status: resp.StatusCode, Message: "response is missing usage.total_tokens"}
	}

	result := &ChatResult{
		Text:        *chatResp.Choices[0].Message.Content,
		TotalTokens: *chatResp.Usage.TotalTokens,
	}

	slog.Info("gateway request completed", "model", req.Model, "elapsed", time.Since(start),
		"tokens", result.TotalTokens, "response_chars", len(result.Text))

	return result, nil
}

// Probe sends a minimal completion request to check reachability. It is used
// only by health reporting and never on the chat path.
func (c *Client) Probe(ctx context.Context) ProbeResult {
	result := ProbeResult{Model: c.model, BaseURL: c.baseURL}

	body := chatRequest{
		Model:     c.model,
		Messages:  []chatMessage{{Role: "user", Content: "Test"}},
		MaxTokens: 50,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		result.Detail = err.Error()
		return result
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		result.Detail = err.Error()
		return result
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.probeClient.Do(httpReq)
	if err != nil {
		result.Detail = truncate(err.Error())
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	result.Reachable = resp.StatusCode == http.StatusOK
	if !result.Reachable {
		respBody, _ := io.ReadAll(resp.Body)
		if msg := extractAPIError(respBody); msg != "" {
			result.Detail = truncate(msg)
		}
	}
	return result
}

// Model returns the configured default model id.
func (c *Client) Model() string { return c.model }

// extractAPIError parses the JSON error shapes OpenAI-compatible services
// return: either {"error":"message"} or {"error":{"message":"...","type":"..."}}.
func extractAPIError(body []byte) string {
	var flat struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &flat) == nil && flat.Error != "" {
		return flat.Error
	}

	var nested struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &nested) == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}

	return ""
}

func truncate(s string) string {
	if len(s) <= maxDiagnosticBytes {
		return s
	}
	return s[:maxDiagnosticBytes] + "..."
}
