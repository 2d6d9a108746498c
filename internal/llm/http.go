// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/petar-djukic/go-grok/pkg/types"
)

const (
	// DefaultEndpoint is the chat-completions URL used when none is configured.
	DefaultEndpoint = "https://api.x.ai/v1/chat/completions"

	// DefaultTimeout bounds a single completion request. There is no retry.
	DefaultTimeout = 180 * time.Second

	maxErrorBody = 2048
)

// Backend sends a completion request to a model provider.
type Backend interface {
	Send(ctx context.Context, req *types.CompletionRequest) (*types.CompletionReply, error)
}

// HTTPConfig configures the chat-completions HTTP backend.
type HTTPConfig struct {
	Endpoint string        // Full chat-completions URL (default DefaultEndpoint)
	APIKey   string        // Bearer credential (required)
	Timeout  time.Duration // Request timeout (default 180s)
}

// HTTPBackend talks to an OpenAI-compatible chat-completions endpoint.
type HTTPBackend struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ Backend = (*HTTPBackend)(nil)

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse keeps choices and usage raw so a malformed field degrades to
// zero values instead of failing the whole decode.
type chatResponse struct {
	Choices json.RawMessage `json:"choices"`
	Usage   json.RawMessage `json:"usage"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// NewHTTPBackend creates a chat-completions backend.
func NewHTTPBackend(cfg HTTPConfig) (*HTTPBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrLLMFailure)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &HTTPBackend{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

// Send posts the request and decodes the first choice and reported usage.
func (b *HTTPBackend) Send(ctx context.Context, req *types.CompletionRequest) (*types.CompletionReply, error) {
	payload := chatRequest{
		Model:       req.Model,
		Messages:    make([]chatMessage, len(req.Messages)),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	for i, m := range req.Messages {
		payload.Messages[i] = chatMessage{Role: string(m.Role), Content: m.Content}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("api error (status %d): %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &types.CompletionReply{
		Text:         firstChoiceText(decoded.Choices),
		OutputTokens: completionTokens(decoded.Usage),
	}, nil
}

// firstChoiceText returns choices[0].message.content, or "" when the field
// is absent or has an unexpected shape.
func firstChoiceText(raw json.RawMessage) string {
	var choices []chatChoice
	if len(raw) == 0 || json.Unmarshal(raw, &choices) != nil || len(choices) == 0 {
		return ""
	}
	return choices[0].Message.Content
}

// completionTokens returns usage.completion_tokens, or 0 when the field is
// absent or has an unexpected shape.
func completionTokens(raw json.RawMessage) int {
	var usage chatUsage
	if len(raw) == 0 || json.Unmarshal(raw, &usage) != nil {
		return 0
	}
	return usage.CompletionTokens
}
