// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/petar-djukic/go-grok/internal/usage"
	"github.com/petar-djukic/go-grok/pkg/types"
)

const (
	// Temperature is fixed for every call.
	Temperature = 0.2
	// MaxTokens caps the model output for every call.
	MaxTokens = 4000
)

// ErrLLMFailure indicates the completion call failed (network, status, decode).
var ErrLLMFailure = errors.New("LLM failure")

// Recorder receives one usage record per completed call.
type Recorder interface {
	Record(model, prompt string, tokensIn, tokensOut int, cost float64) (usage.Entry, error)
}

// ClientConfig configures the completion client.
type ClientConfig struct {
	Model        string // Model identifier (required)
	SystemPrompt string // System instruction sent first on every call
}

// Client builds completion requests, sends them through a Backend and
// accounts for their cost.
type Client struct {
	backend Backend
	model   string
	system  string
	usage   Recorder
	logger  *slog.Logger
	total   types.TokenUsage
	cost    float64
}

// NewClient creates a client. usage may be nil to skip usage logging.
func NewClient(backend Backend, cfg ClientConfig, recorder Recorder, logger *slog.Logger) (*Client, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: backend is required", ErrLLMFailure)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model ID is required", ErrLLMFailure)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		backend: backend,
		model:   cfg.Model,
		system:  cfg.SystemPrompt,
		usage:   recorder,
		logger:  logger,
	}, nil
}

// Request returns the request Complete would send for prompt and context turns.
func (c *Client) Request(prompt string, turns []string) *types.CompletionRequest {
	return &types.CompletionRequest{
		Model:       c.model,
		Messages:    ConstructMessages(c.system, turns, prompt),
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	}
}

// Complete sends one request and returns the result. Any transport, status
// or decode failure is returned as an error wrapping ErrLLMFailure.
func (c *Client) Complete(ctx context.Context, prompt string, turns []string) (*types.CompletionResult, error) {
	inputTokens := EstimateInputTokens(prompt, turns)

	reply, err := c.backend.Send(ctx, c.Request(prompt, turns))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLMFailure, err)
	}

	result := &types.CompletionResult{
		Response:     reply.Text,
		InputTokens:  inputTokens,
		OutputTokens: reply.OutputTokens,
		Cost:         Cost(inputTokens, reply.OutputTokens),
	}

	c.total.InputTokens += result.InputTokens
	c.total.OutputTokens += result.OutputTokens
	c.cost += result.Cost

	c.record(prompt, result)
	return result, nil
}

// CompleteSafe behaves like Complete but never fails: an error is absorbed
// into a degraded result whose Response carries the error text and whose
// token counts and cost are zero.
func (c *Client) CompleteSafe(ctx context.Context, prompt string, turns []string) *types.CompletionResult {
	result, err := c.Complete(ctx, prompt, turns)
	if err != nil {
		c.logger.Warn("completion failed", "model", c.model, "error", err)
		return &types.CompletionResult{
			Response: fmt.Sprintf("Error calling the completion API: %v", err),
			Degraded: true,
			Err:      err,
		}
	}
	return result
}

// CumulativeUsage returns the total token usage across all calls.
func (c *Client) CumulativeUsage() types.TokenUsage {
	return c.total
}

// CumulativeCost returns the total cost across all calls.
func (c *Client) CumulativeCost() float64 {
	return c.cost
}

// record appends the usage entry. A failing log must not affect the call.
func (c *Client) record(prompt string, result *types.CompletionResult) {
	if c.usage == nil {
		return
	}
	if _, err := c.usage.Record(c.model, prompt, result.InputTokens, result.OutputTokens, result.Cost); err != nil {
		c.logger.Warn("usage log write failed", "error", err)
	}
}
