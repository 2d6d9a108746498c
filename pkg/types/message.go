// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines shared types used across go-grok packages.
package types

// MessageRole identifies the sender of a message in the LLM conversation.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message represents a single message in the LLM conversation.
type Message struct {
	Role    MessageRole // Who sent the message
	Content string      // Message text
}

// TokenUsage tracks token consumption for a single LLM call.
type TokenUsage struct {
	InputTokens  int // Tokens in the prompt
	OutputTokens int // Tokens in the response
}

// Total returns the sum of input and output tokens.
func (u TokenUsage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// CompletionRequest is the payload sent to a completion backend. Messages
// are ordered system, context turns, prompt; backends must keep that order.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// CompletionReply is what a backend returns before cost accounting.
type CompletionReply struct {
	Text         string // First choice content; empty when the reply had none
	OutputTokens int    // Reported completion tokens; 0 when absent
}

// CompletionResult is the outcome of one completion call as seen by the
// commands. InputTokens is an estimate; OutputTokens is what the API reported.
type CompletionResult struct {
	Response     string  `json:"response"`
	InputTokens  int     `json:"tokens_in"`
	OutputTokens int     `json:"tokens_out"`
	Cost         float64 `json:"cost"`

	// Degraded is set when a failed call was absorbed into the result. The
	// error text is then carried in Response and Err.
	Degraded bool  `json:"degraded,omitempty"`
	Err      error `json:"-"`
}

// Usage returns the token counts of the result.
func (r *CompletionResult) Usage() TokenUsage {
	return TokenUsage{InputTokens: r.InputTokens, OutputTokens: r.OutputTokens}
}
