// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package llm sends prompts to a chat-completion backend, estimates token
// usage and cost, and records every call in the usage log.
package llm

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/petar-djukic/go-grok/pkg/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// TemplateData holds the values injected into the system prompt template.
type TemplateData struct {
	Language string // Language display name, e.g. "PHP 8.3+"
	FenceTag string // Code fence tag the model should use, e.g. "php"
}

// RenderSystemPrompt renders the system prompt template with the given data.
func RenderSystemPrompt(data TemplateData) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/system.tmpl")
	if err != nil {
		return "", fmt.Errorf("parsing system template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing system template: %w", err)
	}

	return buf.String(), nil
}

// ConstructMessages builds the message sequence for one completion call.
//
// The message order is:
//  1. System message
//  2. One user message per context string, in the given order
//  3. User message with the prompt
//
// The order affects model behavior and must not change.
func ConstructMessages(systemPrompt string, turns []string, prompt string) []types.Message {
	messages := make([]types.Message, 0, len(turns)+2)
	messages = append(messages, types.Message{Role: types.RoleSystem, Content: systemPrompt})

	for _, c := range turns {
		messages = append(messages, types.Message{Role: types.RoleUser, Content: c})
	}

	messages = append(messages, types.Message{Role: types.RoleUser, Content: prompt})
	return messages
}
