// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package coder

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/petar-djukic/go-grok/pkg/types"
)

//go:embed templates/prompts.tmpl
var promptFS embed.FS

var prompts = template.Must(template.ParseFS(promptFS, "templates/prompts.tmpl"))

// Prompt template names.
const (
	promptAnalyzeSecurity  = "analyze-security"
	promptAnalyzeStructure = "analyze-structure"
	promptAnalyzeApply     = "analyze-apply"
	promptRefactor         = "refactor"
	promptGenerate         = "generate"
	promptTest             = "test"
	promptDocInline        = "doc-inline"
	promptDocMarkdown      = "doc-markdown"
)

// PromptData holds the values a command prompt is rendered with.
type PromptData struct {
	Language    string
	FenceTag    string
	Framework   string
	DocStyle    string
	RelPath     string
	Code        string
	Instruction string
	Security    bool
}

// newPromptData fills the language fields and the file snapshot.
func newPromptData(lang types.Language, task types.FileTask) PromptData {
	return PromptData{
		Language:  lang.Name,
		FenceTag:  fenceTag(lang),
		Framework: lang.TestFramework,
		DocStyle:  lang.DocStyle,
		RelPath:   task.RelPath,
		Code:      strings.TrimRight(task.Content, "\n"),
	}
}

// RenderPrompt executes the named prompt template.
func RenderPrompt(name string, data PromptData) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", name, err)
	}
	return buf.String(), nil
}

// AnalyzePrompt selects the security or structural analysis template.
func AnalyzePrompt(lang types.Language, task types.FileTask, security bool) (string, error) {
	name := promptAnalyzeStructure
	if security {
		name = promptAnalyzeSecurity
	}
	return RenderPrompt(name, newPromptData(lang, task))
}

// RefactorPrompt builds the refactor prompt with an optional instruction.
func RefactorPrompt(lang types.Language, task types.FileTask, instruction string, security bool) (string, error) {
	data := newPromptData(lang, task)
	data.Instruction = strings.TrimSpace(instruction)
	data.Security = security
	return RenderPrompt(promptRefactor, data)
}
