// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package coder is the public entry point of go-grok, a command-line
// assistant that sends source files to a chat-completion API and applies
// the returned code with a backup and a git checkpoint.
package coder

import (
	"errors"
	"io"
	"log/slog"

	"github.com/petar-djukic/go-grok/internal/llm"
)

// Error types for the Assistant API.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLLMFailure    = llm.ErrLLMFailure
)

// Providers.
const (
	ProviderHTTP    = "http"
	ProviderBedrock = "bedrock"
)

// Checkpoint backends.
const (
	VCSExec  = "exec"
	VCSGoGit = "go-git"
)

// Config configures an Assistant.
type Config struct {
	APIKey   string // Completion API credential (required)
	Model    string // Model identifier (required)
	Endpoint string // Chat-completions URL (default api.x.ai)
	Provider string // "http" (default) or "bedrock"
	Region   string // AWS region, required for bedrock
	Profile  string // AWS shared config profile
	Language string // Target language (default "php")
	LogDir   string // Usage log directory, relative to WorkDir (default "logs")
	VCS      string // Checkpoint backend: "exec" (default) or "go-git"
	NoGit    bool   // Disable bootstrap and checkpoints
	WorkDir  string // Project root (default ".")
	Owner    string // Copyright holder written to a bootstrapped LICENSE
	LintCmd  string // Syntax check run on written files, e.g. "php -l"

	Stdout io.Writer    // Default os.Stdout
	Stderr io.Writer    // Default os.Stderr
	Logger *slog.Logger // Default slog.Default()
}

// Options are the per-invocation inputs of a command.
type Options struct {
	Path        string // File or directory to process
	Instruction string // Instruction for refactor and generate
	Apply       bool   // Write results back to disk
	Backup      bool   // Accepted for compatibility; applies always back up
	Security    bool   // Use the security-focused prompt
	Output      string // Output file (generate) or directory (test, doc)
	Format      string // Doc format: phpdoc or markdown
}
