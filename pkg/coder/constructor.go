// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package coder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"

	"github.com/petar-djukic/go-grok/internal/cli"
	internalcoder "github.com/petar-djukic/go-grok/internal/coder"
	"github.com/petar-djukic/go-grok/internal/editor"
	"github.com/petar-djukic/go-grok/internal/feedback"
	gitpkg "github.com/petar-djukic/go-grok/internal/git"
	"github.com/petar-djukic/go-grok/internal/llm"
	"github.com/petar-djukic/go-grok/internal/usage"
	"github.com/petar-djukic/go-grok/pkg/types"
)

const defaultLogDir = "logs"

// Assistant runs go-grok commands against one project directory.
type Assistant struct {
	runner  *internalcoder.Runner
	client  *llm.Client
	usage   *usage.Log
	workDir string
	logger  *slog.Logger
}

// New validates the config, bootstraps the repository on first run and
// wires the completion client, backup writer, checkpointer and printer.
func New(ctx context.Context, cfg Config) (*Assistant, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	applyDefaults(&cfg)

	workDir, err := filepath.Abs(cfg.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	lang, err := internalcoder.LookupLanguage(cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	logger := cfg.Logger

	backend, err := newBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	system, err := llm.RenderSystemPrompt(llm.TemplateData{Language: lang.Name, FenceTag: lang.FenceTags[0]})
	if err != nil {
		return nil, err
	}

	usageLog := usage.NewLog(absPath(workDir, cfg.LogDir))
	client, err := llm.NewClient(backend, llm.ClientConfig{Model: cfg.Model, SystemPrompt: system}, usageLog, logger)
	if err != nil {
		return nil, err
	}

	var checkpointer gitpkg.Checkpointer
	if !cfg.NoGit {
		if done, err := gitpkg.Bootstrap(ctx, workDir, gitpkg.BootstrapData{
			Language: lang.Name,
			Owner:    cfg.Owner,
			Now:      time.Now(),
		}); err != nil {
			logger.Warn("repository bootstrap failed", "dir", workDir, "error", err)
		} else if done {
			logger.Info("initialized repository with README.md and LICENSE", "dir", workDir)
		}
		checkpointer = newCheckpointer(cfg.VCS, workDir, logger)
	}

	var checker internalcoder.SyntaxChecker
	if c := feedback.NewChecker(cfg.LintCmd, workDir); c != nil {
		checker = c
	}

	fs := afero.NewOsFs()
	runner := internalcoder.NewRunner(internalcoder.Deps{
		Client:       client,
		Writer:       editor.NewWriter(fs, logger),
		Fs:           fs,
		Checkpointer: checkpointer,
		Checker:      checker,
		Reporter:     cli.NewPrinter(cfg.Stdout, cfg.Stderr),
		WorkDir:      workDir,
		Language:     lang,
		Logger:       logger,
	})

	return &Assistant{
		runner:  runner,
		client:  client,
		usage:   usageLog,
		workDir: workDir,
		logger:  logger,
	}, nil
}

// Run executes the named command.
func (a *Assistant) Run(ctx context.Context, command string, opts Options) error {
	a.logger.Debug("running command", "command", command, "path", opts.Path, "apply", opts.Apply)
	defer func() {
		u := a.Usage()
		a.logger.Debug("completion totals", "command", command,
			"tokens_in", u.InputTokens, "tokens_out", u.OutputTokens, "cost_usd", a.Cost())
	}()
	return a.runner.Run(ctx, command, internalcoder.Options{
		Path:        opts.Path,
		Instruction: opts.Instruction,
		Apply:       opts.Apply,
		Backup:      opts.Backup,
		Security:    opts.Security,
		Output:      opts.Output,
		Format:      opts.Format,
	})
}

// Summary returns the totals of the last Run.
func (a *Assistant) Summary() types.RunSummary {
	return a.runner.Summary()
}

// Usage returns the token usage of every call made by this Assistant.
func (a *Assistant) Usage() types.TokenUsage {
	return a.client.CumulativeUsage()
}

// Cost returns the cost in USD of every call made by this Assistant.
func (a *Assistant) Cost() float64 {
	return a.client.CumulativeCost()
}

// LogDir returns the directory of the usage log.
func (a *Assistant) LogDir() string {
	return a.usage.Dir()
}

// Commands lists the registered command names in order.
func Commands() []string {
	names := make([]string, 0, len(internalcoder.Registry))
	for name := range internalcoder.Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newBackend(ctx context.Context, cfg Config) (llm.Backend, error) {
	switch cfg.Provider {
	case ProviderBedrock:
		return llm.NewBedrockBackend(ctx, llm.BedrockConfig{
			Region:  cfg.Region,
			Profile: cfg.Profile,
			Timeout: llm.DefaultTimeout,
		})
	default:
		return llm.NewHTTPBackend(llm.HTTPConfig{
			Endpoint: cfg.Endpoint,
			APIKey:   cfg.APIKey,
			Timeout:  llm.DefaultTimeout,
		})
	}
}

// newCheckpointer picks the checkpoint backend. The go-git backend needs an
// existing repository; without one checkpoints are disabled.
func newCheckpointer(vcs, workDir string, logger *slog.Logger) gitpkg.Checkpointer {
	if vcs != VCSGoGit {
		return &gitpkg.ExecCheckpointer{WorkDir: workDir}
	}
	repo, err := gitpkg.Open(workDir)
	if err != nil {
		logger.Warn("checkpoints disabled", "error", err)
		return nil
	}
	if dirty, err := repo.IsDirty(); err == nil && dirty {
		logger.Info("working tree has uncommitted changes; checkpoints will include them", "dir", workDir)
	}
	return repo
}

// validateConfig checks that required fields are present.
func validateConfig(cfg Config) error {
	if cfg.APIKey == "" {
		return fmt.Errorf("GROK_API_KEY is required")
	}
	if cfg.Model == "" {
		return fmt.Errorf("GROK_MODEL is required")
	}
	switch cfg.Provider {
	case "", ProviderHTTP:
	case ProviderBedrock:
		if cfg.Region == "" {
			return fmt.Errorf("region is required for the bedrock provider")
		}
	default:
		return fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	switch cfg.VCS {
	case "", VCSExec, VCSGoGit:
	default:
		return fmt.Errorf("unknown vcs %q", cfg.VCS)
	}
	if cfg.WorkDir != "" {
		if info, err := os.Stat(cfg.WorkDir); err != nil || !info.IsDir() {
			return fmt.Errorf("WorkDir %q does not exist or is not a directory", cfg.WorkDir)
		}
	}
	return nil
}

// applyDefaults fills in zero-value fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Provider == "" {
		cfg.Provider = ProviderHTTP
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = llm.DefaultEndpoint
	}
	if cfg.Language == "" {
		cfg.Language = internalcoder.DefaultLanguage
	}
	if cfg.LogDir == "" {
		cfg.LogDir = defaultLogDir
	}
	if cfg.VCS == "" {
		cfg.VCS = VCSExec
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
}

func absPath(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}
