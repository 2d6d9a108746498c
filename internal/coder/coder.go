// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package coder runs the assistant commands. Each command resolves a file
// set and processes it one file at a time: load, prompt, complete, report
// and, when applying, extract, back up, write and checkpoint. A failure on
// one file is reported and the batch moves on.
package coder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/petar-djukic/go-grok/internal/editformat"
	"github.com/petar-djukic/go-grok/internal/editor"
	"github.com/petar-djukic/go-grok/internal/feedback"
	gitpkg "github.com/petar-djukic/go-grok/internal/git"
	"github.com/petar-djukic/go-grok/pkg/types"
)

var (
	// ErrMissingPath is returned when a command has no target path or the
	// path does not exist.
	ErrMissingPath = errors.New("missing input path")
	// ErrNoFiles is returned when a path resolves to no source files.
	ErrNoFiles = errors.New("no source files found")
	// ErrUnknownCommand is returned for a name not in the registry.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrEmptyExtraction is reported when a reply yields no code to write.
	ErrEmptyExtraction = errors.New("reply contained no code")
)

const maxDiagnostics = 5

// Completer sends prompts to the completion API. Complete propagates
// failures; CompleteSafe folds them into a degraded result.
type Completer interface {
	Complete(ctx context.Context, prompt string, turns []string) (*types.CompletionResult, error)
	CompleteSafe(ctx context.Context, prompt string, turns []string) *types.CompletionResult
}

// SyntaxChecker checks a file after it has been written.
type SyntaxChecker interface {
	Check(ctx context.Context, path string) (*feedback.Result, error)
}

// Reporter renders command progress for the user.
type Reporter interface {
	Task(label, relPath string)
	Section(title, body string)
	Cost(cost float64)
	Success(msg string)
	Warn(msg string)
	Error(msg string)
	Summary(s types.RunSummary)
}

// Deps holds injected dependencies for the runner.
type Deps struct {
	Client       Completer
	Writer       *editor.Writer      // Defaults to a Writer on Fs
	Fs           afero.Fs            // Defaults to the OS filesystem
	Checkpointer gitpkg.Checkpointer // nil disables checkpoints
	Checker      SyntaxChecker       // nil disables syntax checks
	Reporter     Reporter
	WorkDir      string
	Language     types.Language
	Logger       *slog.Logger
}

// Runner executes registry commands against the work directory.
type Runner struct {
	deps    Deps
	summary types.RunSummary
}

// NewRunner creates a Runner with the given dependencies.
func NewRunner(deps Deps) *Runner {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Writer == nil {
		deps.Writer = editor.NewWriter(deps.Fs, deps.Logger)
	}
	return &Runner{deps: deps}
}

// Run looks up the named command and runs it. A summary is reported when
// at least one file was processed.
func (r *Runner) Run(ctx context.Context, name string, opts Options) error {
	cmd, ok := Registry[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}

	r.summary = types.RunSummary{Command: name}
	err := cmd(ctx, r, opts)
	if r.summary.Files > 0 {
		r.deps.Reporter.Summary(r.summary)
	}
	return err
}

// Summary returns the totals of the last Run.
func (r *Runner) Summary() types.RunSummary {
	return r.summary
}

// fileFunc processes one loaded, non-empty file. Per-file failures are
// reported through r.fail and return nil; a returned error aborts the batch.
type fileFunc func(ctx context.Context, task types.FileTask) error

// eachFile resolves path and runs fn on every file in order.
func (r *Runner) eachFile(ctx context.Context, path string, fn fileFunc) error {
	if path == "" {
		return ErrMissingPath
	}
	files, err := ResolveFiles(r.deps.Fs, absPath(r.deps.WorkDir, path), r.deps.Language)
	if err != nil {
		return err
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.summary.Files++

		task, err := r.load(f)
		if err != nil {
			r.fail(task, err)
			continue
		}
		if task.IsEmpty() {
			r.summary.Skipped++
			r.deps.Reporter.Warn(fmt.Sprintf("%s: file is empty, skipping", task.RelPath))
			continue
		}

		if err := fn(ctx, task); err != nil {
			r.summary.Failed++
			return fmt.Errorf("%s: %w", task.RelPath, err)
		}
	}
	return nil
}

// load snapshots a file for processing.
func (r *Runner) load(path string) (types.FileTask, error) {
	task := types.FileTask{Path: path, RelPath: relPath(r.deps.WorkDir, path)}
	content, err := r.deps.Writer.ReadFile(path)
	if err != nil {
		return task, fmt.Errorf("reading file: %w", err)
	}
	task.Content = content
	return task, nil
}

// complete calls the client in strict or safe mode and accounts the cost.
func (r *Runner) complete(ctx context.Context, strict bool, prompt string, turns []string) (*types.CompletionResult, error) {
	var result *types.CompletionResult
	if strict {
		res, err := r.deps.Client.Complete(ctx, prompt, turns)
		if err != nil {
			return nil, err
		}
		result = res
	} else {
		result = r.deps.Client.CompleteSafe(ctx, prompt, turns)
	}

	r.summary.Cost += result.Cost
	r.summary.Usage.InputTokens += result.InputTokens
	r.summary.Usage.OutputTokens += result.OutputTokens
	return result, nil
}

// applyReply extracts code from reply and writes it over the task file,
// then checkpoints. Failures are reported against the task.
func (r *Runner) applyReply(ctx context.Context, task types.FileTask, reply, message string) {
	code := editformat.Extract(reply, r.deps.Language.FenceTags...)
	if editformat.IsEmpty(code) {
		r.fail(task, ErrEmptyExtraction)
		return
	}

	backup, err := r.deps.Writer.ApplyChange(task.Path, code)
	if err != nil {
		r.fail(task, err)
		return
	}

	r.summary.Applied++
	stat := editor.DiffSummary(task.Content, code)
	r.deps.Reporter.Success(fmt.Sprintf("Applied %s (%s), backup: %s", task.RelPath, stat, relPath(r.deps.WorkDir, backup)))
	r.check(ctx, task.Path)
	r.checkpoint(ctx, message)
}

// writeOutput creates or replaces an output file, then checkpoints.
func (r *Runner) writeOutput(ctx context.Context, path, content, message string) error {
	backup, err := r.deps.Writer.Create(path, content)
	if err != nil {
		return err
	}

	r.summary.Applied++
	rel := relPath(r.deps.WorkDir, path)
	if backup != "" {
		r.deps.Reporter.Success(fmt.Sprintf("Wrote %s, backup: %s", rel, relPath(r.deps.WorkDir, backup)))
	} else {
		r.deps.Reporter.Success(fmt.Sprintf("Wrote %s", rel))
	}
	r.check(ctx, path)
	r.checkpoint(ctx, message)
	return nil
}

// check runs the syntax checker on a written file. Problems are warnings;
// the file stays written and the backup is the way back.
func (r *Runner) check(ctx context.Context, path string) {
	if r.deps.Checker == nil {
		return
	}
	rel := relPath(r.deps.WorkDir, path)
	res, err := r.deps.Checker.Check(ctx, path)
	if err != nil {
		r.deps.Reporter.Warn(fmt.Sprintf("%s: syntax check could not run: %v", rel, err))
		return
	}
	if !res.OK {
		r.summary.CheckFailed++
		r.deps.Reporter.Warn(fmt.Sprintf("%s: syntax check failed:\n%s", rel, res.Summary(maxDiagnostics)))
	}
}

// checkpoint commits the working tree. Failure is a warning only.
func (r *Runner) checkpoint(ctx context.Context, message string) {
	if r.deps.Checkpointer == nil {
		return
	}
	if err := r.deps.Checkpointer.Commit(ctx, message); err != nil {
		r.deps.Logger.Debug("checkpoint failed", "error", err)
		r.deps.Reporter.Warn(fmt.Sprintf("checkpoint failed: %v", err))
	}
}

// fail reports a per-file failure tagged with the relative path.
func (r *Runner) fail(task types.FileTask, err error) {
	r.summary.Failed++
	r.deps.Logger.Debug("file failed", "path", task.RelPath, "error", err)
	r.deps.Reporter.Error(fmt.Sprintf("%s: %v", task.RelPath, err))
}

// report prints a completion response and its cost.
func (r *Runner) report(title string, result *types.CompletionResult) {
	r.deps.Reporter.Section(title, result.Response)
	r.deps.Reporter.Cost(result.Cost)
}
