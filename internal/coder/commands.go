// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package coder

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/petar-djukic/go-grok/internal/editformat"
	gitpkg "github.com/petar-djukic/go-grok/internal/git"
	"github.com/petar-djukic/go-grok/pkg/types"
)

// Doc output formats.
const (
	FormatInline   = "phpdoc"
	FormatMarkdown = "markdown"
)

// DefaultTestDir is where generated tests are written when no output
// directory is given.
const DefaultTestDir = "tests"

var (
	// ErrMissingInstruction is returned by generate without an instruction.
	ErrMissingInstruction = errors.New("missing instruction")
	// ErrUnknownFormat is returned by doc for an unsupported format.
	ErrUnknownFormat = errors.New("unknown doc format")
)

// Options are the command-line inputs shared by all commands. Each command
// reads the fields it needs.
type Options struct {
	Path        string // File or directory to process
	Instruction string // Free-text instruction (refactor, generate)
	Apply       bool   // Write results back to disk
	Backup      bool   // Accepted for compatibility; applies always back up
	Security    bool   // Use the security prompt
	Output      string // Output file (generate) or directory (test, doc)
	Format      string // Doc format: phpdoc or markdown
}

// Command runs one assistant command.
type Command func(ctx context.Context, r *Runner, opts Options) error

// Registry maps command names to their handlers.
var Registry = map[string]Command{
	"analyze":  Analyze,
	"refactor": Refactor,
	"generate": Generate,
	"test":     Test,
	"doc":      Doc,
}

// Analyze reports on each file with the safe completion path. With Apply, a
// strict follow-up call turns the analysis into corrected code.
func Analyze(ctx context.Context, r *Runner, opts Options) error {
	return r.eachFile(ctx, opts.Path, func(ctx context.Context, task types.FileTask) error {
		r.deps.Reporter.Task("Analyze", task.RelPath)

		prompt, err := AnalyzePrompt(r.deps.Language, task, opts.Security)
		if err != nil {
			return err
		}
		turns := []string{"File: " + task.Path}

		result, _ := r.complete(ctx, false, prompt, turns)
		r.report("Report", result)

		if !opts.Apply {
			return nil
		}
		if result.Degraded {
			r.fail(task, fmt.Errorf("analysis unavailable, nothing applied: %w", result.Err))
			return nil
		}

		followUp, err := RenderPrompt(promptAnalyzeApply, newPromptData(r.deps.Language, task))
		if err != nil {
			return err
		}
		fix, err := r.complete(ctx, true, followUp, append(turns, result.Response))
		if err != nil {
			return err
		}
		r.deps.Reporter.Cost(fix.Cost)

		msg := gitpkg.CheckpointMessage(gitpkg.TypeFix, "security and structure in "+filepath.Base(task.Path))
		r.applyReply(ctx, task, fix.Response, msg)
		return nil
	})
}

// Refactor asks for rewritten code for each file. Without Apply the
// suggested code is printed.
func Refactor(ctx context.Context, r *Runner, opts Options) error {
	return r.eachFile(ctx, opts.Path, func(ctx context.Context, task types.FileTask) error {
		r.deps.Reporter.Task("Refactor", task.RelPath)

		prompt, err := RefactorPrompt(r.deps.Language, task, opts.Instruction, opts.Security)
		if err != nil {
			return err
		}
		result, err := r.complete(ctx, true, prompt, nil)
		if err != nil {
			return err
		}

		if opts.Apply {
			summary := strings.TrimSpace(opts.Instruction)
			if summary == "" {
				summary = "improvements"
			}
			msg := gitpkg.CheckpointMessage(gitpkg.TypeRefactor, task.RelPath+" - "+summary)
			r.applyReply(ctx, task, result.Response, msg)
		} else {
			r.deps.Reporter.Section("Suggested code", editformat.Extract(result.Response, r.deps.Language.FenceTags...))
		}
		r.deps.Reporter.Cost(result.Cost)
		return nil
	})
}

// Generate creates new code from an instruction. The code is printed, or
// written to Output and checkpointed.
func Generate(ctx context.Context, r *Runner, opts Options) error {
	instruction := strings.TrimSpace(opts.Instruction)
	if instruction == "" {
		return ErrMissingInstruction
	}

	label := opts.Output
	if label == "" {
		label = "(stdout)"
	}
	r.deps.Reporter.Task("Generate", label)
	r.summary.Files++

	prompt, err := RenderPrompt(promptGenerate, PromptData{
		Language:    r.deps.Language.Name,
		FenceTag:    fenceTag(r.deps.Language),
		Instruction: instruction,
	})
	if err != nil {
		return err
	}
	result, err := r.complete(ctx, true, prompt, nil)
	if err != nil {
		r.summary.Failed++
		return err
	}
	defer r.deps.Reporter.Cost(result.Cost)

	code := editformat.Extract(result.Response, r.deps.Language.FenceTags...)
	if opts.Output == "" {
		r.deps.Reporter.Section("Generated code", code)
		return nil
	}

	target := types.FileTask{Path: absPath(r.deps.WorkDir, opts.Output), RelPath: opts.Output}
	if editformat.IsEmpty(code) {
		r.fail(target, ErrEmptyExtraction)
		return nil
	}
	msg := gitpkg.CheckpointMessage(gitpkg.TypeFeat, "generate "+opts.Output)
	if err := r.writeOutput(ctx, target.Path, code, msg); err != nil {
		r.fail(target, err)
	}
	return nil
}

// Test writes unit tests for each file into the Output directory.
func Test(ctx context.Context, r *Runner, opts Options) error {
	outDir := opts.Output
	if outDir == "" {
		outDir = DefaultTestDir
	}
	outDir = absPath(r.deps.WorkDir, outDir)

	return r.eachFile(ctx, opts.Path, func(ctx context.Context, task types.FileTask) error {
		r.deps.Reporter.Task("Test", task.RelPath)

		prompt, err := RenderPrompt(promptTest, newPromptData(r.deps.Language, task))
		if err != nil {
			return err
		}
		result, err := r.complete(ctx, true, prompt, nil)
		if err != nil {
			return err
		}
		r.deps.Reporter.Cost(result.Cost)

		code := editformat.Extract(result.Response, r.deps.Language.FenceTags...)
		if editformat.IsEmpty(code) {
			r.fail(task, ErrEmptyExtraction)
			return nil
		}

		out := filepath.Join(outDir, testFileName(task.Path, r.deps.Language))
		msg := gitpkg.CheckpointMessage(gitpkg.TypeTest, "add tests for "+task.RelPath)
		if err := r.writeOutput(ctx, out, code, msg); err != nil {
			r.fail(task, err)
		}
		return nil
	})
}

// Doc documents each file, either inline (applied with Apply) or as
// Markdown (printed, or written under Output).
func Doc(ctx context.Context, r *Runner, opts Options) error {
	format, err := docFormat(opts.Format)
	if err != nil {
		return err
	}

	return r.eachFile(ctx, opts.Path, func(ctx context.Context, task types.FileTask) error {
		r.deps.Reporter.Task("Doc", task.RelPath)

		name := promptDocInline
		if format == FormatMarkdown {
			name = promptDocMarkdown
		}
		prompt, err := RenderPrompt(name, newPromptData(r.deps.Language, task))
		if err != nil {
			return err
		}

		result, _ := r.complete(ctx, false, prompt, nil)
		defer r.deps.Reporter.Cost(result.Cost)
		if result.Degraded {
			r.fail(task, result.Err)
			return nil
		}

		msg := gitpkg.CheckpointMessage(gitpkg.TypeDocs, "document "+task.RelPath)
		switch {
		case format == FormatInline && opts.Apply:
			r.applyReply(ctx, task, result.Response, msg)
		case format == FormatInline:
			r.deps.Reporter.Section("Documented code", editformat.Extract(result.Response, r.deps.Language.FenceTags...))
		case opts.Output == "":
			r.deps.Reporter.Section("Documentation", result.Response)
		default:
			out := filepath.Join(absPath(r.deps.WorkDir, opts.Output), markdownFileName(task.Path))
			if err := r.writeOutput(ctx, out, strings.TrimSpace(result.Response)+"\n", msg); err != nil {
				r.fail(task, err)
			}
		}
		return nil
	})
}

// docFormat normalizes the doc format flag.
func docFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatInline, "inline":
		return FormatInline, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q (use %s or %s)", ErrUnknownFormat, format, FormatInline, FormatMarkdown)
	}
}

// testFileName derives the test file name: src/User.php -> UserTest.php.
func testFileName(path string, lang types.Language) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + lang.TestSuffix
}

func markdownFileName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".md"
}
