// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandExecutor runs a prepared command and returns its stdout.
type CommandExecutor interface {
	ExecuteWithOutput(cmd *exec.Cmd) (string, error)
}

// ExecExecutor is the default CommandExecutor, delegating to os/exec.
type ExecExecutor struct{}

// ExecuteWithOutput runs cmd. A non-zero exit returns a *CommandError
// carrying stderr.
func (ExecExecutor) ExecuteWithOutput(cmd *exec.Cmd) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), &CommandError{
			Args:   cmd.Args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return stdout.String(), nil
}

// CommandError describes a failed subprocess.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// CheckpointError reports which step of a subprocess checkpoint failed.
type CheckpointError struct {
	Step string // "add" or "commit"
	Err  error
}

func (e *CheckpointError) Error() string {
	return fmt.Sprintf("git %s failed: %v", e.Step, e.Err)
}

func (e *CheckpointError) Unwrap() []error {
	return []error{ErrCheckpointFailed, e.Err}
}

// ExecCheckpointer commits by invoking the git binary in WorkDir. Each step
// blocks until the subprocess exits; the exit code decides success.
type ExecCheckpointer struct {
	WorkDir  string
	Binary   string          // Defaults to "git"
	Executor CommandExecutor // Defaults to ExecExecutor
}

var _ Checkpointer = (*ExecCheckpointer)(nil)

// Commit runs "git add ." then "git commit --allow-empty -m message".
func (c *ExecCheckpointer) Commit(ctx context.Context, message string) error {
	if _, err := c.run(ctx, "add", "."); err != nil {
		return &CheckpointError{Step: "add", Err: err}
	}
	if _, err := c.run(ctx, "commit", "--allow-empty", "-m", message); err != nil {
		return &CheckpointError{Step: "commit", Err: err}
	}
	return nil
}

func (c *ExecCheckpointer) run(ctx context.Context, args ...string) (string, error) {
	bin := c.Binary
	if bin == "" {
		bin = "git"
	}
	var executor CommandExecutor = ExecExecutor{}
	if c.Executor != nil {
		executor = c.Executor
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = c.WorkDir
	return executor.ExecuteWithOutput(cmd)
}
