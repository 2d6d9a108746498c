// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package feedback runs an external syntax checker on files written by
// go-grok and parses its diagnostics for the user.
package feedback

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	defaultCheckTimeout = 60 * time.Second

	// FilePlaceholder in a command line is replaced by the checked file.
	// Without it the file is appended as the last argument.
	FilePlaceholder = "{file}"
)

// Diagnostic is one problem reported by the checker.
type Diagnostic struct {
	FilePath string // Source file path
	Line     int    // Line number (1-based)
	Column   int    // Column number (1-based, 0 if not available)
	Message  string // Error message text
}

func (d Diagnostic) String() string {
	if d.Column > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", d.FilePath, d.Line, d.Column, d.Message)
	}
	return fmt.Sprintf("%s:%d: %s", d.FilePath, d.Line, d.Message)
}

// Result holds the outcome of one check.
type Result struct {
	OK          bool         // Checker exited zero
	Output      string       // Raw output (stdout+stderr)
	Diagnostics []Diagnostic // Parsed problems
}

// Summary returns up to limit diagnostics, one per line. Without parsed
// diagnostics the first non-empty output line is used.
func (r *Result) Summary(limit int) string {
	if len(r.Diagnostics) == 0 {
		for _, line := range strings.Split(r.Output, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				return line
			}
		}
		return "checker failed without output"
	}

	var lines []string
	for i, d := range r.Diagnostics {
		if i == limit {
			lines = append(lines, fmt.Sprintf("... and %d more", len(r.Diagnostics)-limit))
			break
		}
		lines = append(lines, d.String())
	}
	return strings.Join(lines, "\n")
}

// Checker runs a syntax check command on single files.
type Checker struct {
	Command []string      // Program and arguments
	WorkDir string        // Working directory for the command
	Timeout time.Duration // Default 60s
}

// NewChecker parses a command line such as "php -l". It returns nil for an
// empty command line, which disables checking.
func NewChecker(cmdline, workDir string) *Checker {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return nil
	}
	return &Checker{Command: fields, WorkDir: workDir}
}

// Check runs the checker on path. A non-zero exit is reported in the
// result; the error is only set when the command could not run at all.
func (c *Checker) Check(ctx context.Context, path string) (*Result, error) {
	args := c.args(path)
	timeout := c.Timeout
	if timeout == 0 {
		timeout = defaultCheckTimeout
	}

	out, err := runCommand(ctx, c.WorkDir, timeout, args[0], args[1:]...)
	result := &Result{OK: err == nil, Output: out}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return result, fmt.Errorf("running %s: %w", args[0], err)
	}
	if !result.OK {
		result.Diagnostics = parseDiagnostics(out)
	}
	return result, nil
}

func (c *Checker) args(path string) []string {
	args := make([]string, 0, len(c.Command)+1)
	replaced := false
	for _, a := range c.Command {
		if strings.Contains(a, FilePlaceholder) {
			a = strings.ReplaceAll(a, FilePlaceholder, path)
			replaced = true
		}
		args = append(args, a)
	}
	if !replaced {
		args = append(args, path)
	}
	return args
}

// runCommand executes a command with a timeout and captures combined output.
func runCommand(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) (string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, name, args...)
	cmd.Dir = dir

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	return buf.String(), err
}

var (
	// colonRegex matches "file:10:5: message" and "file:10: message".
	colonRegex = regexp.MustCompile(`^(.+?\.\w+):(\d+)(?::(\d+))?: (.+)$`)

	// inFileRegex matches "message in file on line 10" (php -l).
	inFileRegex = regexp.MustCompile(`^(?:PHP )?(.+?) in (.+?) on line (\d+)$`)
)

// parseDiagnostics extracts diagnostics from checker output.
func parseDiagnostics(output string) []Diagnostic {
	var diags []Diagnostic
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := colonRegex.FindStringSubmatch(line); m != nil {
			lineNum, _ := strconv.Atoi(m[2])
			colNum := 0
			if m[3] != "" {
				colNum, _ = strconv.Atoi(m[3])
			}
			diags = append(diags, Diagnostic{FilePath: m[1], Line: lineNum, Column: colNum, Message: m[4]})
			continue
		}

		if m := inFileRegex.FindStringSubmatch(line); m != nil {
			lineNum, _ := strconv.Atoi(m[3])
			diags = append(diags, Diagnostic{FilePath: m[2], Line: lineNum, Message: m[1]})
		}
	}
	return diags
}
