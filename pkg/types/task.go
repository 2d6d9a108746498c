// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import "strings"

// FileTask is the per-file unit of work for a command. It owns a snapshot
// of the file content taken when the file was loaded.
type FileTask struct {
	Path    string // Absolute or work-dir-joined path used for I/O
	RelPath string // Display path relative to the work directory
	Content string // Content at load time
}

// IsEmpty reports whether the file had no non-whitespace content.
func (t FileTask) IsEmpty() bool {
	return strings.TrimSpace(t.Content) == ""
}

// Language describes the source language a command targets.
type Language struct {
	Name          string   // Display name used in prompts ("PHP")
	Extensions    []string // File extensions, with the leading dot
	FenceTags     []string // Accepted code fence tags ("php")
	TestFramework string   // Framework named in test prompts
	DocStyle      string   // Inline doc comment style ("PHPDoc")
	TestSuffix    string   // Suffix for generated test files ("Test.php")
}

// RunSummary totals one command invocation across its file set.
type RunSummary struct {
	Command     string
	Files       int     // Files processed, including failed ones
	Skipped     int     // Empty files skipped with a warning
	Failed      int     // Files whose extract, backup, write or completion step failed
	Applied     int     // Files written to disk
	CheckFailed int     // Written files rejected by the syntax checker
	Cost        float64 // Sum of reported per-call cost in USD
	Usage       TokenUsage
}
