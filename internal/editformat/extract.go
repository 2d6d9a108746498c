// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package editformat pulls code out of free-text LLM responses.
package editformat

import (
	"strings"
)

const fence = "```"

// Extract returns the body of the first fenced block whose opening fence
// carries one of tags (compared case-insensitively). When tags is empty,
// any opening fence matches. If the reply has no such closed block, the
// whole reply is returned trimmed.
//
// Only the first matching block is used; later blocks are ignored.
func Extract(reply string, tags ...string) string {
	if code, ok := FirstBlock(reply, tags...); ok {
		return code
	}
	return strings.TrimSpace(reply)
}

// FirstBlock scans reply line by line for an opening fence with a matching
// tag, anywhere on its line, and returns the lines up to the next closing
// fence. Line endings are normalized to LF. The second return
// is false when no closed block is found.
func FirstBlock(reply string, tags ...string) (string, bool) {
	lines := strings.Split(strings.ReplaceAll(reply, "\r\n", "\n"), "\n")

	for i, line := range lines {
		tag, ok := openingTag(line)
		if !ok || !tagMatches(tag, tags) {
			continue
		}

		for j := i + 1; j < len(lines); j++ {
			if isClosingFence(lines[j]) {
				return strings.Join(lines[i+1:j], "\n"), true
			}
		}

		// An unclosed opener cannot be closed by anything later either.
		return "", false
	}

	return "", false
}

// IsEmpty reports whether extracted code is unusable for writing.
func IsEmpty(code string) bool {
	return strings.TrimSpace(code) == ""
}

// openingTag returns the language tag of the first fence on line that ends
// the line, so openers after prose ("Here: ```php") count as well. The tag
// is the single word between the fence and the line end; a bare fence
// yields an empty tag.
func openingTag(line string) (string, bool) {
	s := strings.TrimRight(line, " \t")
	for {
		idx := strings.Index(s, fence)
		if idx < 0 {
			return "", false
		}
		rest := s[idx+len(fence):]
		if !strings.Contains(rest, fence) && !strings.ContainsAny(strings.TrimSpace(rest), " \t") {
			return strings.TrimSpace(rest), true
		}
		s = rest
	}
}

func tagMatches(tag string, tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, want := range tags {
		if strings.EqualFold(tag, want) {
			return true
		}
	}
	return false
}

// isClosingFence checks for a line holding only a fence.
func isClosingFence(line string) bool {
	return strings.TrimSpace(line) == fence
}
