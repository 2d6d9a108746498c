// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"fmt"
	"strings"
)

const maxSubjectLength = 72

// Conventional commit types used for checkpoints.
const (
	TypeFix      = "fix"
	TypeRefactor = "refactor"
	TypeFeat     = "feat"
	TypeTest     = "test"
	TypeDocs     = "docs"
	TypeChore    = "chore"
)

// CheckpointMessage creates a conventional commit message with the
// checkpoint trailer. Summaries that do not fit the subject line are cut
// and repeated in full in the body.
func CheckpointMessage(commitType, summary string) string {
	summary = strings.TrimSpace(summary)
	summary = strings.TrimRight(summary, ".")

	subject := fmt.Sprintf("%s: %s", commitType, summary)
	body := ""
	if runes := []rune(subject); len(runes) > maxSubjectLength {
		subject = string(runes[:maxSubjectLength-3]) + "..."
		body = summary
	}

	msg := subject
	if body != "" {
		msg += "\n\n" + body
	}
	return msg + "\n\n" + checkpointTrailer
}
