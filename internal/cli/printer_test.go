// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petar-djukic/go-grok/internal/usage"
	"github.com/petar-djukic/go-grok/pkg/types"
)

func TestPrinter_Streams(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut)

	p.Task("Analyze", "src/a.php")
	p.Section("Report", "looks fine\n")
	p.Cost(0.000045)
	p.Success("Applied src/a.php")
	p.Warn("checkpoint failed")
	p.Error("src/b.php: reply contained no code")

	assert.Contains(t, out.String(), "[ANALYZE] src/a.php")
	assert.Contains(t, out.String(), "Report:\nlooks fine\n")
	assert.Contains(t, out.String(), "Cost: $0.000045")
	assert.Contains(t, out.String(), "Applied src/a.php")
	assert.NotContains(t, out.String(), "checkpoint failed")

	assert.Contains(t, errOut.String(), "warning: checkpoint failed")
	assert.Contains(t, errOut.String(), "error: src/b.php: reply contained no code")
}

func TestPrinter_Summary(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &out)

	p.Summary(types.RunSummary{
		Command: "refactor",
		Files:   3,
		Applied: 2,
		Failed:  1,
		Cost:    0.0012,
		Usage:   types.TokenUsage{InputTokens: 300, OutputTokens: 150},
	})

	assert.Contains(t, out.String(), "refactor: 3 file(s), 2 applied, 0 skipped, 1 failed, 450 tokens, $0.001200")
}

func TestPrinter_Usage(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &out)

	p.Usage("2026-10-18", usage.Summary{Calls: 2, TokensIn: 10, TokensOut: 20, CostUSD: 0.000012})

	assert.Contains(t, out.String(), "Usage for 2026-10-18")
	assert.Contains(t, out.String(), "calls      2")
	assert.Contains(t, out.String(), "$0.000012")
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.000000", FormatCost(0))
	assert.Equal(t, "$1.500000", FormatCost(1.5))
}
