// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package llm

import (
	"math"
	"strings"
)

// Prices in USD per million tokens.
const (
	InputPricePerMTok  = 0.20
	OutputPricePerMTok = 0.50
)

// bytesPerToken is the heuristic ratio used for input token estimates.
const bytesPerToken = 3.8

// EstimateTokens approximates the token count of text from its byte length.
// It is not a tokenizer; the value is only used for cost reporting.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return int(math.Ceil(float64(len(text)) / bytesPerToken))
}

// EstimateInputTokens estimates the input size of a call the same way the
// usage log reports it: the prompt followed by the newline-joined context.
func EstimateInputTokens(prompt string, turns []string) int {
	return EstimateTokens(prompt + strings.Join(turns, "\n"))
}

// Cost returns the USD cost of a call with the given token counts.
// Negative counts are treated as zero.
func Cost(inputTokens, outputTokens int) float64 {
	in := math.Max(0, float64(inputTokens))
	out := math.Max(0, float64(outputTokens))
	return (in*InputPricePerMTok + out*OutputPricePerMTok) / 1_000_000
}
