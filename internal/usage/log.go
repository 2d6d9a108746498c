// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package usage appends one JSON line per completion call to a daily log
// file and reads those files back for summaries. Entries are never
// rewritten or deleted.
package usage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	filePrefix     = "grok_usage_"
	fileSuffix     = ".log"
	dayLayout      = "2006-01-02"
	maxPromptRunes = 150
	ellipsis       = "..."
)

// Entry is one line of the usage log.
type Entry struct {
	Timestamp string  `json:"timestamp"`
	RequestID string  `json:"request_id"`
	Model     string  `json:"model"`
	TokensIn  int     `json:"tokens_in"`
	TokensOut int     `json:"tokens_out"`
	CostUSD   float64 `json:"cost_usd"`
	Prompt    string  `json:"prompt"`
}

// Log writes entries under a directory, one file per calendar day.
type Log struct {
	dir string
	now func() time.Time
}

// NewLog creates a Log rooted at dir. The directory is created on first
// append.
func NewLog(dir string) *Log {
	return &Log{dir: dir, now: time.Now}
}

// Dir returns the log directory.
func (l *Log) Dir() string {
	return l.dir
}

// Path returns the log file for the calendar day of t.
func (l *Log) Path(t time.Time) string {
	return filepath.Join(l.dir, filePrefix+t.Format(dayLayout)+fileSuffix)
}

// Record builds an entry for a completion call and appends it to today's
// file.
func (l *Log) Record(model, prompt string, tokensIn, tokensOut int, cost float64) (Entry, error) {
	now := l.now()
	e := Entry{
		Timestamp: now.Format(time.RFC3339),
		RequestID: uuid.NewString(),
		Model:     model,
		TokensIn:  tokensIn,
		TokensOut: tokensOut,
		CostUSD:   RoundCost(cost),
		Prompt:    PromptPreview(prompt),
	}
	return e, l.Append(now, e)
}

// Append writes e as a single line to the file for the day of t. The write
// is done under an exclusive lock so concurrent writers never interleave
// partial lines.
func (l *Log) Append(t time.Time, e Entry) error {
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding usage entry: %w", err)
	}
	line = append(line, '\n')

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("creating usage log directory: %w", err)
	}

	f, err := os.OpenFile(l.Path(t), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening usage log: %w", err)
	}
	defer f.Close()

	if err := lockFile(f); err != nil {
		return fmt.Errorf("locking usage log: %w", err)
	}
	defer unlockFile(f)

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("writing usage log: %w", err)
	}
	return nil
}

// ReadDay returns the entries logged on the calendar day of t. A missing
// file yields no entries. Lines that do not decode are skipped.
func (l *Log) ReadDay(t time.Time) ([]Entry, error) {
	f, err := os.Open(l.Path(t))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening usage log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("reading usage log: %w", err)
	}
	return entries, nil
}

// Summary aggregates usage entries.
type Summary struct {
	Calls     int
	TokensIn  int
	TokensOut int
	CostUSD   float64
}

// Summarize totals the given entries.
func Summarize(entries []Entry) Summary {
	var s Summary
	for _, e := range entries {
		s.Calls++
		s.TokensIn += e.TokensIn
		s.TokensOut += e.TokensOut
		s.CostUSD += e.CostUSD
	}
	s.CostUSD = RoundCost(s.CostUSD)
	return s
}

// RoundCost rounds a USD amount to 6 decimal places.
func RoundCost(cost float64) float64 {
	return math.Round(cost*1e6) / 1e6
}

// PromptPreview truncates prompt to 150 characters, appending "..." only
// when something was cut.
func PromptPreview(prompt string) string {
	if utf8.RuneCountInString(prompt) <= maxPromptRunes {
		return prompt
	}
	runes := []rune(prompt)
	return string(runes[:maxPromptRunes]) + ellipsis
}
