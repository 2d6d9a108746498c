// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cli renders go-grok output for the terminal.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/petar-djukic/go-grok/internal/usage"
	"github.com/petar-djukic/go-grok/pkg/types"
)

// Theme colors.
var (
	ColorText   = lipgloss.Color("#FFFCF0")
	ColorMuted  = lipgloss.Color("#6F6E69")
	ColorAccent = lipgloss.Color("#3AA99F")
	ColorGreen  = lipgloss.Color("#879A39")
	ColorOrange = lipgloss.Color("#DA702C")
	ColorRed    = lipgloss.Color("#D14D41")
	ColorYellow = lipgloss.Color("#D0A215")
)

type styles struct {
	info    lipgloss.Style
	comment lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
	cost    lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		info:    r.NewStyle().Bold(true).Foreground(ColorAccent),
		comment: r.NewStyle().Foreground(ColorYellow),
		success: r.NewStyle().Foreground(ColorGreen),
		warn:    r.NewStyle().Foreground(ColorOrange),
		err:     r.NewStyle().Bold(true).Foreground(ColorRed),
		cost:    r.NewStyle().Foreground(ColorGreen),
		muted:   r.NewStyle().Foreground(ColorMuted),
	}
}

// Printer writes styled progress to out and diagnostics to errOut. Colors
// are dropped automatically when a writer is not a terminal.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	o      styles
	e      styles
}

// NewPrinter creates a Printer.
func NewPrinter(out, errOut io.Writer) *Printer {
	return &Printer{
		out:    out,
		errOut: errOut,
		o:      newStyles(lipgloss.NewRenderer(out)),
		e:      newStyles(lipgloss.NewRenderer(errOut)),
	}
}

// Task announces the file a command is working on.
func (p *Printer) Task(label, relPath string) {
	fmt.Fprintln(p.out, p.o.info.Render(fmt.Sprintf("[%s] %s", strings.ToUpper(label), relPath)))
}

// Section prints a titled block of model output.
func (p *Printer) Section(title, body string) {
	fmt.Fprintln(p.out, p.o.comment.Render(title+":"))
	fmt.Fprintln(p.out, strings.TrimRight(body, "\n"))
}

// Cost prints the cost of one call.
func (p *Printer) Cost(cost float64) {
	fmt.Fprintln(p.out, p.o.cost.Render("Cost: "+FormatCost(cost)))
}

// Success prints a completed action.
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.out, p.o.success.Render(msg))
}

// Warn prints a non-fatal problem to the error stream.
func (p *Printer) Warn(msg string) {
	fmt.Fprintln(p.errOut, p.e.warn.Render("warning: "+msg))
}

// Error prints a failure to the error stream.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.errOut, p.e.err.Render("error: "+msg))
}

// Summary prints the totals of one command run.
func (p *Printer) Summary(s types.RunSummary) {
	line := fmt.Sprintf("%s: %d file(s), %d applied, %d skipped, %d failed, %d tokens, %s",
		s.Command, s.Files, s.Applied, s.Skipped, s.Failed, s.Usage.Total(), FormatCost(s.Cost))
	if s.CheckFailed > 0 {
		line += fmt.Sprintf(", %d failed syntax check", s.CheckFailed)
	}
	style := p.o.muted
	if s.Failed > 0 || s.CheckFailed > 0 {
		style = p.o.warn
	}
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, style.Render(line))
}

// Usage prints the usage log totals for one day.
func (p *Printer) Usage(day string, s usage.Summary) {
	fmt.Fprintln(p.out, p.o.info.Render("Usage for "+day))
	fmt.Fprintf(p.out, "  %-10s %d\n", "calls", s.Calls)
	fmt.Fprintf(p.out, "  %-10s %d\n", "tokens in", s.TokensIn)
	fmt.Fprintf(p.out, "  %-10s %d\n", "tokens out", s.TokensOut)
	fmt.Fprintf(p.out, "  %-10s %s\n", "cost", p.o.cost.Render(FormatCost(s.CostUSD)))
}

// FormatCost formats a USD amount with six decimals.
func FormatCost(cost float64) string {
	return fmt.Sprintf("$%.6f", cost)
}
