// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package feedback

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDiagnostics(t *testing.T) {
	output := `PHP Parse error:  syntax error, unexpected token "}" in src/User.php on line 12
Errors parsing src/User.php
main.go:10:5: undefined: x
app.py:3: invalid syntax
`
	diags := parseDiagnostics(output)
	require.Len(t, diags, 3)

	assert.Equal(t, Diagnostic{FilePath: "src/User.php", Line: 12, Message: `Parse error:  syntax error, unexpected token "}"`}, diags[0])
	assert.Equal(t, Diagnostic{FilePath: "main.go", Line: 10, Column: 5, Message: "undefined: x"}, diags[1])
	assert.Equal(t, "app.py:3: invalid syntax", diags[2].String())
}

func TestResultSummary(t *testing.T) {
	r := &Result{Diagnostics: []Diagnostic{
		{FilePath: "a.php", Line: 1, Message: "one"},
		{FilePath: "a.php", Line: 2, Message: "two"},
		{FilePath: "a.php", Line: 3, Message: "three"},
	}}
	assert.Equal(t, "a.php:1: one\na.php:2: two\n... and 1 more", r.Summary(2))

	raw := &Result{Output: "\n  boom\nmore"}
	assert.Equal(t, "boom", raw.Summary(3))
	assert.Equal(t, "checker failed without output", (&Result{}).Summary(3))
}

func TestNewChecker(t *testing.T) {
	assert.Nil(t, NewChecker("  ", "/tmp"))

	c := NewChecker("php -l", "/proj")
	require.NotNil(t, c)
	assert.Equal(t, []string{"php", "-l", "a.php"}, c.args("a.php"))

	c = NewChecker("lint --file={file} --strict", "/proj")
	assert.Equal(t, []string{"lint", "--file=a.php", "--strict"}, c.args("a.php"))
}

func TestCheck(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	t.Run("passes", func(t *testing.T) {
		c := &Checker{Command: []string{sh, "-c", "exit 0", "--"}, WorkDir: t.TempDir()}
		res, err := c.Check(context.Background(), "a.php")
		require.NoError(t, err)
		assert.True(t, res.OK)
		assert.Empty(t, res.Diagnostics)
	})

	t.Run("reports diagnostics", func(t *testing.T) {
		script := `echo "a.php:4: unexpected end of file" >&2; exit 255`
		c := &Checker{Command: []string{sh, "-c", script, "--"}, WorkDir: t.TempDir()}
		res, err := c.Check(context.Background(), "a.php")
		require.NoError(t, err)
		assert.False(t, res.OK)
		require.Len(t, res.Diagnostics, 1)
		assert.Equal(t, 4, res.Diagnostics[0].Line)
	})

	t.Run("missing binary", func(t *testing.T) {
		c := NewChecker("definitely-not-a-checker-"+strings.Repeat("x", 8), t.TempDir())
		_, err := c.Check(context.Background(), "a.php")
		assert.Error(t, err)
	})
}
