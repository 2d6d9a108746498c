// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
)

const bootstrapSummary = "init project with go-grok, README.md and MIT License"

// BootstrapData fills the seed files written on first run.
type BootstrapData struct {
	Language string // Language name for the README
	Owner    string // Copyright holder for the LICENSE
	Now      time.Time
}

// NeedsBootstrap reports whether workDir has neither a .git directory nor a
// README.md. Only then does Bootstrap do anything.
func NeedsBootstrap(workDir string) bool {
	return !exists(filepath.Join(workDir, ".git")) && !exists(filepath.Join(workDir, "README.md"))
}

// Bootstrap initializes a repository in workDir, writes README.md and
// LICENSE when absent, and makes the initial commit. It returns false
// without side effects when NeedsBootstrap is false.
func Bootstrap(ctx context.Context, workDir string, data BootstrapData) (bool, error) {
	if !NeedsBootstrap(workDir) {
		return false, nil
	}

	r, err := gogit.PlainInit(workDir, false)
	if err != nil {
		return false, fmt.Errorf("initializing repository: %w", err)
	}

	if data.Now.IsZero() {
		data.Now = time.Now()
	}

	seeds := []struct {
		name    string
		content string
	}{
		{"README.md", readme(data)},
		{"LICENSE", license(data)},
	}
	for _, s := range seeds {
		path := filepath.Join(workDir, s.name)
		if exists(path) {
			continue
		}
		if err := os.WriteFile(path, []byte(s.content), 0o644); err != nil {
			return true, fmt.Errorf("writing %s: %w", s.name, err)
		}
	}

	repo := &Repo{repo: r}
	if err := repo.Commit(ctx, CheckpointMessage(TypeChore, bootstrapSummary)); err != nil {
		return true, err
	}
	return true, nil
}

func readme(d BootstrapData) string {
	return fmt.Sprintf(`# %s project managed with go-grok

AI-assisted security analysis, refactoring, tests and documentation.
Last updated: %s

## Commands
- `+"`go-grok analyze`"+` - analyze code and security
- `+"`go-grok refactor`"+` - refactor with bug fixes and improvements
- `+"`go-grok test`"+` - generate unit tests
- `+"`go-grok doc`"+` - generate inline docs or Markdown
`, d.Language, d.Now.Format("2006-01-02 15:04"))
}

func license(d BootstrapData) string {
	owner := d.Owner
	if owner == "" {
		owner = "the project authors"
	}
	return fmt.Sprintf(`MIT License

Copyright (c) %d %s

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
`, d.Now.Year(), owner)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
