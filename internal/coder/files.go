// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package coder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/petar-djukic/go-grok/pkg/types"
)

// excludedDirs are never descended into when resolving a directory.
var excludedDirs = map[string]bool{
	".git":         true,
	"vendor":       true,
	"node_modules": true,
	"tests":        true,
}

// ResolveFiles expands root into the files a command processes. A file
// resolves to itself; a directory is walked recursively for files with one
// of the language extensions, skipping excluded directories. Results are
// in lexical order.
func ResolveFiles(fs afero.Fs, root string, lang types.Language) ([]string, error) {
	info, err := fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingPath, root)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != root && excludedDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if hasExtension(path, lang.Extensions) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no %s files in %s", ErrNoFiles, lang.Name, root)
	}
	return files, nil
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// relPath returns path relative to workDir, or path itself when it lies
// outside workDir.
func relPath(workDir, path string) string {
	rel, err := filepath.Rel(workDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// absPath joins a relative path onto workDir.
func absPath(workDir, path string) string {
	if filepath.IsAbs(path) || workDir == "" {
		return path
	}
	return filepath.Join(workDir, path)
}
