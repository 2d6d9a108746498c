// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package coder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/petar-djukic/go-grok/pkg/types"
)

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = "php"

// Languages lists the source languages commands can target, keyed by the
// name accepted in configuration.
var Languages = map[string]types.Language{
	"php": {
		Name:          "PHP",
		Extensions:    []string{".php"},
		FenceTags:     []string{"php"},
		TestFramework: "PHPUnit",
		DocStyle:      "PHPDoc",
		TestSuffix:    "Test.php",
	},
	"go": {
		Name:          "Go",
		Extensions:    []string{".go"},
		FenceTags:     []string{"go", "golang"},
		TestFramework: "the testing package with testify",
		DocStyle:      "godoc",
		TestSuffix:    "_test.go",
	},
	"python": {
		Name:          "Python",
		Extensions:    []string{".py"},
		FenceTags:     []string{"python", "py"},
		TestFramework: "pytest",
		DocStyle:      "docstring",
		TestSuffix:    "_test.py",
	},
	"javascript": {
		Name:          "JavaScript",
		Extensions:    []string{".js", ".mjs"},
		FenceTags:     []string{"javascript", "js"},
		TestFramework: "Jest",
		DocStyle:      "JSDoc",
		TestSuffix:    ".test.js",
	},
}

// LookupLanguage returns the language registered under name.
func LookupLanguage(name string) (types.Language, error) {
	if name == "" {
		name = DefaultLanguage
	}
	lang, ok := Languages[strings.ToLower(name)]
	if !ok {
		names := make([]string, 0, len(Languages))
		for n := range Languages {
			names = append(names, n)
		}
		sort.Strings(names)
		return types.Language{}, fmt.Errorf("unsupported language %q (supported: %s)", name, strings.Join(names, ", "))
	}
	return lang, nil
}

// fenceTag returns the tag the model is asked to use for code blocks.
func fenceTag(lang types.Language) string {
	if len(lang.FenceTags) == 0 {
		return ""
	}
	return lang.FenceTags[0]
}
