// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package coder

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{
		"/proj/src/b.php",
		"/proj/src/a.php",
		"/proj/src/sub/c.PHP",
		"/proj/src/notes.md",
		"/proj/src/a.php.bak.20260101120000",
		"/proj/vendor/lib.php",
		"/proj/node_modules/x.php",
		"/proj/tests/ATest.php",
		"/proj/.git/hook.php",
	} {
		require.NoError(t, afero.WriteFile(fs, name, []byte("<?php\n"), 0o644))
	}
	php := Languages["php"]

	t.Run("directory", func(t *testing.T) {
		files, err := ResolveFiles(fs, "/proj", php)
		require.NoError(t, err)
		assert.Equal(t, []string{"/proj/src/a.php", "/proj/src/b.php", "/proj/src/sub/c.PHP"}, files)
	})

	t.Run("single file", func(t *testing.T) {
		files, err := ResolveFiles(fs, "/proj/src/notes.md", php)
		require.NoError(t, err)
		assert.Equal(t, []string{"/proj/src/notes.md"}, files)
	})

	t.Run("excluded root is still walked", func(t *testing.T) {
		files, err := ResolveFiles(fs, "/proj/tests", php)
		require.NoError(t, err)
		assert.Equal(t, []string{"/proj/tests/ATest.php"}, files)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := ResolveFiles(fs, "/nope", php)
		assert.ErrorIs(t, err, ErrMissingPath)
	})

	t.Run("no matching files", func(t *testing.T) {
		_, err := ResolveFiles(fs, "/proj/src", Languages["python"])
		assert.ErrorIs(t, err, ErrNoFiles)
	})
}

func TestRelPath(t *testing.T) {
	assert.Equal(t, "src/a.php", relPath("/proj", "/proj/src/a.php"))
	assert.Equal(t, "/elsewhere/a.php", relPath("/proj", "/elsewhere/a.php"))
	assert.Equal(t, "/", relPath("/proj", "/"))
	assert.Equal(t, "..config.php", relPath("/proj", "/proj/..config.php"))
	assert.Equal(t, filepath.Join("lib", "..hidden.php"), relPath("/proj", "/proj/lib/..hidden.php"))
}

func TestLookupLanguage(t *testing.T) {
	lang, err := LookupLanguage("")
	require.NoError(t, err)
	assert.Equal(t, "PHP", lang.Name)

	lang, err = LookupLanguage("Go")
	require.NoError(t, err)
	assert.Equal(t, "_test.go", lang.TestSuffix)

	_, err = LookupLanguage("cobol")
	assert.ErrorContains(t, err, "javascript, php")
}

func TestTestFileName(t *testing.T) {
	assert.Equal(t, "UserTest.php", testFileName("/proj/src/User.php", Languages["php"]))
	assert.Equal(t, "user_test.py", testFileName("user.py", Languages["python"]))
}
