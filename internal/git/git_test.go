// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_ValidRepo(t *testing.T) {
	dir := initTestRepo(t)

	repo, err := Open(dir)
	require.NoError(t, err)
	assert.NotNil(t, repo)
}

func TestOpen_NotARepo(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.ErrorIs(t, err, ErrNoGit)
}

func TestIsDirty(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(dir)
	require.NoError(t, err)

	dirty, err := repo.IsDirty()
	require.NoError(t, err)
	assert.False(t, dirty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.php"), []byte("<?php\n"), 0o644))

	dirty, err = repo.IsDirty()
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestIsGrokCommit(t *testing.T) {
	t.Run("checkpoint commit", func(t *testing.T) {
		dir := initTestRepo(t)
		addFileAndCommit(t, dir, "a.php", "<?php\n", CheckpointMessage(TypeFix, "security in a.php"))

		repo, err := Open(dir)
		require.NoError(t, err)

		isGrok, err := repo.IsGrokCommit()
		require.NoError(t, err)
		assert.True(t, isGrok)
	})

	t.Run("regular commit", func(t *testing.T) {
		dir := initTestRepo(t)

		repo, err := Open(dir)
		require.NoError(t, err)

		isGrok, err := repo.IsGrokCommit()
		require.NoError(t, err)
		assert.False(t, isGrok)
	})
}

func TestCheckpointMessage(t *testing.T) {
	msg := CheckpointMessage(TypeRefactor, "src/User.php - extract method.")
	assert.Equal(t, "refactor: src/User.php - extract method\n\n"+checkpointTrailer, msg)
}

func TestCheckpointMessage_LongSummary(t *testing.T) {
	summary := strings.Repeat("very long instruction ", 10)
	msg := CheckpointMessage(TypeRefactor, summary)

	subject := strings.SplitN(msg, "\n", 2)[0]
	assert.LessOrEqual(t, len([]rune(subject)), maxSubjectLength)
	assert.True(t, strings.HasSuffix(subject, "..."))
	assert.Contains(t, msg, strings.TrimSpace(summary))
	assert.True(t, strings.HasSuffix(msg, checkpointTrailer))
}

// initTestRepo creates a temp dir with a git repo and an initial commit.
func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	r, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := r.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.php"), []byte("<?php\necho 'hi';\n"), 0o644))

	_, err = wt.Add("index.php")
	require.NoError(t, err)

	_, err = wt.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@test.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	return dir
}

// addFileAndCommit adds a file and creates a commit with the given message.
func addFileAndCommit(t *testing.T, dir, name, content, msg string) {
	t.Helper()

	r, err := gogit.PlainOpen(dir)
	require.NoError(t, err)

	wt, err := r.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))

	_, err = wt.Add(name)
	require.NoError(t, err)

	_, err = wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@test.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
}
