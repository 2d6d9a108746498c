// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepoCommit_StagesEverything(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.php"), []byte("<?php\necho 'fixed';\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.php.bak.20260101000000"), []byte("<?php\necho 'hi';\n"), 0o644))

	msg := CheckpointMessage(TypeFix, "security and structure in index.php")
	require.NoError(t, repo.Commit(context.Background(), msg))

	dirty, err := repo.IsDirty()
	require.NoError(t, err)
	assert.False(t, dirty)

	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	last, err := repo.lastCommitMessage()
	require.NoError(t, err)
	assert.Equal(t, msg, strings.TrimSpace(last))
}

func TestRepoCommit_EmptyCommitSucceeds(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, repo.Commit(context.Background(), "chore: nothing changed"))

	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRepoCommit_CancelledContext(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Commit(ctx, "x"), ErrCheckpointFailed)
}

func TestUndo_RevertsGrokCommit(t *testing.T) {
	dir := initTestRepo(t)
	addFileAndCommit(t, dir, "feature.php", "<?php\nfunction f() {}\n", CheckpointMessage(TypeFeat, "generate feature.php"))

	repo, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, repo.Undo())

	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Soft reset keeps the file in the working tree.
	_, err = os.Stat(filepath.Join(dir, "feature.php"))
	assert.NoError(t, err)
}

func TestUndo_RefusesOtherCommits(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(dir)
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Undo(), ErrNotGrokCommit)

	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBootstrap(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.php"), []byte("<?php\n"), 0o644))
	assert.True(t, NeedsBootstrap(dir))

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	done, err := Bootstrap(context.Background(), dir, BootstrapData{Language: "PHP", Owner: "ACME", Now: now})
	require.NoError(t, err)
	assert.True(t, done)

	readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "2026-10-18 12:00")

	lic, err := os.ReadFile(filepath.Join(dir, "LICENSE"))
	require.NoError(t, err)
	assert.Contains(t, string(lic), "Copyright (c) 2026 ACME")

	repo, err := Open(dir)
	require.NoError(t, err)
	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	last, err := repo.lastCommitMessage()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(last, "chore: init project with go-grok"))
	isGrok, err := repo.IsGrokCommit()
	require.NoError(t, err)
	assert.True(t, isGrok)

	dirty, err := repo.IsDirty()
	require.NoError(t, err)
	assert.False(t, dirty)

	// Second run is a no-op.
	assert.False(t, NeedsBootstrap(dir))
	done, err = Bootstrap(context.Background(), dir, BootstrapData{})
	require.NoError(t, err)
	assert.False(t, done)
}

func TestBootstrap_SkippedWhenReadmeExists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# mine\n"), 0o644))

	done, err := Bootstrap(context.Background(), dir, BootstrapData{})
	require.NoError(t, err)
	assert.False(t, done)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	assert.True(t, os.IsNotExist(err))
}
