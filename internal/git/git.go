// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package git records applied changes as version-control checkpoints,
// bootstraps a repository on first run, and undoes the last checkpoint.
package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	checkpointTrailer = "Checkpoint-By: go-grok"
	authorName        = "go-grok"
	authorEmail       = "noreply@go-grok"
)

// ErrCheckpointFailed is returned when staging or committing fails.
var ErrCheckpointFailed = errors.New("checkpoint failed")

// ErrNotGrokCommit is returned when undo targets a commit not made by go-grok.
var ErrNotGrokCommit = errors.New("not a go-grok commit")

// ErrNoGit is returned when the working directory is not a git repository.
var ErrNoGit = errors.New("not a git repository")

// Checkpointer stages all working-tree changes and commits them.
type Checkpointer interface {
	Commit(ctx context.Context, message string) error
}

// Repo wraps a go-git repository for the operations we need.
type Repo struct {
	repo *gogit.Repository
}

var _ Checkpointer = (*Repo)(nil)

// Open opens an existing git repository at workDir.
// Returns ErrNoGit if the directory is not a git repository.
func Open(workDir string) (*Repo, error) {
	r, err := gogit.PlainOpen(workDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}
	return &Repo{repo: r}, nil
}

// IsDirty returns true if the working tree has uncommitted changes
// (either staged or unstaged).
func (r *Repo) IsDirty() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("getting status: %w", err)
	}

	return !status.IsClean(), nil
}

// IsGrokCommit checks whether the HEAD commit was made by go-grok by
// looking for the checkpoint trailer.
func (r *Repo) IsGrokCommit() (bool, error) {
	msg, err := r.lastCommitMessage()
	if err != nil {
		return false, err
	}
	return strings.Contains(msg, checkpointTrailer), nil
}

// lastCommitMessage returns the message of the HEAD commit.
func (r *Repo) lastCommitMessage() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("getting commit: %w", err)
	}
	return commit.Message, nil
}

// commitCount returns the total number of commits reachable from HEAD.
func (r *Repo) commitCount() (int, error) {
	iter, err := r.repo.Log(&gogit.LogOptions{})
	if err != nil {
		return 0, err
	}
	count := 0
	err = iter.ForEach(func(c *object.Commit) error {
		count++
		return nil
	})
	return count, err
}
