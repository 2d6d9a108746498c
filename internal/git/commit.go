// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"context"
	"fmt"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Commit stages every change in the working tree, including deletions, and
// commits with message. An empty commit succeeds.
func (r *Repo) Commit(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCheckpointFailed, err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("%w: getting worktree: %v", ErrCheckpointFailed, err)
	}

	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return fmt.Errorf("%w: staging changes: %v", ErrCheckpointFailed, err)
	}

	_, err = wt.Commit(message, &gogit.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("%w: committing: %v", ErrCheckpointFailed, err)
	}

	return nil
}

// Undo reverts the last commit if it was made by go-grok (identified by the
// checkpoint trailer). Uses a soft reset to keep the changes in the
// working tree.
func (r *Repo) Undo() error {
	isGrok, err := r.IsGrokCommit()
	if err != nil {
		return err
	}
	if !isGrok {
		return ErrNotGrokCommit
	}

	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return fmt.Errorf("getting commit: %w", err)
	}

	if commit.NumParents() == 0 {
		return fmt.Errorf("cannot undo: HEAD is the initial commit")
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return fmt.Errorf("getting parent commit: %w", err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	err = wt.Reset(&gogit.ResetOptions{
		Commit: parent.Hash,
		Mode:   gogit.SoftReset,
	})
	if err != nil {
		return fmt.Errorf("resetting to parent: %w", err)
	}

	return nil
}
