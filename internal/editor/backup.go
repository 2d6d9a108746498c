// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package editor writes model output back to disk. Every overwrite is
// preceded by a timestamped backup copy of the original file.
package editor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// BackupTimeLayout is the timestamp format appended to backup file names.
const BackupTimeLayout = "20060102150405"

var (
	// ErrBackupFailed means the original could not be copied; the target
	// was not touched.
	ErrBackupFailed = errors.New("backup failed")

	// ErrWriteFailed means the overwrite failed after a successful backup.
	// The target may be partially written; the backup holds the original.
	ErrWriteFailed = errors.New("write failed")
)

// Op names the step of ApplyChange that failed.
type Op string

const (
	OpBackup Op = "backup"
	OpWrite  Op = "write"
)

// ApplyError describes a failed ApplyChange step.
type ApplyError struct {
	Op         Op
	Path       string // Target file
	BackupPath string // Backup location (set for OpWrite failures)
	Err        error
}

func (e *ApplyError) Error() string {
	if e.Op == OpWrite {
		return fmt.Sprintf("writing %s failed (original kept at %s): %v", e.Path, e.BackupPath, e.Err)
	}
	return fmt.Sprintf("backing up %s failed: %v", e.Path, e.Err)
}

// Unwrap exposes both the step sentinel and the underlying cause.
func (e *ApplyError) Unwrap() []error {
	sentinel := ErrBackupFailed
	if e.Op == OpWrite {
		sentinel = ErrWriteFailed
	}
	return []error{sentinel, e.Err}
}

// BackupPath returns the backup file name for path at time t.
func BackupPath(path string, t time.Time) string {
	return path + ".bak." + t.Format(BackupTimeLayout)
}

// Writer applies replacement content to files.
type Writer struct {
	fs     afero.Fs
	now    func() time.Time
	logger *slog.Logger
}

// NewWriter creates a Writer on fs. A nil logger uses slog.Default.
func NewWriter(fs afero.Fs, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{fs: fs, now: time.Now, logger: logger}
}

// ApplyChange copies path to a timestamped backup and then overwrites path
// with content. It returns the backup path.
//
// The overwrite truncates and rewrites the file in place. It is not an
// atomic rename: if it fails midway the live file can be left partially
// written, and the backup is the recovery point.
func (w *Writer) ApplyChange(path, content string) (string, error) {
	info, err := w.fs.Stat(path)
	if err != nil {
		return "", &ApplyError{Op: OpBackup, Path: path, Err: err}
	}

	backup := BackupPath(path, w.now())
	if _, err := w.fs.Stat(backup); err == nil {
		// Same-second applies share a name; the earlier backup is replaced.
		w.logger.Warn("backup already exists and will be overwritten", "path", backup)
	}

	if err := w.copyFile(path, backup, info.Mode().Perm()); err != nil {
		return "", &ApplyError{Op: OpBackup, Path: path, Err: err}
	}

	if err := afero.WriteFile(w.fs, path, []byte(content), info.Mode().Perm()); err != nil {
		return backup, &ApplyError{Op: OpWrite, Path: path, BackupPath: backup, Err: err}
	}

	w.logger.Debug("applied change", "path", path, "backup", backup, "bytes", len(content))
	return backup, nil
}

// Create writes content to a new file, creating parent directories. If the
// file already exists it goes through ApplyChange so the old content is
// backed up; the returned backup path is empty for new files.
func (w *Writer) Create(path, content string) (string, error) {
	if _, err := w.fs.Stat(path); err == nil {
		return w.ApplyChange(path, content)
	}

	if err := w.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", &ApplyError{Op: OpWrite, Path: path, Err: err}
	}
	if err := afero.WriteFile(w.fs, path, []byte(content), 0o644); err != nil {
		return "", &ApplyError{Op: OpWrite, Path: path, Err: err}
	}
	return "", nil
}

// ReadFile returns the content of path.
func (w *Writer) ReadFile(path string) (string, error) {
	data, err := afero.ReadFile(w.fs, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// copyFile copies src to dst byte for byte. A partial dst is removed.
func (w *Writer) copyFile(src, dst string, perm os.FileMode) error {
	in, err := w.fs.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := w.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		w.fs.Remove(dst)
		return fmt.Errorf("copying to %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		w.fs.Remove(dst)
		return fmt.Errorf("closing %s: %w", dst, err)
	}
	return nil
}
