package fsutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode for newly written documents.
const DefaultFileMode os.FileMode = 0644

// WriteAtomic replaces path with content so that readers see either the old
// document or the new one, never a partial write. A zero mode means
// DefaultFileMode.
//
// Steps:
//  1. Create a temp file beside path, so the rename stays on one filesystem.
//  2. Write and fsync the content.
//  3. Close the temp file and apply mode.
//  4. Rename it over path.
//
// On error the temp file is removed and path is left untouched.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	// The ".tmp.*" suffix keeps leftovers from a crash out of discovery.
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	// Clean up unless the rename succeeded.
	done := false
	defer func() {
		if !done {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	// Flush to disk before the rename makes the content visible.
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	// CreateTemp uses 0600; widen it before the file becomes the document.
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	// Atomic on POSIX.
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	done = true
	return nil
}

// WriteIfChanged writes content atomically unless path already holds exactly
// that content. It reports whether the file was written. A missing file counts
// as changed.
func WriteIfChanged(ctx context.Context, path string, content []byte, mode os.FileMode) (bool, error) {
	existing, err := os.ReadFile(path)
	switch {
	// Identical bytes: leave the file and its mtime alone.
	case err == nil && bytes.Equal(existing, content):
		return false, nil
	// Unreadable for a reason other than absence.
	case err != nil && !os.IsNotExist(err):
		return false, classify(path, err)
	}

	if err := WriteAtomic(ctx, path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}
