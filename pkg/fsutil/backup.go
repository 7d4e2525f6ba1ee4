package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// BackupSuffix is appended to a document's path to name its backup.
const BackupSuffix = ".gomdmark.bak"

// BackupPath returns the sidecar backup path for path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// Backup copies path to its sidecar backup and returns the backup path.
// An existing backup is never overwritten, so the first backup keeps the
// content from before gomdmark ever touched the file. When path does not
// exist or a backup is already present, Backup returns "".
func Backup(ctx context.Context, path string) (string, error) {
	backupPath := BackupPath(path)

	if _, err := os.Stat(backupPath); err == nil {
		return "", nil
	} else if !os.IsNotExist(err) {
		return "", classify(backupPath, err)
	}

	content, snap, err := ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("backup: %w", err)
	}

	if err := WriteAtomic(ctx, backupPath, content, snap.Mode); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return backupPath, nil
}
