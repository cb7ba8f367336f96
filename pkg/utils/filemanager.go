// =============================================================================
// Zotero to WXR Converter - File Manager Utility
// =============================================================================
//
// This module provides atomic file replacement for the converter.
//
// WRITE STRATEGY:
//   - Data is written to a uniquely named temporary file next to the target
//   - The temporary file is synced and closed, then renamed over the target
//   - On any failure the temporary file is removed and the target is left
//     exactly as it was (absent, or with its previous content)
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteFileAtomic writes data to path so that readers see either the old
// file or the complete new one, never a partial write.
//
// PARAMETERS:
//   - path: The destination file. Its directory must already exist.
//   - data: The complete file content.
//   - perm: Permission bits for a newly created file.
//
// RETURNS:
//   - An error if any step fails. The destination is untouched in that case.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temporary file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temporary file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temporary file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}

	return nil
}
