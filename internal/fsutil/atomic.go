// Package fsutil holds the file primitives shared by the file backend and
// the config loader.
package fsutil

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// BackupSuffix is appended to a file name to form its last-known-good copy.
const BackupSuffix = ".bak"

// WriteFileAtomic replaces path with data via a synced temp file and rename.
//
// Windows cannot rename over an existing file, so there the destination is
// removed first and the replace is not atomic.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if err := writeAndSync(tmp, data, perm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}

	if err := replace(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s -> %s: %w", tmpPath, path, err)
	}
	syncDir(dir)
	return nil
}

func writeAndSync(f *os.File, data []byte, perm os.FileMode) error {
	if err := f.Chmod(perm); err != nil {
		return fmt.Errorf("chmod %s: %w", f.Name(), err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", f.Name(), err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("fsync %s: %w", f.Name(), err)
	}
	return nil
}

func replace(from, to string) error {
	err := os.Rename(from, to)
	if err == nil || runtime.GOOS != "windows" {
		return err
	}
	if _, statErr := os.Stat(to); statErr != nil {
		return err
	}
	if rmErr := os.Remove(to); rmErr != nil {
		return err
	}
	return os.Rename(from, to)
}

// BestEffortBackup copies the current contents of path to path+BackupSuffix.
// Failures are ignored; a missing or empty source leaves the old backup alone.
func BestEffortBackup(path string, perm os.FileMode) {
	data, err := os.ReadFile(path)
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return
	}
	_ = WriteFileAtomic(path+BackupSuffix, data, perm)
}

// ReadWithBackup returns the contents of path, or of its backup when path is
// missing or blank. The second result reports whether the backup was used.
// os.ErrNotExist is returned when neither file has content.
func ReadWithBackup(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, false, err
	}
	if err == nil && len(bytes.TrimSpace(data)) > 0 {
		return data, false, nil
	}

	bak, bakErr := os.ReadFile(path + BackupSuffix)
	if bakErr == nil && len(bytes.TrimSpace(bak)) > 0 {
		return bak, true, nil
	}
	if err == nil {
		// Present but blank with no usable backup.
		return data, false, nil
	}
	return nil, false, os.ErrNotExist
}

func syncDir(dir string) {
	f, err := os.Open(dir)
	if err != nil {
		return
	}
	defer f.Close()
	_ = f.Sync()
}
