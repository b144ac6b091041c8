package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"protein/internal/fsutil"
)

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600
)

// File stores each key as <key>.json in a directory, keeping a .bak copy of
// the previous value so a torn or emptied file can be recovered.
type File struct {
	dir string
}

// NewFile creates dir if needed and returns a File backend over it.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &File{dir: dir}, nil
}

// Dir returns the directory holding the files.
func (f *File) Dir() string {
	return f.dir
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Get returns the stored value, falling back to the backup copy when the
// primary file is missing or blank.
func (f *File) Get(key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	data, _, err := fsutil.ReadWithBackup(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, unavailable("read", key, err)
	}
	return data, nil
}

// Set atomically replaces the value for key.
func (f *File) Set(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, dataDirPerm); err != nil {
		return unavailable("write", key, err)
	}
	path := f.path(key)
	fsutil.BestEffortBackup(path, dataFilePerm)
	if err := fsutil.WriteFileAtomic(path, value, dataFilePerm); err != nil {
		return unavailable("write", key, err)
	}
	return nil
}

// Remove deletes the value and its backup. Removing a missing key is not an error.
func (f *File) Remove(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	path := f.path(key)
	for _, p := range []string{path, path + fsutil.BackupSuffix} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return unavailable("remove", key, err)
		}
	}
	return nil
}

// Close is a no-op.
func (f *File) Close() error {
	return nil
}
