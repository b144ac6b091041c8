package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")

	if err := WriteFileAtomic(path, []byte(`{"a":1}`), 0600); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	if err := WriteFileAtomic(path, []byte(`{"a":2}`), 0600); err != nil {
		t.Fatalf("WriteFileAtomic() overwrite error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != `{"a":2}` {
		t.Errorf("content = %q, want %q", got, `{"a":2}`)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (temp files leaked)", len(entries))
	}
}

func TestReadWithBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "record.json")

	if _, _, err := ReadWithBackup(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("ReadWithBackup() on missing file error = %v, want ErrNotExist", err)
	}

	_ = WriteFileAtomic(path, []byte("first"), 0600)
	BestEffortBackup(path, 0600)
	_ = WriteFileAtomic(path, []byte("second"), 0600)

	data, fromBackup, err := ReadWithBackup(path)
	if err != nil || fromBackup || string(data) != "second" {
		t.Fatalf("ReadWithBackup() = %q, %v, %v; want second, false, nil", data, fromBackup, err)
	}

	_ = os.WriteFile(path, []byte("  \n"), 0600)
	data, fromBackup, err = ReadWithBackup(path)
	if err != nil || !fromBackup || string(data) != "first" {
		t.Fatalf("ReadWithBackup() blank file = %q, %v, %v; want first, true, nil", data, fromBackup, err)
	}
}
