// Package backup keeps timestamped snapshots of the persisted records.
// Snapshots are plain files under <data_dir>/backups, one directory per
// snapshot, independent of which backend holds the live data.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"protein/internal/fsutil"
	"protein/internal/kv"

	"github.com/google/uuid"
)

// Version constants for the backup format.
const (
	ManifestVersion = "2.0"
	ManifestFile    = "manifest.json"
	BackupsDir      = "backups"

	nameLayout = "2006-01-02_150405"
)

// Manager handles backup and restore operations.
type Manager struct {
	backend    kv.Backend
	keys       []string // record keys included in each snapshot
	backupDir  string
	appVersion string
	now        func() time.Time
	restorers  map[string]func(data []byte) error
}

// Manifest contains metadata about a backup.
type Manifest struct {
	ID         string         `json:"id"`
	Version    string         `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	AppVersion string         `json:"app_version"`
	Keys       []string       `json:"keys"`
	Stats      map[string]int `json:"stats"`
}

// BackupInfo contains summary information about a backup.
type BackupInfo struct {
	Name      string         // Directory name (2025-12-15_143022_042)
	Path      string         // Full path to backup directory
	ID        string         // Manifest ID, empty for snapshots without a manifest
	CreatedAt time.Time      // When the backup was created
	Stats     map[string]int // history/ledger counts per key
}

// NewManager creates a manager that snapshots keys from backend into dataDir/backups.
func NewManager(backend kv.Backend, dataDir, appVersion string, keys ...string) *Manager {
	return &Manager{
		backend:    backend,
		keys:       keys,
		backupDir:  filepath.Join(dataDir, BackupsDir),
		appVersion: appVersion,
		now:        time.Now,
	}
}

// SetRestorer routes restores of key through fn instead of writing the
// snapshot bytes to the backend directly.
func (m *Manager) SetRestorer(key string, fn func(data []byte) error) {
	if m.restorers == nil {
		m.restorers = make(map[string]func([]byte) error)
	}
	m.restorers[key] = fn
}

// Dir returns the directory holding the snapshots.
func (m *Manager) Dir() string {
	return m.backupDir
}

// Create snapshots every configured key that currently has a value.
// Returns the backup name (timestamp format) on success.
func (m *Manager) Create() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := m.now()
	name, backupPath, err := m.reserveName(now)
	if err != nil {
		return "", err
	}

	var saved []string
	stats := make(map[string]int)
	for _, key := range m.keys {
		data, err := m.backend.Get(key)
		if errors.Is(err, kv.ErrNotFound) {
			continue
		}
		if err != nil {
			_ = os.RemoveAll(backupPath)
			return "", fmt.Errorf("failed to read %s: %w", key, err)
		}

		if err := fsutil.WriteFileAtomic(filepath.Join(backupPath, key+".json"), data, 0600); err != nil {
			_ = os.RemoveAll(backupPath)
			return "", fmt.Errorf("failed to copy %s: %w", key, err)
		}
		saved = append(saved, key)
		countEntries(data, key, stats)
	}

	manifest := Manifest{
		ID:         uuid.NewString(),
		Version:    ManifestVersion,
		CreatedAt:  now,
		AppVersion: m.appVersion,
		Keys:       saved,
		Stats:      stats,
	}
	if err := writeJSON(filepath.Join(backupPath, ManifestFile), manifest); err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	return name, nil
}

// reserveName creates a fresh snapshot directory named after now, bumping the
// millisecond suffix if an earlier snapshot already took it.
func (m *Manager) reserveName(now time.Time) (string, string, error) {
	base := now.Format(nameLayout)
	ms := now.Nanosecond() / 1e6
	for i := 0; i < 1000; i++ {
		name := fmt.Sprintf("%s_%03d", base, (ms+i)%1000)
		path := filepath.Join(m.backupDir, name)
		err := os.Mkdir(path, 0700)
		if err == nil {
			return name, path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", fmt.Errorf("failed to create backup: %w", err)
		}
	}
	return "", "", fmt.Errorf("failed to create backup: too many snapshots at %s", base)
}

// List returns all available backups, sorted by creation time (newest first).
func (m *Manager) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := m.info(entry.Name())
		if err != nil {
			continue // Skip invalid backups
		}
		backups = append(backups, *info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// GetBackup returns information about a specific backup.
func (m *Manager) GetBackup(name string) (*BackupInfo, error) {
	if err := validateBackupName(name); err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(m.backupDir, name)); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("backup not found: %s", name)
	}
	return m.info(name)
}

func (m *Manager) info(name string) (*BackupInfo, error) {
	backupPath := filepath.Join(m.backupDir, name)

	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		createdAt, parseErr := parseBackupName(name)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid backup: %s", name)
		}
		manifest.CreatedAt = createdAt
		manifest.Stats = make(map[string]int)
	}

	return &BackupInfo{
		Name:      name,
		Path:      backupPath,
		ID:        manifest.ID,
		CreatedAt: manifest.CreatedAt,
		Stats:     manifest.Stats,
	}, nil
}

// Restore writes a snapshot back into the backend.
// It creates a safety backup of the current data before restoring.
func (m *Manager) Restore(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}

	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("backup not found: %s", name)
	}

	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		// Fall back to the configured keys if the manifest is missing
		manifest.Keys = m.keys
	}

	// Read and validate everything before touching live data.
	restored := make(map[string][]byte, len(manifest.Keys))
	for _, key := range manifest.Keys {
		data, err := os.ReadFile(filepath.Join(backupPath, key+".json"))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s from backup: %w", key, err)
		}
		if !json.Valid(data) {
			return fmt.Errorf("backup %s: %s is not valid JSON", name, key)
		}
		restored[key] = data
	}

	safetyName, err := m.Create()
	if err != nil {
		return fmt.Errorf("failed to create safety backup: %w", err)
	}

	for _, key := range manifest.Keys {
		data, ok := restored[key]
		if !ok {
			continue
		}
		write := func(data []byte) error { return m.backend.Set(key, data) }
		if fn, ok := m.restorers[key]; ok {
			write = fn
		}
		if err := write(data); err != nil {
			return fmt.Errorf("failed to restore %s (safety backup: %s): %w", key, safetyName, err)
		}
	}
	return nil
}

// RestoreLatest restores from the most recent backup.
func (m *Manager) RestoreLatest() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups available")
	}
	return m.Restore(backups[0].Name)
}

// Delete removes a specific backup.
func (m *Manager) Delete(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}

	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("backup not found: %s", name)
	}
	return os.RemoveAll(backupPath)
}

// Prune removes old backups, keeping only the N most recent.
func (m *Manager) Prune(keepCount int) (int, error) {
	if keepCount < 0 {
		return 0, fmt.Errorf("keepCount must be non-negative")
	}

	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keepCount {
		return 0, nil
	}

	deleted := 0
	for _, b := range backups[keepCount:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func validateBackupName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseBackupName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// countEntries records the lengths of the array fields of a record document.
func countEntries(data []byte, key string, stats map[string]int) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return
	}
	for field, raw := range doc {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			stats[key+"."+field] = len(items)
		}
	}
}

// parseBackupName parses a backup directory name (2006-01-02_150405_XXX) into a timestamp.
func parseBackupName(name string) (time.Time, error) {
	if len(name) != len(nameLayout)+4 || name[len(nameLayout)] != '_' {
		return time.Time{}, fmt.Errorf("invalid backup format")
	}
	base, err := time.ParseInLocation(nameLayout, name[:len(nameLayout)], time.Local)
	if err != nil {
		return time.Time{}, err
	}
	ms, err := strconv.Atoi(name[len(nameLayout)+1:])
	if err != nil || ms < 0 || ms > 999 {
		return time.Time{}, fmt.Errorf("invalid milliseconds")
	}
	return base.Add(time.Duration(ms) * time.Millisecond), nil
}
