// Package config handles configuration loading and defaults for the protein tracker.
// Configuration is loaded from XDG-compliant paths (typically ~/.config/protein/config.yaml).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"protein/internal/fsutil"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.protein)
	DataDir string `yaml:"data_dir,omitempty"`

	// Backend selects where the record is kept: file, sqlite or memory
	Backend string `yaml:"backend,omitempty"`

	// ResetHour is the local hour at which a new day begins (0-23)
	ResetHour int `yaml:"reset_hour"`

	// HistoryMaxDays bounds the number of completed days kept
	HistoryMaxDays int `yaml:"history_max_days,omitempty"`

	// LogDays is the length of the recent log shown by the UI and `log`
	LogDays int `yaml:"log_days,omitempty"`

	// Theme customizes the visual appearance
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	// Notifications configures desktop notifications
	Notifications NotificationConfig `yaml:"notifications,omitempty"`

	// Backup configures snapshot retention
	Backup BackupConfig `yaml:"backup"`
}

// NotificationConfig defines desktop notification settings.
type NotificationConfig struct {
	// Enabled enables/disables notifications
	Enabled bool `yaml:"enabled,omitempty"`

	// Reminder is the local time (HH:MM) after which an unfinished day is nagged about
	Reminder string `yaml:"reminder,omitempty"`

	// Sound enables notification sounds
	Sound bool `yaml:"sound,omitempty"`
}

// ThemeConfig defines color settings.
type ThemeConfig struct {
	// Primary color for the title bar (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty"`

	// Accent color for completed days (hex)
	Accent string `yaml:"accent,omitempty"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings, e.g. "q,ctrl+c".
type KeysConfig struct {
	Toggle string `yaml:"toggle,omitempty"` // default: "space,enter,d"
	Quit   string `yaml:"quit,omitempty"`   // default: "q,ctrl+c"
	Help   string `yaml:"help,omitempty"`   // default: "?"
}

// BackupConfig defines backup retention.
type BackupConfig struct {
	// Keep is how many snapshots survive `backup --prune`
	Keep int `yaml:"keep"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir:        defaultDataDir(),
		Backend:        "file",
		ResetHour:      2,
		HistoryMaxDays: 365,
		LogDays:        7,
		Theme: ThemeConfig{
			Primary: "#7C3AED", // Violet
			Accent:  "#10B981", // Emerald
			Muted:   "#6B7280", // Gray
		},
		Notifications: NotificationConfig{
			Enabled:  false,
			Reminder: "09:00",
			Sound:    false,
		},
		Backup: BackupConfig{Keep: 10},
	}
}

// defaultDataDir returns the default data directory path.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".protein"
	}
	return filepath.Join(home, ".protein")
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "protein")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "protein")
}

// Path returns the default config file location, or "" if it cannot be resolved.
func Path() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config from the default location, merging with defaults.
// If no config file exists, returns default configuration.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads configuration from path, merging with defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	cfg.mergeFromYAML(&userCfg, &doc)
	return cfg, nil
}

// mergeNonEmpty applies non-empty values from other to c.
// Booleans and values where zero is meaningful are left to mergeFromYAML.
func (c *Config) mergeNonEmpty(other *Config) {
	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}
	if other.Backend != "" {
		c.Backend = other.Backend
	}
	if other.HistoryMaxDays != 0 {
		c.HistoryMaxDays = other.HistoryMaxDays
	}
	if other.LogDays != 0 {
		c.LogDays = other.LogDays
	}

	if other.Theme.Primary != "" {
		c.Theme.Primary = other.Theme.Primary
	}
	if other.Theme.Accent != "" {
		c.Theme.Accent = other.Theme.Accent
	}
	if other.Theme.Muted != "" {
		c.Theme.Muted = other.Theme.Muted
	}

	if other.Keys.Toggle != "" {
		c.Keys.Toggle = other.Keys.Toggle
	}
	if other.Keys.Quit != "" {
		c.Keys.Quit = other.Keys.Quit
	}
	if other.Keys.Help != "" {
		c.Keys.Help = other.Keys.Help
	}

	if other.Notifications.Reminder != "" {
		c.Notifications.Reminder = other.Notifications.Reminder
	}
	if other.Backup.Keep != 0 {
		c.Backup.Keep = other.Backup.Keep
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	// Without a node tree, presence of zero values cannot be detected.
	if doc == nil || len(doc.Content) == 0 {
		return
	}

	if yamlHasPath(doc, "reset_hour") {
		c.ResetHour = other.ResetHour
	}
	if yamlHasPath(doc, "backup", "keep") {
		c.Backup.Keep = other.Backup.Keep
	}
	if yamlHasPath(doc, "notifications", "enabled") {
		c.Notifications.Enabled = other.Notifications.Enabled
	}
	if yamlHasPath(doc, "notifications", "sound") {
		c.Notifications.Sound = other.Notifications.Sound
	}
	if yamlHasPath(doc, "notifications", "reminder") {
		c.Notifications.Reminder = other.Notifications.Reminder
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	// Document -> root mapping.
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if k := n.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Validate checks every field, resets invalid ones to their defaults and
// returns all problems found joined into one error.
func (c *Config) Validate() error {
	def := Default()
	var errs []error

	switch c.Backend {
	case "file", "sqlite", "memory":
	default:
		errs = append(errs, fmt.Errorf("backend %q: want file, sqlite or memory", c.Backend))
		c.Backend = def.Backend
	}
	if c.ResetHour < 0 || c.ResetHour > 23 {
		errs = append(errs, fmt.Errorf("reset_hour %d: want 0-23", c.ResetHour))
		c.ResetHour = def.ResetHour
	}
	if c.HistoryMaxDays <= 0 {
		errs = append(errs, fmt.Errorf("history_max_days %d: must be positive", c.HistoryMaxDays))
		c.HistoryMaxDays = def.HistoryMaxDays
	}
	if c.LogDays <= 0 || c.LogDays > c.HistoryMaxDays {
		errs = append(errs, fmt.Errorf("log_days %d: want 1-%d", c.LogDays, c.HistoryMaxDays))
		c.LogDays = def.LogDays
	}
	if c.Notifications.Reminder != "" {
		if _, err := time.Parse("15:04", c.Notifications.Reminder); err != nil {
			errs = append(errs, fmt.Errorf("notifications.reminder %q: want HH:MM", c.Notifications.Reminder))
			c.Notifications.Reminder = def.Notifications.Reminder
		}
	}
	if c.Backup.Keep < 0 {
		errs = append(errs, fmt.Errorf("backup.keep %d: must not be negative", c.Backup.Keep))
		c.Backup.Keep = def.Backup.Keep
	}

	return errors.Join(errs...)
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the resolved data directory path.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	if c.DataDir == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return c.DataDir
	}
	if strings.HasPrefix(c.DataDir, "~/") || strings.HasPrefix(c.DataDir, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, c.DataDir[2:])
		}
	}
	return c.DataDir
}
