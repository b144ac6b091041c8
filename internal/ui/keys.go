package ui

import (
	"strings"

	"protein/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if strings.TrimSpace(customKeys) == "" {
		return defaultKeys
	}
	parts := strings.Split(customKeys, ",")
	result := make([]string, 0, len(parts))
	for _, k := range parts {
		k = strings.TrimSpace(k)
		if k == "space" {
			k = " "
		}
		if k != "" {
			result = append(result, k)
		}
	}
	return result
}

// KeyMap defines the tracker's key bindings.
type KeyMap struct {
	Toggle key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// NewKeyMap creates key bindings from config.
func NewKeyMap(cfg *config.KeysConfig) KeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Toggle, " ", "enter", "d")...),
			key.WithHelp("space", "toggle today"),
		),
		Help: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Help, "?")...),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Quit, "q", "ctrl+c")...),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Toggle}, {k.Help, k.Quit}}
}
