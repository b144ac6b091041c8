package ui

import (
	"testing"
	"time"

	"protein/internal/config"
	"protein/internal/kv"
	"protein/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// setupTest prepares the test environment for deterministic rendering.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestStorage creates a Storage over an in-memory backend pinned to noon
// on 2024-03-15.
func createTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	store := storage.New(kv.NewMemory(), nil)
	fixed := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)
	store.SetNowFunc(func() time.Time { return fixed })
	store.SetQuotePicker(func(int) int { return 0 })
	return store
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// loadedApp returns an App that already processed its initial state load.
func loadedApp(t *testing.T, store *storage.Storage, cfg *AppConfig) *App {
	t.Helper()
	app := NewApp(store, createTestStyles(), cfg)
	app.Update(loadStateCmd(store, app.config.LogDays, app.gen)())
	return app
}

// press sends a key to app and runs the resulting command, if any, feeding
// its message back into Update.
func press(t *testing.T, app *App, k string) tea.Cmd {
	t.Helper()
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	return cmd
}

// recordingNotifier captures sent notifications.
type recordingNotifier struct {
	titles []string
}

func (r *recordingNotifier) Send(title, message string) error {
	r.titles = append(r.titles, title)
	return nil
}

func (r *recordingNotifier) SendWithSound(title, message string) error {
	return r.Send(title, message)
}

func (r *recordingNotifier) IsSupported() bool { return true }
