// Package reports summarizes the tracked habit for export.
// Reports are read-only views; generating one never writes to the store.
package reports

import (
	"time"

	"protein/internal/daykey"
	"protein/internal/storage"
)

// Summary is a point-in-time report of the tracked habit.
type Summary struct {
	Today          daykey.Key          `json:"today"`
	CompletedToday bool                `json:"completed_today"`
	CurrentStreak  int                 `json:"current_streak"`
	LongestStreak  int                 `json:"longest_streak"`
	TotalDays      int                 `json:"total_days"` // completed days kept in history
	Window         int                 `json:"window_days"`
	WindowDone     int                 `json:"window_completed"`
	CompletionRate float64             `json:"completion_rate"` // WindowDone / Window, 0-1
	LastCompletion *LastCompletion     `json:"last_completion,omitempty"`
	Days           []storage.DayStatus `json:"days"` // oldest first
	GeneratedAt    time.Time           `json:"generated_at"`
}

// LastCompletion is the latest ledger entry.
type LastCompletion struct {
	Day  daykey.Key `json:"day"`
	Time string     `json:"time"`
}
