package reports

import (
	"fmt"
	"time"

	"protein/internal/daykey"
	"protein/internal/storage"
)

// Source is the part of the daily-state store a report reads.
type Source interface {
	Today() daykey.Key
	ViewHistory() []daykey.Key
	IsCompletedToday() bool
	RecentLog(days int) []storage.DayStatus
	LastCompletion() (storage.TimestampEntry, bool)
}

// Generator builds summaries from a store.
type Generator struct {
	src Source
	now func() time.Time
}

// NewGenerator creates a report generator.
func NewGenerator(src Source) *Generator {
	return &Generator{src: src, now: time.Now}
}

// Generate summarizes the last days application days, ending today.
func (g *Generator) Generate(days int) (*Summary, error) {
	if days <= 0 {
		return nil, fmt.Errorf("report window must be positive, got %d", days)
	}

	today := g.src.Today()
	history := g.src.ViewHistory()
	log := g.src.RecentLog(days)

	done := 0
	for _, d := range log {
		if d.Completed {
			done++
		}
	}

	s := &Summary{
		Today:          today,
		CompletedToday: g.src.IsCompletedToday(),
		CurrentStreak:  storage.CurrentStreak(history, today),
		LongestStreak:  storage.LongestStreak(history),
		TotalDays:      len(history),
		Window:         days,
		WindowDone:     done,
		CompletionRate: float64(done) / float64(days),
		Days:           log,
		GeneratedAt:    g.now(),
	}
	if last, ok := g.src.LastCompletion(); ok {
		s.LastCompletion = &LastCompletion{Day: last.Date, Time: last.Time}
	}
	return s, nil
}
