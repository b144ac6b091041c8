// Package ui provides the terminal interface for the protein tracker.
// This file defines the messages and commands used to reach storage from the
// Bubble Tea event loop. Storage calls run inside commands so Update never blocks.
package ui

import (
	"time"

	"protein/internal/daykey"
	"protein/internal/notify"
	"protein/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
)

// Tracker is the daily-state store as seen by the UI.
type Tracker interface {
	Today() daykey.Key
	IsCompletedToday() bool
	Toggle() bool
	Streak() int
	RecentLog(days int) []storage.DayStatus
	LastCompletion() (storage.TimestampEntry, bool)
	DailyQuote() string
}

// state is everything the view renders.
type state struct {
	today  daykey.Key
	done   bool
	streak int
	log    []storage.DayStatus
	last   *storage.TimestampEntry
	quote  string
}

func loadState(t Tracker, days int) state {
	st := state{
		today:  t.Today(),
		done:   t.IsCompletedToday(),
		streak: t.Streak(),
		log:    t.RecentLog(days),
		quote:  t.DailyQuote(),
	}
	if last, ok := t.LastCompletion(); ok {
		st.last = &last
	}
	return st
}

// stateLoadedMsg carries freshly read state. gen is the toggle generation the
// load was issued in; loads that lost a race with a toggle are discarded.
type stateLoadedMsg struct {
	state state
	gen   int
}

// toggledMsg is sent after a toggle was applied.
type toggledMsg struct {
	done  bool
	state state
	err   error // notification failure; the toggle itself cannot fail
}

// tickMsg is sent every minute so rollover at the reset hour is picked up.
type tickMsg time.Time

// reminderMsg reports the outcome of a reminder check.
type reminderMsg struct {
	day  daykey.Key
	sent bool
	err  error
}

func loadStateCmd(t Tracker, days, gen int) tea.Cmd {
	return func() tea.Msg {
		return stateLoadedMsg{state: loadState(t, days), gen: gen}
	}
}

func toggleCmd(t Tracker, days int, alerts *notify.Alerts) tea.Cmd {
	return func() tea.Msg {
		done := t.Toggle()
		st := loadState(t, days)
		var err error
		if done && alerts != nil {
			err = alerts.Tracked(st.streak)
		}
		return toggledMsg{done: done, state: st, err: err}
	}
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func reminderCmd(alerts *notify.Alerts, now time.Time, st state) tea.Cmd {
	return func() tea.Msg {
		sent, err := alerts.Remind(now, st.done)
		return reminderMsg{day: st.today, sent: sent, err: err}
	}
}
