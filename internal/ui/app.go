package ui

import (
	"fmt"
	"strings"
	"time"

	"protein/internal/config"
	"protein/internal/daykey"
	"protein/internal/notify"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const refreshInterval = time.Minute

// AppConfig holds configuration options for the app.
type AppConfig struct {
	Keys    *config.KeysConfig
	LogDays int
	Alerts  *notify.Alerts // nil disables notifications
}

// App is the tracker's single-pane model.
type App struct {
	tracker Tracker
	styles  *Styles
	config  *AppConfig
	keys    KeyMap
	help    help.Model

	state    state
	loaded   bool
	busy     bool // a toggle is in flight
	gen      int  // bumped when a toggle starts and when it lands
	width    int
	status   string
	quitting bool

	// day the reminder was last sent for; at most one per application day
	remindedFor daykey.Key
}

// NewApp creates a new application. Data loading is deferred to Init()
// to keep the constructor non-blocking.
func NewApp(tracker Tracker, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}
	if cfg.LogDays <= 0 {
		cfg.LogDays = 7
	}
	if styles == nil {
		styles = NewStylesFromTheme(nil)
	}
	return &App{
		tracker: tracker,
		styles:  styles,
		config:  cfg,
		keys:    NewKeyMap(cfg.Keys),
		help:    help.New(),
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		loadStateCmd(a.tracker, a.config.LogDays, a.gen),
		tickCmd(refreshInterval),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateLoadedMsg:
		if msg.gen != a.gen || a.busy {
			return a, nil
		}
		a.state = msg.state
		a.loaded = true
		return a, a.maybeRemind(time.Now())

	case toggledMsg:
		a.state = msg.state
		a.loaded = true
		a.busy = false
		a.gen++
		switch {
		case msg.err != nil:
			a.status = "Notification failed: " + msg.err.Error()
		case msg.done:
			a.status = "Nice! Logged for today."
		default:
			a.status = "Unmarked today."
		}
		return a, nil

	case reminderMsg:
		if msg.err != nil {
			a.status = "Reminder failed: " + msg.err.Error()
		}
		if msg.sent {
			a.remindedFor = msg.day
		}
		return a, nil

	case tickMsg:
		return a, tea.Batch(
			loadStateCmd(a.tracker, a.config.LogDays, a.gen),
			tickCmd(refreshInterval),
		)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			a.quitting = true
			return a, tea.Quit
		case key.Matches(msg, a.keys.Help):
			a.help.ShowAll = !a.help.ShowAll
			return a, nil
		case key.Matches(msg, a.keys.Toggle):
			if a.busy {
				return a, nil
			}
			a.busy = true
			a.gen++
			a.status = ""
			return a, toggleCmd(a.tracker, a.config.LogDays, a.config.Alerts)
		}
	}
	return a, nil
}

// maybeRemind returns a reminder command when one is due and has not been
// sent for the current day yet.
func (a *App) maybeRemind(now time.Time) tea.Cmd {
	alerts := a.config.Alerts
	if alerts == nil || !alerts.Enabled || a.remindedFor == a.state.today {
		return nil
	}
	if !notify.ReminderDue(now, alerts.Reminder, a.state.done) {
		return nil
	}
	// mark before the command runs so overlapping ticks do not double-send
	a.remindedFor = a.state.today
	return reminderCmd(alerts, now, a.state)
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	if !a.loaded {
		return a.styles.MutedStyle.Render("Loading...")
	}

	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n\n")

	var body strings.Builder
	body.WriteString(a.renderStatus())
	body.WriteString("\n\n")
	body.WriteString(a.renderStrip())
	b.WriteString(a.styles.PaneStyle.Render(body.String()))
	b.WriteString("\n")

	if a.status != "" {
		b.WriteString(a.styles.MutedStyle.Render(a.status))
		b.WriteString("\n")
	}
	b.WriteString(a.help.View(a.keys))
	return b.String()
}

func (a *App) renderHeader() string {
	date := a.state.today.Date(time.Local).Format("Monday, Jan 2")
	return a.styles.TitleStyle.Render("Protein") + " " + a.styles.DateStyle.Render(date)
}

func (a *App) renderStatus() string {
	var lines []string
	if a.state.done {
		lines = append(lines, a.styles.DoneStyle.Render(a.styles.DoneIcon+" Protein done for today"))
	} else {
		lines = append(lines, a.styles.PendingStyle.Render(a.styles.PendingIcon+" Not yet today"))
	}
	if a.state.quote != "" {
		lines = append(lines, a.styles.QuoteStyle.Render(a.state.quote))
	}

	switch {
	case a.state.streak > 1:
		lines = append(lines, a.styles.StreakStyle.Render(fmt.Sprintf("%d day streak", a.state.streak)))
	case a.state.streak == 1:
		lines = append(lines, a.styles.StreakStyle.Render("1 day streak"))
	default:
		lines = append(lines, a.styles.MutedStyle.Render("No streak yet"))
	}

	if a.state.last != nil {
		lines = append(lines, a.styles.MutedStyle.Render(
			fmt.Sprintf("Last drink: %s at %s", a.state.last.Date, a.state.last.Time)))
	}
	return strings.Join(lines, "\n")
}

// renderStrip draws the recent log oldest first, one column per day.
func (a *App) renderStrip() string {
	days := a.state.log
	labels := make([]string, 0, len(days))
	icons := make([]string, 0, len(days))
	for _, d := range days {
		labels = append(labels, a.styles.MutedStyle.Render(d.Day.Weekday().String()[:1]))
		if d.Completed {
			icons = append(icons, a.styles.DoneIcon)
		} else {
			icons = append(icons, a.styles.PendingIcon)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(labels, " "),
		strings.Join(icons, " "),
	)
}

// Run starts the Bubble Tea program with the given tracker, styles, and config.
func Run(tracker Tracker, styles *Styles, cfg *AppConfig) error {
	app := NewApp(tracker, styles, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
