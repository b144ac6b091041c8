// Package notify sends desktop notifications through the platform's command
// line tool: notify-send on Linux and osascript on macOS. Other platforms get
// a notifier that does nothing.
package notify

import (
	"fmt"
	"os/exec"
	"time"
)

// Notifier defines the interface for sending desktop notifications.
type Notifier interface {
	// Send sends a notification with the given title and message.
	Send(title, message string) error

	// SendWithSound sends a notification with sound.
	SendWithSound(title, message string) error

	// IsSupported returns true if notifications are supported on this platform.
	IsSupported() bool
}

// commandFunc builds the command line for one notification.
type commandFunc func(title, message string, sound bool) (string, []string)

// execNotifier runs a platform command per notification.
type execNotifier struct {
	tool    string
	command commandFunc
	run     func(name string, args ...string) error
}

func runCommand(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (n *execNotifier) Send(title, message string) error {
	return n.send(title, message, false)
}

func (n *execNotifier) SendWithSound(title, message string) error {
	return n.send(title, message, true)
}

func (n *execNotifier) IsSupported() bool {
	if n.tool == "" {
		return false
	}
	_, err := exec.LookPath(n.tool)
	return err == nil
}

func (n *execNotifier) send(title, message string, sound bool) error {
	if n.command == nil {
		return nil
	}
	name, args := n.command(title, message, sound)
	if err := n.run(name, args...); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

type noopNotifier struct{}

func (noopNotifier) Send(title, message string) error          { return nil }
func (noopNotifier) SendWithSound(title, message string) error { return nil }
func (noopNotifier) IsSupported() bool                         { return false }

// New creates a platform-specific notifier.
// Returns a no-op notifier if the platform tool is not installed.
func New() Notifier {
	n := &execNotifier{tool: platformTool, command: platformCommand, run: runCommand}
	if !n.IsSupported() {
		return noopNotifier{}
	}
	return n
}

// Alerts decides which habit notifications to send.
type Alerts struct {
	Notifier Notifier
	Enabled  bool
	Sound    bool
	Reminder string // HH:MM; empty disables reminders
}

func (a *Alerts) send(title, message string) error {
	if !a.Enabled || a.Notifier == nil {
		return nil
	}
	if a.Sound {
		return a.Notifier.SendWithSound(title, message)
	}
	return a.Notifier.Send(title, message)
}

// Tracked confirms a completion.
func (a *Alerts) Tracked(streak int) error {
	msg := "Great job! You've logged your protein drink today."
	if streak > 1 {
		msg = fmt.Sprintf("Great job! That's a %d day streak.", streak)
	}
	return a.send("Protein tracked", msg)
}

// Remind sends the daily reminder if ReminderDue says so. It reports whether
// a notification was sent.
func (a *Alerts) Remind(now time.Time, completed bool) (bool, error) {
	if !a.Enabled || !ReminderDue(now, a.Reminder, completed) {
		return false, nil
	}
	return true, a.send("Protein reminder", "You haven't had your protein yet today.")
}

// ReminderDue reports whether the reminder time has passed today and the
// habit is still not done. An empty or malformed reminder never fires.
func ReminderDue(now time.Time, reminder string, completed bool) bool {
	if completed || reminder == "" {
		return false
	}
	at, err := time.Parse("15:04", reminder)
	if err != nil {
		return false
	}
	due := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
	return !now.Before(due)
}
