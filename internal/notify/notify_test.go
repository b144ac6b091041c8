package notify

import (
	"errors"
	"os"
	"runtime"
	"testing"
	"time"
)

// recorder captures notifications instead of displaying them.
type recorder struct {
	sent  []string
	sound []bool
	err   error
}

func (r *recorder) Send(title, message string) error {
	r.sent = append(r.sent, title+": "+message)
	r.sound = append(r.sound, false)
	return r.err
}

func (r *recorder) SendWithSound(title, message string) error {
	r.sent = append(r.sent, title+": "+message)
	r.sound = append(r.sound, true)
	return r.err
}

func (r *recorder) IsSupported() bool { return true }

func TestNew(t *testing.T) {
	n := New()
	if n == nil {
		t.Fatal("New() returned nil")
	}
	if runtime.GOOS != "darwin" && runtime.GOOS != "linux" && n.IsSupported() {
		t.Errorf("IsSupported() should be false on %s", runtime.GOOS)
	}
}

// TestSend actually displays a notification.
func TestSend(t *testing.T) {
	if os.Getenv("RUN_NOTIFY_TESTS") != "1" {
		t.Skip("Skipping manual notification test (set RUN_NOTIFY_TESTS=1 to enable)")
	}
	n := New()
	if !n.IsSupported() {
		t.Skip("Notifications not supported on this platform")
	}
	if err := n.Send("protein test", "This is a test notification"); err != nil {
		t.Errorf("Send() error: %v", err)
	}
}

func TestExecNotifier(t *testing.T) {
	var gotName string
	var gotArgs []string
	n := &execNotifier{
		tool: "tool",
		command: func(title, message string, sound bool) (string, []string) {
			return "tool", []string{title, message}
		},
		run: func(name string, args ...string) error {
			gotName, gotArgs = name, args
			return nil
		},
	}
	if err := n.Send("Title", "Body"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if gotName != "tool" || len(gotArgs) != 2 || gotArgs[0] != "Title" || gotArgs[1] != "Body" {
		t.Errorf("ran %s %v", gotName, gotArgs)
	}

	n.run = func(string, ...string) error { return errors.New("boom") }
	if err := n.Send("Title", "Body"); err == nil {
		t.Error("Send() expected error when the command fails")
	}
}

func TestAlerts_Tracked(t *testing.T) {
	r := &recorder{}
	a := &Alerts{Notifier: r}

	if err := a.Tracked(1); err != nil || len(r.sent) != 0 {
		t.Fatalf("disabled alerts sent %v (err %v)", r.sent, err)
	}

	a.Enabled = true
	a.Sound = true
	_ = a.Tracked(1)
	_ = a.Tracked(5)
	if len(r.sent) != 2 {
		t.Fatalf("sent %d notifications, want 2", len(r.sent))
	}
	if r.sent[0] != "Protein tracked: Great job! You've logged your protein drink today." {
		t.Errorf("first notification = %q", r.sent[0])
	}
	if r.sent[1] != "Protein tracked: Great job! That's a 5 day streak." {
		t.Errorf("second notification = %q", r.sent[1])
	}
	if !r.sound[0] {
		t.Error("expected sound notification")
	}
}

func TestReminderDue(t *testing.T) {
	morning := time.Date(2024, 5, 10, 8, 59, 0, 0, time.Local)
	nine := time.Date(2024, 5, 10, 9, 0, 0, 0, time.Local)

	tests := []struct {
		name      string
		now       time.Time
		reminder  string
		completed bool
		want      bool
	}{
		{"before reminder", morning, "09:00", false, false},
		{"at reminder", nine, "09:00", false, true},
		{"after reminder but done", nine, "09:00", true, false},
		{"disabled", nine, "", false, false},
		{"malformed", nine, "nine", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReminderDue(tt.now, tt.reminder, tt.completed); got != tt.want {
				t.Errorf("ReminderDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAlerts_Remind(t *testing.T) {
	r := &recorder{}
	a := &Alerts{Notifier: r, Enabled: true, Reminder: "09:00"}

	sent, err := a.Remind(time.Date(2024, 5, 10, 10, 0, 0, 0, time.Local), false)
	if err != nil || !sent {
		t.Fatalf("Remind() = %v, %v; want true, nil", sent, err)
	}
	sent, _ = a.Remind(time.Date(2024, 5, 10, 10, 0, 0, 0, time.Local), true)
	if sent {
		t.Error("Remind() sent although the habit is done")
	}
}
