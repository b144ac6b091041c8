package storage

import (
	"testing"
	"time"

	"protein/internal/daykey"
)

// sequence returns a picker yielding picks in order.
func sequence(picks ...int) func(int) int {
	return func(n int) int {
		p := picks[0]
		picks = picks[1:]
		return p
	}
}

func TestDailyQuote_StableUntilReset(t *testing.T) {
	store, backend, clock := createTestStorage(t, at(2024, 3, 15, 1, 0))
	store.SetQuotePicker(sequence(1, 2))

	if got := store.DailyQuote(); got != Quotes[1] {
		t.Fatalf("DailyQuote() = %q, want %q", got, Quotes[1])
	}
	clock.t = at(2024, 3, 15, 1, 59)
	if got := store.DailyQuote(); got != Quotes[1] {
		t.Errorf("DailyQuote() before reset = %q, want %q", got, Quotes[1])
	}

	clock.t = at(2024, 3, 15, 2, 0)
	if got := store.DailyQuote(); got != Quotes[2] {
		t.Errorf("DailyQuote() after reset = %q, want %q", got, Quotes[2])
	}
	clock.t = at(2024, 3, 15, 23, 0)
	if got := store.DailyQuote(); got != Quotes[2] {
		t.Errorf("DailyQuote() later that day = %q, want %q", got, Quotes[2])
	}

	data, err := backend.Get(QuoteKey)
	if err != nil {
		t.Fatalf("Get(%s) error = %v", QuoteKey, err)
	}
	if want := `{"dayKey":"2024-03-15","index":2}`; string(data) != want {
		t.Errorf("stored quote = %s, want %s", data, want)
	}
}

func TestDailyQuote_SurvivesReopen(t *testing.T) {
	store, backend, _ := createTestStorage(t, at(2024, 3, 15, 9, 0))
	store.SetQuotePicker(sequence(4))
	first := store.DailyQuote()

	reopened := New(backend, nil)
	reopened.SetNowFunc(func() time.Time { return at(2024, 3, 15, 20, 0) })
	reopened.SetQuotePicker(func(int) int {
		t.Error("picked a new quote although today's is stored")
		return 0
	})
	if got := reopened.DailyQuote(); got != first {
		t.Errorf("DailyQuote() after reopen = %q, want %q", got, first)
	}
}

func TestDailyQuote_RerollsBadStoredValue(t *testing.T) {
	today := daykey.Current(at(2024, 3, 15, 9, 0), daykey.DefaultResetHour).String()
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `2024-03-15-3`},
		{"index out of range", `{"dayKey":"` + today + `","index":99}`},
		{"negative index", `{"dayKey":"` + today + `","index":-1}`},
		{"bad day", `{"dayKey":"someday","index":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, backend, _ := createTestStorage(t, at(2024, 3, 15, 9, 0))
			if err := backend.Set(QuoteKey, []byte(tt.doc)); err != nil {
				t.Fatal(err)
			}
			store.SetQuotePicker(sequence(5))
			if got := store.DailyQuote(); got != Quotes[5] {
				t.Errorf("DailyQuote() = %q, want %q", got, Quotes[5])
			}
		})
	}
}

func TestDailyQuote_BackendFailures(t *testing.T) {
	store, backend, _ := createTestStorage(t, at(2024, 3, 15, 9, 0))
	backend.FailReads(true)
	backend.FailWrites(true)
	store.SetQuotePicker(func(int) int { return 42 })

	if got := store.DailyQuote(); got != Quotes[0] {
		t.Errorf("DailyQuote() = %q, want out-of-range pick clamped to %q", got, Quotes[0])
	}
}
