package reports

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"protein/internal/kv"
	"protein/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, doc string) (*storage.Storage, *kv.Memory) {
	t.Helper()
	backend := kv.NewMemory()
	if doc != "" {
		require.NoError(t, backend.Set(storage.StorageKey, []byte(doc)))
	}
	store := storage.New(backend, nil)
	store.SetNowFunc(func() time.Time { return time.Date(2024, 5, 10, 20, 0, 0, 0, time.Local) })
	return store, backend
}

func TestGenerate(t *testing.T) {
	store, backend := newTestStore(t, `{
		"dayKey":"2024-05-10","drank":true,
		"drinkTimestamps":[{"date":"2024-05-10","time":"07:45:00"}],
		"history":["2024-04-01","2024-04-02","2024-04-03","2024-04-04","2024-05-08","2024-05-09"]}`)
	writes := backend.Writes()

	s, err := NewGenerator(store).Generate(7)
	require.NoError(t, err)

	assert.Equal(t, "2024-05-10", s.Today.String())
	assert.True(t, s.CompletedToday)
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 4, s.LongestStreak)
	assert.Equal(t, 7, s.TotalDays)
	assert.Equal(t, 3, s.WindowDone)
	assert.InDelta(t, 3.0/7.0, s.CompletionRate, 1e-9)
	require.NotNil(t, s.LastCompletion)
	assert.Equal(t, "07:45:00", s.LastCompletion.Time)
	require.Len(t, s.Days, 7)
	assert.Equal(t, "2024-05-04", s.Days[0].Day.String())

	assert.Equal(t, writes, backend.Writes(), "report generation must not write")
}

func TestGenerate_InvalidWindow(t *testing.T) {
	store, _ := newTestStore(t, "")
	_, err := NewGenerator(store).Generate(0)
	assert.Error(t, err)
}

func TestFormatMarkdown(t *testing.T) {
	store, _ := newTestStore(t, `{"dayKey":"2024-05-10","drank":false,"drinkTimestamps":[],"history":["2024-05-09"]}`)
	s, err := NewGenerator(store).Generate(3)
	require.NoError(t, err)

	md := FormatMarkdown(s)
	assert.Contains(t, md, "# Protein report for 2024-05-10")
	assert.Contains(t, md, "- **Today:** not yet")
	assert.Contains(t, md, "- **Current streak:** 0 days")
	assert.Contains(t, md, "- **Longest streak:** 1 day\n")
	assert.Contains(t, md, "| Thu | 2024-05-09 | x |")
	assert.Contains(t, md, "| Fri | 2024-05-10 |   |")
	assert.NotContains(t, md, "Last completed")
	assert.Equal(t, 3, strings.Count(md, "| 2024-05-"))
}

func TestFormatJSON(t *testing.T) {
	store, _ := newTestStore(t, "")
	s, err := NewGenerator(store).Generate(7)
	require.NoError(t, err)

	data, err := FormatJSON(s)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "2024-05-10", out["today"])
	assert.Equal(t, float64(0), out["current_streak"])
	assert.NotContains(t, out, "last_completion")
	assert.Len(t, out["days"], 7)
}
