// Package storage owns the persisted daily record: today's flag, the
// completion history and the timestamp ledger. It is the only writer of the
// record; callers read derived values (status, history, streak, recent log)
// through it rather than decoding the record themselves.
//
// Storage failures are never returned from the day-to-day operations. A
// failed read behaves like an empty record and a failed write is dropped
// after being logged, so the caller always gets an answer.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"protein/internal/daykey"
	"protein/internal/kv"

	"go.uber.org/zap"
)

// StorageKey is the fixed key the record is stored under.
const StorageKey = "proteinDrinkTracker"

const (
	// DefaultHistoryLimit bounds how many completed days are kept.
	DefaultHistoryLimit = 365

	// DefaultLogDays is the window of RecentLog when callers have no preference.
	DefaultLogDays = 7

	defaultTimeLayout = "15:04:05"
)

// Storage is the daily-state store.
type Storage struct {
	mu sync.Mutex

	backend      kv.Backend
	logger       *zap.Logger
	now          func() time.Time // injectable clock for deterministic tests
	formatTime   func(time.Time) string
	resetHour    int
	historyLimit int
	onChange     func(day daykey.Key, completed bool)
	pickQuote    func(n int) int
}

// New creates a Storage over backend. A nil logger disables logging.
func New(backend kv.Backend, logger *zap.Logger) *Storage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Storage{
		backend:      backend,
		logger:       logger,
		now:          time.Now,
		formatTime:   func(t time.Time) string { return t.Format(defaultTimeLayout) },
		resetHour:    daykey.DefaultResetHour,
		historyLimit: DefaultHistoryLimit,
		pickQuote:    rand.IntN,
	}
}

// SetNowFunc overrides the clock used to resolve today and stamp completions.
// Passing nil resets it to time.Now.
func (s *Storage) SetNowFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// SetTimeFormatter overrides how completion times are written to the ledger.
// Passing nil restores the HH:MM:SS default.
func (s *Storage) SetTimeFormatter(format func(time.Time) string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if format == nil {
		format = func(t time.Time) string { return t.Format(defaultTimeLayout) }
	}
	s.formatTime = format
}

// SetResetHour sets the local hour (0-23) at which a new day begins.
func (s *Storage) SetResetHour(hour int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("reset hour %d out of range 0-23", hour)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetHour = hour
	return nil
}

// SetHistoryLimit sets how many completed days survive a write.
func (s *Storage) SetHistoryLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("history limit must be positive, got %d", limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.historyLimit = limit
	return nil
}

// SetOnChange registers a callback run after SetCompleted persists a change.
// It is not called when the write was dropped.
func (s *Storage) SetOnChange(fn func(day daykey.Key, completed bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Now returns the current time according to the storage clock.
func (s *Storage) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now()
}

// Today returns the current application day.
func (s *Storage) Today() daykey.Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.today()
}

func (s *Storage) today() daykey.Key {
	return daykey.Current(s.now(), s.resetHour)
}

// ============================================================================
// Record I/O
// ============================================================================

// readRecord loads the record. Missing or undecodable data yields an empty
// record; only backend failures are returned.
func (s *Storage) readRecord() (Record, error) {
	data, err := s.backend.Get(StorageKey)
	if errors.Is(err, kv.ErrNotFound) {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, err
	}

	rec, skipped, err := decodeRecord(data)
	if err != nil {
		s.logger.Warn("stored record is not valid JSON; starting empty", zap.Error(err))
		return Record{}, nil
	}
	if len(skipped) > 0 {
		s.logger.Warn("skipped malformed day keys in stored record", zap.Strings("keys", skipped))
	}
	return rec, nil
}

// load is readRecord with backend failures recovered as an empty record.
func (s *Storage) load() Record {
	rec, err := s.readRecord()
	if err != nil {
		s.logger.Warn("record read failed; using empty record", zap.Error(err))
		return Record{}
	}
	return rec
}

// writeRecord trims history and persists rec.
func (s *Storage) writeRecord(rec Record) error {
	if over := len(rec.History) - s.historyLimit; over > 0 {
		rec.History = rec.History[over:]
	}
	data, err := json.Marshal(rec.document())
	if err != nil {
		return fmt.Errorf("serialize record: %w", err)
	}
	return s.backend.Set(StorageKey, data)
}

// save is writeRecord with failures logged and dropped.
func (s *Storage) save(rec Record) bool {
	if err := s.writeRecord(rec); err != nil {
		s.logger.Warn("record write failed; change kept in memory only", zap.Error(err))
		return false
	}
	return true
}

// reconcile folds today's live flag into history. It reports whether the
// history changed.
func reconcile(rec Record, today daykey.Key) (Record, bool) {
	if rec.DayKey != today {
		return rec, false
	}
	has := containsDay(rec.History, today)
	switch {
	case rec.Drank && !has:
		rec.History = append(append([]daykey.Key(nil), rec.History...), today)
		return rec, true
	case !rec.Drank && has:
		rec.History = removeDay(rec.History, today)
		return rec, true
	}
	return rec, false
}

// ============================================================================
// Operations
// ============================================================================

// IsCompletedToday reports whether the habit is done for the current
// application day. A flag stored for an earlier day counts as not done.
func (s *Storage) IsCompletedToday() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completedToday(s.load(), s.today())
}

func (s *Storage) completedToday(rec Record, today daykey.Key) bool {
	return rec.DayKey == today && rec.Drank
}

// History returns the completed days, oldest first. It first reconciles
// today's flag into the stored history and persists the correction.
func (s *Storage) History() []daykey.Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history()
}

func (s *Storage) history() []daykey.Key {
	rec, changed := reconcile(s.load(), s.today())
	if changed {
		s.save(rec)
	}
	return append(make([]daykey.Key, 0, len(rec.History)), rec.History...)
}

// ViewHistory is History without the write: the reconciled view is computed
// but the stored record is left untouched.
func (s *Storage) ViewHistory() []daykey.Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, _ := reconcile(s.load(), s.today())
	return append(make([]daykey.Key, 0, len(rec.History)), rec.History...)
}

// Reconcile persists the reconciliation of today's flag into history.
// Unlike the read paths it reports storage failures.
func (s *Storage) Reconcile() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.readRecord()
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}
	rec, changed := reconcile(rec, s.today())
	if !changed {
		return nil
	}
	if err := s.writeRecord(rec); err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}
	return nil
}

// SetCompleted records whether the habit is done today. Marking done adds
// today to history and replaces today's ledger entry with the current time;
// marking not done removes both. Repeating a call leaves the same state.
func (s *Storage) SetCompleted(done bool) {
	s.mu.Lock()
	today, ok := s.setCompleted(done)
	fn := s.onChange
	s.mu.Unlock()

	if ok && fn != nil {
		fn(today, done)
	}
}

func (s *Storage) setCompleted(done bool) (daykey.Key, bool) {
	now := s.now()
	today := daykey.Current(now, s.resetHour)
	rec := s.load()

	if done {
		if !containsDay(rec.History, today) {
			rec.History = append(rec.History, today)
		}
		rec.Timestamps = append(withoutDay(rec.Timestamps, today), TimestampEntry{
			Date: today,
			Time: s.formatTime(now),
		})
	} else {
		rec.History = removeDay(rec.History, today)
		rec.Timestamps = withoutDay(rec.Timestamps, today)
	}
	rec.DayKey = today
	rec.Drank = done

	return today, s.save(rec)
}

// Toggle flips today's completion and returns the new value.
func (s *Storage) Toggle() bool {
	s.mu.Lock()
	next := !s.completedToday(s.load(), s.today())
	today, ok := s.setCompleted(next)
	fn := s.onChange
	s.mu.Unlock()

	if ok && fn != nil {
		fn(today, next)
	}
	return next
}

// Streak returns how many consecutive days up to and including today are
// completed. It is 0 when today is not completed. Like History, it persists
// the reconciliation of today's flag.
func (s *Storage) Streak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CurrentStreak(s.history(), s.today())
}

// RecentLog returns the last days application days, oldest first and ending
// with today. It never writes to the store.
func (s *Storage) RecentLog(days int) []DayStatus {
	if days <= 0 {
		return []DayStatus{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	rec := s.load()
	doneToday := s.completedToday(rec, today)
	done := make(map[daykey.Key]struct{}, len(rec.History))
	for _, k := range rec.History {
		done[k] = struct{}{}
	}

	out := make([]DayStatus, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.Offset(i)
		_, completed := done[day]
		out = append(out, DayStatus{Day: day, Completed: completed || (day == today && doneToday)})
	}
	return out
}

// LastCompletion returns the most recent ledger entry, if any.
func (s *Storage) LastCompletion() (TimestampEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.load()
	if len(rec.Timestamps) == 0 {
		return TimestampEntry{}, false
	}
	return rec.Timestamps[len(rec.Timestamps)-1], true
}

// Import replaces the stored record with data, a document in the stored
// layout. It goes through the same decoding and history trim as every other
// write, and unlike the tracking operations it reports failures.
func (s *Storage) Import(data []byte) error {
	rec, skipped, err := decodeRecord(data)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if len(skipped) > 0 {
		s.logger.Warn("skipped malformed day keys in imported record", zap.Strings("keys", skipped))
	}
	sort.Slice(rec.History, func(i, j int) bool { return rec.History[i].Before(rec.History[j]) })

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeRecord(rec); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return nil
}

// Record returns a copy of the stored record without reconciling it.
func (s *Storage) Record() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.load()
	rec.History = append([]daykey.Key(nil), rec.History...)
	rec.Timestamps = append([]TimestampEntry(nil), rec.Timestamps...)
	return rec
}
