// Package daykey defines the application day used for habit tracking.
//
// An application day starts at a configurable reset hour (2am by default) and
// runs until just before the reset hour on the next calendar day. Times before
// the reset hour belong to the previous calendar date.
package daykey

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the textual form of a Key.
const Layout = "2006-01-02"

// DefaultResetHour is the local hour at which a new application day begins.
const DefaultResetHour = 2

// ErrMalformedKey is returned when a string is not a valid YYYY-MM-DD date.
var ErrMalformedKey = errors.New("malformed day key")

// Key identifies one application day by its calendar date.
// The zero Key is invalid and reports IsZero.
type Key struct {
	year  int
	month time.Month
	day   int
}

// Current returns the application day containing now.
func Current(now time.Time, resetHour int) Key {
	y, m, d := now.Date()
	if now.Hour() < resetHour {
		d--
	}
	// Local midnight may not exist on a DST switch day; noon UTC always does.
	return FromDate(time.Date(y, m, d, 12, 0, 0, 0, time.UTC))
}

// FromDate returns the Key for t's calendar date, ignoring the time of day.
func FromDate(t time.Time) Key {
	y, m, d := t.Date()
	return Key{year: y, month: m, day: d}
}

// Parse validates s and returns its Key.
func Parse(s string) (Key, error) {
	if len(s) != len(Layout) {
		return Key{}, fmt.Errorf("%w: %q", ErrMalformedKey, s)
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q", ErrMalformedKey, s)
	}
	return FromDate(t), nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Key {
	k, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return k
}

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool {
	return k.year == 0 && k.month == 0 && k.day == 0
}

// Date returns the first instant of k's calendar date in loc. That is local
// midnight, or the end of the DST gap when the clocks skip midnight.
func (k Key) Date(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t := time.Date(k.year, k.month, k.day, 0, 0, 0, 0, loc)
	if FromDate(t) == k {
		return t
	}
	noon := time.Date(k.year, k.month, k.day, 12, 0, 0, 0, loc)
	if start, _ := noon.ZoneBounds(); !start.IsZero() && FromDate(start) == k {
		return start
	}
	for FromDate(t) != k {
		t = t.Add(time.Minute)
	}
	return t
}

// AddDays returns the Key n calendar days after k (before, for negative n).
func (k Key) AddDays(n int) Key {
	// UTC avoids DST gaps shifting the date.
	return FromDate(time.Date(k.year, k.month, k.day+n, 12, 0, 0, 0, time.UTC))
}

// Offset returns the Key n days before k. Negative n walks forward.
func (k Key) Offset(n int) Key {
	return k.AddDays(-n)
}

// Before reports whether k is an earlier day than other.
func (k Key) Before(other Key) bool {
	if k.year != other.year {
		return k.year < other.year
	}
	if k.month != other.month {
		return k.month < other.month
	}
	return k.day < other.day
}

// Weekday returns the day of the week of k.
func (k Key) Weekday() time.Weekday {
	return k.Date(time.UTC).Weekday()
}

// String formats k as YYYY-MM-DD. The zero Key formats as "".
func (k Key) String() string {
	if k.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", k.year, int(k.month), k.day)
}

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Calculator resolves the current application day from a clock.
type Calculator struct {
	ResetHour int
	Now       func() time.Time
}

// NewCalculator returns a Calculator using time.Now and resetHour.
func NewCalculator(resetHour int) *Calculator {
	return &Calculator{ResetHour: resetHour, Now: time.Now}
}

// Today returns the current application day.
func (c *Calculator) Today() Key {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return Current(now(), c.ResetHour)
}
