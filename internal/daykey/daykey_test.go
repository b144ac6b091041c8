package daykey

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrent_ResetHourBoundary(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"just before reset", time.Date(2024, 3, 2, 1, 59, 59, 0, time.Local), "2024-03-01"},
		{"at reset", time.Date(2024, 3, 2, 2, 0, 0, 0, time.Local), "2024-03-02"},
		{"midnight", time.Date(2024, 3, 2, 0, 0, 0, 0, time.Local), "2024-03-01"},
		{"half past one", time.Date(2024, 3, 2, 1, 30, 0, 0, time.Local), "2024-03-01"},
		{"late evening", time.Date(2024, 3, 2, 23, 59, 0, 0, time.Local), "2024-03-02"},
		{"new year rollover", time.Date(2025, 1, 1, 0, 30, 0, 0, time.Local), "2024-12-31"},
		{"leap day", time.Date(2024, 3, 1, 1, 0, 0, 0, time.Local), "2024-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Current(tt.now, DefaultResetHour)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestCurrent_ZeroResetHour(t *testing.T) {
	got := Current(time.Date(2024, 3, 2, 0, 0, 0, 0, time.Local), 0)
	assert.Equal(t, "2024-03-02", got.String())
}

func TestParse(t *testing.T) {
	valid := []string{"2024-01-01", "2024-02-29", "1999-12-31", "2025-06-15"}
	for _, s := range valid {
		k, err := Parse(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, k.String())
	}

	invalid := []string{"", "2024-1-01", "2024-01-1", "20240101", "2023-02-29", "2024-13-01", "2024-00-10", "2024-04-31", "abcd-ef-gh", "2024-01-01T00:00"}
	for _, s := range invalid {
		_, err := Parse(s)
		require.Error(t, err, s)
		assert.True(t, errors.Is(err, ErrMalformedKey), "%q should wrap ErrMalformedKey", s)
	}
}

func TestRoundTrip(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.Local)
	for i := 0; i < 800; i++ {
		d := start.AddDate(0, 0, i)
		k, err := Parse(FromDate(d).String())
		require.NoError(t, err)
		assert.True(t, k.Date(time.Local).Equal(d), "round trip of %s", d.Format(Layout))
	}
}

func TestOffset(t *testing.T) {
	k := MustParse("2024-03-01")
	assert.Equal(t, "2024-02-29", k.Offset(1).String())
	assert.Equal(t, "2024-03-02", k.Offset(-1).String())
	assert.Equal(t, "2023-03-02", k.Offset(365).String())
	assert.Equal(t, k, k.Offset(0))
	assert.Equal(t, "2024-03-08", k.AddDays(7).String())
}

func TestOffset_AcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	k := Current(time.Date(2024, 3, 11, 9, 0, 0, 0, loc), DefaultResetHour)
	assert.Equal(t, "2024-03-10", k.Offset(1).String())
	assert.Equal(t, "2024-03-09", k.Offset(2).String())
}

// Chile and Cuba move clocks from 00:00 to 01:00, so local midnight does not
// exist on those days.
func TestCurrent_MidnightDSTGap(t *testing.T) {
	tests := []struct {
		zone string
		at   [5]int // year, month, day, hour, minute
		want string
	}{
		{"America/Santiago", [5]int{2024, 9, 7, 23, 59}, "2024-09-07"},
		{"America/Santiago", [5]int{2024, 9, 8, 1, 30}, "2024-09-07"},
		{"America/Santiago", [5]int{2024, 9, 8, 2, 0}, "2024-09-08"},
		{"America/Santiago", [5]int{2024, 9, 8, 9, 0}, "2024-09-08"},
		{"America/Santiago", [5]int{2024, 9, 9, 1, 59}, "2024-09-08"},
		{"America/Havana", [5]int{2024, 3, 10, 2, 0}, "2024-03-10"},
		{"America/Havana", [5]int{2024, 3, 10, 12, 0}, "2024-03-10"},
		{"America/Sao_Paulo", [5]int{2016, 10, 16, 2, 0}, "2016-10-16"},
	}
	for _, tc := range tests {
		t.Run(tc.zone+" "+tc.want, func(t *testing.T) {
			loc, err := time.LoadLocation(tc.zone)
			require.NoError(t, err)
			now := time.Date(tc.at[0], time.Month(tc.at[1]), tc.at[2], tc.at[3], tc.at[4], 0, 0, loc)
			assert.Equal(t, tc.want, Current(now, DefaultResetHour).String())
		})
	}
}

func TestDate_MidnightDSTGap(t *testing.T) {
	loc, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)

	k := MustParse("2024-09-08")
	start := k.Date(loc)
	assert.Equal(t, k, FromDate(start))
	assert.Equal(t, 1, start.Hour(), "day starts when the clocks jump to 01:00")
	assert.Equal(t, k.Offset(1), FromDate(start.Add(-time.Nanosecond)))
}

func TestRoundTrip_DSTZones(t *testing.T) {
	for _, zone := range []string{"America/Santiago", "America/Havana", "America/Sao_Paulo"} {
		loc, err := time.LoadLocation(zone)
		require.NoError(t, err)

		k := MustParse("2014-01-01")
		for i := 0; i < 3653; i++ {
			d := k.AddDays(i)
			start := d.Date(loc)
			require.Equal(t, d, FromDate(start), "%s: round trip of %s", zone, d)
			y, m, day := d.Date(time.UTC).Date()
			require.Equal(t, d, Current(time.Date(y, m, day, 2, 0, 0, 0, loc), DefaultResetHour),
				"%s: %s at reset", zone, d)
			require.Equal(t, d.Offset(1), Current(time.Date(y, m, day, 1, 30, 0, 0, loc), DefaultResetHour),
				"%s: %s before reset", zone, d)
		}
	}
}

func TestBefore(t *testing.T) {
	a := MustParse("2024-01-31")
	b := MustParse("2024-02-01")
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))
}

func TestZeroKey(t *testing.T) {
	var k Key
	assert.True(t, k.IsZero())
	assert.Equal(t, "", k.String())
	assert.False(t, MustParse("2024-01-01").IsZero())
}

func TestJSON(t *testing.T) {
	type doc struct {
		Day Key `json:"day"`
	}
	data, err := json.Marshal(doc{Day: MustParse("2024-05-06")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2024-05-06"}`, string(data))

	var out doc
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "2024-05-06", out.Day.String())

	err = json.Unmarshal([]byte(`{"day":"2024-05-32"}`), &out)
	assert.ErrorIs(t, err, ErrMalformedKey)
}

func TestCalculator_Today(t *testing.T) {
	c := NewCalculator(DefaultResetHour)
	c.Now = func() time.Time { return time.Date(2024, 3, 2, 1, 30, 0, 0, time.Local) }
	assert.Equal(t, "2024-03-01", c.Today().String())
}

func FuzzParse(f *testing.F) {
	f.Add("2024-01-01")
	f.Add("2024-02-30")
	f.Add("")
	f.Add("9999-12-31")
	f.Fuzz(func(t *testing.T, s string) {
		k, err := Parse(s)
		if err != nil {
			if !errors.Is(err, ErrMalformedKey) {
				t.Fatalf("Parse(%q) error = %v, want ErrMalformedKey", s, err)
			}
			return
		}
		if k.String() != s {
			t.Fatalf("Parse(%q).String() = %q", s, k.String())
		}
	})
}
