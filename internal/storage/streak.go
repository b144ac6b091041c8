package storage

import (
	"sort"

	"protein/internal/daykey"
)

// CurrentStreak counts consecutive completed days ending at today. A single
// missing day ends the run; if today itself is missing the streak is 0.
func CurrentStreak(history []daykey.Key, today daykey.Key) int {
	done := make(map[daykey.Key]struct{}, len(history))
	for _, k := range history {
		done[k] = struct{}{}
	}

	streak := 0
	for day := today; ; day = day.Offset(1) {
		if _, ok := done[day]; !ok {
			return streak
		}
		streak++
	}
}

// LongestStreak returns the longest run of consecutive days in history,
// regardless of insertion order.
func LongestStreak(history []daykey.Key) int {
	if len(history) == 0 {
		return 0
	}
	days := append([]daykey.Key(nil), history...)
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		switch {
		case days[i] == days[i-1]:
			continue
		case days[i] == days[i-1].AddDays(1):
			run++
		default:
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
