package storage

import (
	"encoding/json"

	"protein/internal/daykey"
)

// TimestampEntry records when the habit was marked done on a given day.
type TimestampEntry struct {
	Date daykey.Key `json:"date"`
	Time string     `json:"time"` // formatted local time of day
}

// Record is the single persisted document behind a Storage.
type Record struct {
	DayKey     daykey.Key       // application day Drank applies to; zero if never set
	Drank      bool             // whether the habit was done on DayKey
	Timestamps []TimestampEntry // at most one entry per day, latest last
	History    []daykey.Key     // completed days, oldest first, no duplicates
}

// DayStatus pairs an application day with its completion.
type DayStatus struct {
	Day       daykey.Key `json:"day"`
	Completed bool       `json:"completed"`
}

// document is the on-disk layout of a Record.
type document struct {
	DayKey          *string         `json:"dayKey"`
	Drank           bool            `json:"drank"`
	DrinkTimestamps []timestampJSON `json:"drinkTimestamps"`
	History         []string        `json:"history"`
}

type timestampJSON struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

func (r Record) document() document {
	doc := document{
		Drank:           r.Drank,
		DrinkTimestamps: make([]timestampJSON, 0, len(r.Timestamps)),
		History:         make([]string, 0, len(r.History)),
	}
	if !r.DayKey.IsZero() {
		k := r.DayKey.String()
		doc.DayKey = &k
	}
	for _, ts := range r.Timestamps {
		doc.DrinkTimestamps = append(doc.DrinkTimestamps, timestampJSON{Date: ts.Date.String(), Time: ts.Time})
	}
	for _, k := range r.History {
		doc.History = append(doc.History, k.String())
	}
	return doc
}

// decodeRecord parses a stored document field by field. A field that does not
// decode is replaced by its empty value, and malformed day keys are dropped.
// The returned strings are the entries that were skipped.
func decodeRecord(data []byte) (Record, []string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Record{}, nil, err
	}

	var (
		rec     Record
		skipped []string
	)

	var day string
	if raw, ok := fields["dayKey"]; ok && json.Unmarshal(raw, &day) == nil && day != "" {
		if k, err := daykey.Parse(day); err == nil {
			rec.DayKey = k
		} else {
			skipped = append(skipped, day)
		}
	}

	if raw, ok := fields["drank"]; ok {
		_ = json.Unmarshal(raw, &rec.Drank)
	}

	var history []string
	if raw, ok := fields["history"]; ok && json.Unmarshal(raw, &history) == nil {
		seen := make(map[daykey.Key]struct{}, len(history))
		for _, s := range history {
			k, err := daykey.Parse(s)
			if err != nil {
				skipped = append(skipped, s)
				continue
			}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			rec.History = append(rec.History, k)
		}
	}

	var stamps []timestampJSON
	if raw, ok := fields["drinkTimestamps"]; ok && json.Unmarshal(raw, &stamps) == nil {
		for _, ts := range stamps {
			k, err := daykey.Parse(ts.Date)
			if err != nil {
				skipped = append(skipped, ts.Date)
				continue
			}
			rec.Timestamps = append(withoutDay(rec.Timestamps, k), TimestampEntry{Date: k, Time: ts.Time})
		}
	}

	return rec, skipped, nil
}

func containsDay(keys []daykey.Key, k daykey.Key) bool {
	for _, h := range keys {
		if h == k {
			return true
		}
	}
	return false
}

func removeDay(keys []daykey.Key, k daykey.Key) []daykey.Key {
	out := make([]daykey.Key, 0, len(keys))
	for _, h := range keys {
		if h != k {
			out = append(out, h)
		}
	}
	return out
}

func withoutDay(entries []TimestampEntry, k daykey.Key) []TimestampEntry {
	out := make([]TimestampEntry, 0, len(entries)+1)
	for _, e := range entries {
		if e.Date != k {
			out = append(out, e)
		}
	}
	return out
}
