package reports

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatJSON formats a summary as indented JSON.
func FormatJSON(s *Summary) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// FormatMarkdown formats a summary as a Markdown document.
func FormatMarkdown(s *Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Protein report for %s\n\n", s.Today)

	status := "not yet"
	if s.CompletedToday {
		status = "done"
	}
	fmt.Fprintf(&b, "- **Today:** %s\n", status)
	fmt.Fprintf(&b, "- **Current streak:** %s\n", plural(s.CurrentStreak, "day"))
	fmt.Fprintf(&b, "- **Longest streak:** %s\n", plural(s.LongestStreak, "day"))
	fmt.Fprintf(&b, "- **Days recorded:** %d\n", s.TotalDays)
	fmt.Fprintf(&b, "- **Last %d days:** %d/%d (%.0f%%)\n", s.Window, s.WindowDone, s.Window, s.CompletionRate*100)
	if s.LastCompletion != nil {
		fmt.Fprintf(&b, "- **Last completed:** %s at %s\n", s.LastCompletion.Day, s.LastCompletion.Time)
	}

	b.WriteString("\n| Day | Date | Done |\n|-----|------|------|\n")
	for _, d := range s.Days {
		mark := " "
		if d.Completed {
			mark = "x"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", d.Day.Weekday().String()[:3], d.Day, mark)
	}
	return b.String()
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
