// Package format holds the small text helpers shared by every renderer of
// the status document.
package format

import (
	"fmt"
	"strings"
	"time"
)

// List joins items as English prose: "A", "A and B", "A, B, and C".
// Blank entries are dropped before joining.
func List(items []string) string {
	filtered := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			filtered = append(filtered, item)
		}
	}

	switch len(filtered) {
	case 0:
		return ""
	case 1:
		return filtered[0]
	case 2:
		return filtered[0] + " and " + filtered[1]
	}
	last := len(filtered) - 1
	return strings.Join(filtered[:last], ", ") + ", and " + filtered[last]
}

// LastUpdated renders a date as "Dec 3rd, 2025".
func LastUpdated(t time.Time) string {
	day := t.Day()
	return fmt.Sprintf("%s %d%s, %d", t.Format("Jan"), day, ordinalSuffix(day), t.Year())
}

func ordinalSuffix(day int) string {
	switch {
	case day%10 == 1 && day%100 != 11:
		return "st"
	case day%10 == 2 && day%100 != 12:
		return "nd"
	case day%10 == 3 && day%100 != 13:
		return "rd"
	}
	return "th"
}

// Percent clamps and rounds a progress value to a whole percentage.
func Percent(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return int(v + 0.5)
}
