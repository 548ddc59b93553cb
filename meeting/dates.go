package meeting

import (
	"strings"
	"time"
)

// DateLayout is the wire format for meeting dates.
const DateLayout = "2006-01-02"

// ParseDateWord parses a human-friendly date string relative to today.
//
// Supported: YYYY-MM-DD, "today", "yesterday", "last week" (today - 7 days),
// "last month" (today - 30 days). Anything else is unparseable and reported
// via the second return value; callers treat it as an absent filter.
func ParseDateWord(s string, today time.Time) (time.Time, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	today = truncateToDay(today)

	switch s {
	case "today":
		return today, true
	case "yesterday":
		return today.AddDate(0, 0, -1), true
	}

	if strings.HasPrefix(s, "last") {
		parts := strings.Fields(s)
		if len(parts) >= 2 {
			switch {
			case strings.Contains(parts[1], "week"):
				return today.AddDate(0, 0, -7), true
			case strings.Contains(parts[1], "month"):
				return today.AddDate(0, 0, -30), true
			}
		}
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// MeetingDate extracts the date from a created_at timestamp. Missing or
// malformed values report false.
func MeetingDate(createdAt string) (time.Time, bool) {
	if len(createdAt) < len(DateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, createdAt[:len(DateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// truncateToDay drops the time-of-day component, normalizing to UTC so date
// comparisons are exact.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
