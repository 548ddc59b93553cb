package meeting

import (
	"fmt"
	"regexp"
	"time"
)

// Filters holds the optional metadata predicates. All set predicates must
// hold (AND semantics). Date strings accept the ParseDateWord vocabulary;
// an unparseable date string deactivates that predicate.
type Filters struct {
	// On keeps meetings on exactly this date.
	On string
	// Start keeps meetings on or after this date.
	Start string
	// End keeps meetings on or before this date.
	End string
	// Title is a case-insensitive regular expression over the raw title.
	Title string
	// Participant is a substring matched against participant names/emails.
	Participant string

	// Today anchors relative date words; zero means time.Now().
	Today time.Time
}

// ApplyFilters returns the metadata records satisfying every active
// predicate. Records without a parseable created_at are excluded by any
// active date predicate but retained otherwise. An invalid title pattern is
// the only error condition.
func ApplyFilters(metas []Metadata, f Filters) ([]Metadata, error) {
	today := f.Today
	if today.IsZero() {
		today = time.Now()
	}

	var on, start, end time.Time
	var onActive, startActive, endActive bool
	if f.On != "" {
		on, onActive = ParseDateWord(f.On, today)
	}
	if f.Start != "" {
		start, startActive = ParseDateWord(f.Start, today)
	}
	if f.End != "" {
		end, endActive = ParseDateWord(f.End, today)
	}

	var titleRe *regexp.Regexp
	if f.Title != "" {
		re, err := regexp.Compile("(?i)" + f.Title)
		if err != nil {
			return nil, fmt.Errorf("invalid title pattern %q: %w", f.Title, err)
		}
		titleRe = re
	}

	results := make([]Metadata, 0, len(metas))
	for _, m := range metas {
		date, hasDate := MeetingDate(m.CreatedAt)

		if onActive && (!hasDate || !date.Equal(on)) {
			continue
		}
		if startActive && (!hasDate || date.Before(start)) {
			continue
		}
		if endActive && (!hasDate || date.After(end)) {
			continue
		}
		if titleRe != nil && !titleRe.MatchString(m.Title) {
			continue
		}
		if f.Participant != "" && !m.People.MatchesParticipant(f.Participant) {
			continue
		}

		results = append(results, m)
	}
	return results, nil
}
