// Package dates normalizes the heterogeneous date representations found in
// upstream invoice records into canonical calendar dates. Parsing is strict:
// a value that does not cleanly match a known layout is treated as unknown,
// never as an error.
package dates

import (
	"strings"
	"time"
)

// Layouts tried in order. Ambiguous all-numeric forms follow the day-first
// convention, so "03-04-2024" is 3 April 2024.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"02.01.2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseString parses a date string into a canonical UTC-midnight date.
// Returns false when the input is empty or matches no known layout.
func ParseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Normalize(t), true
		}
	}
	return time.Time{}, false
}

// Normalize truncates a time to its calendar date at UTC midnight.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from one date to another.
// Negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	f := Normalize(from)
	t := Normalize(to)
	return int(t.Sub(f).Hours() / 24)
}

// Today returns the current calendar date at UTC midnight.
func Today() time.Time {
	return Normalize(time.Now().UTC())
}
