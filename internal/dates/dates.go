package dates

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the wire and storage format for calendar dates. It is fixed-width
// and zero-padded, so plain string comparison orders dates chronologically.
const Layout = "2006-01-02"

var weekdayNames = [...]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

func Parse(date string) (time.Time, error) {
	t, err := time.Parse(Layout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return t, nil
}

func Valid(date string) bool {
	_, err := Parse(date)
	return err == nil
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the calendar date of now in UTC.
func Today(now time.Time) string {
	return Format(now.UTC())
}

// AddDays shifts a valid date by n calendar days. An invalid date is returned unchanged.
func AddDays(date string, n int) string {
	t, err := Parse(date)
	if err != nil {
		return date
	}
	return Format(t.AddDate(0, 0, n))
}

// Next reports whether b is exactly one calendar day after a.
func Next(a, b string) bool {
	return AddDays(a, 1) == b
}

// DaysBetween returns the number of calendar days from a to b (negative when b < a).
func DaysBetween(a, b string) int {
	ta, err := Parse(a)
	if err != nil {
		return 0
	}
	tb, err := Parse(b)
	if err != nil {
		return 0
	}
	return int(tb.Sub(ta).Hours() / 24)
}

// Weekday returns the lowercase English weekday name of a date.
func Weekday(date string) string {
	t, err := Parse(date)
	if err != nil {
		return ""
	}
	return weekdayNames[t.Weekday()]
}

// NormalizeWeekday lowercases a weekday name and reports whether it is one.
func NormalizeWeekday(name string) (string, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, w := range weekdayNames {
		if w == n {
			return n, true
		}
	}
	return "", false
}

// WeekStart returns the Monday of the ISO week containing date.
func WeekStart(date string) string {
	t, err := Parse(date)
	if err != nil {
		return date
	}
	offset := (int(t.Weekday()) + 6) % 7
	return Format(t.AddDate(0, 0, -offset))
}

// WeekEnd returns the Sunday of the ISO week containing date.
func WeekEnd(date string) string {
	return AddDays(WeekStart(date), 6)
}

// Max returns the later of two dates, ignoring empty strings.
func Max(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" || a >= b {
		return a
	}
	return b
}
