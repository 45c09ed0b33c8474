// Package calendar holds the week arithmetic and the week grid the events
// are laid out on. Weeks start on Sunday.
package calendar

import (
	"fmt"
	"time"
)

// Week is seven consecutive days starting on a Sunday.
type Week struct {
	Start time.Time
	End   time.Time
}

// WeekOf returns the Sunday-start week containing date. Times are dropped;
// the week keeps date's location.
func WeekOf(date time.Time) Week {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	start := day.AddDate(0, 0, -int(day.Weekday()))
	return Week{Start: start, End: start.AddDate(0, 0, 6)}
}

func (w Week) Prev() Week { return WeekOf(w.Start.AddDate(0, 0, -7)) }
func (w Week) Next() Week { return WeekOf(w.Start.AddDate(0, 0, 7)) }

// Days returns the seven dates of the week.
func (w Week) Days() [7]time.Time {
	var out [7]time.Time
	for i := range out {
		out[i] = w.Start.AddDate(0, 0, i)
	}
	return out
}

// Contains reports whether date falls within the week.
func (w Week) Contains(date time.Time) bool {
	d := date.Format(time.DateOnly)
	return d >= w.Start.Format(time.DateOnly) && d <= w.End.Format(time.DateOnly)
}

// Label is e.g. "Mar 1 - Mar 7, 2026".
func (w Week) Label() string {
	if w.Start.Year() != w.End.Year() {
		return fmt.Sprintf("%s - %s", w.Start.Format("Jan 2, 2006"), w.End.Format("Jan 2, 2006"))
	}
	return fmt.Sprintf("%s - %s", w.Start.Format("Jan 2"), w.End.Format("Jan 2, 2006"))
}

// ParseDay parses a YYYY-MM-DD argument in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}
