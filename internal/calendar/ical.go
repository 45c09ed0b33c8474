package calendar

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"clump-cli/internal/model"
)

const (
	icalDateTime = "20060102T150405Z"
	icalDate     = "20060102"
)

// clockLayouts are the time-of-day shapes the server sends.
var clockLayouts = []string{"03:04 PM", "3:04 PM", "15:04", "15:04:05"}

// ICal describes a week export. BaseURL links each entry back to the
// server's event page and names the UID domain.
type ICal struct {
	Name    string
	BaseURL string
	Loc     *time.Location
	Stamp   time.Time
}

// WriteICal writes the grid's events as an iCalendar (RFC 5545) feed.
// Events without a parseable start become all-day entries.
func WriteICal(w io.Writer, g Grid, opts ICal) error {
	loc := opts.Loc
	if loc == nil {
		loc = time.Local
	}
	host := "clump"
	if u, err := url.Parse(opts.BaseURL); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}
	name := opts.Name
	if name == "" {
		name = g.Week.Label()
	}

	var b strings.Builder
	line := func(s string) { b.WriteString(foldICal(s)) }
	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:-//clump//clump//EN")
	line("X-WR-CALNAME:" + escapeICal(name))
	for _, ev := range g.Events() {
		writeVEvent(line, ev, opts, loc, host)
	}
	line("END:VCALENDAR")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeVEvent(line func(string), ev model.WeekEvent, opts ICal, loc *time.Location, host string) {
	line("BEGIN:VEVENT")
	line(fmt.Sprintf("UID:event-%d@%s", ev.ID, host))
	line("DTSTAMP:" + opts.Stamp.UTC().Format(icalDateTime))

	day, err := time.ParseInLocation(time.DateOnly, ev.Date, loc)
	start, startOK := atClock(day, ev.Start, loc)
	switch {
	case err != nil:
	case startOK:
		line("DTSTART:" + start.UTC().Format(icalDateTime))
		if end, ok := atClock(day, ev.End, loc); ok && end.After(start) {
			line("DTEND:" + end.UTC().Format(icalDateTime))
		}
	default:
		line("DTSTART;VALUE=DATE:" + day.Format(icalDate))
		line("DTEND;VALUE=DATE:" + day.AddDate(0, 0, 1).Format(icalDate))
	}

	line("SUMMARY:" + escapeICal(ev.Title))
	if where := location(ev); where != "" {
		line("LOCATION:" + escapeICal(where))
	}
	if ev.Category != "" {
		line("CATEGORIES:" + escapeICal(ev.Category))
	}
	if opts.BaseURL != "" {
		line(fmt.Sprintf("URL:%s/event/%d", strings.TrimRight(opts.BaseURL, "/"), ev.ID))
	}
	line("END:VEVENT")
}

func atClock(day time.Time, clock string, loc *time.Location) (time.Time, bool) {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return time.Time{}, false
	}
	for _, layout := range clockLayouts {
		t, err := time.ParseInLocation(layout, strings.ToUpper(clock), loc)
		if err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), true
		}
	}
	return time.Time{}, false
}

func location(ev model.WeekEvent) string {
	switch {
	case ev.City != "" && ev.State != "":
		return ev.City + ", " + ev.State
	case ev.City != "":
		return ev.City
	}
	return ev.State
}

func escapeICal(s string) string {
	return strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`).Replace(s)
}

// foldICal terminates a content line, folding it at 75 octets without
// splitting a UTF-8 sequence.
func foldICal(s string) string {
	var b strings.Builder
	limit := 75
	for len(s) > limit {
		cut := limit
		for cut > 0 && s[cut]&0xC0 == 0x80 {
			cut--
		}
		b.WriteString(s[:cut])
		b.WriteString("\r\n ")
		s = s[cut:]
		limit = 74
	}
	b.WriteString(s)
	b.WriteString("\r\n")
	return b.String()
}
