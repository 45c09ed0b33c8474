package calendar

import (
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"clump-cli/internal/model"
)

// Day is one column of the grid.
type Day struct {
	Date   time.Time
	Today  bool
	Events []model.WeekEvent
}

// Grid is a week with its events placed in day columns.
type Grid struct {
	Week Week
	Days [7]Day
}

// NewGrid places events into the days of week. Events keep the server's
// order within a day; events dated outside the week are dropped.
func NewGrid(week Week, events []model.WeekEvent, today time.Time) Grid {
	g := Grid{Week: week}
	todayKey := today.Format(time.DateOnly)
	index := map[string]int{}
	for i, d := range week.Days() {
		key := d.Format(time.DateOnly)
		g.Days[i] = Day{Date: d, Today: key == todayKey}
		index[key] = i
	}
	for _, ev := range events {
		i, ok := index[ev.Date]
		if !ok {
			continue
		}
		g.Days[i].Events = append(g.Days[i].Events, ev)
	}
	return g
}

// Events returns every event in the grid in column order.
func (g Grid) Events() []model.WeekEvent {
	var out []model.WeekEvent
	for _, d := range g.Days {
		out = append(out, d.Events...)
	}
	return out
}

// Empty reports whether no day has events.
func (g Grid) Empty() bool {
	for _, d := range g.Days {
		if len(d.Events) > 0 {
			return false
		}
	}
	return true
}

// Cell fits s into exactly width display columns, truncating with "…".
func Cell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

// Header is e.g. "Sun 3/1", with a "*" for today.
func (d Day) Header() string {
	h := d.Date.Format("Mon 1/2")
	if d.Today {
		h += " *"
	}
	return h
}

// BlockLines are the lines of one event block in a day column.
func BlockLines(ev model.WeekEvent) []string {
	lines := []string{ev.Title}
	if ev.Start != "" {
		lines = append(lines, ev.Start)
	}
	return lines
}

// WriteText writes the grid as fixed-width columns of colWidth, one row per
// line of the tallest day. It backs `clump week --grid`.
func WriteText(w io.Writer, g Grid, colWidth int) error {
	cols := make([][]string, 7)
	height := 0
	for i, d := range g.Days {
		var lines []string
		for _, ev := range d.Events {
			lines = append(lines, BlockLines(ev)...)
			lines = append(lines, "")
		}
		cols[i] = lines
		if len(lines) > height {
			height = len(lines)
		}
	}

	var b strings.Builder
	b.WriteString(g.Week.Label())
	b.WriteString("\n")
	for i, d := range g.Days {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(Cell(d.Header(), colWidth))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", 7*colWidth+6*3))
	b.WriteString("\n")
	for row := 0; row < height; row++ {
		var line strings.Builder
		for i := range cols {
			if i > 0 {
				line.WriteString(" | ")
			}
			text := ""
			if row < len(cols[i]) {
				text = cols[i][row]
			}
			line.WriteString(Cell(text, colWidth))
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
