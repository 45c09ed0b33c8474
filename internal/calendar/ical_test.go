package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"clump-cli/internal/model"
)

func TestWriteICal(t *testing.T) {
	w := WeekOf(day("2026-03-04"))
	g := NewGrid(w, []model.WeekEvent{
		{ID: 10, Title: "Trivia, night", Date: "2026-03-06", Start: "07:00 PM", End: "08:30 PM", City: "Wellesley", State: "MA", Category: "Social"},
		{ID: 11, Title: "Brunch", Date: "2026-03-02"},
	}, day("2026-03-04"))

	var buf bytes.Buffer
	stamp := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	if err := WriteICal(&buf, g, ICal{BaseURL: "https://events.example.edu/", Loc: time.UTC, Stamp: stamp}); err != nil {
		t.Fatalf("WriteICal: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"BEGIN:VCALENDAR\r\n",
		"UID:event-10@events.example.edu\r\n",
		"DTSTAMP:20260304T100000Z\r\n",
		"DTSTART:20260306T190000Z\r\n",
		"DTEND:20260306T203000Z\r\n",
		"SUMMARY:Trivia\\, night\r\n",
		"LOCATION:Wellesley\\, MA\r\n",
		"URL:https://events.example.edu/event/10\r\n",
		"DTSTART;VALUE=DATE:20260302\r\n",
		"DTEND;VALUE=DATE:20260303\r\n",
		"END:VCALENDAR\r\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Index(out, "UID:event-11") > strings.Index(out, "UID:event-10") {
		t.Fatalf("expected column order, Monday before Friday")
	}
}

func TestFoldICal(t *testing.T) {
	long := "SUMMARY:" + strings.Repeat("é", 60)
	folded := foldICal(long)
	for i, l := range strings.Split(strings.TrimSuffix(folded, "\r\n"), "\r\n") {
		if len(l) > 75 {
			t.Fatalf("line %d is %d octets", i, len(l))
		}
	}
	if strings.ReplaceAll(strings.TrimSuffix(folded, "\r\n"), "\r\n ", "") != long {
		t.Fatalf("unfolding must restore the line")
	}
	if foldICal("short") != "short\r\n" {
		t.Fatalf("short lines are not folded")
	}
}
