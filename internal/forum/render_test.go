package forum

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"clump-cli/internal/model"
)

func TestRenderText_IndentsRepliesAndTagsActions(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.Local)
	hourAgo := "2026-03-04T11:00:00"
	me := 1
	th := Thread{
		EventID:  7,
		LoggedIn: true,
		Viewer:   model.Viewer{UID: &me, LoggedIn: true},
		Count:    2,
		Rows: ThreadRows([]model.Comment{
			{ID: 1, AuthorName: "Bo", AuthorUID: 2, Text: "Who is in?", PostedAt: &hourAgo},
			{ID: 2, AuthorName: "Alice", AuthorUID: 1, Text: "me\nand a friend", ParentID: intp(1)},
		}),
	}

	var buf bytes.Buffer
	if err := RenderText(&buf, th, now); err != nil {
		t.Fatalf("RenderText: %v", err)
	}
	want := strings.Join([]string{
		"Comments (2)",
		"Bo · 1 hour ago  #1  [reply]",
		"Who is in?",
		"  ↳ Alice · just now  #2  [reply, delete]",
		"    me",
		"    and a friend",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestRenderText_EmptyAndLoggedOut(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := RenderText(&buf, Thread{}, time.Now()); err != nil {
		t.Fatalf("RenderText: %v", err)
	}
	if !strings.Contains(buf.String(), EmptyPlaceholder) {
		t.Fatalf("expected placeholder, got %q", buf.String())
	}

	buf.Reset()
	th := Thread{Count: 1, Rows: ThreadRows([]model.Comment{{ID: 1, AuthorName: "Bo", Text: "hi"}})}
	if err := RenderText(&buf, th, time.Now()); err != nil {
		t.Fatalf("RenderText: %v", err)
	}
	if strings.Contains(buf.String(), "[") || !strings.HasSuffix(buf.String(), LoginToComment+"\n") {
		t.Fatalf("logged-out render should have no actions: %q", buf.String())
	}
}
