package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clump-cli/internal/apitest"
)

var day = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) (*apitest.Server, string) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	srv.SetNow(day)
	alice := srv.AddUser(apitest.User{UID: 1, Name: "Alice", Pronouns: "she/her", Year: 2027})
	srv.AddUser(apitest.User{UID: 2, Name: "Bo", Pronouns: "they/them", Year: 2026})
	srv.AddEvent(apitest.Event{
		ID: 10, Title: "Trivia", Date: day.AddDate(0, 0, 2), Start: "07:00 PM", End: "08:00 PM",
		City: "Wellesley", State: "MA", Category: "Social", CreatorUID: 2, Capacity: 2,
	})
	return srv, alice
}

func newClient(t *testing.T, srv *apitest.Server, session string) *Client {
	t.Helper()
	c, err := New(srv.URL, WithSession(apitest.SessionCookie, session))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	if _, err := New("events.local"); err == nil {
		t.Fatalf("expected error for relative url")
	}
}

func TestEvent_DecodesViewerFlags(t *testing.T) {
	srv, alice := newFixture(t)
	c := newClient(t, srv, alice)

	ev, err := c.Event(context.Background(), 10)
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if ev.Title != "Trivia" || ev.Capacity != 2 || ev.CreatorName != "Bo" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if !ev.LoggedIn || ev.IsCreator || ev.IsParticipant || ev.EventHasPassed {
		t.Fatalf("unexpected viewer flags: %+v", ev)
	}
}

func TestEvent_AnonymousWithoutSession(t *testing.T) {
	srv, _ := newFixture(t)
	c := newClient(t, srv, "")

	ev, err := c.Event(context.Background(), 10)
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if ev.LoggedIn {
		t.Fatalf("expected anonymous viewer")
	}
}

func TestEvent_NotFoundIsStatusError(t *testing.T) {
	srv, alice := newFixture(t)
	c := newClient(t, srv, alice)

	_, err := c.Event(context.Background(), 99)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Fatalf("expected 404 StatusError, got %v", err)
	}
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound should be true")
	}
	if got := Message(err, "fallback"); got != "Event not found" {
		t.Fatalf("Message: got %q", got)
	}
}

func TestJoinEvent_ThenFullAndAlreadyJoined(t *testing.T) {
	srv, alice := newFixture(t)
	c := newClient(t, srv, alice)
	ctx := context.Background()

	res, err := c.JoinEvent(ctx, 10)
	if err != nil {
		t.Fatalf("JoinEvent: %v", err)
	}
	if !res.Success || res.Message == "" {
		t.Fatalf("unexpected result: %+v", res)
	}
	_, err = c.JoinEvent(ctx, 10)
	if got := Message(err, "Failed to join event"); got != "Already joined" {
		t.Fatalf("expected server message, got %q (%v)", got, err)
	}
}

func TestMutations_SendJSONAndRequestID(t *testing.T) {
	var gotCT, gotID, gotBody string
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		gotID = r.Header.Get("X-Request-ID")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"commId":7}`)
	}))
	defer hs.Close()

	c, err := New(hs.URL, WithRequestIDs(func() string { return "req-1" }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := c.PostReply(context.Background(), 3, "see you there")
	if err != nil {
		t.Fatalf("PostReply: %v", err)
	}
	if res.CommentID != 7 {
		t.Fatalf("expected commId 7, got %d", res.CommentID)
	}
	if gotCT != "application/json" {
		t.Fatalf("content-type: %q", gotCT)
	}
	if gotID != "req-1" {
		t.Fatalf("request id: %q", gotID)
	}
	if gotBody != `{"text":"see you there"}` {
		t.Fatalf("body: %q", gotBody)
	}
}

func TestMutation_SuccessFalseIsAppError(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"error":"Event is full"}`)
	}))
	defer hs.Close()

	c, _ := New(hs.URL)
	_, err := c.JoinEvent(context.Background(), 1)
	var ae *AppError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AppError, got %T %v", err, err)
	}
	if Message(err, "Failed to join event") != "Event is full" {
		t.Fatalf("unexpected message")
	}
}

func TestMutation_SuccessFalseWithoutMessageUsesFallback(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false}`)
	}))
	defer hs.Close()

	c, _ := New(hs.URL)
	_, err := c.DeleteEvent(context.Background(), 1)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := Message(err, "Failed to delete event"); got != "Failed to delete event" {
		t.Fatalf("got %q", got)
	}
}

func TestDo_HTMLErrorPageIsStatusErrorWithFallback(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "<html>boom</html>")
	}))
	defer hs.Close()

	c, _ := New(hs.URL)
	_, err := c.Forum(context.Background(), 1)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != 500 {
		t.Fatalf("expected 500 StatusError, got %v", err)
	}
	if Message(err, "Failed to load comments.") != "Failed to load comments." {
		t.Fatalf("expected fallback message")
	}
}

func TestDo_UndecodableBodyIsTransportError(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "not json")
	}))
	defer hs.Close()

	c, _ := New(hs.URL)
	_, err := c.Event(context.Background(), 1)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if !strings.Contains(err.Error(), "GET /api/event/1") {
		t.Fatalf("expected op in error, got %q", err.Error())
	}
}

func TestDo_NetworkFailureIsTransportError(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := hs.URL
	hs.Close()

	c, _ := New(url)
	_, err := c.Event(context.Background(), 1)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestBadIDsNeverReachTheNetwork(t *testing.T) {
	srv, alice := newFixture(t)
	c := newClient(t, srv, alice)

	if _, err := c.DeleteComment(context.Background(), 0); err == nil {
		t.Fatalf("expected error for id 0")
	}
	if n := len(srv.Calls()); n != 0 {
		t.Fatalf("expected no calls, got %d", n)
	}
}

func TestForumAndWeek(t *testing.T) {
	srv, alice := newFixture(t)
	c := newClient(t, srv, alice)
	ctx := context.Background()

	root := srv.AddComment(10, 2, nil, "bring snacks?", day.Add(-time.Hour))
	srv.AddComment(10, 1, &root, "yes", time.Time{})

	f, err := c.Forum(ctx, 10)
	if err != nil {
		t.Fatalf("Forum: %v", err)
	}
	if f.CommentCount != 2 || len(f.Comments) != 2 {
		t.Fatalf("unexpected forum: %+v", f)
	}
	if f.CurrentUID == nil || *f.CurrentUID != 1 {
		t.Fatalf("expected current uid 1")
	}
	if f.Comments[1].ParentID == nil || *f.Comments[1].ParentID != root {
		t.Fatalf("expected reply parent %d", root)
	}

	evs, err := c.Week(ctx, day, day.AddDate(0, 0, 6))
	if err != nil {
		t.Fatalf("Week: %v", err)
	}
	if len(evs) != 1 || evs[0].ID != 10 {
		t.Fatalf("unexpected week: %+v", evs)
	}
	// success:false without a message is still a failure.
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false}`)
	}))
	defer hs.Close()
	bare, _ := New(hs.URL)
	evs, err = bare.Week(ctx, day, day.AddDate(0, 0, 6))
	var appErr *AppError
	if !errors.As(err, &appErr) || evs != nil {
		t.Fatalf("expected AppError, got %v %+v", err, evs)
	}
	if got := Message(err, "Failed to load events."); got != "Failed to load events." {
		t.Fatalf("expected fallback message, got %q", got)
	}
}
