package tui

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clump-cli/internal/api"
	"clump-cli/internal/apitest"
	"clump-cli/internal/calendar"
	"clump-cli/internal/forum"
	"clump-cli/internal/model"
	"clump-cli/internal/notify"
	"clump-cli/internal/panel"
	"clump-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

var testNow = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

type fixture struct {
	srv   *apitest.Server
	alice string
	bo    string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	srv.SetNow(testNow)
	f := fixture{srv: srv}
	f.alice = srv.AddUser(apitest.User{UID: 1, Name: "Alice", Pronouns: "she/her", Year: 2027})
	f.bo = srv.AddUser(apitest.User{UID: 2, Name: "Bo", Pronouns: "they/them", Year: 2026})
	srv.AddUser(apitest.User{UID: 3, Name: "Cy", Pronouns: "he/him", Year: 2028})
	// Friday of the current week.
	srv.AddEvent(apitest.Event{
		ID: 10, Title: "Trivia", Date: testNow.AddDate(0, 0, 2), Start: "07:00 PM", End: "08:00 PM",
		City: "Wellesley", State: "MA", CreatorUID: 2, Capacity: 2, Participants: []int{3},
	})
	srv.AddEvent(apitest.Event{ID: 11, Title: "Brunch", Date: testNow.AddDate(0, 0, -2), CreatorUID: 2, Capacity: 5})
	return f
}

// newTestModel builds a sized model for session and applies the first week
// load. An empty session is an anonymous viewer.
func newTestModel(t *testing.T, f fixture, session string) appModel {
	t.Helper()
	return newTestModelWith(t, f, session, nil)
}

func newTestModelWith(t *testing.T, f fixture, session string, tweak func(*Options)) appModel {
	t.Helper()
	opts := []api.Option{}
	if session != "" {
		opts = append(opts, api.WithSession(apitest.SessionCookie, session))
	}
	c, err := api.New(f.srv.URL, opts...)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	o := Options{Client: c, BaseURL: f.srv.URL, Now: func() time.Time { return testNow }}
	if tweak != nil {
		tweak(&o)
	}
	m := newAppModel(o)
	m.flashFor = time.Millisecond
	m.copy = func(string) error { return nil }

	mAny, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m = mAny.(appModel)
	return drain(t, m, m.Init())
}

// drain runs cmd and every command its messages produce, feeding results
// back through Update. Flash expiry is dropped so banners stay visible.
func drain(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatalf("command loop did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case flashDoneMsg:
		default:
			mAny, next := m.Update(msg)
			m = mAny.(appModel)
			queue = append(queue, next)
		}
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m appModel, k string) (appModel, tea.Cmd) {
	mAny, cmd := m.Update(keyMsg(k))
	return mAny.(appModel), cmd
}

// openEvent10 selects Friday's event in the grid and opens it.
func openEvent10(t *testing.T, m appModel) appModel {
	t.Helper()
	m, _ = press(m, "l")
	m, _ = press(m, "l")
	m, cmd := press(m, "enter")
	m = drain(t, m, cmd)
	if !m.panel.Open || m.panel.EventID != 10 {
		t.Fatalf("expected event 10 open, got %+v", m.panel)
	}
	return m
}

func TestInit_LoadsWeekIntoGrid(t *testing.T) {
	f := newFixture(t)
	m := newTestModel(t, f, f.alice)

	if m.weekLoading {
		t.Fatalf("expected week loaded")
	}
	if m.day != int(time.Wednesday) {
		t.Fatalf("expected today's column selected, got %d", m.day)
	}
	fri := m.grid.Days[5].Events
	if len(fri) != 1 || fri[0].ID != 10 {
		t.Fatalf("expected event 10 on Friday, got %+v", fri)
	}
	out := m.View()
	if !strings.Contains(out, calendar.WeekOf(testNow).Label()) || !strings.Contains(out, "Trivia") {
		t.Fatalf("expected week label and event in view:\n%s", out)
	}
}

func TestOpenEvent_ShowsPanelAndForum(t *testing.T) {
	f := newFixture(t)
	f.srv.AddComment(10, 2, nil, "Bring snacks", testNow.Add(-time.Hour))
	m := newTestModel(t, f, f.alice)

	m = openEvent10(t, m)
	if m.focus != focusPanel {
		t.Fatalf("expected panel focus")
	}
	if m.panel.Actions != panel.ActionJoin {
		t.Fatalf("expected join state, got %v", m.panel.Actions)
	}
	if len(m.thread.Rows) != 1 || !m.thread.LoggedIn {
		t.Fatalf("expected forum loaded, got %+v", m.thread)
	}
	out := m.View()
	for _, want := range []string{"Trivia", "1/2 spots filled", "Join Event", "Bring snacks", "Comments (1)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}

func TestPanel_StaleOpenResultIsIgnored(t *testing.T) {
	f := newFixture(t)
	m := newTestModel(t, f, f.alice)

	first := m.openEvent(10)
	slow := first()
	second := m.openEvent(11)
	m = drain(t, m, second)
	if m.panel.EventID != 11 || m.panel.Title() != "Brunch" {
		t.Fatalf("expected event 11, got %+v", m.panel)
	}

	mAny, _ := m.Update(slow)
	m = mAny.(appModel)
	if m.panel.EventID != 11 || m.panel.Title() != "Brunch" {
		t.Fatalf("stale result replaced the panel: %+v", m.panel)
	}
}

func TestPanel_OpenFailureFlashesAndStaysClosed(t *testing.T) {
	f := newFixture(t)
	m := newTestModel(t, f, f.alice)
	f.srv.FailNext("GET /api/event/10", 500, "")

	m, _ = press(m, "l")
	m, _ = press(m, "l")
	m, cmd := press(m, "enter")
	m = drain(t, m, cmd)
	if m.panel.Open {
		t.Fatalf("expected panel to stay closed: %+v", m.panel)
	}
	if m.flash.Kind != notify.KindError || m.flash.Text != panel.LoadFailed {
		t.Fatalf("unexpected flash: %+v", m.flash)
	}
}

func TestEsc_ClosesPanel(t *testing.T) {
	f := newFixture(t)
	m := openEvent10(t, newTestModel(t, f, f.alice))

	m, _ = press(m, "esc")
	if m.panel.Open || !m.panel.Hidden || m.focus != focusGrid {
		t.Fatalf("expected closed panel, got %+v focus=%v", m.panel, m.focus)
	}
	m, _ = press(m, "esc")
	if m.panel.Open {
		t.Fatalf("closing twice should be a no-op")
	}
}

func TestJoinThenLeave(t *testing.T) {
	f := newFixture(t)
	m := openEvent10(t, newTestModel(t, f, f.alice))

	m, cmd := press(m, "J")
	m = drain(t, m, cmd)
	if m.panel.Actions != panel.ActionLeave || m.panel.Capacity() != "2/2 spots filled" {
		t.Fatalf("expected leave state at capacity, got %v %q", m.panel.Actions, m.panel.Capacity())
	}
	if m.flash.Kind != notify.KindSuccess || m.flash.Text != "Successfully joined event" {
		t.Fatalf("unexpected flash: %+v", m.flash)
	}

	// Declining the confirmation sends nothing.
	m, _ = press(m, "L")
	if m.pending == nil {
		t.Fatalf("expected leave confirmation")
	}
	f.srv.ResetCalls()
	m, cmd = press(m, "n")
	if m.pending != nil || cmd != nil || len(f.srv.Calls()) != 0 {
		t.Fatalf("expected declined leave to do nothing")
	}

	m, _ = press(m, "L")
	m, cmd = press(m, "enter")
	m = drain(t, m, cmd)
	if m.panel.Actions != panel.ActionJoin {
		t.Fatalf("expected join state after leaving, got %v", m.panel.Actions)
	}
	if got := f.srv.Participants(10); len(got) != 1 || got[0] != 3 {
		t.Fatalf("unexpected participants: %v", got)
	}
}

func TestJoin_ReloadFailureFlashesAndEnterReopens(t *testing.T) {
	f := newFixture(t)
	m := openEvent10(t, newTestModel(t, f, f.alice))

	f.srv.FailNext("GET /api/event/10", http.StatusInternalServerError, "")
	m, cmd := press(m, "J")
	m = drain(t, m, cmd)
	if got := f.srv.Participants(10); len(got) != 2 {
		t.Fatalf("expected the join to reach the server, got %v", got)
	}
	if !m.panel.Open || !m.panel.Loading {
		t.Fatalf("expected the stale join state replaced by a loading panel, got %+v", m.panel)
	}
	if m.flash.Kind != notify.KindError || m.flash.Text != "Successfully joined event. "+panel.LoadFailed {
		t.Fatalf("unexpected flash: %+v", m.flash)
	}
	if !strings.Contains(m.View(), panel.LoadingTitle) {
		t.Fatalf("expected loading title in view")
	}

	m, cmd = press(m, "enter")
	m = drain(t, m, cmd)
	if m.panel.Loading || m.panel.Actions != panel.ActionLeave {
		t.Fatalf("expected leave after reopening, got %+v", m.panel)
	}
}

func TestEmptyReply_StaysOpenWithoutRequest(t *testing.T) {
	f := newFixture(t)
	f.srv.AddComment(10, 2, nil, "Bring snacks", testNow.Add(-time.Hour))
	m := openEvent10(t, newTestModel(t, f, f.alice))

	m, _ = press(m, "r")
	if m.focus != focusCompose || m.compose != composeReply {
		t.Fatalf("expected reply composer open")
	}
	f.srv.ResetCalls()
	m.textarea.SetValue("   ")
	m, cmd := press(m, "ctrl+s")
	m = drain(t, m, cmd)
	if calls := f.srv.Calls(); len(calls) != 0 {
		t.Fatalf("expected no requests, got %v", calls)
	}
	if m.flash.Text != forum.EmptyReply || m.compose != composeReply {
		t.Fatalf("expected composer kept with flash, got %+v compose=%v", m.flash, m.compose)
	}
}

func TestReply_NestsUnderTarget(t *testing.T) {
	f := newFixture(t)
	parent := f.srv.AddComment(10, 2, nil, "Bring snacks", testNow.Add(-time.Hour))
	m := openEvent10(t, newTestModel(t, f, f.alice))

	m, _ = press(m, "r")
	m.textarea.SetValue("On it")
	m, cmd := press(m, "ctrl+s")
	m = drain(t, m, cmd)

	if m.compose != composeNone || m.focus != focusPanel {
		t.Fatalf("expected composer closed, got compose=%v focus=%v", m.compose, m.focus)
	}
	rows := m.thread.Rows
	if len(rows) != 2 || rows[1].Depth != 1 || *rows[1].Comment.ParentID != parent {
		t.Fatalf("expected nested reply, got %+v", rows)
	}
}

func TestReply_ToggleOnSameCommentCloses(t *testing.T) {
	f := newFixture(t)
	f.srv.AddComment(10, 2, nil, "Bring snacks", testNow.Add(-time.Hour))
	m := openEvent10(t, newTestModel(t, f, f.alice))

	m, _ = press(m, "r")
	m, _ = press(m, "tab")
	if m.focus != focusPanel || !m.composer.Open(m.thread.Rows[0].Comment.ID) {
		t.Fatalf("expected draft kept with panel focus")
	}
	m, _ = press(m, "r")
	if m.compose != composeNone || m.composer.State != forum.ComposerHidden {
		t.Fatalf("expected composer closed")
	}
}

func TestComment_PostsAndReloads(t *testing.T) {
	f := newFixture(t)
	m := openEvent10(t, newTestModel(t, f, f.alice))
	if !strings.Contains(m.View(), forum.EmptyPlaceholder) {
		t.Fatalf("expected empty placeholder")
	}

	m, _ = press(m, "c")
	m.textarea.SetValue("Count me in")
	m, cmd := press(m, "ctrl+s")
	m = drain(t, m, cmd)
	if len(m.thread.Rows) != 1 || m.thread.Rows[0].Comment.Text != "Count me in" {
		t.Fatalf("expected posted comment, got %+v", m.thread.Rows)
	}
}

func TestComment_AnonymousIsAskedToLogIn(t *testing.T) {
	f := newFixture(t)
	m := openEvent10(t, newTestModel(t, f, ""))

	if m.panel.Actions != panel.ActionLogin {
		t.Fatalf("expected login state, got %v", m.panel.Actions)
	}
	m, _ = press(m, "c")
	if m.compose != composeNone || m.flash.Text != forum.LoginToComment {
		t.Fatalf("expected login flash, got %+v", m.flash)
	}
}

func TestDeleteComment_ConfirmThenPlaceholder(t *testing.T) {
	f := newFixture(t)
	f.srv.AddComment(10, 1, nil, "Oops", testNow.Add(-time.Minute))
	m := openEvent10(t, newTestModel(t, f, f.alice))

	m, _ = press(m, "d")
	if m.pending == nil || m.pending.req.Title != "Delete Comment" {
		t.Fatalf("expected delete confirmation, got %+v", m.pending)
	}
	m, cmd := press(m, "enter")
	m = drain(t, m, cmd)
	if !m.thread.Empty() || f.srv.CommentCount(10) != 0 {
		t.Fatalf("expected comment deleted")
	}
	if !strings.Contains(m.View(), forum.EmptyPlaceholder) {
		t.Fatalf("expected empty placeholder after delete")
	}
}

func TestDeleteComment_OthersCommentHasNoAction(t *testing.T) {
	f := newFixture(t)
	f.srv.AddComment(10, 2, nil, "Bo's", testNow.Add(-time.Minute))
	m := openEvent10(t, newTestModel(t, f, f.alice))

	m, _ = press(m, "d")
	if m.pending != nil {
		t.Fatalf("expected no confirmation for another user's comment")
	}
}

func TestDeleteEvent_ClosesAndReloadsWeek(t *testing.T) {
	f := newFixture(t)
	m := openEvent10(t, newTestModel(t, f, f.bo))
	if m.panel.Actions != panel.ActionManage {
		t.Fatalf("expected manage state, got %v", m.panel.Actions)
	}

	m, _ = press(m, "D")
	if m.pending == nil {
		t.Fatalf("expected delete confirmation")
	}
	m, cmd := press(m, "y")
	m = drain(t, m, cmd)
	if m.panel.Open || m.focus != focusGrid {
		t.Fatalf("expected panel closed, got %+v", m.panel)
	}
	events := m.grid.Events()
	if len(events) != 1 || events[0].ID != 11 {
		t.Fatalf("expected week reloaded without the event, got %+v", events)
	}
	if m.flash.Kind != notify.KindSuccess {
		t.Fatalf("expected success flash, got %+v", m.flash)
	}
}

func TestEdit_CopiesEditLink(t *testing.T) {
	f := newFixture(t)
	m := openEvent10(t, newTestModel(t, f, f.bo))
	var copied string
	m.copy = func(s string) error { copied = s; return nil }

	m, cmd := press(m, "e")
	m = drain(t, m, cmd)
	if want := f.srv.URL + "/event/10/edit"; copied != want {
		t.Fatalf("copied %q, want %q", copied, want)
	}
	if !strings.Contains(m.flash.Text, "/event/10/edit") {
		t.Fatalf("unexpected flash: %+v", m.flash)
	}
}

func TestFlash_OnlyLatestTickClears(t *testing.T) {
	f := newFixture(t)
	m := newTestModel(t, f, f.alice)

	m.showFlash(notify.Error("first"))
	m.showFlash(notify.Success("second"))
	mAny, _ := m.Update(flashDoneMsg{seq: m.flashSeq - 1})
	m = mAny.(appModel)
	if m.flash.Text != "second" {
		t.Fatalf("older tick cleared the banner: %+v", m.flash)
	}
	mAny, _ = m.Update(flashDoneMsg{seq: m.flashSeq})
	m = mAny.(appModel)
	if m.flash.Text != "" {
		t.Fatalf("expected banner cleared")
	}
}

func TestWeekNavigation_DropsStaleLoads(t *testing.T) {
	f := newFixture(t)
	m := newTestModel(t, f, f.alice)
	this := m.week

	m, cmd := press(m, "]")
	m = drain(t, m, cmd)
	if !m.week.Start.Equal(this.Next().Start) || !m.grid.Empty() {
		t.Fatalf("expected empty next week, got %s", m.week.Label())
	}
	if !strings.Contains(m.View(), noEventsLine) {
		t.Fatalf("expected empty-week line")
	}

	late := weekLoadedMsg{week: this, events: []model.WeekEvent{{ID: 10, Title: "Trivia", Date: "2026-03-06"}}}
	mAny, _ := m.Update(late)
	m = mAny.(appModel)
	if !m.grid.Empty() {
		t.Fatalf("stale week load replaced the grid")
	}

	m, cmd = press(m, "t")
	m = drain(t, m, cmd)
	if !m.week.Start.Equal(this.Start) || m.grid.Empty() {
		t.Fatalf("expected back on this week with events")
	}
}

func TestView_NarrowPanelReplacesGrid(t *testing.T) {
	f := newFixture(t)
	m := newTestModel(t, f, f.alice)
	mAny, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m = mAny.(appModel)
	m = openEvent10(t, m)

	out := m.View()
	if strings.Contains(out, m.grid.Days[0].Header()) {
		t.Fatalf("expected the panel to replace the grid:\n%s", out)
	}
	if !strings.Contains(out, "Trivia") {
		t.Fatalf("expected panel content:\n%s", out)
	}
}

func TestRestore_ReopensSavedEvent(t *testing.T) {
	f := newFixture(t)
	m := newTestModelWith(t, f, f.alice, func(o *Options) {
		o.Week = testNow.AddDate(0, 0, 7)
		o.OpenEventID = 10
	})

	if !m.panel.Open || m.panel.EventID != 10 {
		t.Fatalf("expected event 10 reopened, got %+v", m.panel)
	}
	if want := calendar.WeekOf(testNow.AddDate(0, 0, 7)); !m.week.Start.Equal(want.Start) {
		t.Fatalf("expected restored week %v, got %v", want.Start, m.week.Start)
	}
	st := m.state()
	if st.OpenEventID != 10 || st.Week != m.week.Start.Format(time.DateOnly) {
		t.Fatalf("unexpected saved state: %+v", st)
	}
}

func TestJournal_RecordsActions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "clump.sqlite"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	m := openEvent10(t, newTestModelWith(t, f, f.alice, func(o *Options) { o.Store = st }))
	m, cmd := press(m, "J")
	_ = drain(t, m, cmd)

	got, err := st.Recent(ctx, 10, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 || got[0].Op != store.OpJoin || !got[0].OK || got[0].Message != "Successfully joined event" {
		t.Fatalf("expected successful join journaled, got %+v", got)
	}
}
