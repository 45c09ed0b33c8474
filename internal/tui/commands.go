package tui

import (
	"context"
	"errors"
	"time"

	"clump-cli/internal/calendar"
	"clump-cli/internal/forum"
	"clump-cli/internal/model"
	"clump-cli/internal/notify"
	"clump-cli/internal/panel"
	"clump-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Every HTTP call runs in a tea.Cmd. Its result comes back to Update as one
// of these messages; the model is never touched off the program goroutine.

type weekLoadedMsg struct {
	week   calendar.Week
	events []model.WeekEvent
	err    error
}

type panelOp string

const (
	opOpen   panelOp = "open"
	opJoin   panelOp = "join"
	opLeave  panelOp = "leave"
	opDelete panelOp = "delete"
)

type panelMsg struct {
	op      panelOp
	eventID int
	view    panel.View
	err     error
}

type forumOp string

const (
	opLoad          forumOp = "load"
	opComment       forumOp = "comment"
	opReply         forumOp = "reply"
	opDeleteComment forumOp = "delete"
)

type forumMsg struct {
	op      forumOp
	eventID int
	thread  forum.Thread
	err     error
}

type flashDoneMsg struct{ seq int }

type copiedMsg struct {
	url string
	err error
}

const weekLoadFailed = "Failed to load events."

func (m appModel) loadWeekCmd(week calendar.Week) tea.Cmd {
	client, log := m.client, m.log
	return func() tea.Msg {
		events, err := client.Week(context.Background(), week.Start, week.End)
		return weekLoadedMsg{week: week, events: events, err: notify.Fail(log, "load week", err, weekLoadFailed)}
	}
}

func (m appModel) openEventCmd(prev panel.View, eventID int) tea.Cmd {
	ctrl := m.panels
	return func() tea.Msg {
		v, err := ctrl.Open(context.Background(), prev, eventID)
		return panelMsg{op: opOpen, eventID: eventID, view: v, err: err}
	}
}

func (m appModel) joinCmd(prev panel.View, eventID int) tea.Cmd {
	ctrl, rec := m.panels, m.recorder()
	return func() tea.Msg {
		v, err := ctrl.Join(context.Background(), prev, eventID)
		rec(store.ActionFrom(store.OpJoin, eventID, 0, err, v.Notice))
		return panelMsg{op: opJoin, eventID: eventID, view: v, err: err}
	}
}

func (m appModel) leaveCmd(prev panel.View, eventID int) tea.Cmd {
	ctrl, rec := m.panels, m.recorder()
	return func() tea.Msg {
		v, err := ctrl.Leave(context.Background(), prev, eventID)
		rec(store.ActionFrom(store.OpLeave, eventID, 0, err, v.Notice))
		return panelMsg{op: opLeave, eventID: eventID, view: v, err: err}
	}
}

func (m appModel) deleteEventCmd(prev panel.View, eventID int) tea.Cmd {
	ctrl, rec := m.panels, m.recorder()
	return func() tea.Msg {
		v, err := ctrl.Delete(context.Background(), prev, eventID)
		rec(store.ActionFrom(store.OpDeleteEvent, eventID, 0, err, v.Notice))
		return panelMsg{op: opDelete, eventID: eventID, view: v, err: err}
	}
}

func (m appModel) loadForumCmd(eventID int, loggedIn bool) tea.Cmd {
	ctrl := m.forums
	return func() tea.Msg {
		th, err := ctrl.Load(context.Background(), eventID, loggedIn)
		return forumMsg{op: opLoad, eventID: eventID, thread: th, err: err}
	}
}

func (m appModel) commentCmd(eventID int, text string) tea.Cmd {
	ctrl, rec := m.forums, m.recorder()
	return func() tea.Msg {
		th, err := ctrl.Comment(context.Background(), eventID, text)
		if !errors.Is(err, forum.ErrEmptyText) {
			rec(store.ActionFrom(store.OpComment, eventID, 0, err, ""))
		}
		return forumMsg{op: opComment, eventID: eventID, thread: th, err: err}
	}
}

func (m appModel) replyCmd(eventID int, comp forum.Composer) tea.Cmd {
	ctrl, rec := m.forums, m.recorder()
	return func() tea.Msg {
		th, err := ctrl.Reply(context.Background(), eventID, comp)
		if !errors.Is(err, forum.ErrEmptyText) {
			rec(store.ActionFrom(store.OpReply, eventID, comp.Target, err, ""))
		}
		return forumMsg{op: opReply, eventID: eventID, thread: th, err: err}
	}
}

func (m appModel) deleteCommentCmd(eventID, commentID int) tea.Cmd {
	ctrl, rec := m.forums, m.recorder()
	return func() tea.Msg {
		th, err := ctrl.Delete(context.Background(), eventID, commentID)
		rec(store.ActionFrom(store.OpDeleteComment, eventID, commentID, err, ""))
		return forumMsg{op: opDeleteComment, eventID: eventID, thread: th, err: err}
	}
}

// recorder journals an action outcome. Journal failures are logged and
// otherwise ignored.
func (m appModel) recorder() func(store.Action) {
	journal, log := m.journal, m.log
	return func(a store.Action) {
		if err := journal.Record(context.Background(), a); err != nil {
			log.Warn("journal record failed", "op", a.Op, "err", err)
		}
	}
}

func (m appModel) copyCmd(url string) tea.Cmd {
	copyFn := m.copy
	return func() tea.Msg {
		return copiedMsg{url: url, err: copyFn(url)}
	}
}

func flashTick(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}
