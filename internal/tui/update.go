package tui

import (
	"strings"

	"clump-cli/internal/calendar"
	"clump-cli/internal/confirm"
	"clump-cli/internal/forum"
	"clump-cli/internal/model"
	"clump-cli/internal/notify"
	"clump-cli/internal/panel"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.syncPanel()
	return m, cmd
}

func (m *appModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = notify.Flash{}
		}
		return nil

	case weekLoadedMsg:
		return m.onWeekLoaded(msg)

	case panelMsg:
		return m.onPanel(msg)

	case forumMsg:
		return m.onForum(msg)

	case copiedMsg:
		if msg.err != nil {
			m.log.Warn("copy edit link failed", "err", msg.err)
			return m.showFlash(notify.Error("Edit at " + msg.url))
		}
		return m.showFlash(notify.Success("Copied edit link: " + msg.url))

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	if m.focus == focusCompose {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return cmd
	}
	return nil
}

func (m *appModel) showFlash(f notify.Flash) tea.Cmd {
	m.flash = f
	m.flashSeq++
	return flashTick(m.flashSeq, m.flashFor)
}

func (m *appModel) failed(err error) tea.Cmd {
	return m.showFlash(notify.Error(notify.MessageOf(err)))
}

func (m *appModel) onWeekLoaded(msg weekLoadedMsg) tea.Cmd {
	if !msg.week.Start.Equal(m.week.Start) {
		// The user has moved to another week since.
		return nil
	}
	m.weekLoading = false
	if msg.err != nil {
		return m.failed(msg.err)
	}
	m.grid = calendar.NewGrid(m.week, msg.events, m.now())
	m.clampGridSelection()
	return nil
}

// onPanel applies a panel result. Results for an event other than the one
// currently in the panel are dropped, so the last opened event wins.
func (m *appModel) onPanel(msg panelMsg) tea.Cmd {
	current := msg.eventID == m.panel.EventID
	switch msg.op {
	case opOpen:
		current = current && m.panel.Loading
	default:
		current = current && m.panel.Open
	}

	if msg.err != nil {
		if !current {
			return nil
		}
		if msg.op == opOpen {
			// An open panel keeps its loading state; a hidden one stays hidden.
			m.panel = msg.view
			if !m.panel.Open {
				m.panel = panel.Close(m.panel)
			}
		}
		return m.failed(msg.err)
	}

	if msg.op == opDelete {
		var cmds []tea.Cmd
		if current {
			m.panel = msg.view
			m.resetForum()
			m.focus = focusGrid
		}
		if msg.view.ReloadWeek {
			m.weekLoading = true
			cmds = append(cmds, m.loadWeekCmd(m.week))
		}
		text := msg.view.Notice
		if text == "" {
			text = "Event deleted"
		}
		cmds = append(cmds, m.showFlash(notify.Success(text)))
		return tea.Batch(cmds...)
	}

	if !current {
		m.log.Debug("dropping stale panel result", "op", string(msg.op), "event", msg.eventID, "open", m.panel.EventID)
		return nil
	}
	m.panel = msg.view
	if msg.op == opOpen {
		m.focus = focusPanel
	}
	m.resetForum()
	if msg.view.ReloadErr != nil {
		// The action went through; only the refresh failed. enter reopens.
		return m.showFlash(notify.Error(joinNotices(msg.view.Notice, notify.MessageOf(msg.view.ReloadErr))))
	}
	m.forumLoading = true
	cmds := []tea.Cmd{m.loadForumCmd(msg.eventID, msg.view.Event.LoggedIn)}
	if msg.view.Notice != "" {
		cmds = append(cmds, m.showFlash(notify.Success(msg.view.Notice)))
	}
	return tea.Batch(cmds...)
}

func joinNotices(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return strings.TrimRight(a, ".") + ". " + b
}

func (m *appModel) resetForum() {
	m.thread = forum.Thread{}
	m.forumErr = ""
	m.forumLoading = false
	m.sel = 0
	m.closeComposer()
}

func (m *appModel) onForum(msg forumMsg) tea.Cmd {
	if msg.eventID != m.panel.EventID || !m.panel.Open {
		return nil
	}
	m.forumLoading = false
	if msg.err != nil {
		if msg.op == opLoad {
			m.thread = msg.thread
			m.forumErr = notify.MessageOf(msg.err)
		}
		// A failed post keeps the composer and its text.
		return m.failed(msg.err)
	}

	selected := m.selectedCommentID()
	m.thread = msg.thread
	m.forumErr = ""
	switch msg.op {
	case opComment, opReply:
		m.closeComposer()
	}
	if i := forum.IndexOf(m.thread.Rows, selected); i >= 0 {
		m.sel = i
	}
	m.clampForumSelection()
	return nil
}

func (m *appModel) onKey(msg tea.KeyMsg) tea.Cmd {
	if m.pending != nil {
		return m.onConfirmKey(msg)
	}
	if m.focus == focusCompose {
		return m.onComposeKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}

	if m.focus == focusPanel && m.panel.Open {
		return m.onPanelKey(msg)
	}
	return m.onGridKey(msg)
}

func (m *appModel) onGridKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.day = (m.day + 6) % 7
		m.clampGridSelection()
	case key.Matches(msg, m.keys.Right):
		m.day = (m.day + 1) % 7
		m.clampGridSelection()
	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, m.keys.Down):
		if m.row < len(m.grid.Days[m.day].Events)-1 {
			m.row++
		}
	case key.Matches(msg, m.keys.Open):
		ev, ok := m.selectedEvent()
		if !ok {
			return nil
		}
		return m.openEvent(ev.ID)
	case key.Matches(msg, m.keys.PrevWeek):
		return m.gotoWeek(m.week.Prev())
	case key.Matches(msg, m.keys.NextWeek):
		return m.gotoWeek(m.week.Next())
	case key.Matches(msg, m.keys.Today):
		return m.gotoWeek(calendar.WeekOf(m.now()))
	case key.Matches(msg, m.keys.Reload):
		m.weekLoading = true
		return m.loadWeekCmd(m.week)
	case key.Matches(msg, m.keys.Focus):
		if m.panel.Open {
			m.focus = focusPanel
		}
	case key.Matches(msg, m.keys.Close):
		m.closePanel()
	}
	return nil
}

func (m *appModel) onPanelKey(msg tea.KeyMsg) tea.Cmd {
	v := m.panel
	switch {
	case key.Matches(msg, m.keys.Close):
		m.closePanel()
	case key.Matches(msg, m.keys.Focus):
		m.focus = focusGrid
	case key.Matches(msg, m.keys.Up):
		if m.sel > 0 {
			m.sel--
		}
	case key.Matches(msg, m.keys.Down):
		if m.sel < len(m.thread.Rows)-1 {
			m.sel++
		}
	case key.Matches(msg, m.keys.ScrollUp):
		m.vp.HalfViewUp()
	case key.Matches(msg, m.keys.ScrollDown):
		m.vp.HalfViewDown()
	case key.Matches(msg, m.keys.Open):
		if v.Loading {
			return m.openEvent(v.EventID)
		}

	case key.Matches(msg, m.keys.Join):
		if v.Loading || v.Actions != panel.ActionJoin {
			return nil
		}
		return m.joinCmd(v, v.EventID)
	case key.Matches(msg, m.keys.Leave):
		if v.Loading || v.Actions != panel.ActionLeave {
			return nil
		}
		m.ask(confirm.LeaveEvent(), func() tea.Cmd { return m.leaveCmd(v, v.EventID) })
	case key.Matches(msg, m.keys.Edit):
		if v.Loading || v.Actions != panel.ActionManage {
			return nil
		}
		return m.copyCmd(panel.EditURL(m.baseURL, v.EventID))
	case key.Matches(msg, m.keys.Delete):
		if v.Loading || v.Actions != panel.ActionManage {
			return nil
		}
		m.ask(confirm.DeleteEvent(), func() tea.Cmd { return m.deleteEventCmd(v, v.EventID) })

	case key.Matches(msg, m.keys.Comment):
		if v.Loading {
			return nil
		}
		if !m.thread.CanComment() {
			return m.showFlash(notify.Error(forum.LoginToComment))
		}
		m.composer = m.composer.Cancel()
		return m.openComposer(composeComment)
	case key.Matches(msg, m.keys.Reply):
		r, ok := m.selectedRow()
		if !ok || !m.thread.CanReply() {
			return nil
		}
		m.composer = m.composer.Toggle(r.Comment.ID)
		if !m.composer.Open(r.Comment.ID) {
			m.closeComposer()
			return nil
		}
		return m.openComposer(composeReply)
	case key.Matches(msg, m.keys.DeleteComment):
		r, ok := m.selectedRow()
		if !ok || !m.thread.CanDelete(r) || m.composer.Open(r.Comment.ID) {
			return nil
		}
		eventID, commentID := v.EventID, r.Comment.ID
		m.ask(confirm.DeleteComment(), func() tea.Cmd { return m.deleteCommentCmd(eventID, commentID) })
	}
	return nil
}

func (m *appModel) onComposeKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Cancel):
		m.closeComposer()
		return nil
	case key.Matches(msg, m.keys.Focus):
		// Leave the draft in place; r on the same comment closes it.
		m.textarea.Blur()
		m.focus = focusPanel
		return nil
	}
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return cmd
}

func (m *appModel) onConfirmKey(msg tea.KeyMsg) tea.Cmd {
	p := m.pending
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		if p.focus == confirmFocusConfirm {
			p.focus = confirmFocusCancel
		} else {
			p.focus = confirmFocusConfirm
		}
		return nil
	case "y":
		m.pending = nil
		return p.run()
	case "n", "esc", "ctrl+g", "q":
		m.pending = nil
		return nil
	case "enter":
		m.pending = nil
		if p.focus == confirmFocusConfirm {
			return p.run()
		}
		return nil
	}
	return nil
}

func (m *appModel) ask(req confirm.Request, run func() tea.Cmd) {
	m.pending = &pendingConfirm{req: req, run: run, focus: confirmFocusConfirm}
}

func (m *appModel) submit() tea.Cmd {
	text := m.textarea.Value()
	eventID := m.panel.EventID
	switch m.compose {
	case composeReply:
		comp := m.composer
		comp.Text = text
		if _, _, err := comp.Submission(); err != nil {
			return m.showFlash(notify.Error(forum.EmptyReply))
		}
		m.composer = comp
		m.forumLoading = true
		return m.replyCmd(eventID, comp)
	case composeComment:
		if strings.TrimSpace(text) == "" {
			return m.showFlash(notify.Error(forum.EmptyComment))
		}
		m.forumLoading = true
		return m.commentCmd(eventID, text)
	}
	return nil
}

func (m *appModel) openComposer(mode composeMode) tea.Cmd {
	m.compose = mode
	m.focus = focusCompose
	m.textarea.Reset()
	return m.textarea.Focus()
}

func (m *appModel) closeComposer() {
	m.compose = composeNone
	m.composer = m.composer.Cancel()
	m.textarea.Reset()
	m.textarea.Blur()
	if m.focus == focusCompose {
		m.focus = focusPanel
	}
}

func (m *appModel) openEvent(eventID int) tea.Cmd {
	m.panel = panel.Loading(m.panel, eventID)
	m.resetForum()
	return m.openEventCmd(m.panel, eventID)
}

func (m *appModel) closePanel() {
	if !m.panel.Open && !m.panel.Loading {
		return
	}
	m.panel = panel.Close(m.panel)
	m.resetForum()
	m.focus = focusGrid
}

func (m *appModel) gotoWeek(w calendar.Week) tea.Cmd {
	m.week = w
	m.grid = calendar.NewGrid(w, nil, m.now())
	m.weekLoading = true
	m.row = 0
	return m.loadWeekCmd(w)
}

func (m *appModel) selectedEvent() (model.WeekEvent, bool) {
	events := m.grid.Days[m.day].Events
	if m.row < 0 || m.row >= len(events) {
		return model.WeekEvent{}, false
	}
	return events[m.row], true
}

func (m *appModel) selectedRow() (forum.Row, bool) {
	if m.sel < 0 || m.sel >= len(m.thread.Rows) {
		return forum.Row{}, false
	}
	return m.thread.Rows[m.sel], true
}

func (m *appModel) selectedCommentID() int {
	if r, ok := m.selectedRow(); ok {
		return r.Comment.ID
	}
	return 0
}

func (m *appModel) clampGridSelection() {
	n := len(m.grid.Days[m.day].Events)
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

func (m *appModel) clampForumSelection() {
	if m.sel >= len(m.thread.Rows) {
		m.sel = len(m.thread.Rows) - 1
	}
	if m.sel < 0 {
		m.sel = 0
	}
}
