package tui

import (
	"fmt"
	"strings"

	"clump-cli/internal/calendar"
	"clump-cli/internal/forum"
	"clump-cli/internal/notify"
	"clump-cli/internal/panel"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

const (
	splitMinWidth  = 100
	panelMinWidth  = 46
	maxIndentLevel = 6
	noEventsLine   = "No events this week."
)

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}

	header := m.headerView()
	footer := m.flashView()
	helpLine := m.help.View(m.helpKeys())
	bodyH := m.height - lipgloss.Height(header) - lipgloss.Height(helpLine) - 1
	if bodyH < 1 {
		bodyH = 1
	}

	var body string
	switch {
	case m.pending != nil:
		body = lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center, renderConfirmModal(m.width, *m.pending))
	case !m.panel.Open:
		body = normalizePane(m.gridView(m.width, bodyH), m.width, bodyH)
	case m.width < splitMinWidth:
		body = normalizePane(m.panelView(), m.width, bodyH)
	default:
		pw := m.panelWidth()
		gw := m.width - pw - 1
		rule := strings.TrimSuffix(strings.Repeat(styleMuted().Render(glyphVRule())+"\n", bodyH), "\n")
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			normalizePane(m.gridView(gw, bodyH), gw, bodyH),
			rule,
			normalizePane(m.panelView(), pw, bodyH),
		)
	}

	return strings.Join([]string{header, body, footer, helpLine}, "\n")
}

func (m appModel) helpKeys() help.KeyMap {
	switch {
	case m.focus == focusCompose:
		return composeHelp{m.keys}
	case m.focus == focusPanel && m.panel.Open:
		return panelHelp{m.keys}
	default:
		return gridHelp{m.keys}
	}
}

// panelWidth is the width of the detail panel: beside the grid on wide
// terminals, the whole screen otherwise.
func (m appModel) panelWidth() int {
	if m.width < splitMinWidth {
		return m.width
	}
	w := m.width * 2 / 5
	if w < panelMinWidth {
		w = panelMinWidth
	}
	return w
}

// resize fits the viewport and composer to the current terminal size.
func (m *appModel) resize() {
	pw := m.panelWidth()
	m.vp.Width = pw
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	m.vp.Height = h
	m.textarea.SetWidth(max(10, pw-4))
	m.help.Width = m.width
}

func (m appModel) headerView() string {
	label := fmt.Sprintf("%s %s %s", glyphPrevWeek(), m.week.Label(), glyphNextWeek())
	line := styleHeading().Render(label)
	if m.weekLoading {
		line += "  " + styleMuted().Render("loading...")
	}
	if m.panel.Loading && !m.panel.Open {
		line += "  " + styleMuted().Render(panel.LoadingTitle)
	}
	return fixedWidthLine(line, m.width)
}

func (m appModel) flashView() string {
	if m.flash.Text == "" {
		return ""
	}
	bg := colorFlashSuccessBg
	if m.flash.Kind == notify.KindError {
		bg = colorFlashErrorBg
	}
	st := lipgloss.NewStyle().Foreground(colorFlashFg).Background(bg).Padding(0, 1)
	return fixedWidthLine(st.Render(m.flash.Text), m.width)
}

// gridView draws the seven day columns. Each event block is its title and
// start time; the selected block is highlighted while the grid has focus.
func (m appModel) gridView(width, height int) string {
	colW := (width - 6) / 7
	if colW < 4 {
		colW = 4
	}
	sep := styleMuted().Render(glyphVRule())

	headers := make([]string, 7)
	cols := make([][]string, 7)
	rows := 0
	for i, d := range m.grid.Days {
		h := calendar.Cell(d.Header(), colW)
		switch {
		case i == m.day:
			h = styleSelected().Render(h)
		case d.Today:
			h = lipgloss.NewStyle().Bold(true).Foreground(colorToday).Render(h)
		default:
			h = styleHeading().Render(h)
		}
		headers[i] = h

		for j, ev := range d.Events {
			selected := i == m.day && j == m.row && m.focus == focusGrid
			open := m.panel.Open && ev.ID == m.panel.EventID
			for k, line := range calendar.BlockLines(ev) {
				cell := calendar.Cell(line, colW)
				switch {
				case selected:
					cell = styleSelected().Render(cell)
				case open:
					cell = lipgloss.NewStyle().Foreground(colorAccent).Bold(k == 0).Render(cell)
				case k > 0:
					cell = styleMuted().Render(cell)
				}
				cols[i] = append(cols[i], cell)
			}
			cols[i] = append(cols[i], calendar.Cell("", colW))
		}
		if len(cols[i]) > rows {
			rows = len(cols[i])
		}
	}

	lines := []string{
		strings.Join(headers, sep),
		styleMuted().Render(strings.Repeat(glyphHRule(), width)),
	}
	if m.grid.Empty() && !m.weekLoading {
		lines = append(lines, styleMuted().Render(noEventsLine))
	}
	blank := calendar.Cell("", colW)
	for r := 0; r < rows && len(lines) < height; r++ {
		parts := make([]string, 7)
		for i := range cols {
			parts[i] = blank
			if r < len(cols[i]) {
				parts[i] = cols[i][r]
			}
		}
		lines = append(lines, strings.Join(parts, sep))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) panelView() string {
	return m.vp.View()
}

// syncPanel rebuilds the panel content and keeps the selected comment (or
// the open composer) in view.
func (m *appModel) syncPanel() {
	if !m.panel.Open {
		m.vp.SetContent("")
		m.vp.GotoTop()
		m.selLine = -1
		return
	}
	lines, target := m.panelLines(m.panelWidth())
	m.vp.SetContent(strings.Join(lines, "\n"))
	if target < 0 || target == m.selLine {
		return
	}
	m.selLine = target
	if target < m.vp.YOffset {
		m.vp.SetYOffset(target)
	} else if target >= m.vp.YOffset+m.vp.Height {
		m.vp.SetYOffset(target - m.vp.Height + 1)
	}
}

// panelLines renders the panel and returns the line to keep visible.
func (m appModel) panelLines(width int) ([]string, int) {
	v := m.panel
	inner := max(10, width-2)
	pad := func(s string) string { return " " + s }

	lines := []string{pad(styleHeading().Render(v.Title()))}
	if v.Loading {
		return lines, -1
	}

	ev := v.Event
	meta := []string{ev.Date, v.When(), v.Where()}
	if ev.Category != "" {
		meta = append(meta, ev.Category)
	}
	if ev.CreatorName != "" {
		meta = append(meta, "Hosted by "+ev.CreatorName)
	}
	meta = append(meta, v.Capacity())
	for _, s := range meta {
		lines = append(lines, pad(styleMuted().Render(s)))
	}
	lines = append(lines, "")

	if labels := v.Actions.Buttons(); len(labels) > 0 {
		btns := make([]string, 0, len(labels))
		for _, l := range labels {
			btns = append(btns, styleButton().Render(l))
		}
		lines = append(lines, pad(strings.Join(btns, " ")))
	}
	if msg := v.Actions.Message(); msg != "" {
		lines = append(lines, pad(styleMuted().Render(msg)))
	}
	lines = append(lines, "", pad(styleHeading().Render("Description")))
	for _, l := range strings.Split(renderDescription(v.Description(), inner), "\n") {
		lines = append(lines, pad(l))
	}

	lines = append(lines, "", pad(styleHeading().Render("Participants")))
	for _, p := range v.ParticipantLines() {
		if len(ev.Participants) == 0 {
			lines = append(lines, pad(styleMuted().Render(p)))
			continue
		}
		lines = append(lines, pad(glyphBullet()+" "+p))
	}

	lines = append(lines, "", pad(styleMuted().Render(strings.Repeat(glyphHRule(), inner))))
	forumLines, target := m.forumLines(inner)
	if target >= 0 {
		target += len(lines)
	}
	for _, l := range forumLines {
		lines = append(lines, pad(l))
	}
	return lines, target
}

// forumLines renders the comment thread. Replies are indented two columns
// per level, clamped so deep threads stay readable in a narrow panel.
func (m appModel) forumLines(width int) ([]string, int) {
	t := m.thread
	now := m.now()
	lines := []string{styleHeading().Render(fmt.Sprintf("Comments (%d)", t.Count))}
	target := -1

	switch {
	case m.forumLoading && t.Empty():
		lines = append(lines, styleMuted().Render("Loading comments..."))
	case m.forumErr != "" && t.Empty():
		lines = append(lines, styleMuted().Render(m.forumErr))
	case t.Empty():
		lines = append(lines, styleMuted().Render(forum.EmptyPlaceholder))
	}

	for i, r := range t.Rows {
		level := min(r.Depth, maxIndentLevel)
		indent := strings.Repeat("  ", level)
		marker := ""
		if r.Depth > 0 {
			marker = glyphReply()
		}
		composing := m.composer.Open(r.Comment.ID)

		head := fmt.Sprintf("%s %s %s", r.Comment.AuthorName, glyphDot(), forum.CommentTime(r.Comment, now))
		var tags []string
		if !composing {
			if t.CanReply() {
				tags = append(tags, "[r] reply")
			}
			if t.CanDelete(r) {
				tags = append(tags, "[d] delete")
			}
		}
		selected := i == m.sel && m.focus != focusGrid
		if selected {
			head = styleSelected().Render(head)
			target = len(lines)
		} else {
			head = lipgloss.NewStyle().Bold(true).Render(head)
		}
		if len(tags) > 0 {
			head += "  " + styleMuted().Render(strings.Join(tags, "  "))
		}
		lines = append(lines, indent+marker+head)

		bodyIndent := indent + strings.Repeat(" ", lipgloss.Width(marker))
		for _, l := range wrapText(r.Comment.Text, max(8, width-len(bodyIndent))) {
			lines = append(lines, bodyIndent+l)
		}
		if composing && m.compose == composeReply {
			if m.focus == focusCompose {
				target = len(lines)
			}
			for _, l := range strings.Split(m.textarea.View(), "\n") {
				lines = append(lines, bodyIndent+l)
			}
			lines = append(lines, bodyIndent+styleMuted().Render("ctrl+s: post  esc: cancel"))
		}
	}

	lines = append(lines, "")
	switch {
	case m.compose == composeComment:
		if m.focus == focusCompose {
			target = len(lines)
		}
		lines = append(lines, strings.Split(m.textarea.View(), "\n")...)
		lines = append(lines, styleMuted().Render("ctrl+s: post  esc: cancel"))
	case m.forumLoading && t.Empty():
	case !t.CanComment():
		lines = append(lines, styleMuted().Render(forum.LoginToComment))
	default:
		lines = append(lines, styleMuted().Render("c: add a comment"))
	}
	return lines, target
}
