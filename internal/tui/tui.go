// Package tui is the interactive client: a week grid of events, a slide-in
// detail panel with the event's forum, confirmation modals and a flash
// banner for action results.
package tui

import (
	"context"
	"log/slog"
	"time"

	"clump-cli/internal/calendar"
	"clump-cli/internal/forum"
	"clump-cli/internal/logging"
	"clump-cli/internal/model"
	"clump-cli/internal/notify"
	"clump-cli/internal/panel"
	"clump-cli/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Client is everything the TUI asks of the server.
type Client interface {
	panel.Client
	forum.Client
	Week(ctx context.Context, start, end time.Time) ([]model.WeekEvent, error)
}

type Options struct {
	Client  Client
	BaseURL string
	Log     *slog.Logger
	Glyphs  string
	Theme   string
	// Store journals actions and keeps the last position. Nil disables both.
	Store *store.Store
	// Week is any day of the week to show first; zero means today.
	Week time.Time
	// OpenEventID reopens an event's panel on start.
	OpenEventID int
	// Now defaults to time.Now.
	Now func() time.Time
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)
	applyGlyphPreference(opts.Glyphs)

	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	ctx := context.Background()
	if st, err := opts.Store.LoadTUIState(ctx); err != nil {
		opts.Log.Warn("load tui state failed", "err", err)
	} else if opts.Week.IsZero() && opts.OpenEventID == 0 {
		if start, ok := st.WeekStart(time.Local); ok {
			opts.Week = start
		}
		opts.OpenEventID = st.OpenEventID
	}

	m := newAppModel(opts)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if fm, ok := final.(appModel); ok {
		if serr := opts.Store.SaveTUIState(ctx, fm.state()); serr != nil {
			fm.log.Warn("save tui state failed", "err", serr)
		}
	}
	return err
}

type focusArea int

const (
	focusGrid focusArea = iota
	focusPanel
	focusCompose
)

type composeMode int

const (
	composeNone composeMode = iota
	composeComment
	composeReply
)

type appModel struct {
	client  Client
	baseURL string
	log     *slog.Logger
	journal *store.Store
	panels  *panel.Controller
	forums  *forum.Controller
	now     func() time.Time
	copy    func(string) error

	keys keyMap
	help help.Model

	width  int
	height int

	week        calendar.Week
	grid        calendar.Grid
	weekLoading bool
	day         int
	row         int

	focus focusArea

	panel        panel.View
	thread       forum.Thread
	forumLoading bool
	forumErr     string
	sel          int

	compose  composeMode
	composer forum.Composer
	textarea textarea.Model
	vp       viewport.Model
	selLine  int

	pending *pendingConfirm

	flash    notify.Flash
	flashSeq int
	flashFor time.Duration
}

func newAppModel(opts Options) appModel {
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	ta := textarea.New()
	ta.Placeholder = "Write something..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetHeight(3)

	today := now()
	week := calendar.WeekOf(today)
	if !opts.Week.IsZero() {
		week = calendar.WeekOf(opts.Week)
	}
	m := appModel{
		client:      opts.Client,
		baseURL:     opts.BaseURL,
		log:         log,
		journal:     opts.Store,
		panels:      panel.NewController(opts.Client, log),
		forums:      forum.NewController(opts.Client, log),
		now:         now,
		copy:        copyToClipboard,
		keys:        defaultKeyMap(),
		help:        help.New(),
		week:        week,
		grid:        calendar.NewGrid(week, nil, today),
		weekLoading: true,
		day:         int(today.Weekday()),
		textarea:    ta,
		vp:          viewport.New(0, 0),
		flashFor:    notify.FlashDuration,
	}
	if opts.OpenEventID > 0 {
		m.panel = panel.Loading(panel.View{Hidden: true}, opts.OpenEventID)
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadWeekCmd(m.week)}
	if m.panel.Loading {
		cmds = append(cmds, m.openEventCmd(m.panel, m.panel.EventID))
	}
	return tea.Batch(cmds...)
}

// state is what Run saves for the next launch.
func (m appModel) state() store.TUIState {
	st := store.TUIState{Week: m.week.Start.Format(time.DateOnly)}
	if m.panel.Open {
		st.OpenEventID = m.panel.EventID
	}
	return st
}
