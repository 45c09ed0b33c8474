package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Close    key.Binding
	Focus    key.Binding
	PrevWeek key.Binding
	NextWeek key.Binding
	Today    key.Binding
	Reload   key.Binding

	Join   key.Binding
	Leave  key.Binding
	Edit   key.Binding
	Delete key.Binding

	Comment       key.Binding
	Reply         key.Binding
	DeleteComment key.Binding
	Submit        key.Binding
	Cancel        key.Binding

	ScrollUp   key.Binding
	ScrollDown key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open event")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close panel")),
		Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		PrevWeek: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev week")),
		NextWeek: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next week")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "this week")),
		Reload:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "reload")),

		Join:   key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "join")),
		Leave:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "leave")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "copy edit link")),
		Delete: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete event")),

		Comment:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment")),
		Reply:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reply")),
		DeleteComment: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete comment")),
		Submit:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "post")),
		Cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

		ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// gridHelp, panelHelp and composeHelp implement help.KeyMap for each focus.

type gridHelp struct{ k keyMap }

func (h gridHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Open, h.k.PrevWeek, h.k.NextWeek, h.k.Help, h.k.Quit}
}

func (h gridHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.k.Left, h.k.Right, h.k.Up, h.k.Down},
		{h.k.Open, h.k.Focus, h.k.Close},
		{h.k.PrevWeek, h.k.NextWeek, h.k.Today, h.k.Reload},
		{h.k.Help, h.k.Quit},
	}
}

type panelHelp struct{ k keyMap }

func (h panelHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Join, h.k.Leave, h.k.Comment, h.k.Reply, h.k.Close, h.k.Help}
}

func (h panelHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.k.Join, h.k.Leave, h.k.Edit, h.k.Delete},
		{h.k.Up, h.k.Down, h.k.Comment, h.k.Reply, h.k.DeleteComment},
		{h.k.ScrollUp, h.k.ScrollDown, h.k.Focus, h.k.Close},
		{h.k.Help, h.k.Quit},
	}
}

type composeHelp struct{ k keyMap }

func (h composeHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Submit, h.k.Cancel}
}

func (h composeHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
