package tui

import (
	"strings"

	"clump-cli/internal/confirm"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

// pendingConfirm is a destructive action waiting on the modal. run is called
// only when the user confirms.
type pendingConfirm struct {
	req   confirm.Request
	run   func() tea.Cmd
	focus confirmModalFocus
}

func renderConfirmModal(width int, p pendingConfirm) string {
	// Avoid borders on the buttons: some terminals show background artifacts when nesting
	// bordered components inside a modal with a background color.
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirmBtn := btnBase.Render(p.req.ConfirmLabel)
	cancelBtn := btnBase.Render(p.req.CancelLabel)
	if p.focus == confirmFocusConfirm {
		confirmBtn = btnActive.Render(p.req.ConfirmLabel)
	} else {
		cancelBtn = btnActive.Render(p.req.CancelLabel)
	}

	sep := lipgloss.NewStyle().Background(colorControlBg).Render(" ")
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirmBtn, sep, cancelBtn)

	bodyW := modalBodyWidth(width)
	body := lipgloss.NewStyle().Width(bodyW).Render(p.req.Message)
	help := styleMuted().Width(bodyW).Render("tab: focus   enter: select   y/n   esc: cancel")

	content := strings.Join([]string{
		body,
		"",
		controls,
		"",
		help,
	}, "\n")
	return renderModalBox(width, p.req.Title, content)
}
