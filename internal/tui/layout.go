package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to be exactly width columns wide (ANSI-aware) and height
// lines tall. This keeps split-pane rendering stable with lipgloss.JoinHorizontal.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i := range lines {
		lines[i] = fixedWidthLine(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

// fixedWidthLine pads or cuts one line to exactly width columns.
func fixedWidthLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	// Bound the width computation on pathological lines.
	if len(s) > 8192 {
		s = xansi.Cut(s, 0, width)
	}
	w := xansi.StringWidth(s)
	if w > width {
		if width == 1 {
			return xansi.Cut(s, 0, 1) + "\x1b[0m"
		}
		// Terminate any open ANSI styling.
		return xansi.Cut(s, 0, width-1) + "…\x1b[0m"
	}
	if w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// wrapText hard-wraps plain text to width, keeping explicit newlines.
func wrapText(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	wrapped := xansi.Wrap(s, width, " ")
	return strings.Split(wrapped, "\n")
}

func modalWidth(termW int) int {
	w := termW - 8
	if w > 64 {
		w = 64
	}
	if w < 24 {
		w = 24
	}
	return w
}

// modalBodyWidth is the usable content width inside a modal box.
func modalBodyWidth(termW int) int {
	return modalWidth(termW) - 4
}

// renderModalBox draws a titled box around content.
func renderModalBox(termW int, title, content string) string {
	w := modalWidth(termW)
	header := lipgloss.NewStyle().
		Width(w-2).
		Padding(0, 1).
		Bold(true).
		Foreground(colorModalHeaderFg).
		Background(colorModalHeaderBg).
		Render(title)
	body := lipgloss.NewStyle().
		Width(w-2).
		Padding(1, 1).
		Foreground(colorModalSurfaceFg).
		Background(colorModalSurfaceBg).
		Render(content)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, body))
}
