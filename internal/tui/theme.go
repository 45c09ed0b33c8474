package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Colors are adaptive so the grid and panel read on light and dark
// terminals alike. Faint is only applied on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted  = ac("240", "243")
	colorBorder = ac("250", "243")

	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")

	colorSurfaceBg = ac("255", "235")
	colorSurfaceFg = ac("235", "252")
	colorControlBg = ac("252", "235")

	colorAccent   = ac("27", "62")
	colorAccentFg = ac("255", "235")

	colorToday = ac("27", "75")

	colorFlashErrorBg   = ac("196", "160")
	colorFlashSuccessBg = ac("28", "29")
	colorFlashFg        = ac("255", "255")

	colorModalSurfaceBg = colorSurfaceBg
	colorModalSurfaceFg = colorSurfaceFg
	colorModalHeaderBg  = colorControlBg
	colorModalHeaderFg  = colorSurfaceFg
)

func styleMuted() lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(colorMuted)
	if lipgloss.HasDarkBackground() {
		st = st.Faint(true)
	}
	return st
}

func styleHeading() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
}

func styleSelected() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
}

func styleButton() lipgloss.Style {
	return lipgloss.NewStyle().Padding(0, 1).Foreground(colorAccentFg).Background(colorAccent)
}

type themeName string

const (
	themeAuto  themeName = ""
	themeLight themeName = "light"
	themeDark  themeName = "dark"
)

// resolveTheme picks the background from the configured theme, then
// CLUMP_TUI_THEME, then COLORFGBG ("fg;bg", bg below 7 is dark). themeAuto
// means nothing decided and terminal detection stands.
func resolveTheme(configured string, getenv func(string) string) themeName {
	for _, v := range []string{configured, getenv("CLUMP_TUI_THEME")} {
		switch themeName(strings.ToLower(strings.TrimSpace(v))) {
		case themeLight:
			return themeLight
		case themeDark:
			return themeDark
		}
	}
	if v := strings.TrimSpace(getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			if bg < 7 {
				return themeDark
			}
			return themeLight
		}
	}
	return themeAuto
}

func applyThemePreference(configured string) {
	switch resolveTheme(configured, os.Getenv) {
	case themeLight:
		lipgloss.SetHasDarkBackground(false)
	case themeDark:
		lipgloss.SetHasDarkBackground(true)
	}
}

// resolveColorProfile honors NO_COLOR and upgrades the detected profile when
// TERM or COLORTERM promise more. CLICOLOR is ignored on purpose: it turns
// colors off in terminals that render them fine.
func resolveColorProfile(detected termenv.Profile, getenv func(string) string) termenv.Profile {
	if strings.TrimSpace(getenv("NO_COLOR")) != "" {
		return termenv.Ascii
	}
	if detected == termenv.Ascii {
		return detected
	}
	colorterm := strings.ToLower(getenv("COLORTERM"))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		return termenv.TrueColor
	}
	if strings.Contains(strings.ToLower(getenv("TERM")), "256color") && detected == termenv.ANSI {
		return termenv.ANSI256
	}
	return detected
}

func applyColorProfilePreference() {
	lipgloss.SetColorProfile(resolveColorProfile(termenv.ColorProfile(), os.Getenv))
}
