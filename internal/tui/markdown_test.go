package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestMarkdownTheme_FollowsBackground(t *testing.T) {
	prev := lipgloss.HasDarkBackground()
	t.Cleanup(func() { lipgloss.SetHasDarkBackground(prev) })

	lipgloss.SetHasDarkBackground(false)
	if got := markdownTheme(); got != themeLight {
		t.Fatalf("expected light; got %q", got)
	}
	lipgloss.SetHasDarkBackground(true)
	if got := markdownTheme(); got != themeDark {
		t.Fatalf("expected dark; got %q", got)
	}
}

func TestDescriptionStyle_UsesPalette(t *testing.T) {
	cfg := descriptionStyle(themeLight)
	if cfg.Text.Color == nil || *cfg.Text.Color != colorSurfaceFg.Light {
		t.Fatalf("expected light text color from the palette")
	}
	if cfg.Paragraph.Margin == nil || *cfg.Paragraph.Margin != 0 {
		t.Fatalf("expected paragraph margin dropped")
	}
	cfg = descriptionStyle(themeDark)
	if cfg.Link.Color == nil || *cfg.Link.Color != colorAccent.Dark {
		t.Fatalf("expected dark link color from the palette")
	}
}

func TestRenderDescription_KeepsWordsAndDropsMargins(t *testing.T) {
	out := renderDescription("Bring **snacks** and a friend.", 40)
	if strings.HasPrefix(out, "\n") || strings.HasSuffix(out, "\n") {
		t.Fatalf("expected trimmed output, got %q", out)
	}
	for _, word := range []string{"Bring", "snacks", "friend."} {
		if !strings.Contains(out, word) {
			t.Fatalf("missing %q in %q", word, out)
		}
	}
	if renderDescription("   ", 40) != "" {
		t.Fatalf("blank description should render empty")
	}
}
