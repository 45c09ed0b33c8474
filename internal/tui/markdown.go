package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

type rendererKey struct {
	theme themeName
	width int
}

// descRenderers caches glamour renderers per theme and width. Auto styling
// queries the terminal and can block, so styles are always explicit.
var descRenderers = struct {
	sync.Mutex
	m map[rendererKey]*glamour.TermRenderer
}{m: map[rendererKey]*glamour.TermRenderer{}}

// renderDescription renders an event description as markdown without block
// margins, wrapped to width. Renderer errors fall back to the raw text.
func renderDescription(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	r, err := descRenderer(rendererKey{theme: markdownTheme(), width: max(width, 10)})
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

func descRenderer(k rendererKey) (*glamour.TermRenderer, error) {
	descRenderers.Lock()
	defer descRenderers.Unlock()
	if r := descRenderers.m[k]; r != nil {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(descriptionStyle(k.theme)),
		glamour.WithWordWrap(k.width),
	)
	if err != nil {
		return nil, err
	}
	descRenderers.m[k] = r
	return r, nil
}

// markdownTheme follows the TUI's background so a forced theme keeps
// descriptions legible.
func markdownTheme() themeName {
	if lipgloss.HasDarkBackground() {
		return themeDark
	}
	return themeLight
}

func descriptionStyle(theme themeName) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	pick := func(c lipgloss.AdaptiveColor) *string { return &c.Dark }
	if theme == themeLight {
		cfg = styles.LightStyleConfig
		pick = func(c lipgloss.AdaptiveColor) *string { return &c.Light }
	}

	var zero uint
	for _, m := range []**uint{
		&cfg.Document.Margin, &cfg.Paragraph.Margin, &cfg.BlockQuote.Margin,
		&cfg.List.Margin, &cfg.Heading.Margin, &cfg.Code.Margin, &cfg.CodeBlock.Margin,
	} {
		*m = &zero
	}

	for _, c := range []*ansi.StylePrimitive{
		&cfg.Text, &cfg.Heading.StylePrimitive, &cfg.H1.StylePrimitive, &cfg.H2.StylePrimitive,
		&cfg.H3.StylePrimitive, &cfg.Code.StylePrimitive, &cfg.CodeBlock.StylePrimitive,
	} {
		c.Color = pick(colorSurfaceFg)
	}
	underline := true
	cfg.Link.Color = pick(colorAccent)
	cfg.Link.Underline = &underline
	cfg.LinkText.Color = pick(colorAccent)
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
	return cfg
}
