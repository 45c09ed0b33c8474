package tui

import "testing"

func TestGlyphs_FromConfig(t *testing.T) {
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	setGlyphs(glyphSetUnicode)
	applyGlyphPreference("")
	if got := glyphs(); got != glyphSetUnicode {
		t.Fatalf("expected unicode glyphs by default; got %v", got)
	}

	applyGlyphPreference("ASCII")
	if got := glyphs(); got != glyphSetASCII {
		t.Fatalf("expected ascii glyphs; got %v", got)
	}
	if glyphReply() != "-> " || glyphPrevWeek() != "<" || glyphVRule() != "|" {
		t.Fatalf("ascii glyphs not applied")
	}

	applyGlyphPreference("unicode")
	if got := glyphs(); got != glyphSetUnicode {
		t.Fatalf("expected unicode glyphs; got %v", got)
	}

	// Unknown names keep the current set.
	setGlyphs(glyphSetASCII)
	applyGlyphPreference("bogus")
	if got := glyphs(); got != glyphSetASCII {
		t.Fatalf("expected unknown to be ignored; got %v", got)
	}
}
