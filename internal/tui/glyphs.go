package tui

import (
	"strings"
	"sync/atomic"
)

// The terminal font is out of our hands, so affordances come from one of two
// glyph tables. ASCII is for terminals that mangle box drawing.

type glyphSet int32

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

type glyph int

const (
	gReply glyph = iota
	gBullet
	gHRule
	gVRule
	gPrevWeek
	gNextWeek
	gDot
)

var glyphTables = [...][7]string{
	glyphSetUnicode: {gReply: "↳ ", gBullet: "•", gHRule: "─", gVRule: "│", gPrevWeek: "‹", gNextWeek: "›", gDot: "·"},
	glyphSetASCII:   {gReply: "-> ", gBullet: "*", gHRule: "-", gVRule: "|", gPrevWeek: "<", gNextWeek: ">", gDot: "-"},
}

var currentGlyphs atomic.Int32

// applyGlyphPreference takes tui.glyphs from config, where CLUMP_TUI_GLYPHS
// is already folded in. Unknown names keep the current set.
func applyGlyphPreference(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) { currentGlyphs.Store(int32(gs)) }

func glyphs() glyphSet { return glyphSet(currentGlyphs.Load()) }

func glyphOf(g glyph) string { return glyphTables[glyphs()][g] }

func glyphReply() string    { return glyphOf(gReply) }
func glyphBullet() string   { return glyphOf(gBullet) }
func glyphHRule() string    { return glyphOf(gHRule) }
func glyphVRule() string    { return glyphOf(gVRule) }
func glyphPrevWeek() string { return glyphOf(gPrevWeek) }
func glyphNextWeek() string { return glyphOf(gNextWeek) }
func glyphDot() string      { return glyphOf(gDot) }
