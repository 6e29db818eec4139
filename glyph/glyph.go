// Package glyph parses single-stroke SVG fonts into per-character outlines and
// caches the result per (font, size) pair.
package glyph

import (
	"fmt"
	"sort"

	"github.com/ByLCY/linetext/svgpath"
)

// defaultLineSize is used as line advance when a font has no glyph with a height.
const defaultLineSize = 24.0

// Glyph is one parsed character. It is never mutated after parsing.
type Glyph struct {
	Unicode string
	Name    string
	// Outline is the render-space outline (Y down, origin at the top of the em box).
	// It is nil for glyphs without geometry such as space.
	Outline svgpath.Path
	// D is Outline in relative commands, empty when Outline is nil.
	D      string
	Width  float64
	Height float64
}

// HasOutline reports whether the glyph draws anything.
func (g *Glyph) HasOutline() bool { return g != nil && !g.Outline.Empty() }

// Key identifies one parsed font: the same asset at another size is another entry.
type Key struct {
	FontID string
	SizePx float64
}

func (k Key) String() string { return fmt.Sprintf("%s@@%g", k.FontID, k.SizePx) }

// FontData maps a unicode key to its glyph for one Key.
type FontData struct {
	ID     string
	SizePx float64
	Glyphs map[string]*Glyph
}

// Key returns the cache key of the font data.
func (f *FontData) Key() Key { return Key{FontID: f.ID, SizePx: f.SizePx} }

// Lookup returns the glyph for a character, or nil when the font lacks it.
func (f *FontData) Lookup(ch rune) *Glyph {
	if f == nil {
		return nil
	}
	return f.Glyphs[string(ch)]
}

// LineSize returns the height of an arbitrary glyph in the map. All glyphs of a
// font share one em size, so any of them stands in for the font-wide line
// metric. Keys are visited in sorted order to keep the choice stable.
func (f *FontData) LineSize() float64 {
	if f == nil || len(f.Glyphs) == 0 {
		return defaultLineSize
	}
	keys := make([]string, 0, len(f.Glyphs))
	for k := range f.Glyphs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if g := f.Glyphs[k]; g != nil && g.Height != 0 {
			return g.Height
		}
	}
	return defaultLineSize
}
