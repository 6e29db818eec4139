package layout

import (
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/linetext/glyph"
)

// Alignment 描述多行文本的水平对齐方式。
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// ParseAlignment normalizes user input; anything unknown is left.
func ParseAlignment(v string) Alignment {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "center", "middle":
		return AlignCenter
	case "right", "end":
		return AlignRight
	default:
		return AlignLeft
	}
}

// Options 控制单行笔画文本的排版。
type Options struct {
	Alignment   Alignment
	CharSpacing float64
	LineHeight  float64 // multiple of the font line size
}

// DefaultOptions mirrors the defaults of a new layer.
func DefaultOptions() Options {
	return Options{Alignment: AlignLeft, LineHeight: 1}
}

// MeasureLineWidths splits text on line breaks and sums glyph advance plus
// spacing per line. Characters the font lacks contribute nothing.
func MeasureLineWidths(text string, font *glyph.FontData, charSpacing float64) ([]float64, float64) {
	lines := strings.Split(normalizeNewlines(text), "\n")
	widths := make([]float64, len(lines))
	maxWidth := 0.0
	for i, line := range lines {
		w := 0.0
		for _, ch := range line {
			g := font.Lookup(ch)
			if g == nil {
				continue
			}
			w += g.Width + charSpacing
		}
		widths[i] = w
		if w > maxWidth {
			maxWidth = w
		}
	}
	return widths, maxWidth
}

// CreateTextPaths lays text out into local-space outline strings, one per
// visible glyph, in input order. Each line starts at x=0 shifted by its
// alignment offset; lines advance by LineHeight times the font line size.
func CreateTextPaths(text string, font *glyph.FontData, opts Options) []string {
	text = normalizeNewlines(text)
	widths, _ := MeasureLineWidths(text, font, opts.CharSpacing)
	lineAdvance := font.LineSize() * opts.LineHeight

	var paths []string
	originX, originY := 0.0, 0.0
	line := 0
	for _, ch := range text {
		if ch == '\n' {
			line++
			originX = 0
			originY += lineAdvance
			continue
		}
		g := font.Lookup(ch)
		if g == nil {
			continue
		}
		if g.HasOutline() {
			x := originX + alignOffset(opts.Alignment, widths[line])
			p := g.Outline.Transform(canvas.Identity.Translate(x, originY))
			paths = append(paths, p.Rel())
		}
		originX += g.Width + opts.CharSpacing
	}
	return paths
}

// AlignmentCenterX is the local X of the text box centre for the given mode,
// relative to the layout origin.
func AlignmentCenterX(a Alignment, maxWidth float64) float64 {
	switch a {
	case AlignCenter:
		return 0
	case AlignRight:
		return -maxWidth / 2
	default:
		return maxWidth / 2
	}
}

func alignOffset(a Alignment, lineWidth float64) float64 {
	switch a {
	case AlignCenter:
		return -lineWidth / 2
	case AlignRight:
		return -lineWidth
	default:
		return 0
	}
}

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
