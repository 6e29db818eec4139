package fonts

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ByLCY/linetext/glyph"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBuiltinFontParses(t *testing.T) {
	raw, err := Source{}.ReadFont(context.Background(), DefaultID)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	data, err := glyph.ParseFontBytes(raw, DefaultID, 24)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, ch := range "AZaz09 .,-!?'&" {
		if data.Lookup(ch) == nil {
			t.Fatalf("glyph %q missing", ch)
		}
	}
	if space := data.Lookup(' '); space.HasOutline() || space.Width <= 0 {
		t.Fatalf("space should advance without outline: %+v", space)
	}
	// 字母 H 的竖线位于 0.1em 与 0.5em，顶端在 y=(800-700)*24/1000
	h := data.Lookup('H')
	b, _ := h.Outline.Bounds()
	if !approx(b.X0, 2.4) || !approx(b.X1, 12) || !approx(b.Y0, 2.4) || !approx(b.Y1, 19.2) {
		t.Fatalf("H bounds: got=%+v", b)
	}
}

func TestLoadAcceptsPathForms(t *testing.T) {
	for _, p := range []string{"PlotterBlock", "strokes/PlotterBlock.svg", "embed:strokes/PlotterBlock.svg"} {
		if _, err := Load(p); err != nil {
			t.Fatalf("load %s: %v", p, err)
		}
	}
	if len(Names()) == 0 {
		t.Fatalf("no embedded fonts")
	}
}

func TestSourceUnknownFont(t *testing.T) {
	_, err := Source{}.ReadFont(context.Background(), "nope")
	if !errors.Is(err, glyph.ErrFontNotFound) {
		t.Fatalf("got err=%v want ErrFontNotFound", err)
	}
}
