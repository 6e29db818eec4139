package glyph

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

const testFont = `<?xml version="1.0" standalone="no"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">
<svg xmlns="http://www.w3.org/2000/svg">
<defs>
<font id="Test" horiz-adv-x="500">
<font-face font-family="Test" units-per-em="1000" ascent="800" descent="-200"/>
<glyph unicode=" " glyph-name="space"/>
<glyph unicode="A" glyph-name="A" horiz-adv-x="600" d="M0 0 L300 700 L600 0"/>
<glyph unicode="&amp;" d="M0 0 L100 100"/>
</font>
</defs>
</svg>`

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestParseFontMetricsAndFlip(t *testing.T) {
	data, err := ParseFont(strings.NewReader(testFont), "Test", 100)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(data.Glyphs) != 3 {
		t.Fatalf("expected 3 glyphs, got %d", len(data.Glyphs))
	}

	a := data.Lookup('A')
	if a == nil || !a.HasOutline() {
		t.Fatalf("glyph A missing or without outline: %+v", a)
	}
	if !approx(a.Width, 60) {
		t.Fatalf("A width: got=%g want=60", a.Width)
	}
	if !approx(a.Height, 100) {
		t.Fatalf("A height: got=%g want=100", a.Height)
	}
	// (300,700) in font space lands at (30,10); the baseline sits at y=80.
	b, _ := a.Outline.Bounds()
	if !approx(b.X0, 0) || !approx(b.X1, 60) || !approx(b.Y0, 10) || !approx(b.Y1, 80) {
		t.Fatalf("A bounds: got=%+v", b)
	}
	if a.D == "" {
		t.Fatalf("A should carry serialized outline")
	}
}

func TestParseFontKeepsGlyphsWithoutOutline(t *testing.T) {
	data, err := ParseFontBytes([]byte(testFont), "Test", 100)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	space := data.Lookup(' ')
	if space == nil {
		t.Fatalf("space glyph must be retained")
	}
	if space.HasOutline() {
		t.Fatalf("space must not carry an outline")
	}
	if !approx(space.Width, 50) {
		t.Fatalf("space falls back to font advance: got=%g want=50", space.Width)
	}
	if amp := data.Lookup('&'); amp == nil || !amp.HasOutline() {
		t.Fatalf("entity-encoded unicode should resolve to '&'")
	}
}

func TestParseFontMissingMetricsDoesNotFail(t *testing.T) {
	src := `<svg><font><glyph unicode="x" d="M0 0 L10 0"/></font></svg>`
	data, err := ParseFontBytes([]byte(src), "Bare", 10)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	x := data.Lookup('x')
	if x == nil {
		t.Fatalf("glyph x missing")
	}
	if x.Width != 0 {
		t.Fatalf("missing advance should yield zero width, got %g", x.Width)
	}
}

// 单线字体用零长度笔画表示点，解析后必须保留。
func TestParseFontKeepsZeroLengthStrokes(t *testing.T) {
	src := `<svg><font horiz-adv-x="500">
<font-face units-per-em="1000" ascent="800" descent="-200"/>
<glyph unicode="." d="M250 0 L250 0"/>
<glyph unicode="i" d="M250 0 V500 M250 700 L250 700"/>
</font></svg>`
	data, err := ParseFontBytes([]byte(src), "Dots", 24)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	dot := data.Lookup('.')
	if dot == nil || !dot.HasOutline() {
		t.Fatalf("'.' must keep its dot: %+v", dot)
	}
	if dot.D != "m6 19.2l0 0" {
		t.Fatalf("'.' outline: got=%q", dot.D)
	}
	i := data.Lookup('i')
	if i == nil || i.D != "m6 19.2l0 -12m0 -4.8l0 0" {
		t.Fatalf("'i' outline: got=%+v", i)
	}
	b, ok := i.Outline.Bounds()
	if !ok || !approx(b.Y0, 2.4) || !approx(b.Y1, 19.2) {
		t.Fatalf("'i' bounds must reach the dot: got=%+v", b)
	}
}

func TestTrimToRoot(t *testing.T) {
	got := TrimToRoot("garbage<?xml?><SVG></SVG>")
	if got != "<SVG></SVG>" {
		t.Fatalf("unexpected trim: %q", got)
	}
	if got := TrimToRoot("no root"); got != "no root" {
		t.Fatalf("input without root must be returned as-is, got %q", got)
	}
}

func TestLineSizeUsesGlyphHeight(t *testing.T) {
	data, err := ParseFontBytes([]byte(testFont), "Test", 42)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := data.LineSize(); !approx(got, 42) {
		t.Fatalf("line size: got=%g want=42", got)
	}
	var empty *FontData
	if got := empty.LineSize(); got != defaultLineSize {
		t.Fatalf("nil font line size: got=%g want=%g", got, defaultLineSize)
	}
}

// stubSource counts reads and serves a fixed asset for known ids.
type stubSource struct {
	assets map[string]string
	reads  int
}

func (s *stubSource) ReadFont(ctx context.Context, id string) ([]byte, error) {
	s.reads++
	raw, ok := s.assets[id]
	if !ok {
		return nil, ErrFontNotFound
	}
	return []byte(raw), nil
}

func TestCacheLoadParsesOncePerSize(t *testing.T) {
	src := &stubSource{assets: map[string]string{"Test": testFont}}
	c := NewCache(src)
	ctx := context.Background()

	first, err := c.Load(ctx, "Test", 24)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	second, err := c.Load(ctx, "Test", 24)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if first != second {
		t.Fatalf("cache hit must return the same entry")
	}
	if src.reads != 1 {
		t.Fatalf("expected one read, got %d", src.reads)
	}

	bigger, err := c.Load(ctx, "Test", 48)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if src.reads != 2 {
		t.Fatalf("a new size must reparse, reads=%d", src.reads)
	}
	if !approx(bigger.Lookup('A').Width, 2*first.Lookup('A').Width) {
		t.Fatalf("48px advance should double the 24px advance")
	}
	st := c.Stats()
	if st.Hits != 1 || st.Misses != 2 || st.Parses != 2 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestCacheLoadFailureLeavesEntryAbsent(t *testing.T) {
	c := NewCache(&stubSource{})
	if _, err := c.Load(context.Background(), "Nope", 12); !errors.Is(err, ErrFontNotFound) {
		t.Fatalf("expected ErrFontNotFound, got %v", err)
	}
	if _, ok := c.Get("Nope", 12); ok {
		t.Fatalf("failed load must not populate the cache")
	}
	if _, err := NewCache(nil).Load(context.Background(), "Test", 12); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
}

func TestMultiSourceFallsThrough(t *testing.T) {
	a := &stubSource{assets: map[string]string{}}
	b := &stubSource{assets: map[string]string{"Test": testFont}}
	raw, err := MultiSource{a, b}.ReadFont(context.Background(), "Test")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(raw) == 0 || a.reads != 1 || b.reads != 1 {
		t.Fatalf("expected both sources consulted in order: a=%d b=%d", a.reads, b.reads)
	}
	if _, err := (MultiSource{a}).ReadFont(context.Background(), "Missing"); !errors.Is(err, ErrFontNotFound) {
		t.Fatalf("expected ErrFontNotFound, got %v", err)
	}
}
