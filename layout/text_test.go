package layout

import (
	"math"
	"reflect"
	"testing"

	"github.com/ByLCY/linetext/glyph"
	"github.com/ByLCY/linetext/svgpath"
)

// stubFont 构造宽度固定的测试字体：每个字形是一条从 (0,0) 到 (1,0) 的短线。
func stubFont(height float64, widths map[rune]float64) *glyph.FontData {
	data := &glyph.FontData{ID: "stub", SizePx: height, Glyphs: map[string]*glyph.Glyph{}}
	for ch, w := range widths {
		g := &glyph.Glyph{Unicode: string(ch), Width: w, Height: height}
		if ch != ' ' {
			g.Outline = svgpath.Path{
				{Op: 'M', Args: []float64{0, 0}},
				{Op: 'L', Args: []float64{1, 0}},
			}
			g.D = g.Outline.Rel()
		}
		data.Glyphs[string(ch)] = g
	}
	return data
}

func pathStart(t *testing.T, d string) (float64, float64) {
	t.Helper()
	p, err := svgpath.Parse(d)
	if err != nil {
		t.Fatalf("invalid path %q: %v", d, err)
	}
	b, _ := p.Bounds()
	return b.X0, b.Y0
}

func TestMeasureLineWidths(t *testing.T) {
	font := stubFont(20, map[rune]float64{'A': 10, 'B': 12, 'C': 8})
	widths, maxWidth := MeasureLineWidths("AB\nC", font, 1)
	if !reflect.DeepEqual(widths, []float64{24, 9}) {
		t.Fatalf("line widths: got=%v want=[24 9]", widths)
	}
	if maxWidth != 24 {
		t.Fatalf("max width: got=%g want=24", maxWidth)
	}

	// 字体中不存在的字符不占宽度，也不报错
	widths, _ = MeasureLineWidths("A?B", font, 0)
	if widths[0] != 22 {
		t.Fatalf("missing glyph must not contribute: got=%g want=22", widths[0])
	}
}

func TestCreateTextPathsLineLayout(t *testing.T) {
	font := stubFont(20, map[rune]float64{'A': 10, 'B': 12, 'C': 8})
	paths := CreateTextPaths("AB\nC", font, Options{Alignment: AlignLeft, LineHeight: 1.5})
	if len(paths) != 3 {
		t.Fatalf("expected 3 glyph paths, got %d", len(paths))
	}
	if x, y := pathStart(t, paths[0]); x != 0 || y != 0 {
		t.Fatalf("A placement: got=(%g,%g) want=(0,0)", x, y)
	}
	if x, y := pathStart(t, paths[1]); x != 10 || y != 0 {
		t.Fatalf("B placement: got=(%g,%g) want=(10,0)", x, y)
	}
	if x, y := pathStart(t, paths[2]); x != 0 || math.Abs(y-30) > 1e-9 {
		t.Fatalf("C placement: got=(%g,%g) want=(0,30)", x, y)
	}
}

func TestCreateTextPathsAlignment(t *testing.T) {
	font := stubFont(20, map[rune]float64{'A': 10, 'B': 12, 'C': 8})
	center := CreateTextPaths("AB\nC", font, Options{Alignment: AlignCenter, LineHeight: 1})
	if x, _ := pathStart(t, center[0]); x != -11 {
		t.Fatalf("centered first line starts at -width/2: got=%g want=-11", x)
	}
	if x, _ := pathStart(t, center[2]); x != -4 {
		t.Fatalf("centered second line starts at -4: got=%g", x)
	}
	right := CreateTextPaths("AB", font, Options{Alignment: AlignRight, LineHeight: 1})
	if x, _ := pathStart(t, right[1]); x != -12 {
		t.Fatalf("right aligned B: got=%g want=-12", x)
	}
}

func TestCreateTextPathsSpaceAdvancesCursor(t *testing.T) {
	font := stubFont(20, map[rune]float64{'A': 10, ' ': 5})
	paths := CreateTextPaths("A A", font, Options{CharSpacing: 2, LineHeight: 1})
	if len(paths) != 2 {
		t.Fatalf("space must not emit geometry, got %d paths", len(paths))
	}
	if x, _ := pathStart(t, paths[1]); x != 19 {
		t.Fatalf("second A after space: got=%g want=19", x)
	}
}

func TestCreateTextPathsDeterministic(t *testing.T) {
	font := stubFont(20, map[rune]float64{'A': 10, 'B': 12})
	opts := Options{Alignment: AlignCenter, CharSpacing: 0.5, LineHeight: 1.2}
	first := CreateTextPaths("AB\nBA", font, opts)
	second := CreateTextPaths("AB\nBA", font, opts)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("layout is not deterministic:\n%v\n%v", first, second)
	}
}

func TestParseAlignment(t *testing.T) {
	for in, want := range map[string]Alignment{"Center": AlignCenter, "right": AlignRight, "end": AlignRight, "": AlignLeft, "bogus": AlignLeft} {
		if got := ParseAlignment(in); got != want {
			t.Fatalf("ParseAlignment(%q): got=%s want=%s", in, got, want)
		}
	}
}

func TestAlignmentCenterX(t *testing.T) {
	if got := AlignmentCenterX(AlignLeft, 24) - AlignmentCenterX(AlignCenter, 24); got != 12 {
		t.Fatalf("left→center delta: got=%g want=12", got)
	}
	if got := AlignmentCenterX(AlignRight, 24); got != -12 {
		t.Fatalf("right centre: got=%g want=-12", got)
	}
}
