package svgrenderer

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/linetext/editor"
	"github.com/ByLCY/linetext/layout"
	"github.com/ByLCY/linetext/transform"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func testLayer(paths ...string) editor.Layer {
	return editor.Layer{
		ID:   "1",
		Font: editor.FontStyle{SizePx: 24, StrokeWidth: 2},
		Overlay: editor.Overlay{
			Paths:  paths,
			X:      100,
			Y:      50,
			ScaleX: 1,
			ScaleY: 1,
			Pivot:  transform.Pivot{CX: 5, CY: 0},
		},
	}
}

func background(t *testing.T, raw string) editor.Background {
	t.Helper()
	bg, err := editor.ParseBackground(raw)
	if err != nil {
		t.Fatalf("background: %v", err)
	}
	return bg
}

func endpoints(t *testing.T, d string) (canvas.Point, canvas.Point) {
	t.Helper()
	p, err := canvas.ParseSVGPath(d)
	if err != nil {
		t.Fatalf("invalid path %q: %v", d, err)
	}
	return p.StartPos(), p.Pos()
}

func TestFlattenPlacesLayerInDocumentUnits(t *testing.T) {
	st := &editor.State{
		Layers:     []editor.Layer{testLayer("M0,0 L10,0")},
		Background: background(t, `<svg viewBox="0 0 200 200" width="200" height="200"></svg>`),
	}
	flat := Flatten(st)
	if len(flat) != 1 || len(flat[0].Paths) != 1 {
		t.Fatalf("flatten: %+v", flat)
	}
	start, end := endpoints(t, flat[0].Paths[0])
	if !near(start.X, 100) || !near(start.Y, 50) || !near(end.X, 110) || !near(end.Y, 50) {
		t.Fatalf("endpoints: got=%v..%v want=(100,50)..(110,50)", start, end)
	}
	if flat[0].StrokeWidth != 2 || flat[0].Color != ColorNormal {
		t.Fatalf("stroke: %+v", flat[0])
	}
}

func TestFlattenMatchesPreviewChain(t *testing.T) {
	l := testLayer("M0,0 L10,0")
	l.Overlay.Rotation = 30
	l.Overlay.ScaleX, l.Overlay.ScaleY = 1.5, 0.5
	flat := FlattenLayer(l, 1, 1)
	start, end := endpoints(t, flat.Paths[0])
	chain := l.Overlay.Transform().Chain()
	for _, c := range []struct {
		got    canvas.Point
		lx, ly float64
	}{{start, 0, 0}, {end, 10, 0}} {
		x, y := chain.Apply(c.lx, c.ly)
		if !near(c.got.X, x) || !near(c.got.Y, y) {
			t.Fatalf("baked (%g,%g) vs chain (%g,%g)", c.got.X, c.got.Y, x, y)
		}
	}
}

func TestUnitPerPxConvertsPhysicalSize(t *testing.T) {
	// 100mm 宽的文档，视图框 100 单位：每单位 1mm
	bg := background(t, `<svg viewBox="0 0 100 50" width="100mm" height="50mm"></svg>`)
	ux, uy := UnitPerPx(bg)
	if !near(ux, 1/layout.PxPerMm) || !near(uy, 1/layout.PxPerMm) {
		t.Fatalf("unit per px: got=(%g,%g) want=%g", ux, uy, 1/layout.PxPerMm)
	}
	l := testLayer("M0,0 L10,0")
	l.Overlay.X, l.Overlay.Y = 0, 0
	flat := FlattenLayer(l, ux, uy)
	_, end := endpoints(t, flat.Paths[0])
	if !near(end.X, 10/layout.PxPerMm) {
		t.Fatalf("scaled end: got=%g", end.X)
	}
	if !near(flat.StrokeWidth, 2/layout.PxPerMm) {
		t.Fatalf("stroke width follows X scale: got=%g", flat.StrokeWidth)
	}

	if ux, uy := UnitPerPx(editor.Background{ViewBox: "0 0 0 0"}); ux != 1 || uy != 1 {
		t.Fatalf("zero-sized canvas: got=(%g,%g)", ux, uy)
	}
}

func TestRenderInsertsBeforeRootClose(t *testing.T) {
	l := testLayer("M0,0 L10,0")
	l.Font.ColorInvert = true
	st := &editor.State{
		Layers: []editor.Layer{l},
		Background: background(t, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 200">`+
			`<svg id="inner"></svg><rect width="5" height="5"/></svg>`),
	}
	out, err := NewRenderer(Options{}).Render(st)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := string(out)
	if !strings.HasPrefix(doc, Doctype) {
		t.Fatalf("missing doctype: %s", doc)
	}
	g := strings.Index(doc, "<g><path")
	if g == -1 || g < strings.Index(doc, "<rect") {
		t.Fatalf("group must follow existing content: %s", doc)
	}
	if !strings.HasSuffix(strings.TrimSpace(doc), "</g>\n</svg>") {
		t.Fatalf("group must close the root element: %s", doc)
	}
	for _, want := range []string{`fill="none"`, `stroke="#FFFFFF"`, `stroke-linecap="round"`, `stroke-width="2"`} {
		if !strings.Contains(doc, want) {
			t.Fatalf("missing %s in %s", want, doc)
		}
	}
}

func TestRenderTextOnlyDropsBackground(t *testing.T) {
	st := &editor.State{
		Layers:         []editor.Layer{testLayer("M0,0 L10,0")},
		Background:     background(t, `<svg viewBox="0 0 210 297" width="210mm"><rect id="bg"/></svg>`),
		ExportTextOnly: true,
	}
	out, err := NewRenderer(Options{}).Render(st)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := string(out)
	if strings.Contains(doc, `id="bg"`) {
		t.Fatalf("text-only export kept the background: %s", doc)
	}
	if !strings.Contains(doc, `viewBox="0 0 210 297" width="210mm" height="297"`) {
		t.Fatalf("empty canvas must keep size and view box: %s", doc)
	}
}

func TestRenderMinified(t *testing.T) {
	st := &editor.State{
		Layers:     []editor.Layer{testLayer("M0,0 L10,0")},
		Background: background(t, editor.DefaultBackgroundMarkup),
	}
	plain, err := NewRenderer(Options{}).Render(st)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	small, err := NewRenderer(Options{Minify: true}).Render(st)
	if err != nil {
		t.Fatalf("minified render: %v", err)
	}
	if !strings.HasPrefix(string(small), Doctype) || len(small) >= len(plain) {
		t.Fatalf("minified output should be smaller and keep the doctype")
	}
}

func TestInsertNeedsRootClose(t *testing.T) {
	if _, err := Insert("<svg/>", "<g/>"); err == nil {
		t.Fatalf("expected an error without a closing tag")
	}
}

func TestFileName(t *testing.T) {
	got := FileName(time.UnixMilli(1700000000123))
	if got != "line-text-1700000000123.svg" {
		t.Fatalf("file name: got=%s", got)
	}
}
