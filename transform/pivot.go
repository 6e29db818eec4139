package transform

import (
	"math"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/linetext/layout"
	"github.com/ByLCY/linetext/svgpath"
)

// Bounds computes the bounding box of local path data analytically from the
// path commands. Unparsable or empty paths are skipped; ok is false when
// nothing contributed. Zero-length strokes count as points.
func Bounds(paths []string) (rect canvas.Rect, ok bool) {
	for _, d := range paths {
		p, err := svgpath.Parse(d)
		if err != nil {
			continue
		}
		b, drawn := p.Bounds()
		if !drawn {
			continue
		}
		if !ok {
			rect, ok = b, true
			continue
		}
		rect = union(rect, b)
	}
	return rect, ok
}

// Center returns the centre of r as a pivot.
func Center(r canvas.Rect) Pivot {
	return Pivot{CX: (r.X0 + r.X1) / 2, CY: (r.Y0 + r.Y1) / 2}
}

// Degenerate reports a box without area; centring on it is skipped.
func Degenerate(r canvas.Rect) bool {
	return !(r.W() > 0 && r.H() > 0)
}

// WorldPivot is where pivot p of a layer at origin (x, y) lands in world
// space. Rotation and scale act about the pivot, so neither moves it.
func WorldPivot(x, y float64, p Pivot) (float64, float64) {
	return x + p.CX, y + p.CY
}

// CenterOn returns the origin that places pivot p on the world point (tx, ty).
func CenterOn(p Pivot, tx, ty float64) (float64, float64) {
	return tx - p.CX, ty - p.CY
}

// AlignmentShift is the origin X shift that keeps a text box centred when its
// alignment changes. Rotation and scale act about the pivot, so the shift is
// the same under any rotation.
func AlignmentShift(maxWidth float64, from, to layout.Alignment) float64 {
	return layout.AlignmentCenterX(from, maxWidth) - layout.AlignmentCenterX(to, maxWidth)
}

func union(a, b canvas.Rect) canvas.Rect {
	return canvas.Rect{
		X0: math.Min(a.X0, b.X0),
		Y0: math.Min(a.Y0, b.Y0),
		X1: math.Max(a.X1, b.X1),
		Y1: math.Max(a.Y1, b.Y1),
	}
}
