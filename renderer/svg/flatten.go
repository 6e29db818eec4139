// Package svgrenderer flattens text layers into plain stroke paths in the
// background document's units and writes the export document.
package svgrenderer

import (
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/linetext/editor"
	"github.com/ByLCY/linetext/layout"
	"github.com/ByLCY/linetext/transform"
)

// Stroke colours by colorInvert.
const (
	ColorNormal   = "#000000"
	ColorInverted = "#FFFFFF"
)

// FlatLayer is one layer with its placement baked into the path data.
type FlatLayer struct {
	ID          string
	Paths       []string
	StrokeWidth float64
	Color       string
}

// UnitPerPx returns the document units per preview pixel along X and Y. The
// rendered width and height are converted to px first; a missing size or view
// box yields 1.
func UnitPerPx(bg editor.Background) (float64, float64) {
	vb := bg.ViewBoxRect()
	unit := bg.Unit
	widthPx := toPx(bg.Width, unit)
	heightPx := toPx(bg.Height, unit)
	return invert(ratio(widthPx, vb.Width)), invert(ratio(heightPx, vb.Height))
}

func toPx(v string, unit layout.Unit) float64 {
	l := layout.ParseRawLengthStr(v)
	l.Unit = unit
	return l.ToPx()
}

func ratio(px, units float64) float64 {
	if units == 0 {
		return 1
	}
	return px / units
}

func invert(pxPerUnit float64) float64 {
	if pxPerUnit == 0 {
		return 1
	}
	return 1 / pxPerUnit
}

// LayerMatrix is the baked export matrix of a layer: its placement followed
// by the px to document-unit scale.
func LayerMatrix(l editor.Layer, ux, uy float64) canvas.Matrix {
	return canvas.Identity.Scale(ux, uy).Mul(l.Overlay.Transform().Matrix())
}

// FlattenLayer bakes the layer placement into its paths. The stroke width
// follows the X scale.
func FlattenLayer(l editor.Layer, ux, uy float64) FlatLayer {
	color := ColorNormal
	if l.Font.ColorInvert {
		color = ColorInverted
	}
	sw := l.Font.StrokeWidth
	if sw == 0 {
		sw = editor.DefaultStrokeWidth
	}
	return FlatLayer{
		ID:          l.ID,
		Paths:       transform.ApplyPaths(l.Overlay.Paths, LayerMatrix(l, ux, uy)),
		StrokeWidth: sw * ux,
		Color:       color,
	}
}

// Flatten flattens every layer of the state in layer order.
func Flatten(st *editor.State) []FlatLayer {
	ux, uy := UnitPerPx(st.Background)
	out := make([]FlatLayer, 0, len(st.Layers))
	for _, l := range st.Layers {
		out = append(out, FlattenLayer(l, ux, uy))
	}
	return out
}
