package transform

import (
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/linetext/svgpath"
)

// ApplyPaths bakes m into every path, command by command, so zero-length
// strokes are kept. Unparsable entries are passed through.
func ApplyPaths(paths []string, m canvas.Matrix) []string {
	out := make([]string, len(paths))
	for i, d := range paths {
		p, err := svgpath.Parse(d)
		if err != nil {
			out[i] = d
			continue
		}
		out[i] = p.Transform(m).Rel()
	}
	return out
}

// ScaleAbout scales paths uniformly by s about the pivot.
func ScaleAbout(paths []string, p Pivot, s float64) []string {
	m := canvas.Identity.Translate(p.CX, p.CY).Scale(s, s).Translate(-p.CX, -p.CY)
	return ApplyPaths(paths, m)
}
