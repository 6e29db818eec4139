package editor

import (
	"github.com/ByLCY/linetext/layout"
	"github.com/ByLCY/linetext/transform"
)

// Regenerate lays the layer's text out again from the cached glyphs and keeps
// its world pivot in place. It reports whether geometry was produced; a layer
// whose font is not cached keeps its previous paths.
func (e *Editor) Regenerate(id string) (State, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Cancel(id)
	ok := e.regenerateLocked(id, true)
	return e.stateLocked(), ok
}

// Tick runs the regeneration passes whose debounce expired and closes an idle
// typing session.
func (e *Editor) Tick() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickLocked()
	return e.stateLocked()
}

// Flush runs every pending regeneration immediately and closes the typing
// session, so the next keystroke records a new undo step.
func (e *Editor) Flush() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, id := range e.session.Pending() {
		e.regenerateLocked(id, true)
	}
	e.session.Reset()
	return e.stateLocked()
}

func (e *Editor) tickLocked() {
	for _, id := range e.session.Due(e.now()) {
		e.regenerateLocked(id, true)
	}
}

func (e *Editor) regenerateLocked(id string, preserve bool) bool {
	l := e.layerLocked(id)
	if l == nil {
		return false
	}
	font, ok := e.cache.Get(l.Font.Selected, l.Font.SizePx)
	if !ok {
		return false
	}
	paths := layout.CreateTextPaths(l.Text, font, l.Font.Options())
	vb := e.background.ViewBoxRect()
	e.updateLocked(id, func(l *Layer) {
		placeGeometry(&l.Overlay, paths, preserve, vb)
	})
	return true
}

// placeGeometry installs new local paths and keeps pivot and position
// consistent with them.
func placeGeometry(o *Overlay, paths []string, preserve bool, vb transform.ViewBox) {
	hadGeometry := len(o.Paths) > 0
	o.Paths = paths
	rect, ok := transform.Bounds(paths)
	if !ok {
		// nothing visible, keep the last pivot and position
		return
	}
	next := transform.Center(rect)
	switch {
	case o.NeedsCenter:
		if transform.Degenerate(rect) {
			break
		}
		o.AnchorX, o.AnchorY = vb.Center()
		o.Anchored = true
		x, y := transform.CenterOn(next, o.AnchorX, o.AnchorY)
		o.X, o.Y = transform.RoundPosition(x), transform.RoundPosition(y)
		o.NeedsCenter = false
	case preserve && hadGeometry:
		// align to the unrounded anchor, not to the rounded origin
		wx, wy := o.anchor()
		x, y := transform.CenterOn(next, wx, wy)
		o.X, o.Y = transform.RoundPosition(x), transform.RoundPosition(y)
	}
	o.Pivot = next
}

// maxLineWidthLocked measures the widest line of a layer with its cached font.
func (e *Editor) maxLineWidthLocked(l *Layer) (float64, bool) {
	font, ok := e.cache.Get(l.Font.Selected, l.Font.SizePx)
	if !ok {
		return 0, false
	}
	_, w := layout.MeasureLineWidths(l.Text, font, l.Font.CharSpacing)
	return w, true
}
