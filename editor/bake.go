package editor

import (
	"math"

	"github.com/ByLCY/linetext/transform"
)

// BakeScale commits the live scale of a layer: the size becomes
// round(startSize*scaleX), at least 1, the paths are scaled uniformly by
// scaleX about the pivot and the multiplier resets to 1. scaleY is ignored;
// scale gestures keep the aspect ratio. A non-positive startSize means the
// current size.
func BakeScale(l Layer, startSize float64) Layer {
	s := l.Overlay.ScaleX
	if startSize <= 0 {
		startSize = l.Font.SizePx
	}
	l.Font.SizePx = math.Max(1, math.Round(startSize*s))
	if s != 1 {
		l.Overlay.Paths = transform.ScaleAbout(l.Overlay.Paths, l.Overlay.Pivot, s)
	}
	l.Overlay.ScaleX, l.Overlay.ScaleY = 1, 1
	return l
}
