package editor

import (
	"github.com/ByLCY/linetext/layout"
	"github.com/ByLCY/linetext/transform"
)

// Defaults of a new layer.
const (
	DefaultSizePx      = 24.0
	DefaultStrokeWidth = 1.0
	DefaultText        = "Hello"
)

// FontStyle 描述图层的字体与排版参数。
type FontStyle struct {
	Selected    string           `json:"selected"`
	SizePx      float64          `json:"sizePx"`
	Alignment   layout.Alignment `json:"alignment"`
	CharSpacing float64          `json:"charSpacing"`
	LineHeight  float64          `json:"lineHeight"`
	ColorInvert bool             `json:"colorInvert"`
	StrokeWidth float64          `json:"strokeWidth"`
	OriginalURL string           `json:"originalURL,omitempty"`
}

// Options returns the layout options of the style.
func (f FontStyle) Options() layout.Options {
	return layout.Options{Alignment: f.Alignment, CharSpacing: f.CharSpacing, LineHeight: f.LineHeight}
}

// Overlay 保存图层的位置、旋转、缩放与生成的局部路径。
// X/Y 是局部原点（而非视觉中心）在世界坐标中的位置。
type Overlay struct {
	Paths       []string        `json:"paths"`
	X           float64         `json:"x"`
	Y           float64         `json:"y"`
	Rotation    float64         `json:"rotation"`
	ScaleX      float64         `json:"scaleX"`
	ScaleY      float64         `json:"scaleY"`
	Pivot       transform.Pivot `json:"pivot"`
	NeedsCenter bool            `json:"needsCenter"`

	// Anchor 是期望的世界坐标枢轴（未取整）。重新生成路径时按它对齐，
	// 避免取整误差随每次击键累积。
	AnchorX  float64 `json:"anchorX"`
	AnchorY  float64 `json:"anchorY"`
	Anchored bool    `json:"anchored"`
}

// Pin records the current world pivot as the anchor.
func (o *Overlay) Pin() {
	o.AnchorX, o.AnchorY = transform.WorldPivot(o.X, o.Y, o.Pivot)
	o.Anchored = true
}

// anchor returns the desired world pivot, pinning the current one first when
// none was recorded.
func (o *Overlay) anchor() (float64, float64) {
	if !o.Anchored {
		o.Pin()
	}
	return o.AnchorX, o.AnchorY
}

// Transform returns the placement of the overlay.
func (o Overlay) Transform() transform.Transform {
	pivot := o.Pivot
	return transform.Transform{
		X:        o.X,
		Y:        o.Y,
		Rotation: o.Rotation,
		ScaleX:   o.ScaleX,
		ScaleY:   o.ScaleY,
		Pivot:    &pivot,
	}
}

// Layer is one editable text object. Layers held by the editor are never
// modified in place; every change stores a new *Layer, so history snapshots
// share unchanged layers.
type Layer struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Text    string    `json:"text"`
	Font    FontStyle `json:"font"`
	Overlay Overlay   `json:"overlay"`
}

// Snapshot is one history entry.
type Snapshot struct {
	Layers    []*Layer
	Selection []string
}

// State is a read-only view of the document returned by every command.
type State struct {
	Layers         []Layer    `json:"layers"`
	Selection      []string   `json:"selection"`
	Background     Background `json:"background"`
	ExportTextOnly bool       `json:"exportTextOnly"`
	CanUndo        bool       `json:"canUndo"`
	CanRedo        bool       `json:"canRedo"`
}

// Layer returns the layer with id from the state.
func (s State) Layer(id string) (Layer, bool) {
	for _, l := range s.Layers {
		if l.ID == id {
			return l, true
		}
	}
	return Layer{}, false
}

// Primary returns the first selected layer, which multi-select displays.
func (s State) Primary() (Layer, bool) {
	if len(s.Selection) == 0 {
		return Layer{}, false
	}
	return s.Layer(s.Selection[0])
}

func defaultFontStyle(font string) FontStyle {
	return FontStyle{
		Selected:    font,
		SizePx:      DefaultSizePx,
		Alignment:   layout.AlignLeft,
		LineHeight:  1,
		StrokeWidth: DefaultStrokeWidth,
	}
}

func defaultOverlay() Overlay {
	return Overlay{ScaleX: 1, ScaleY: 1}
}
