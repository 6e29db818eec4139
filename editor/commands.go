package editor

import (
	"context"
	"math"

	"github.com/ByLCY/linetext/layout"
	"github.com/ByLCY/linetext/transform"
)

// TypeText replaces the text of the single selected layer. Keystrokes within
// TypingIdle of each other share one history entry and layout is debounced
// by RegenerateDelay; call Tick to run it.
func (e *Editor) TypeText(text string) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.selection) != 1 {
		return e.stateLocked()
	}
	id := e.selection[0]
	now := e.now()
	if e.session.Touch(now) {
		e.pushHistoryLocked()
	}
	e.updateLocked(id, func(l *Layer) { l.Text = text })
	e.session.Schedule(id, now)
	return e.stateLocked()
}

// SetFontForSelection switches the selected layers to another font and loads it.
func (e *Editor) SetFontForSelection(ctx context.Context, fontID string) (State, error) {
	e.mu.Lock()
	if len(e.selection) == 0 {
		st := e.stateLocked()
		e.mu.Unlock()
		return st, nil
	}
	e.pushHistoryLocked()
	url := e.catalog[fontID].OriginalURL
	e.updateSelectionLocked(func(l *Layer) {
		l.Font.Selected = fontID
		l.Font.OriginalURL = url
	})
	ids := append([]string(nil), e.selection...)
	e.mu.Unlock()

	err := e.loadSelection(ctx, ids)
	return e.State(), err
}

// SetSizeForSelection sets the font size in px, at least 1, and loads the new size.
func (e *Editor) SetSizeForSelection(ctx context.Context, size float64) (State, error) {
	return e.resize(ctx, []Gesture{FieldSize}, func(float64) float64 { return size })
}

// AdjustFontSizeForSelection changes the font size of each selected layer by delta.
func (e *Editor) AdjustFontSizeForSelection(ctx context.Context, delta float64) (State, error) {
	if delta == 0 {
		return e.State(), nil
	}
	return e.resize(ctx, nil, func(cur float64) float64 { return cur + delta })
}

func (e *Editor) resize(ctx context.Context, fields []Gesture, size func(cur float64) float64) (State, error) {
	e.mu.Lock()
	if len(e.selection) == 0 {
		st := e.stateLocked()
		e.mu.Unlock()
		return st, nil
	}
	e.pushForLocked(fields...)
	e.updateSelectionLocked(func(l *Layer) {
		l.Font.SizePx = math.Max(1, size(l.Font.SizePx))
	})
	ids := append([]string(nil), e.selection...)
	e.mu.Unlock()

	err := e.loadSelection(ctx, ids)
	return e.State(), err
}

// SetCharSpacingForSelection sets the extra advance after every glyph.
func (e *Editor) SetCharSpacingForSelection(v float64) State {
	return e.setDebounced(FieldCharSpacing, func(l *Layer) { l.Font.CharSpacing = v })
}

// SetLineHeightForSelection sets the line advance multiplier.
func (e *Editor) SetLineHeightForSelection(v float64) State {
	return e.setDebounced(FieldLineHeight, func(l *Layer) { l.Font.LineHeight = v })
}

func (e *Editor) setDebounced(field Gesture, fn func(l *Layer)) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.selection) == 0 {
		return e.stateLocked()
	}
	e.pushForLocked(field)
	now := e.now()
	for _, id := range e.selection {
		if e.updateLocked(id, fn) {
			e.session.Schedule(id, now)
		}
	}
	return e.stateLocked()
}

// SetAlignmentForSelection changes the alignment and keeps each layer's text
// box centred on its anchor, whatever the rotation.
func (e *Editor) SetAlignmentForSelection(a layout.Alignment) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.selection) == 0 {
		return e.stateLocked()
	}
	e.pushHistoryLocked()
	for _, id := range e.selection {
		l := e.layerLocked(id)
		if l == nil {
			continue
		}
		width, ok := e.maxLineWidthLocked(l)
		if !ok {
			// nothing laid out yet
			continue
		}
		dx := transform.AlignmentShift(width, l.Font.Alignment, a)
		e.updateLocked(id, func(l *Layer) {
			l.Overlay.anchor()
			l.Overlay.X = transform.RoundPosition(l.Overlay.X + dx)
			l.Font.Alignment = a
		})
		e.session.Cancel(id)
		e.regenerateLocked(id, true)
	}
	return e.stateLocked()
}

// SetColorInvertForSelection switches between black and white strokes.
func (e *Editor) SetColorInvertForSelection(v bool) State {
	return e.set(nil, func(l *Layer) { l.Font.ColorInvert = v })
}

// SetStrokeWidthForSelection sets the stroke width in px.
func (e *Editor) SetStrokeWidthForSelection(w float64) State {
	return e.set([]Gesture{FieldStrokeWidth}, func(l *Layer) { l.Font.StrokeWidth = w })
}

// TransformPatch holds the transform fields to set; nil fields are kept.
type TransformPatch struct {
	X, Y     *float64
	Rotation *float64
}

func (p TransformPatch) fields() []Gesture {
	var out []Gesture
	if p.X != nil {
		out = append(out, FieldX)
	}
	if p.Y != nil {
		out = append(out, FieldY)
	}
	if p.Rotation != nil {
		out = append(out, FieldRotation)
	}
	return out
}

// SetTransformForSelection sets absolute position and rotation on every
// selected layer. Positions are rounded to integers, rotation to 2 decimals.
func (e *Editor) SetTransformForSelection(p TransformPatch) State {
	fields := p.fields()
	if len(fields) == 0 {
		return e.State()
	}
	return e.set(fields, func(l *Layer) {
		if p.X != nil {
			l.Overlay.X = transform.RoundPosition(*p.X)
		}
		if p.Y != nil {
			l.Overlay.Y = transform.RoundPosition(*p.Y)
		}
		if p.Rotation != nil {
			l.Overlay.Rotation = transform.RoundRotation(*p.Rotation)
		}
		l.Overlay.Pin()
	})
}

// NudgeSelection moves the selected layers by (dx, dy).
func (e *Editor) NudgeSelection(dx, dy float64) State {
	return e.set(nil, func(l *Layer) {
		l.Overlay.X = transform.RoundPosition(l.Overlay.X + dx)
		l.Overlay.Y = transform.RoundPosition(l.Overlay.Y + dy)
		l.Overlay.Pin()
	})
}

// ResetRotation sets the rotation of the selected layers to 0.
func (e *Editor) ResetRotation() State {
	return e.set(nil, func(l *Layer) { l.Overlay.Rotation = 0 })
}

func (e *Editor) set(fields []Gesture, fn func(l *Layer)) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.selection) == 0 {
		return e.stateLocked()
	}
	e.pushForLocked(fields...)
	e.updateSelectionLocked(fn)
	return e.stateLocked()
}
