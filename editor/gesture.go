package editor

import (
	"context"

	"github.com/ByLCY/linetext/transform"
)

// Gesture names a continuous edit that records a single history entry.
type Gesture string

// Pointer gestures.
const (
	GestureDrag   Gesture = "drag"
	GestureRotate Gesture = "rotate"
	GestureScale  Gesture = "scale"
)

// Numeric field edits (slider drags, number inputs held until blur).
const (
	FieldX           Gesture = "x"
	FieldY           Gesture = "y"
	FieldRotation    Gesture = "rotation"
	FieldSize        Gesture = "size"
	FieldCharSpacing Gesture = "charSpacing"
	FieldLineHeight  Gesture = "lineHeight"
	FieldStrokeWidth Gesture = "strokeWidth"
)

type gestureState struct {
	startSize map[string]float64
}

// BeginGesture starts a pointer gesture. Only the first begin of a kind
// records history.
func (e *Editor) BeginGesture(kind Gesture) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.edits.Begin(kind) {
		e.pushHistoryLocked()
		gs := gestureState{startSize: map[string]float64{}}
		if kind == GestureScale {
			for _, id := range e.selection {
				if l := e.layerLocked(id); l != nil {
					gs.startSize[id] = l.Font.SizePx
				}
			}
		}
		e.gestures[kind] = gs
	}
	return e.stateLocked()
}

// DragTo sets the absolute translation of a layer during a drag.
func (e *Editor) DragTo(id string, x, y float64) (State, error) {
	return e.gestureUpdate(GestureDrag, id, func(l *Layer) {
		l.Overlay.X, l.Overlay.Y = transform.RoundPosition(x), transform.RoundPosition(y)
		l.Overlay.Pin()
	})
}

// RotateTo sets the absolute rotation of a layer during a rotate gesture.
func (e *Editor) RotateTo(id string, deg float64) (State, error) {
	return e.gestureUpdate(GestureRotate, id, func(l *Layer) {
		l.Overlay.Rotation = transform.RoundRotation(deg)
		l.Overlay.Pin()
	})
}

// ScaleTo sets the live scale multiplier during a scale gesture. Geometry is
// left untouched until the gesture ends.
func (e *Editor) ScaleTo(id string, sx, sy float64) (State, error) {
	return e.gestureUpdate(GestureScale, id, func(l *Layer) {
		gs := e.gestures[GestureScale]
		if _, ok := gs.startSize[l.ID]; !ok && gs.startSize != nil {
			gs.startSize[l.ID] = l.Font.SizePx
		}
		l.Overlay.ScaleX, l.Overlay.ScaleY = sx, sy
	})
}

func (e *Editor) gestureUpdate(kind Gesture, id string, fn func(l *Layer)) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.edits.Active(kind) {
		return e.stateLocked(), ErrNoGesture
	}
	if !e.updateLocked(id, fn) {
		return e.stateLocked(), ErrUnknownLayer
	}
	return e.stateLocked(), nil
}

// EndGesture finishes a pointer gesture. Ending a scale gesture bakes the
// multiplier into font size and geometry, then loads the new size.
func (e *Editor) EndGesture(ctx context.Context, kind Gesture) (State, error) {
	e.mu.Lock()
	if !e.edits.End(kind) {
		st := e.stateLocked()
		e.mu.Unlock()
		return st, ErrNoGesture
	}
	gs := e.gestures[kind]
	delete(e.gestures, kind)
	var baked []string
	if kind == GestureScale {
		for id, start := range gs.startSize {
			if e.updateLocked(id, func(l *Layer) { *l = BakeScale(*l, start) }) {
				baked = append(baked, id)
			}
		}
	}
	e.mu.Unlock()

	err := e.loadSelection(ctx, baked)
	return e.State(), err
}

// BeginFieldEdit starts a continuous edit of one numeric field. Setters for
// that field record no history until EndFieldEdit.
func (e *Editor) BeginFieldEdit(field Gesture) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.edits.Begin(field) {
		e.pushHistoryLocked()
	}
	return e.stateLocked()
}

// EndFieldEdit finishes a numeric field edit.
func (e *Editor) EndFieldEdit(field Gesture) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.edits.End(field)
	return e.stateLocked()
}
