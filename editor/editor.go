// Package editor owns the text-layer document and exposes it as an explicit
// command/query API. Every command returns the resulting State; mutating
// commands record a history snapshot before they apply.
package editor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/ByLCY/linetext/glyph"
	"github.com/ByLCY/linetext/history"
)

var (
	// ErrUnknownLayer is returned for ids that are not in the document.
	ErrUnknownLayer = errors.New("editor: unknown layer")
	// ErrNoGesture rejects gesture updates outside a begin/end pair.
	ErrNoGesture = errors.New("editor: no gesture in progress")
)

// Options 配置编辑器的依赖：字形缓存、字体目录与时钟。
type Options struct {
	Cache       *glyph.Cache
	Catalog     glyph.Catalog
	DefaultFont string
	DefaultText string
	// HistoryLimit bounds undo and redo; zero means history.DefaultLimit.
	HistoryLimit int
	// Now is the clock driving typing sessions and debounced layout; nil uses time.Now.
	Now func() time.Time
}

// Editor is a single document. It is safe for use from several goroutines,
// which lets font fetches complete asynchronously, but commands are applied
// strictly one at a time.
type Editor struct {
	mu sync.Mutex

	cache       *glyph.Cache
	catalog     glyph.Catalog
	defaultFont string
	defaultText string
	now         func() time.Time

	background     Background
	layers         []*Layer
	selection      []string
	exportTextOnly bool
	nextID         int

	history  *history.Stack[Snapshot]
	edits    *history.Coalescer[Gesture]
	gestures map[Gesture]gestureState
	session  Session

	fontSeq  uint64
	fontReqs map[string]uint64
}

// New creates an editor showing DefaultBackgroundMarkup and no layers.
func New(opts Options) *Editor {
	e := &Editor{
		cache:       opts.Cache,
		catalog:     opts.Catalog,
		defaultFont: opts.DefaultFont,
		defaultText: opts.DefaultText,
		now:         opts.Now,
		nextID:      1,
		history:     history.New[Snapshot](opts.HistoryLimit),
		edits:       history.NewCoalescer[Gesture](),
		gestures:    map[Gesture]gestureState{},
		session:     NewSession(),
		fontReqs:    map[string]uint64{},
	}
	if e.cache == nil {
		e.cache = glyph.NewCache(nil)
	}
	if e.defaultText == "" {
		e.defaultText = DefaultText
	}
	if e.defaultFont == "" {
		if ids := e.catalog.IDs(); len(ids) > 0 {
			e.defaultFont = ids[0]
		}
	}
	if e.now == nil {
		e.now = time.Now
	}
	// the built-in markup always parses
	e.background, _ = ParseBackground(DefaultBackgroundMarkup)
	return e
}

// Cache returns the glyph cache the editor lays text out from.
func (e *Editor) Cache() *glyph.Cache { return e.cache }

// State returns the current document.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

func (e *Editor) stateLocked() State {
	layers := make([]Layer, len(e.layers))
	for i, l := range e.layers {
		layers[i] = *l
	}
	return State{
		Layers:         layers,
		Selection:      slices.Clone(e.selection),
		Background:     e.background,
		ExportTextOnly: e.exportTextOnly,
		CanUndo:        e.history.CanUndo(),
		CanRedo:        e.history.CanRedo(),
	}
}

// InitDefault resets the background to the default canvas.
func (e *Editor) InitDefault() State {
	st, _ := e.SetBackgroundFromString(DefaultBackgroundMarkup)
	return st
}

// SetBackgroundFromString replaces the background document. raw may carry a
// prolog before the root element.
func (e *Editor) SetBackgroundFromString(raw string) (State, error) {
	bg, err := ParseBackground(raw)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		return e.stateLocked(), err
	}
	e.background = bg
	return e.stateLocked(), nil
}

// SetExportTextOnly toggles exporting the layers on an empty canvas.
func (e *Editor) SetExportTextOnly(v bool) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exportTextOnly = v
	return e.stateLocked()
}

// ---- history ----

func (e *Editor) snapshotLocked() Snapshot {
	return Snapshot{Layers: slices.Clone(e.layers), Selection: slices.Clone(e.selection)}
}

func (e *Editor) pushHistoryLocked() {
	e.history.Push(e.snapshotLocked())
}

// pushForLocked pushes unless the given field edit is already in progress.
func (e *Editor) pushForLocked(fields ...Gesture) {
	for _, f := range fields {
		if e.edits.Active(f) {
			return
		}
	}
	e.pushHistoryLocked()
}

func (e *Editor) restoreLocked(s Snapshot) {
	e.layers = s.Layers
	e.selection = s.Selection
	e.session.Reset()
	e.edits.Reset()
	clear(e.gestures)
}

// Undo restores the previous snapshot; with no history it changes nothing.
func (e *Editor) Undo() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if prev, ok := e.history.Undo(e.snapshotLocked()); ok {
		e.restoreLocked(prev)
	}
	return e.stateLocked()
}

// Redo re-applies the last undone snapshot; with nothing undone it changes nothing.
func (e *Editor) Redo() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if next, ok := e.history.Redo(e.snapshotLocked()); ok {
		e.restoreLocked(next)
	}
	return e.stateLocked()
}

// ---- layers ----

func (e *Editor) indexLocked(id string) int {
	for i, l := range e.layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (e *Editor) layerLocked(id string) *Layer {
	if i := e.indexLocked(id); i != -1 {
		return e.layers[i]
	}
	return nil
}

// updateLocked stores a modified copy of the layer; fn must replace slices
// rather than write into them.
func (e *Editor) updateLocked(id string, fn func(l *Layer)) bool {
	i := e.indexLocked(id)
	if i == -1 {
		return false
	}
	next := *e.layers[i]
	fn(&next)
	e.layers[i] = &next
	return true
}

func (e *Editor) updateSelectionLocked(fn func(l *Layer)) {
	for _, id := range e.selection {
		e.updateLocked(id, fn)
	}
}

// AddLayer appends a layer with default text and style, selects it and loads
// its font. The first layer of a document is centred on the canvas once its
// geometry exists.
func (e *Editor) AddLayer(ctx context.Context) (State, error) {
	e.mu.Lock()
	e.pushHistoryLocked()
	id := strconv.Itoa(e.nextID)
	e.nextID++
	vb := e.background.ViewBoxRect()
	overlay := defaultOverlay()
	overlay.X, overlay.Y = vb.MinX, vb.MinY
	overlay.NeedsCenter = len(e.layers) == 0
	l := &Layer{
		ID:      id,
		Name:    fmt.Sprintf("Layer %d", len(e.layers)+1),
		Text:    e.defaultText,
		Font:    defaultFontStyle(e.defaultFont),
		Overlay: overlay,
	}
	l.Font.OriginalURL = e.catalog[e.defaultFont].OriginalURL
	// the document slice may be shared with snapshots, never append in place
	e.layers = append(slices.Clone(e.layers), l)
	e.selection = []string{id}
	e.mu.Unlock()

	err := e.LoadFontForLayer(ctx, id)
	return e.State(), err
}

// RemoveLayer deletes a layer and drops it from the selection.
func (e *Editor) RemoveLayer(id string) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.indexLocked(id)
	if i == -1 {
		return e.stateLocked(), ErrUnknownLayer
	}
	e.pushHistoryLocked()
	e.layers = slices.Delete(slices.Clone(e.layers), i, i+1)
	e.selection = slices.DeleteFunc(slices.Clone(e.selection), func(s string) bool { return s == id })
	e.session.Cancel(id)
	return e.stateLocked(), nil
}

// RenameLayer changes the display name of a layer.
func (e *Editor) RenameLayer(id, name string) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.indexLocked(id) == -1 {
		return e.stateLocked(), ErrUnknownLayer
	}
	e.pushHistoryLocked()
	e.updateLocked(id, func(l *Layer) { l.Name = name })
	return e.stateLocked(), nil
}

// ---- selection ----

// SetSelection replaces the selection, keeping the given order.
func (e *Editor) SetSelection(ids []string) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	sel := make([]string, 0, len(ids))
	for _, id := range ids {
		if e.indexLocked(id) != -1 && !slices.Contains(sel, id) {
			sel = append(sel, id)
		}
	}
	e.selection = sel
	return e.stateLocked()
}

// SelectOne selects exactly one layer.
func (e *Editor) SelectOne(id string) State { return e.SetSelection([]string{id}) }

// ClearSelection deselects everything.
func (e *Editor) ClearSelection() State { return e.SetSelection(nil) }

// ToggleSelection adds id at the end of the selection or removes it.
func (e *Editor) ToggleSelection(id string) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if slices.Contains(e.selection, id) {
		e.selection = slices.DeleteFunc(slices.Clone(e.selection), func(s string) bool { return s == id })
	} else if e.indexLocked(id) != -1 {
		e.selection = append(slices.Clone(e.selection), id)
	}
	return e.stateLocked()
}

// Mixed reports, per field, whether the selected layers disagree. Fields are
// size, charSpacing, lineHeight, rotation, font, alignment, color, x and y.
func (e *Editor) Mixed() map[string]bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	var sel []*Layer
	for _, id := range e.selection {
		if l := e.layerLocked(id); l != nil {
			sel = append(sel, l)
		}
	}
	getters := map[string]func(l *Layer) any{
		"size":        func(l *Layer) any { return l.Font.SizePx },
		"charSpacing": func(l *Layer) any { return l.Font.CharSpacing },
		"lineHeight":  func(l *Layer) any { return l.Font.LineHeight },
		"rotation":    func(l *Layer) any { return l.Overlay.Rotation },
		"font":        func(l *Layer) any { return l.Font.Selected },
		"alignment":   func(l *Layer) any { return l.Font.Alignment },
		"color":       func(l *Layer) any { return l.Font.ColorInvert },
		"x":           func(l *Layer) any { return l.Overlay.X },
		"y":           func(l *Layer) any { return l.Overlay.Y },
	}
	out := make(map[string]bool, len(getters))
	for name, get := range getters {
		mixed := false
		for _, l := range sel[min(1, len(sel)):] {
			if get(l) != get(sel[0]) {
				mixed = true
				break
			}
		}
		out[name] = mixed
	}
	return out
}
