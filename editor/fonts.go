package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/ByLCY/linetext/glyph"
)

// ErrStaleFont reports a font response that a newer request superseded.
var ErrStaleFont = errors.New("editor: stale font response")

// FontRequest identifies one font fetch for a layer. Seq orders the requests
// of a layer; only the newest one may update it.
type FontRequest struct {
	LayerID string
	FontID  string
	SizePx  float64
	Seq     uint64
}

// RequestFont returns the fetch a layer needs. ok is false when the layer is
// unknown or its font is already cached; in the latter case the layer is laid
// out right away.
func (e *Editor) RequestFont(id string) (FontRequest, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	l := e.layerLocked(id)
	if l == nil {
		return FontRequest{}, false
	}
	if _, cached := e.cache.Get(l.Font.Selected, l.Font.SizePx); cached {
		delete(e.fontReqs, id)
		e.regenerateLocked(id, true)
		return FontRequest{}, false
	}
	e.fontSeq++
	e.fontReqs[id] = e.fontSeq
	return FontRequest{LayerID: id, FontID: l.Font.Selected, SizePx: l.Font.SizePx, Seq: e.fontSeq}, true
}

// CompleteFont delivers the result of a fetch started with RequestFont. The
// data is cached under the request's own key either way. The layer is only
// relaid out if the request is still its newest and the layer still wants
// that font at that size; otherwise ErrStaleFont is returned. A failed fetch
// leaves the cache untouched.
func (e *Editor) CompleteFont(req FontRequest, data *glyph.FontData, err error) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		if e.fontReqs[req.LayerID] == req.Seq {
			delete(e.fontReqs, req.LayerID)
		}
		return e.stateLocked(), fmt.Errorf("font %s for layer %s: %w", req.FontID, req.LayerID, err)
	}
	if data == nil || data.ID != req.FontID || data.SizePx != req.SizePx {
		return e.stateLocked(), fmt.Errorf("font %s for layer %s: response does not match request", req.FontID, req.LayerID)
	}
	e.cache.Put(data)

	if e.fontReqs[req.LayerID] != req.Seq {
		return e.stateLocked(), ErrStaleFont
	}
	delete(e.fontReqs, req.LayerID)
	l := e.layerLocked(req.LayerID)
	if l == nil || l.Font.Selected != req.FontID || l.Font.SizePx != req.SizePx {
		return e.stateLocked(), ErrStaleFont
	}
	e.regenerateLocked(req.LayerID, true)
	return e.stateLocked(), nil
}

// LoadFontForLayer fetches the layer's font through the cache if needed and
// lays the layer out. No lock is held while the asset is read.
func (e *Editor) LoadFontForLayer(ctx context.Context, id string) error {
	req, need := e.RequestFont(id)
	if !need {
		return nil
	}
	data, err := e.cache.Load(ctx, req.FontID, req.SizePx)
	_, err = e.CompleteFont(req, data, err)
	if errors.Is(err, ErrStaleFont) {
		return nil
	}
	return err
}

func (e *Editor) loadSelection(ctx context.Context, ids []string) error {
	var errs []error
	for _, id := range ids {
		if err := e.LoadFontForLayer(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
