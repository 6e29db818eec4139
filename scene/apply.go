package scene

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ByLCY/linetext/binding"
	"github.com/ByLCY/linetext/editor"
	svgrenderer "github.com/ByLCY/linetext/renderer/svg"
	"github.com/ByLCY/linetext/transform"
)

// Options configures Apply.
type Options struct {
	// BaseDir resolves a relative background path.
	BaseDir string
	// Data is bound into layer text through ${path|default} placeholders.
	Data any
}

// BackgroundMarkup returns the background document of the scene, or "" when
// the editor default applies.
func (sc *Scene) BackgroundMarkup(baseDir string) (string, error) {
	if sc.Background != "" {
		path := sc.Background
		if !filepath.IsAbs(path) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("读取背景文件 %s 失败: %w", path, err)
		}
		return string(raw), nil
	}
	if sc.Canvas != nil {
		c := *sc.Canvas
		if c.ViewBox == "" {
			c.ViewBox = transform.DefaultViewBox
		}
		markup := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s"`, svgrenderer.EscapeAttr(c.ViewBox))
		if c.Width != "" {
			markup += fmt.Sprintf(` width="%s"`, svgrenderer.EscapeAttr(c.Width))
		}
		if c.Height != "" {
			markup += fmt.Sprintf(` height="%s"`, svgrenderer.EscapeAttr(c.Height))
		}
		return markup + "></svg>", nil
	}
	return "", nil
}

// Apply replays the scene on e through its command API, so every step goes
// through history, layout and pivot handling exactly as interactive edits do.
func (sc *Scene) Apply(ctx context.Context, e *editor.Editor, opts Options) error {
	markup, err := sc.BackgroundMarkup(opts.BaseDir)
	if err != nil {
		return err
	}
	if markup == "" {
		e.InitDefault()
	} else if _, err := e.SetBackgroundFromString(markup); err != nil {
		return fmt.Errorf("解析背景失败: %w", err)
	}
	e.SetExportTextOnly(sc.Export.TextOnly)

	for i, want := range sc.Layers {
		if err := applyLayer(ctx, e, want, opts.Data); err != nil {
			return fmt.Errorf("图层 %d: %w", i+1, err)
		}
	}
	e.ClearSelection()
	return nil
}

func applyLayer(ctx context.Context, e *editor.Editor, want Layer, data any) error {
	st, err := e.AddLayer(ctx)
	if err != nil {
		return err
	}
	l, _ := st.Primary()
	id := l.ID
	if want.Name != "" {
		if _, err := e.RenameLayer(id, want.Name); err != nil {
			return err
		}
	}
	if want.Font != "" {
		if _, err := e.SetFontForSelection(ctx, want.Font); err != nil {
			return err
		}
	}
	if want.Size != nil {
		if _, err := e.SetSizeForSelection(ctx, *want.Size); err != nil {
			return err
		}
	}
	if want.Text != nil {
		e.TypeText(binding.Interpolate(*want.Text, data))
	}
	if want.CharSpacing != nil {
		e.SetCharSpacingForSelection(*want.CharSpacing)
	}
	if want.LineHeight != nil {
		e.SetLineHeightForSelection(*want.LineHeight)
	}
	e.Flush()
	if want.Align != nil {
		e.SetAlignmentForSelection(*want.Align)
	}
	if want.Invert != nil {
		e.SetColorInvertForSelection(*want.Invert)
	}
	if want.StrokeWidth != nil {
		e.SetStrokeWidthForSelection(*want.StrokeWidth)
	}

	patch := editor.TransformPatch{X: want.X, Y: want.Y, Rotation: want.Rotation}
	if len(want.At) == 2 {
		cur, _ := e.State().Layer(id)
		x, y := want.At[0]-cur.Overlay.Pivot.CX, want.At[1]-cur.Overlay.Pivot.CY
		patch.X, patch.Y = &x, &y
	}
	e.SetTransformForSelection(patch)

	if want.Scale != nil && *want.Scale != 1 {
		e.BeginGesture(editor.GestureScale)
		if _, err := e.ScaleTo(id, *want.Scale, *want.Scale); err != nil {
			return err
		}
		if _, err := e.EndGesture(ctx, editor.GestureScale); err != nil {
			return err
		}
	}
	return nil
}
