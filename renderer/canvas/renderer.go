// Package canvasrenderer draws a plot preview of the flattened layers as PDF
// via github.com/tdewolff/canvas.
package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/linetext/editor"
	"github.com/ByLCY/linetext/layout"
	"github.com/ByLCY/linetext/renderer"
	svgrenderer "github.com/ByLCY/linetext/renderer/svg"
	"github.com/ByLCY/linetext/svgpath"
)

const frameWidth = 0.2 // mm

// Meta is written into the PDF info dictionary.
type Meta struct {
	Title   string
	Subject string
	Author  string
	Creator string
}

// Options configures the preview renderer.
type Options struct {
	Meta Meta
	// Frame outlines the canvas so an empty page still shows its extent.
	Frame bool
	// Paper fills the page before plotting; nil leaves it blank. Inverted
	// layers stroke in white and need a dark paper to show.
	Paper color.Color
}

// Renderer draws every layer as stroked paths on one page sized like the
// background document.
type Renderer struct {
	opts Options
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates a preview renderer.
func NewRenderer(opts Options) *Renderer { return &Renderer{opts: opts} }

// Page is the physical page of a background and the document-unit scale on it.
type Page struct {
	Width, Height    float64 // mm
	MmPerUnitX       float64
	MmPerUnitY       float64
	OriginX, OriginY float64 // view box min, document units
}

// PageOf sizes the page from the background width and height. Sizes without a
// value fall back to the view box taken as px.
func PageOf(bg editor.Background) Page {
	vb := bg.ViewBoxRect()
	w := lengthMM(bg.Width, bg.Unit, vb.Width)
	h := lengthMM(bg.Height, bg.Unit, vb.Height)
	p := Page{Width: w, Height: h, MmPerUnitX: 1, MmPerUnitY: 1, OriginX: vb.MinX, OriginY: vb.MinY}
	if vb.Width > 0 {
		p.MmPerUnitX = w / vb.Width
	}
	if vb.Height > 0 {
		p.MmPerUnitY = h / vb.Height
	}
	return p
}

func lengthMM(v string, unit layout.Unit, fallbackPx float64) float64 {
	l := layout.ParseRawLengthStr(v)
	if l.IsZero() {
		return layout.Length{Value: fallbackPx, Unit: layout.UnitPX}.ToMM()
	}
	l.Unit = unit
	return l.ToMM()
}

// Render renders the layers into a PDF byte slice.
func (r *Renderer) Render(st *editor.State) ([]byte, error) {
	if st == nil {
		return nil, fmt.Errorf("文档状态为空")
	}
	page := PageOf(st.Background)
	if page.Width <= 0 || page.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸无效: %gx%g mm", page.Width, page.Height)
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, page.Width, page.Height, nil)
	m := r.opts.Meta
	writer.SetInfo(m.Title, m.Subject, "", m.Author, m.Creator)

	c := canvas.New(page.Width, page.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 与 SVG 一致，左上角为原点
	r.drawPaper(ctx, page)
	if err := drawLayers(ctx, page, svgrenderer.Flatten(st)); err != nil {
		return nil, err
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawPaper(ctx *canvas.Context, page Page) {
	if r.opts.Paper != nil {
		ctx.SetFillColor(r.opts.Paper)
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.DrawPath(0, 0, canvas.Rectangle(page.Width, page.Height))
	}
	if r.opts.Frame {
		ctx.SetFillColor(canvas.Transparent)
		ctx.SetStrokeColor(canvas.Gray)
		ctx.SetStrokeWidth(frameWidth)
		ctx.DrawPath(0, 0, canvas.Rectangle(page.Width, page.Height))
	}
}

func drawLayers(ctx *canvas.Context, page Page, layers []svgrenderer.FlatLayer) error {
	toPage := canvas.Identity.Scale(page.MmPerUnitX, page.MmPerUnitY).Translate(-page.OriginX, -page.OriginY)
	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeCapper(canvas.RoundCap)
	for _, l := range layers {
		col := strokeColor(l.Color)
		width := l.StrokeWidth * page.MmPerUnitX
		ctx.SetStrokeColor(col)
		ctx.SetStrokeWidth(width)
		for _, d := range l.Paths {
			parsed, err := svgpath.Parse(d)
			if err != nil {
				return fmt.Errorf("图层 %s 路径无效: %w", l.ID, err)
			}
			p, dots := parsed.Transform(toPage).Canvas()
			if !p.Empty() {
				ctx.DrawPath(0, 0, p)
			}
			// 零长度笔画（句点、i 上的点）按圆头笔尖盖章
			for _, dot := range dots {
				drawDot(ctx, dot, width/2, col)
			}
		}
	}
	return nil
}

func drawDot(ctx *canvas.Context, at canvas.Point, r float64, col color.Color) {
	ctx.SetFillColor(col)
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(at.X, at.Y, canvas.Circle(r))
	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(col)
}

func strokeColor(hex string) color.Color {
	if hex == svgrenderer.ColorInverted {
		return canvas.White
	}
	return canvas.Black
}
