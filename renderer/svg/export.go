package svgrenderer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"

	"github.com/ByLCY/linetext/editor"
	"github.com/ByLCY/linetext/renderer"
)

// Doctype is prepended to every exported document.
const Doctype = `<?xml version="1.0" standalone="no"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">`

const mediaType = "image/svg+xml"

// Options configures the SVG exporter.
type Options struct {
	// Minify runs the result through the SVG minifier.
	Minify bool
}

// Renderer writes the flattened export document.
type Renderer struct {
	opts Options
	min  *minify.M
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates an exporter.
func NewRenderer(opts Options) *Renderer {
	r := &Renderer{opts: opts}
	if opts.Minify {
		r.min = minify.New()
		r.min.AddFunc(mediaType, svg.Minify)
	}
	return r
}

// Render merges the flattened layers into the background document, or into an
// empty canvas of the same size in text-only mode.
func (r *Renderer) Render(st *editor.State) ([]byte, error) {
	if st == nil {
		return nil, fmt.Errorf("文档状态为空")
	}
	base := st.Background.Markup
	if st.ExportTextOnly {
		base = EmptyCanvas(st.Background)
	}
	if base == "" {
		return nil, fmt.Errorf("缺少背景文档")
	}
	doc, err := Insert(base, Group(Flatten(st)))
	if err != nil {
		return nil, err
	}
	if r.min != nil {
		out, err := r.min.String(mediaType, doc)
		if err != nil {
			return nil, fmt.Errorf("压缩 SVG 失败: %w", err)
		}
		doc = out
	}
	return []byte(Doctype + "\n" + doc), nil
}

// EmptyCanvas is a document with the background's view box and size and no content.
func EmptyCanvas(bg editor.Background) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s" width="%s" height="%s"></svg>`,
		EscapeAttr(bg.ViewBox), EscapeAttr(bg.Width), EscapeAttr(bg.Height))
}

// Group renders the flattened layers as one stroke-only group.
func Group(layers []FlatLayer) string {
	var b strings.Builder
	b.WriteString("<g>")
	for _, l := range layers {
		sw := strconv.FormatFloat(l.StrokeWidth, 'f', -1, 64)
		for _, d := range l.Paths {
			fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round"/>`,
				d, l.Color, sw)
		}
	}
	b.WriteString("</g>")
	return b.String()
}

// Insert places content right before the closing tag of the root element.
func Insert(doc, content string) (string, error) {
	i := strings.LastIndex(doc, "</svg>")
	if i == -1 {
		i = strings.LastIndex(doc, "</SVG>")
	}
	if i == -1 {
		return "", fmt.Errorf("背景文档缺少 </svg> 结束标签")
	}
	return doc[:i] + "\n" + content + "\n" + doc[i:], nil
}

// FileName is the export file name for t.
func FileName(t time.Time) string {
	return fmt.Sprintf("line-text-%d.svg", t.UnixMilli())
}

// EscapeAttr escapes s for a double-quoted XML attribute value.
func EscapeAttr(s string) string {
	return strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;").Replace(s)
}
