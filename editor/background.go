package editor

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ByLCY/linetext/glyph"
	"github.com/ByLCY/linetext/layout"
	"github.com/ByLCY/linetext/transform"
)

// DefaultBackgroundMarkup is the empty letter-size canvas a new editor starts with.
const DefaultBackgroundMarkup = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 612 792"><title>CNC Fill Text</title></svg>`

// Background 记录背景矢量文档及其尺寸信息。
type Background struct {
	Markup  string      `json:"markup"`
	Width   string      `json:"width"`
	Height  string      `json:"height"`
	ViewBox string      `json:"viewBox"`
	Unit    layout.Unit `json:"unit"`
}

// ViewBoxRect returns the parsed view box.
func (b Background) ViewBoxRect() transform.ViewBox { return transform.ParseViewBox(b.ViewBox) }

// ParseBackground reads the root element of a vector document. The content is
// not validated: only the root tag is inspected and rewritten, with width and
// height derived from the view box when absent and the editor's "canvas"
// class dropped. Everything after the root tag is kept verbatim.
func ParseBackground(raw string) (Background, error) {
	doc := glyph.TrimToRoot(raw)
	dec := xml.NewDecoder(strings.NewReader(doc))
	dec.Strict = false

	var root xml.StartElement
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			return Background{}, fmt.Errorf("background: document has no root element")
		}
		if err != nil {
			return Background{}, fmt.Errorf("background: %w", err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			root = se.Copy()
			break
		}
	}
	end := int(dec.InputOffset())
	selfClosing := end >= 2 && doc[end-2:end] == "/>"
	// the root tag is always the first thing after TrimToRoot
	start := strings.IndexByte(doc, '<')

	bg := Background{ViewBox: transform.DefaultViewBox}
	if v, ok := attr(root, "viewBox"); ok && strings.TrimSpace(v) != "" {
		bg.ViewBox = v
	}
	bg.Width, _ = attr(root, "width")
	bg.Height, _ = attr(root, "height")
	if bg.Width == "" || bg.Height == "" {
		vb := transform.ParseViewBox(bg.ViewBox)
		if bg.Width == "" {
			bg.Width = strconv.FormatFloat(vb.Width, 'f', -1, 64)
			root = setAttr(root, "width", bg.Width)
		}
		if bg.Height == "" {
			bg.Height = strconv.FormatFloat(vb.Height, 'f', -1, 64)
			root = setAttr(root, "height", bg.Height)
		}
	}
	bg.Unit = layout.UnitOf(bg.Width)
	root = removeClass(root, "canvas")

	var b strings.Builder
	b.WriteString(doc[:start])
	writeStartTag(&b, root)
	if selfClosing {
		b.WriteString("</" + qname(root.Name) + ">")
	}
	b.WriteString(doc[end:])
	bg.Markup = b.String()
	return bg, nil
}

func attr(se xml.StartElement, name string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func setAttr(se xml.StartElement, name, value string) xml.StartElement {
	for i, a := range se.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			se.Attr[i].Value = value
			return se
		}
	}
	se.Attr = append(se.Attr, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	return se
}

func removeClass(se xml.StartElement, class string) xml.StartElement {
	out := se.Attr[:0]
	for _, a := range se.Attr {
		if a.Name.Space == "" && a.Name.Local == "class" {
			var keep []string
			for _, c := range strings.Fields(a.Value) {
				if c != class {
					keep = append(keep, c)
				}
			}
			if len(keep) == 0 {
				continue
			}
			a.Value = strings.Join(keep, " ")
		}
		out = append(out, a)
	}
	se.Attr = out
	return se
}

func qname(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func writeStartTag(b *strings.Builder, se xml.StartElement) {
	b.WriteString("<" + qname(se.Name))
	for _, a := range se.Attr {
		b.WriteString(" " + qname(a.Name) + `="`)
		xml.EscapeText(b, []byte(a.Value))
		b.WriteString(`"`)
	}
	b.WriteString(">")
}
