package glyph

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/parse/v2"
	pstrconv "github.com/tdewolff/parse/v2/strconv"
	"github.com/tdewolff/parse/v2/xml"

	"github.com/ByLCY/linetext/svgpath"
)

const defaultUnitsPerEm = 1000.0

// element is a start tag of interest together with its attributes.
type element struct {
	name  string
	attrs map[string]string
}

// ParseFont reads an SVG font and builds the glyph map at sizePx.
func ParseFont(r io.Reader, id string, sizePx float64) (*FontData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", id, err)
	}
	return ParseFontBytes(raw, id, sizePx)
}

// ParseFontBytes is ParseFont over an in-memory asset.
//
// Outlines are moved from font space (Y up, baseline origin) to render space:
// translate(0, -ascent) followed by scale(s, -s) with s = sizePx/unitsPerEm.
// Missing font-wide metrics degrade to zero instead of failing.
func ParseFontBytes(raw []byte, id string, sizePx float64) (*FontData, error) {
	elems, err := scanElements([]byte(TrimToRoot(string(raw))), "font", "font-face", "glyph")
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", id, err)
	}

	var fontAdv, ascent float64
	unitsPerEm := defaultUnitsPerEm
	for _, el := range elems {
		switch el.name {
		case "font":
			fontAdv, _ = number(el.attrs, "horiz-adv-x")
		case "font-face":
			ascent, _ = number(el.attrs, "ascent")
			if v, ok := number(el.attrs, "units-per-em"); ok && v != 0 {
				unitsPerEm = v
			}
		}
	}

	scale := sizePx / unitsPerEm
	toRender := canvas.Identity.Scale(scale, -scale).Translate(0, -ascent)

	data := &FontData{ID: id, SizePx: sizePx, Glyphs: map[string]*Glyph{}}
	for _, el := range elems {
		if el.name != "glyph" {
			continue
		}
		unicode, ok := el.attrs["unicode"]
		if !ok {
			continue
		}
		adv, ok := number(el.attrs, "horiz-adv-x")
		if !ok {
			adv = fontAdv
		}
		g := &Glyph{
			Unicode: unicode,
			Name:    el.attrs["glyph-name"],
			Width:   adv * scale,
			Height:  sizePx,
		}
		if g.Name == "" {
			g.Name = "glyph" + unicode
		}
		if d := strings.TrimSpace(el.attrs["d"]); d != "" {
			// malformed outline data is dropped, the advance is still kept
			if p, err := svgpath.Parse(d); err == nil && !p.Empty() {
				g.Outline = p.Transform(toRender)
				g.D = g.Outline.Rel()
			}
		}
		data.Glyphs[unicode] = g
	}
	return data, nil
}

// TrimToRoot drops everything before the first <svg> root tag, such as an XML
// prolog or a doctype. The input is returned unchanged when no root is found.
func TrimToRoot(raw string) string {
	idx := strings.Index(raw, "<svg")
	if upper := strings.Index(raw, "<SVG"); upper != -1 && (idx == -1 || upper < idx) {
		idx = upper
	}
	if idx <= 0 {
		return raw
	}
	return raw[idx:]
}

func scanElements(raw []byte, names ...string) ([]element, error) {
	l := xml.NewLexer(parse.NewInputBytes(raw))
	var elems []element
	var cur *element
	for {
		tt, _ := l.Next()
		switch tt {
		case xml.ErrorToken:
			if err := l.Err(); err != nil && err != io.EOF {
				return elems, err
			}
			return elems, nil
		case xml.StartTagToken:
			cur = nil
			name := localName(l.Text())
			for _, n := range names {
				if n == name {
					elems = append(elems, element{name: name, attrs: map[string]string{}})
					cur = &elems[len(elems)-1]
					break
				}
			}
		case xml.AttributeToken:
			if cur != nil {
				cur.attrs[localName(l.Text())] = attrValue(l.AttrVal())
			}
		case xml.StartTagCloseToken, xml.StartTagCloseVoidToken:
			cur = nil
		}
	}
}

func localName(b []byte) string {
	if i := bytes.LastIndexByte(b, ':'); i != -1 {
		b = b[i+1:]
	}
	return string(b)
}

func attrValue(b []byte) string {
	if len(b) >= 2 && (b[0] == '"' || b[0] == '\'') && b[len(b)-1] == b[0] {
		b = b[1 : len(b)-1]
	}
	return html.UnescapeString(string(b))
}

func number(attrs map[string]string, key string) (float64, bool) {
	s := strings.TrimSpace(attrs[key])
	if s == "" {
		return 0, false
	}
	f, n := pstrconv.ParseFloat([]byte(s))
	if n == 0 {
		return 0, false
	}
	return f, true
}
