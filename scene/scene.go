// Package scene turns a parsed scene script into editor commands.
package scene

import (
	"fmt"
	"image/color"
	"regexp"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/linetext/dsl"
	"github.com/ByLCY/linetext/glyph"
	"github.com/ByLCY/linetext/layout"
)

// Scene is the typed form of a scene script.
type Scene struct {
	Name       string
	Background string  // background document file, relative to the script
	Canvas     *Canvas // empty canvas used when Background is empty
	Fonts      glyph.Catalog
	Export     Export
	Layers     []Layer
}

// Canvas describes an empty background document.
type Canvas struct {
	ViewBox string
	Width   string
	Height  string
}

// Export holds the export switches.
type Export struct {
	TextOnly bool
	Minify   bool
	// Paper fills the PDF preview page; nil leaves it blank.
	Paper color.Color
}

// Layer is one layer description. Nil fields keep the editor defaults.
type Layer struct {
	Name        string
	Text        *string
	Font        string
	Size        *float64
	Align       *layout.Alignment
	CharSpacing *float64
	LineHeight  *float64
	Invert      *bool
	StrokeWidth *float64
	X, Y        *float64
	// At places the layer's visual centre on a world point.
	At       []float64
	Rotation *float64
	Scale    *float64
}

// Compile 将 DSL AST 转换为场景描述。
func Compile(doc *dsl.Document) (*Scene, error) {
	if doc == nil {
		return nil, fmt.Errorf("场景文档为空")
	}
	sc := &Scene{Name: string(doc.Name), Fonts: glyph.Catalog{}}
	for _, sec := range doc.Sections {
		var err error
		switch {
		case sec.Background != nil:
			sc.Background = string(sec.Background.File)
		case sec.Canvas != nil:
			sc.Canvas, err = compileCanvas(sec.Canvas.Block)
		case sec.Fonts != nil:
			err = compileFonts(sec.Fonts.Block, sc.Fonts)
		case sec.Export != nil:
			err = compileExport(sec.Export.Block, &sc.Export)
		case sec.Layer != nil:
			var l Layer
			l, err = compileLayer(sec.Layer)
			sc.Layers = append(sc.Layers, l)
		}
		if err != nil {
			return nil, fmt.Errorf("%s 段落: %w", sec.Kind(), err)
		}
	}
	return sc, nil
}

func assignments(block *dsl.Block, fn func(key string, v *dsl.Value) error) error {
	if block == nil {
		return nil
	}
	for _, st := range block.Statements {
		if st.Assignment == nil {
			continue
		}
		if err := fn(st.Assignment.Key, st.Assignment.Value); err != nil {
			return fmt.Errorf("%s (行 %d): %w", st.Assignment.Key, st.Assignment.Pos.Line, err)
		}
	}
	return nil
}

func compileCanvas(block *dsl.Block) (*Canvas, error) {
	c := &Canvas{}
	err := assignments(block, func(key string, v *dsl.Value) error {
		switch key {
		case "viewBox", "view-box":
			if v.Array != nil {
				nums, err := v.Floats()
				if err != nil {
					return err
				}
				if len(nums) != 4 {
					return fmt.Errorf("需要 4 个数字，实际 %d 个", len(nums))
				}
				parts := make([]string, len(nums))
				for i, n := range nums {
					parts[i] = fmt.Sprint(n)
				}
				c.ViewBox = strings.Join(parts, " ")
				return nil
			}
			c.ViewBox = v.Text()
		case "width":
			c.Width = v.Text()
		case "height":
			c.Height = v.Text()
		default:
			return fmt.Errorf("未知属性")
		}
		return nil
	})
	return c, err
}

func compileFonts(block *dsl.Block, catalog glyph.Catalog) error {
	if block == nil {
		return nil
	}
	for _, st := range block.Statements {
		cmd := st.Command
		if cmd == nil || cmd.Name != "font" {
			continue
		}
		if len(cmd.Args) < 2 {
			return fmt.Errorf("font 需要 id 与文件名 (行 %d)", cmd.Pos.Line)
		}
		meta := glyph.FontMeta{ID: cmd.Args[0].Value, Filename: cmd.Args[1].Value}
		for i := 2; i+1 < len(cmd.Args); i += 2 {
			if cmd.Args[i].Value == "url" {
				meta.OriginalURL = cmd.Args[i+1].Value
			}
		}
		catalog[meta.ID] = meta
	}
	return nil
}

func compileExport(block *dsl.Block, ex *Export) error {
	return assignments(block, func(key string, v *dsl.Value) error {
		var err error
		switch key {
		case "text-only":
			ex.TextOnly, err = v.Bool()
		case "minify":
			ex.Minify, err = v.Bool()
		case "paper":
			ex.Paper, err = parseHex(v.Text())
		default:
			err = fmt.Errorf("未知属性")
		}
		return err
	})
}

func compileLayer(sec *dsl.LayerSection) (Layer, error) {
	l := Layer{Name: string(sec.Name)}
	if sec.Block == nil {
		return l, nil
	}
	for _, st := range sec.Block.Statements {
		if st.Text != nil {
			text := string(st.Text.Value)
			l.Text = &text
		}
	}
	err := assignments(sec.Block, func(key string, v *dsl.Value) error {
		switch key {
		case "text":
			text := v.Text()
			l.Text = &text
		case "font":
			l.Font = v.Text()
		case "align":
			a := layout.ParseAlignment(v.Text())
			l.Align = &a
		case "invert":
			b, err := v.Bool()
			if err != nil {
				return err
			}
			l.Invert = &b
		case "at":
			at, err := v.Floats()
			if err != nil {
				return err
			}
			if len(at) != 2 {
				return fmt.Errorf("需要 [x, y]")
			}
			l.At = at
		default:
			dst := l.number(key)
			if dst == nil {
				return fmt.Errorf("未知属性")
			}
			f, err := v.Float()
			if err != nil {
				return err
			}
			*dst = &f
		}
		return nil
	})
	return l, err
}

func (l *Layer) number(key string) **float64 {
	switch key {
	case "size":
		return &l.Size
	case "spacing", "char-spacing":
		return &l.CharSpacing
	case "line-height":
		return &l.LineHeight
	case "stroke", "stroke-width":
		return &l.StrokeWidth
	case "x":
		return &l.X
	case "y":
		return &l.Y
	case "rotate", "rotation":
		return &l.Rotation
	case "scale":
		return &l.Scale
	}
	return nil
}

var hexColor = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})$`)

// parseHex reads a CSS hex colour such as "#fffbe6".
func parseHex(s string) (color.Color, error) {
	if !hexColor.MatchString(s) {
		return nil, fmt.Errorf("需要 #rgb、#rrggbb 或 #rrggbbaa 颜色，实际为 %q", s)
	}
	return canvas.Hex(s), nil
}
