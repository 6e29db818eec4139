package transform

import (
	"strconv"
	"strings"
)

// DefaultViewBox is used when a document does not declare one.
const DefaultViewBox = "0 0 612 792"

// ViewBox is a parsed SVG viewBox.
type ViewBox struct {
	MinX, MinY    float64
	Width, Height float64
}

// ParseViewBox splits on spaces and commas. Missing or unparsable parts are
// zero; an empty string yields DefaultViewBox.
func ParseViewBox(s string) ViewBox {
	if strings.TrimSpace(s) == "" {
		s = DefaultViewBox
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	var v [4]float64
	for i := 0; i < len(fields) && i < 4; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err == nil {
			v[i] = f
		}
	}
	return ViewBox{MinX: v[0], MinY: v[1], Width: v[2], Height: v[3]}
}

// Center returns the centre point of the view box.
func (v ViewBox) Center() (float64, float64) {
	return v.MinX + v.Width/2, v.MinY + v.Height/2
}

func (v ViewBox) String() string {
	return num(v.MinX) + " " + num(v.MinY) + " " + num(v.Width) + " " + num(v.Height)
}
