// Package transform composes layer placement into affine matrices and keeps a
// layer's pivot stable when its geometry changes.
//
// A placement is expressed two ways that must agree: a chain of primitive
// operations (the live preview's transform attribute) and one baked matrix
// applied to path coordinates on export.
package transform

import (
	"math"
	"strconv"
	"strings"

	"github.com/tdewolff/canvas"
)

// Pivot is a local-space point rotation and scale are applied about.
type Pivot struct {
	CX float64 `json:"cx"`
	CY float64 `json:"cy"`
}

func (p Pivot) finite() bool {
	return !math.IsNaN(p.CX) && !math.IsInf(p.CX, 0) && !math.IsNaN(p.CY) && !math.IsInf(p.CY, 0)
}

// Transform is the placement of one layer. Rotation is in degrees.
type Transform struct {
	X, Y           float64
	Rotation       float64
	ScaleX, ScaleY float64
	Pivot          *Pivot
}

// Matrix composes translate(x,y) followed by rotate and scale, about the pivot
// when one is set and about the origin otherwise.
func (t Transform) Matrix() canvas.Matrix {
	m := canvas.Identity.Translate(t.X, t.Y)
	if t.Pivot != nil && t.Pivot.finite() {
		return m.Translate(t.Pivot.CX, t.Pivot.CY).
			Rotate(t.Rotation).
			Scale(t.ScaleX, t.ScaleY).
			Translate(-t.Pivot.CX, -t.Pivot.CY)
	}
	return m.Rotate(t.Rotation).Scale(t.ScaleX, t.ScaleY)
}

// OpKind is a primitive transform operation.
type OpKind int

const (
	OpTranslate OpKind = iota
	OpRotate
	OpScale
)

// Op is one primitive of a Chain. Rotate uses A only, in degrees.
type Op struct {
	Kind OpKind
	A, B float64
}

// Chain is an ordered transform list; as in SVG the last op applies first.
type Chain []Op

// Chain returns the transform as an operation list. Identity rotate and scale
// steps are left out, as the preview does.
func (t Transform) Chain() Chain {
	c := Chain{{Kind: OpTranslate, A: t.X, B: t.Y}}
	pivot := t.Pivot != nil && t.Pivot.finite()
	if pivot {
		c = append(c, Op{Kind: OpTranslate, A: t.Pivot.CX, B: t.Pivot.CY})
	}
	if t.Rotation != 0 {
		c = append(c, Op{Kind: OpRotate, A: t.Rotation})
	}
	if t.ScaleX != 1 || t.ScaleY != 1 {
		c = append(c, Op{Kind: OpScale, A: t.ScaleX, B: t.ScaleY})
	}
	if pivot {
		c = append(c, Op{Kind: OpTranslate, A: -t.Pivot.CX, B: -t.Pivot.CY})
	}
	return c
}

// Apply maps a point through the chain one operation at a time.
func (c Chain) Apply(x, y float64) (float64, float64) {
	for i := len(c) - 1; i >= 0; i-- {
		op := c[i]
		switch op.Kind {
		case OpTranslate:
			x, y = x+op.A, y+op.B
		case OpRotate:
			sin, cos := math.Sincos(op.A * math.Pi / 180)
			x, y = x*cos-y*sin, x*sin+y*cos
		case OpScale:
			x, y = x*op.A, y*op.B
		}
	}
	return x, y
}

// String renders the chain as an SVG transform attribute value.
func (c Chain) String() string {
	parts := make([]string, 0, len(c))
	for _, op := range c {
		switch op.Kind {
		case OpTranslate:
			parts = append(parts, "translate("+num(op.A)+" "+num(op.B)+")")
		case OpRotate:
			parts = append(parts, "rotate("+num(op.A)+")")
		case OpScale:
			parts = append(parts, "scale("+num(op.A)+" "+num(op.B)+")")
		}
	}
	return strings.Join(parts, " ")
}

// Values returns m as the SVG parameters [a b c d e f].
func Values(m canvas.Matrix) [6]float64 {
	return [6]float64{m[0][0], m[1][0], m[0][1], m[1][1], m[0][2], m[1][2]}
}

// SVGMatrix renders m as an SVG matrix(...) transform.
func SVGMatrix(m canvas.Matrix) string {
	v := Values(m)
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = num(f)
	}
	return "matrix(" + strings.Join(parts, " ") + ")"
}

// RoundPosition rounds a translation component to whole units.
func RoundPosition(v float64) float64 { return math.Round(v) }

// RoundRotation rounds degrees to two decimals.
func RoundRotation(v float64) float64 { return math.Round(v*100) / 100 }

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
