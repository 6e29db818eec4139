// Package svgpath keeps SVG path data as a list of absolute commands. Unlike
// canvas.Path it never collapses segments, so the zero-length strokes stroke
// fonts use for dots survive parsing, transforming and serialising.
package svgpath

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tdewolff/canvas"
	pstrconv "github.com/tdewolff/parse/v2/strconv"
)

// Command is one absolute segment. Op is one of M, L, Q, C, A or Z:
//
//	M, L  x y
//	Q     cx cy x y
//	C     c1x c1y c2x c2y x y
//	A     rx ry rot large sweep x y (flags are 0 or 1)
//	Z
type Command struct {
	Op   byte
	Args []float64
}

// end returns the end point of a drawing command.
func (c Command) end() canvas.Point {
	n := len(c.Args)
	return canvas.Point{X: c.Args[n-2], Y: c.Args[n-1]}
}

// Path is parsed path data in absolute form. H/V are stored as L, S as C and
// T as Q.
type Path []Command

var argCount = map[byte]int{'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7, 'Z': 0}

// Parse reads SVG path data. Relative commands are resolved against the
// current point; numbers are read with the parse/v2 float scanner.
func Parse(d string) (Path, error) {
	b := []byte(d)
	var p Path
	var cur, start, ctrl canvas.Point
	var prev, cmd byte
	moved := false

	i := skip(b, 0)
	for i < len(b) {
		if _, ok := argCount[upper(b[i])]; ok {
			cmd = b[i]
			i = skip(b, i+1)
		} else if cmd == 0 || upper(cmd) == 'Z' {
			return nil, fmt.Errorf("svgpath: unexpected %q at offset %d", b[i], i)
		}
		op := upper(cmd)
		rel := cmd != op

		var f [7]float64
		for k := 0; k < argCount[op]; k++ {
			if op == 'A' && (k == 3 || k == 4) {
				if i >= len(b) || (b[i] != '0' && b[i] != '1') {
					return nil, fmt.Errorf("svgpath: bad arc flag at offset %d", i)
				}
				f[k] = float64(b[i] - '0')
				i = skip(b, i+1)
				continue
			}
			v, n := pstrconv.ParseFloat(b[i:])
			if n == 0 {
				return nil, fmt.Errorf("svgpath: expected number at offset %d", i)
			}
			f[k] = v
			i = skip(b, i+n)
		}
		if rel {
			offset(op, &f, cur)
		}

		if op != 'M' && op != 'Z' && !moved {
			p = append(p, Command{Op: 'M', Args: []float64{cur.X, cur.Y}})
			start, moved = cur, true
		}
		switch op {
		case 'M':
			p = append(p, Command{Op: 'M', Args: []float64{f[0], f[1]}})
			cur = canvas.Point{X: f[0], Y: f[1]}
			start, moved = cur, true
		case 'L':
			p = append(p, Command{Op: 'L', Args: []float64{f[0], f[1]}})
			cur = canvas.Point{X: f[0], Y: f[1]}
		case 'H':
			p = append(p, Command{Op: 'L', Args: []float64{f[0], cur.Y}})
			cur.X = f[0]
		case 'V':
			p = append(p, Command{Op: 'L', Args: []float64{cur.X, f[0]}})
			cur.Y = f[0]
		case 'C', 'S':
			c1 := cur
			args := f[:6]
			if op == 'S' {
				if prev == 'C' {
					c1 = cur.Mul(2).Sub(ctrl)
				}
				args = []float64{c1.X, c1.Y, f[0], f[1], f[2], f[3]}
			}
			p = append(p, Command{Op: 'C', Args: append([]float64(nil), args...)})
			ctrl = canvas.Point{X: args[2], Y: args[3]}
			cur = canvas.Point{X: args[4], Y: args[5]}
		case 'Q', 'T':
			args := f[:4]
			if op == 'T' {
				c := cur
				if prev == 'Q' {
					c = cur.Mul(2).Sub(ctrl)
				}
				args = []float64{c.X, c.Y, f[0], f[1]}
			}
			p = append(p, Command{Op: 'Q', Args: append([]float64(nil), args...)})
			ctrl = canvas.Point{X: args[0], Y: args[1]}
			cur = canvas.Point{X: args[2], Y: args[3]}
		case 'A':
			p = append(p, Command{Op: 'A', Args: append([]float64(nil), f[:7]...)})
			cur = canvas.Point{X: f[5], Y: f[6]}
		case 'Z':
			p = append(p, Command{Op: 'Z'})
			cur = start
		}
		prev = p[len(p)-1].Op

		// coordinates after a moveto are implicit linetos
		if op == 'M' {
			cmd = 'L' | (cmd & 0x20)
		}
	}
	return p, nil
}

func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func skip(b []byte, i int) int {
	for i < len(b) && (b[i] == ' ' || b[i] == ',' || b[i] == '\t' || b[i] == '\n' || b[i] == '\r') {
		i++
	}
	return i
}

func offset(op byte, f *[7]float64, cur canvas.Point) {
	switch op {
	case 'H':
		f[0] += cur.X
	case 'V':
		f[0] += cur.Y
	case 'A':
		f[5] += cur.X
		f[6] += cur.Y
	default:
		for k := 0; k+1 < argCount[op]; k += 2 {
			f[k] += cur.X
			f[k+1] += cur.Y
		}
	}
}

// Empty reports whether p draws nothing, i.e. holds only movetos and closes.
// A zero-length lineto is a stroke and does count.
func (p Path) Empty() bool {
	for _, c := range p {
		if c.Op != 'M' && c.Op != 'Z' {
			return false
		}
	}
	return true
}

// Transform returns p mapped through m. Arcs are transformed by canvas, which
// may turn them into other segment types; every other point maps directly.
func (p Path) Transform(m canvas.Matrix) Path {
	out := make(Path, 0, len(p))
	var cur, start canvas.Point
	for _, c := range p {
		switch c.Op {
		case 'Z':
			out = append(out, Command{Op: 'Z'})
			cur = start
			continue
		case 'A':
			out = append(out, transformArc(m, cur, c.Args)...)
		default:
			args := make([]float64, len(c.Args))
			for k := 0; k+1 < len(args); k += 2 {
				q := m.Dot(canvas.Point{X: c.Args[k], Y: c.Args[k+1]})
				args[k], args[k+1] = q.X, q.Y
			}
			out = append(out, Command{Op: c.Op, Args: args})
		}
		cur = c.end()
		if c.Op == 'M' {
			start = cur
		}
	}
	return out
}

func transformArc(m canvas.Matrix, from canvas.Point, a []float64) []Command {
	end := canvas.Point{X: a[5], Y: a[6]}
	seg := &canvas.Path{}
	seg.MoveTo(from.X, from.Y)
	seg.ArcTo(a[0], a[1], a[2], a[3] == 1, a[4] == 1, end.X, end.Y)
	seg = seg.Transform(m)

	var out []Command
	sc := seg.Scanner()
	for sc.Scan() {
		e := sc.End()
		switch sc.Cmd() {
		case canvas.LineToCmd:
			out = append(out, Command{Op: 'L', Args: []float64{e.X, e.Y}})
		case canvas.QuadToCmd:
			c := sc.CP1()
			out = append(out, Command{Op: 'Q', Args: []float64{c.X, c.Y, e.X, e.Y}})
		case canvas.CubeToCmd:
			c1, c2 := sc.CP1(), sc.CP2()
			out = append(out, Command{Op: 'C', Args: []float64{c1.X, c1.Y, c2.X, c2.Y, e.X, e.Y}})
		case canvas.ArcToCmd:
			rx, ry, rot, large, sweep := sc.Arc()
			out = append(out, Command{Op: 'A', Args: []float64{rx, ry, rot, flag(large), flag(sweep), e.X, e.Y}})
		}
	}
	if len(out) == 0 {
		// a degenerate arc still marks a pen-down point
		q := m.Dot(end)
		out = append(out, Command{Op: 'L', Args: []float64{q.X, q.Y}})
	}
	return out
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// segment returns the curve from cur as a canvas path, for exact bounds.
func (c Command) segment(cur canvas.Point) *canvas.Path {
	seg := &canvas.Path{}
	seg.MoveTo(cur.X, cur.Y)
	a := c.Args
	switch c.Op {
	case 'Q':
		seg.QuadTo(a[0], a[1], a[2], a[3])
	case 'C':
		seg.CubeTo(a[0], a[1], a[2], a[3], a[4], a[5])
	case 'A':
		seg.ArcTo(a[0], a[1], a[2], a[3] == 1, a[4] == 1, a[5], a[6])
	}
	return seg
}

// Bounds is the bounding box of everything p draws, zero-length strokes
// included. ok is false when p draws nothing.
func (p Path) Bounds() (r canvas.Rect, ok bool) {
	add := func(q canvas.Rect) {
		if !ok {
			r, ok = q, true
			return
		}
		r = r.Add(q)
	}
	point := func(q canvas.Point) canvas.Rect { return canvas.Rect{X0: q.X, Y0: q.Y, X1: q.X, Y1: q.Y} }

	var cur, start canvas.Point
	for _, c := range p {
		switch c.Op {
		case 'M':
			cur = c.end()
			start = cur
			continue
		case 'Z':
			add(point(cur))
			add(point(start))
			cur = start
			continue
		case 'Q', 'C', 'A':
			if seg := c.segment(cur); !seg.Empty() {
				add(seg.Bounds())
			}
		}
		add(point(cur))
		cur = c.end()
		add(point(cur))
	}
	return r, ok
}

// Rel serialises p with relative commands (m, l, q, c, a, z). Offsets are
// taken from the position the emitted numbers reach, so rounding to 1e-6
// never accumulates along the path.
func (p Path) Rel() string {
	var b strings.Builder
	var cur, start canvas.Point
	step := func(q canvas.Point) {
		dx, dy := round(q.X-cur.X), round(q.Y-cur.Y)
		b.WriteString(num(dx) + " " + num(dy))
		cur = canvas.Point{X: cur.X + dx, Y: cur.Y + dy}
	}
	for _, c := range p {
		a := c.Args
		switch c.Op {
		case 'Z':
			b.WriteByte('z')
			cur = start
			continue
		case 'M':
			b.WriteByte('m')
			step(c.end())
			start = cur
			continue
		case 'L':
			b.WriteByte('l')
		case 'Q':
			b.WriteByte('q')
			b.WriteString(num(round(a[0]-cur.X)) + " " + num(round(a[1]-cur.Y)) + " ")
		case 'C':
			b.WriteByte('c')
			b.WriteString(num(round(a[0]-cur.X)) + " " + num(round(a[1]-cur.Y)) + " ")
			b.WriteString(num(round(a[2]-cur.X)) + " " + num(round(a[3]-cur.Y)) + " ")
		case 'A':
			b.WriteByte('a')
			b.WriteString(num(round(a[0])) + " " + num(round(a[1])) + " " + num(round(a[2])) + " ")
			b.WriteString(num(a[3]) + " " + num(a[4]) + " ")
		}
		step(c.end())
	}
	return b.String()
}

func round(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func num(v float64) string {
	if v == 0 {
		return "0" // no "-0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Canvas converts p for drawing with canvas. Subpaths that only hold
// zero-length strokes are dropped by canvas, so their start points are
// returned as dots for the caller to stamp with the pen.
func (p Path) Canvas() (*canvas.Path, []canvas.Point) {
	out := &canvas.Path{}
	var dots []canvas.Point
	var cur, start canvas.Point
	drawn, visible := false, false
	flush := func() {
		if drawn && !visible {
			dots = append(dots, start)
		}
		drawn, visible = false, false
	}
	for _, c := range p {
		a := c.Args
		switch c.Op {
		case 'M':
			flush()
			cur = c.end()
			start = cur
			out.MoveTo(cur.X, cur.Y)
			continue
		case 'Z':
			drawn = true
			visible = visible || cur != start
			out.Close()
			cur = start
			continue
		case 'L':
			out.LineTo(a[0], a[1])
		case 'Q':
			out.QuadTo(a[0], a[1], a[2], a[3])
		case 'C':
			out.CubeTo(a[0], a[1], a[2], a[3], a[4], a[5])
		case 'A':
			out.ArcTo(a[0], a[1], a[2], a[3] == 1, a[4] == 1, a[5], a[6])
		}
		drawn = true
		if r, ok := (Path{{Op: 'M', Args: []float64{cur.X, cur.Y}}, c}).Bounds(); ok && (r.W() > 0 || r.H() > 0) {
			visible = true
		}
		cur = c.end()
	}
	flush()
	return out, dots
}
