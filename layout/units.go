package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe lengths for document sizes. Conversions follow
// the CSS reference pixel: 96px per inch.

// Unit represents the unit suffix of a document length.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, read as px
	UnitPX               // CSS pixels
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
	UnitPC               // picas
)

// Conversion constants.
const (
	PxPerIn = 96.0
	PtToMm  = 0.352777
	MmToPt  = 1.0 / PtToMm
	PxPerMm = PxPerIn / 25.4
	PxPerPt = PxPerIn / 72.0
	PxPerPc = PxPerIn / 6.0
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	case UnitPC:
		return "pc"
	default:
		return ""
	}
}

// ParseUnit maps a suffix to a Unit; unknown suffixes are UnitPX.
func ParseUnit(s string) Unit {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mm":
		return UnitMM
	case "cm":
		return UnitCM
	case "in":
		return UnitIN
	case "pt":
		return UnitPT
	case "pc":
		return UnitPC
	default:
		return UnitPX
	}
}

// MarshalText encodes the unit as its suffix, px for unit-less values.
func (u Unit) MarshalText() ([]byte, error) {
	if u == UnitNone {
		return []byte("px"), nil
	}
	return []byte(UnitToString(u)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Unit) UnmarshalText(b []byte) error {
	*u = ParseUnit(string(b))
	return nil
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToPx converts the length to CSS pixels. Conversion is linear in all units.
func (l Length) ToPx() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value * PxPerMm
	case UnitCM:
		return l.Value * 10 * PxPerMm
	case UnitIN:
		return l.Value * PxPerIn
	case UnitPT:
		return l.Value * PxPerPt
	case UnitPC:
		return l.Value * PxPerPc
	default:
		return l.Value
	}
}

// ToMM converts the length to millimeters.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.ToPx() / PxPerMm
	}
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// ParseRawLengthStr parses a length such as "210mm" or "612" preserving its
// unit. The first alphabetic run is the unit; an unparsable number yields zero.
func ParseRawLengthStr(value string) Length {
	v := strings.TrimSpace(value)
	if v == "" {
		return Length{Value: 0, Unit: UnitNone}
	}
	cut := len(v)
	for i, r := range v {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '%' {
			// keep exponents such as 1e3 in the numeric part
			if (r == 'e' || r == 'E') && i+1 < len(v) && (v[i+1] == '-' || v[i+1] == '+' || (v[i+1] >= '0' && v[i+1] <= '9')) {
				continue
			}
			cut = i
			break
		}
	}
	num := strings.TrimSpace(v[:cut])
	unit := UnitNone
	if cut < len(v) {
		unit = ParseUnit(unitSuffix(v[cut:]))
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{Value: 0, Unit: unit}
	}
	return Length{Value: f, Unit: unit}
}

// UnitOf returns the unit suffix of a length string, px when there is none.
func UnitOf(value string) Unit {
	u := ParseRawLengthStr(value).Unit
	if u == UnitNone {
		return UnitPX
	}
	return u
}

func unitSuffix(s string) string {
	end := 0
	for end < len(s) && ((s[end] >= 'a' && s[end] <= 'z') || (s[end] >= 'A' && s[end] <= 'Z')) {
		end++
	}
	return s[:end]
}
