package dsl

import (
	"fmt"
	"strconv"
	"strings"
)

// Text returns the value as written: strings unquoted, numbers verbatim,
// expressions joined without spaces.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Expr != nil:
		var b strings.Builder
		for _, p := range v.Expr.Parts {
			b.WriteString(p.Value)
		}
		return b.String()
	default:
		return ""
	}
}

// Float parses a numeric value. Unit suffixes are not allowed here.
func (v *Value) Float() (float64, error) {
	if v == nil || (v.Number == nil && v.Expr == nil) {
		return 0, fmt.Errorf("需要数字，实际为 %q", v.Text())
	}
	f, err := strconv.ParseFloat(v.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("无法解析数字 %q: %w", v.Text(), err)
	}
	return f, nil
}

// Bool accepts true/false, yes/no and on/off.
func (v *Value) Bool() (bool, error) {
	switch strings.ToLower(v.Text()) {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("需要布尔值，实际为 %q", v.Text())
}

// Floats parses an array of numbers.
func (v *Value) Floats() ([]float64, error) {
	if v == nil || v.Array == nil {
		return nil, fmt.Errorf("需要数组，实际为 %q", v.Text())
	}
	out := make([]float64, 0, len(v.Array.Values))
	for _, item := range v.Array.Values {
		f, err := item.Float()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
