package shader

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Prelude errors.
var (
	// ErrDefineName is returned for a define name that is not a WGSL identifier.
	ErrDefineName = errors.New("shader: invalid define name")

	// ErrDefineValue is returned for a define value that is not a scalar literal.
	ErrDefineValue = errors.New("shader: define value is not a scalar")
)

// Prelude renders defines as WGSL module-scope constants.
//
// Values map to types as follows: "true"/"false" become bool, unsigned
// integers become u32, negative integers i32, and other numbers f32.
//
//	USE_SHADOWS=true          -> const USE_SHADOWS: bool = true;
//	BILLBOARD_SHADOW_SAMPLES=4 -> const BILLBOARD_SHADOW_SAMPLES: u32 = 4u;
func Prelude(defines DefineList) (string, error) {
	var b strings.Builder
	for _, d := range defines.defs {
		if !isIdent(d.Name) {
			return "", fmt.Errorf("%w: %q", ErrDefineName, d.Name)
		}
		typ, lit, err := literal(d.Value)
		if err != nil {
			return "", fmt.Errorf("%s: %w", d.Name, err)
		}
		fmt.Fprintf(&b, "const %s: %s = %s;\n", d.Name, typ, lit)
	}
	return b.String(), nil
}

func literal(v string) (typ, lit string, err error) {
	switch v {
	case "true", "false":
		return "bool", v, nil
	}
	if u, err := strconv.ParseUint(v, 10, 32); err == nil {
		return "u32", strconv.FormatUint(u, 10) + "u", nil
	}
	if i, err := strconv.ParseInt(v, 10, 32); err == nil {
		return "i32", strconv.FormatInt(i, 10) + "i", nil
	}
	if f, err := strconv.ParseFloat(v, 32); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		s := strconv.FormatFloat(f, 'f', -1, 32)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return "f32", s + "f", nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrDefineValue, v)
}

func isIdent(s string) bool {
	if s == "" || s == "_" || strings.HasPrefix(s, "__") {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
