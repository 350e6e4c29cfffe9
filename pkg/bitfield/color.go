package bitfield

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultColor is the neutral fill used for untyped or unknown types.
const DefaultColor = "rgb(229, 229, 229)"

type typeKind uint8

const (
	kindNone typeKind = iota
	kindNumeric
	kindRGB
	kindHex
	kindNamed
)

// TypeKey selects a field's background color. The zero value means the
// field has no type.
type TypeKey struct {
	kind    typeKind
	n       int
	r, g, b uint8
	s       string
}

// NoType returns the empty type key.
func NoType() TypeKey { return TypeKey{} }

// Numeric returns a small integer type key, e.g. 2..7 for the hue palette.
func Numeric(n int) TypeKey { return TypeKey{kind: kindNumeric, n: n} }

// RGB returns a literal color type key.
func RGB(r, g, b uint8) TypeKey { return TypeKey{kind: kindRGB, r: r, g: g, b: b} }

// Hex returns a hash-prefixed hex color type key.
func Hex(s string) TypeKey { return TypeKey{kind: kindHex, s: s} }

// Named returns a free-form type key, resolved through the override table.
func Named(s string) TypeKey { return TypeKey{kind: kindNamed, s: s} }

// ParseTypeKey classifies a textual type key: an integer becomes Numeric,
// a "#rrggbb" string becomes Hex and anything else Named.
func ParseTypeKey(s string) TypeKey {
	if s == "" {
		return NoType()
	}
	if n, err := strconv.Atoi(s); err == nil {
		return Numeric(n)
	}
	if isHashHex(s) {
		return Hex(s)
	}
	return Named(s)
}

// IsZero reports whether k is the empty type.
func (k TypeKey) IsZero() bool { return k.kind == kindNone }

// RGBValues returns the components of an RGB key.
func (k TypeKey) RGBValues() (r, g, b uint8, ok bool) {
	return k.r, k.g, k.b, k.kind == kindRGB
}

// String returns the key as used for override table lookups.
func (k TypeKey) String() string {
	switch k.kind {
	case kindNumeric:
		return strconv.Itoa(k.n)
	case kindRGB:
		return fmt.Sprintf("[%d, %d, %d]", k.r, k.g, k.b)
	case kindHex, kindNamed:
		return k.s
	}
	return ""
}

// TypeEntry is one row of a type override table. A key matches the entry
// when it equals Name, Label, Value or any of Aliases.
type TypeEntry struct {
	Name    string
	Color   string
	Label   string
	Value   string
	Aliases []string
}

func (e TypeEntry) matches(key string) bool {
	if key == "" {
		return false
	}
	if key == e.Name || key == e.Label || key == e.Value {
		return true
	}
	for _, a := range e.Aliases {
		if key == a {
			return true
		}
	}
	return false
}

// TypeTable is an ordered override table; the first matching entry wins.
type TypeTable []TypeEntry

// Lookup returns the normalized override color for key.
func (t TypeTable) Lookup(key string) (string, bool) {
	for _, e := range t {
		if e.matches(key) {
			return normalizeColor(e.Color), true
		}
	}
	return "", false
}

// hue palette for the numeric type keys, in degrees
var hues = map[string]float64{
	"2": 0,
	"3": 80,
	"4": 170,
	"5": 45,
	"6": 126,
	"7": 215,
}

// TypeColor resolves key to a fill color: literal RGB, then the override
// table, then the numeric hue palette, then a verbatim hex color, and
// finally DefaultColor.
func TypeColor(key TypeKey, table TypeTable) string {
	if key.kind == kindNone {
		return DefaultColor
	}
	if key.kind == kindRGB {
		return fmt.Sprintf("rgb(%d, %d, %d)", key.r, key.g, key.b)
	}
	s := key.String()
	if c, ok := table.Lookup(s); ok {
		return c
	}
	if h, ok := hues[s]; ok {
		return hueColor(h)
	}
	if isHashHex(s) {
		return s
	}
	return DefaultColor
}

// hueColor converts a palette hue at lightness 0.9 and full saturation.
func hueColor(h float64) string {
	c := colorful.Hsl(h, 1, 0.9)
	return fmt.Sprintf("rgb(%d, %d, %d)", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

func normalizeColor(c string) string {
	c = strings.TrimSpace(c)
	if len(c) == 6 && isHexDigits(c) {
		return "#" + c
	}
	return c
}

func isHashHex(s string) bool {
	return len(s) == 7 && s[0] == '#' && isHexDigits(s[1:])
}

func isHexDigits(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return s != ""
}
