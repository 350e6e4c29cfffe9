package bitfield

import (
	"strings"

	"github.com/matzehuels/bitfield/pkg/errors"
)

// Field is one entry of a register descriptor. A field is either sized
// (Bits > 0) or an array gap (Gap != nil); never both.
type Field struct {
	Name     string
	Bits     int
	Type     TypeKey
	Attrs    []Attr
	Rotate   float64 // rotation of the name label in degrees, 0 for none
	Overline bool
	Gap      *Gap
}

// IsGap reports whether f is a variable-length array gap.
func (f Field) IsGap() bool { return f.Gap != nil }

// Width returns the number of bits f occupies in the bit accounting.
func (f Field) Width() int {
	if f.Gap != nil {
		return f.Gap.Length
	}
	return f.Bits
}

// Gap describes an array gap: a run of bits drawn as a wedge instead of
// individually ticked cells.
type Gap struct {
	Length    int
	Width     float64 // wedge slant width in pixels, 0 selects half a bit step
	Fill      string  // wedge fill, default white
	FontColor string  // caption color, default black
	HideLines bool    // suppress grid lines strictly inside the gap
}

// Register is a complete descriptor: the fields plus any annotation
// overlays that were declared inline with them.
type Register struct {
	Fields     []Field
	LabelLines []LabelLine
	ArrowJumps []ArrowJump
}

// =============================================================================
// Attributes
// =============================================================================

type attrKind uint8

const (
	attrText attrKind = iota
	attrBits
	attrRotated
)

// Attr is one annotation row under a field: a literal bit pattern, free
// text, or rotated free text.
type Attr struct {
	kind  attrKind
	Value int
	Text  string
	Angle float64
}

// BitsAttr renders value as one 0/1 glyph per covered bit.
func BitsAttr(value int) Attr { return Attr{kind: attrBits, Value: value} }

// TextAttr renders s centered under the field.
func TextAttr(s string) Attr { return Attr{kind: attrText, Text: s} }

// RotatedAttr renders s rotated by angle degrees and reserves vertical
// space for its projected bounding box.
func RotatedAttr(s string, angle float64) Attr {
	return Attr{kind: attrRotated, Text: s, Angle: angle}
}

// IsBits reports whether a is a bit pattern.
func (a Attr) IsBits() bool { return a.kind == attrBits }

// IsRotated reports whether a is rotated text.
func (a Attr) IsRotated() bool { return a.kind == attrRotated }

// =============================================================================
// Legend and sides
// =============================================================================

// LegendEntry maps a caption to the type key whose color it explains.
type LegendEntry struct {
	Label string
	Type  TypeKey
}

// Side selects which canvas edge an overlay is drawn against.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// ParseSide validates a side name.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(s)) {
	case SideLeft:
		return SideLeft, nil
	case SideRight:
		return SideRight, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unsupported layout %q (must be left or right)", s)
}

func (s Side) valid() bool { return s == SideLeft || s == SideRight }

// dir is -1 for the left edge and +1 for the right edge.
func (s Side) dir() float64 {
	if s == SideLeft {
		return -1
	}
	return 1
}
