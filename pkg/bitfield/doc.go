// Package bitfield lays out register diagrams.
//
// # Overview
//
// A register is an ordered list of [Field] values. Each field is either
// sized (a fixed number of bits) or an array gap of variable length. The
// engine assigns absolute bit positions to the fields, splits the
// register into lanes of [Options.Bits] bits and produces a [scene.Element]
// tree with:
//
//   - A cage per lane (top and bottom rules plus tick marks per bit)
//   - Bit numerals and centered field names
//   - Type-colored backgrounds for unnamed or typed fields
//   - Attribute rows (bit patterns, free text or rotated text)
//   - Array-gap wedges
//   - Label-line brackets and arrow jumps drawn outside the grid
//
// # Rendering
//
//	reg := bitfield.Register{Fields: []bitfield.Field{
//	    {Name: "IPO", Bits: 8, Attrs: []bitfield.Attr{bitfield.TextAttr("RO")}},
//	    {Bits: 7},
//	    {Name: "BRK", Bits: 5, Type: bitfield.Numeric(4)},
//	}}
//	opts := bitfield.DefaultOptions()
//	opts.Bits = 16
//	root, err := bitfield.Render(reg, opts)
//
// Serialize the result with [scene.MarshalSVG] or [scene.MarshalJSONML].
//
// # Orientation
//
// Lanes are numbered from the least significant bits. By default the
// highest lane is drawn at the top and bit 0 of each lane at the right;
// [Options.HFlip] draws lane 0 at the top and [Options.VFlip] puts bit 0
// at the left. Lane indices in [LabelLine] and [ArrowJump] are always
// logical, so overlays follow the flips.
//
// # Types
//
// [TypeColor] maps a [TypeKey] to a fill color. RGB keys are used verbatim,
// then [Options.Types] is consulted, then the numeric keys 2 to 7 pick a
// color from a fixed hue palette, then hash-prefixed hex keys are used
// verbatim. Everything else is drawn in [DefaultColor].
//
// # Errors
//
// Out-of-range options and malformed fields or overlays are reported as
// coded errors from [github.com/matzehuels/bitfield/pkg/errors] before any
// drawing happens. A render never returns a partial scene.
package bitfield
