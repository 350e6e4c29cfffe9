package notation

import (
	"github.com/alecthomas/participle/v2"

	"github.com/matzehuels/bitfield/pkg/bitfield"
	"github.com/matzehuels/bitfield/pkg/errors"
)

// DefaultLabelSize is the caption font size of a label without "size".
const DefaultLabelSize = bitfield.DefaultFontSize

var parser = participle.MustBuild[file](
	participle.Lexer(notationLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

// Parse reads a register written in the compact notation. Syntax errors
// are INVALID_INPUT and carry the line and column of the offending token.
func Parse(src string) (bitfield.Register, error) {
	var reg bitfield.Register
	f, err := parser.ParseString("", src)
	if err != nil {
		return reg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse notation")
	}
	for _, s := range f.Stmts {
		switch {
		case s.Field != nil:
			field, err := s.Field.convert()
			if err != nil {
				return reg, err
			}
			reg.Fields = append(reg.Fields, field)
		case s.Array != nil:
			field, err := s.Array.convert()
			if err != nil {
				return reg, err
			}
			reg.Fields = append(reg.Fields, field)
		case s.Label != nil:
			reg.LabelLines = append(reg.LabelLines, s.Label.convert())
		case s.Arrow != nil:
			reg.ArrowJumps = append(reg.ArrowJumps, s.Arrow.convert())
		}
	}
	return reg, nil
}

func (s *fieldStmt) convert() (bitfield.Field, error) {
	f := bitfield.Field{Bits: s.Bits}
	if s.Name != nil {
		f.Name = *s.Name
	}
	for _, o := range s.Opts {
		switch {
		case o.Type != nil:
			k, err := o.Type.convert()
			if err != nil {
				return f, err
			}
			f.Type = k
		case o.Attr != nil:
			f.Attrs = append(f.Attrs, o.Attr.convert())
		case o.Rotate != nil:
			f.Rotate = *o.Rotate
		case o.Overline:
			f.Overline = true
		}
	}
	return f, nil
}

func (a *attrValue) convert() bitfield.Attr {
	switch {
	case a.Bits != nil:
		return bitfield.BitsAttr(*a.Bits)
	case a.Text.Angle != nil && *a.Text.Angle != 0:
		return bitfield.RotatedAttr(a.Text.Text, *a.Text.Angle)
	}
	return bitfield.TextAttr(a.Text.Text)
}

func (t *typeValue) convert() (bitfield.TypeKey, error) {
	switch {
	case t.RGB != nil:
		var c [3]uint8
		for i, v := range t.RGB {
			if v < 0 || v > 255 {
				return bitfield.TypeKey{}, errors.New(errors.ErrCodeInvalidType,
					"%s: rgb component %d out of range 0..255", t.Pos, v)
			}
			c[i] = uint8(v)
		}
		return bitfield.RGB(c[0], c[1], c[2]), nil
	case t.Num != nil:
		return bitfield.Numeric(*t.Num), nil
	case t.Str != nil:
		return bitfield.ParseTypeKey(*t.Str), nil
	}
	return bitfield.NoType(), nil
}

func (s *arrayStmt) convert() (bitfield.Field, error) {
	gap := &bitfield.Gap{Length: s.Length}
	f := bitfield.Field{Gap: gap}
	if s.Name != nil {
		f.Name = *s.Name
	}
	for _, o := range s.Opts {
		switch {
		case o.Type != nil:
			k, err := o.Type.convert()
			if err != nil {
				return f, err
			}
			f.Type = k
		case o.Width != nil:
			gap.Width = *o.Width
		case o.Fill != nil:
			gap.Fill = *o.Fill
		case o.Color != nil:
			gap.FontColor = *o.Color
		case o.Hide:
			gap.HideLines = true
		}
	}
	return f, nil
}

func (s *labelStmt) convert() bitfield.LabelLine {
	l := bitfield.LabelLine{
		Text:      s.Text,
		FontSize:  DefaultLabelSize,
		StartLane: s.Start,
		EndLane:   s.End,
		Side:      bitfield.Side(s.Side),
	}
	for _, o := range s.Opts {
		switch {
		case o.Angle != nil:
			a := *o.Angle
			l.Angle = &a
		case o.Size != nil:
			l.FontSize = *o.Size
		case o.Reserved:
			l.Reserved = true
		}
	}
	return l
}

func (s *arrowStmt) convert() bitfield.ArrowJump {
	a := bitfield.ArrowJump{
		Bit:       s.Bit,
		StartLane: s.Lane,
		Jumps:     s.Via,
		Side:      bitfield.Side(s.Side),
	}
	if s.To != nil {
		bit := s.To.Bit
		a.EndBit = &bit
		a.EndLane = s.To.Lane
	}
	if s.Stroke != nil {
		a.StrokeWidth = *s.Stroke
	}
	return a
}
