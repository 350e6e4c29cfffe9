package bitfield

import (
	"github.com/matzehuels/bitfield/pkg/errors"
)

// Span is the resolved bit range of one field. For array gaps only LSB
// and MSB are meaningful and Sized is false.
type Span struct {
	LSB, MSB   int // absolute bit indices, inclusive
	LSBM, MSBM int // LSB and MSB modulo bits per lane
	Sized      bool
}

func laneOf(bit, bitsPerLane int) int { return bit / bitsPerLane }

// GapRange is the bit range [Start, End) covered by an array gap.
type GapRange struct {
	Index      int // index of the gap in the field list
	Start, End int
	HideLines  bool
}

// containsInterior reports whether a bit boundary lies strictly inside
// the gap.
func (g GapRange) containsInterior(boundary int) bool {
	return boundary > g.Start && boundary < g.End
}

// Accounting is the derived bit layout of a field list. Spans is indexed
// like the input.
type Accounting struct {
	Spans []Span
	Gaps  []GapRange
	Total int
}

// Lanes returns the number of lanes needed for the total width.
func (a Accounting) Lanes(bitsPerLane int) int {
	return (a.Total + bitsPerLane - 1) / bitsPerLane
}

// Account assigns absolute bit positions to every field in order. The
// input slice is not modified.
func Account(fields []Field, bitsPerLane int) (Accounting, error) {
	if bitsPerLane <= 0 {
		return Accounting{}, errors.New(errors.ErrCodeInvalidConfig, "bits must be greater than 0, got %d", bitsPerLane)
	}
	acct := Accounting{Spans: make([]Span, len(fields))}
	cursor := 0
	for i, f := range fields {
		if f.Gap != nil {
			if f.Bits != 0 {
				return Accounting{}, errors.New(errors.ErrCodeInvalidField, "field %d: bits and array are mutually exclusive", i)
			}
			if f.Gap.Length <= 0 {
				return Accounting{}, errors.New(errors.ErrCodeInvalidField, "field %d: array length must be positive, got %d", i, f.Gap.Length)
			}
			start := cursor
			cursor += f.Gap.Length
			acct.Spans[i] = Span{LSB: start, MSB: cursor - 1}
			acct.Gaps = append(acct.Gaps, GapRange{Index: i, Start: start, End: cursor, HideLines: f.Gap.HideLines})
			continue
		}
		if f.Bits <= 0 {
			return Accounting{}, errors.New(errors.ErrCodeInvalidField, "field %d: bits must be positive, got %d", i, f.Bits)
		}
		if rotatedRows(f.Attrs) > 1 {
			return Accounting{}, errors.New(errors.ErrCodeInvalidField, "field %d: at most one rotated attribute row", i)
		}
		lsb := cursor
		cursor += f.Bits
		msb := cursor - 1
		acct.Spans[i] = Span{
			LSB:   lsb,
			MSB:   msb,
			LSBM:  lsb % bitsPerLane,
			MSBM:  msb % bitsPerLane,
			Sized: true,
		}
	}
	acct.Total = cursor
	return acct, nil
}

// hiddenBoundary reports whether a grid line at the given bit boundary is
// suppressed by an array gap with hidden lines.
func (a Accounting) hiddenBoundary(boundary int) bool {
	for _, g := range a.Gaps {
		if g.HideLines && g.containsInterior(boundary) {
			return true
		}
	}
	return false
}

// startsField reports whether bit is the first bit of a field or gap.
func (a Accounting) startsField(bit int) bool {
	for _, s := range a.Spans {
		if s.LSB == bit {
			return true
		}
	}
	return false
}

func rotatedRows(attrs []Attr) int {
	n := 0
	for _, a := range attrs {
		if a.IsRotated() {
			n++
		}
	}
	return n
}
