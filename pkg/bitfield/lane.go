package bitfield

import (
	"strconv"

	"github.com/matzehuels/bitfield/pkg/scene"
)

// lane renders display row i: its labels and its cage.
func (lc *layoutContext) lane(i int) *scene.Element {
	g := scene.Group(scene.A("transform", scene.Translate(0, lc.rowY(i))))
	g.Append(lc.labels(i), lc.cage(i))
	return g
}

// =============================================================================
// Cage
// =============================================================================

// skipCount is the number of unused bits in the last lane when uneven
// lanes are enabled.
func (lc *layoutContext) skipCount(lane int) int {
	if !lc.opts.Uneven || lc.lanes <= 1 || lane != lc.lanes-1 {
		return 0
	}
	skip := lc.mod - lc.total%lc.mod
	if skip == lc.mod {
		return 0
	}
	return skip
}

func (lc *layoutContext) cage(i int) *scene.Element {
	lane := lc.laneAt(i)
	g := scene.Group(
		scene.A("stroke", "black"),
		scene.A("stroke-width", lc.sw),
		scene.A("stroke-linecap", "butt"),
		scene.A("transform", scene.Translate(0, lc.cageOffset(i))),
	)

	skip := lc.skipCount(lane)
	hlen := lc.step * float64(lc.mod-skip)
	hpos := lc.step * float64(skip)
	if lc.opts.VFlip {
		hpos = 0
	}

	compact, hflip := lc.opts.Compact, lc.opts.HFlip
	lower, upper := lane*lc.mod, (lane+1)*lc.mod
	top, bottom := upper, lower
	if hflip {
		top, bottom = lower, upper
	}
	if (!compact || hflip || lane == 0) && !lc.acct.hiddenBoundary(bottom) {
		g.Append(scene.Line(hpos, lc.vlane, hpos+hlen, lc.vlane))
	}
	if (!compact || !hflip || lane == 0) && !lc.acct.hiddenBoundary(top) {
		g.Append(scene.Line(hpos, 0, hpos+hlen, 0))
	}

	hbit := (lc.opts.HSpace - lc.sw) / float64(lc.mod)
	tickX := func(p int) float64 { return float64(p)*hbit + lc.sw/2 }
	for col := 0; col < lc.mod; col++ {
		bitm := lc.pos(col)
		bit := lane*lc.mod + bitm
		if bit >= lc.total {
			continue
		}
		hi, lo := col, col+1
		if lc.opts.VFlip {
			hi, lo = col+1, col
		}
		if bitm+1 == lc.mod-skip {
			g.Append(lc.tick(tickX(hi), 0, lc.vlane))
		}
		switch {
		case bitm == 0:
			g.Append(lc.tick(tickX(lo), 0, lc.vlane))
		case lc.acct.hiddenBoundary(bit):
		case lc.acct.startsField(bit):
			g.Append(lc.tick(tickX(lo), 0, lc.vlane))
		case lc.opts.GridDraw:
			g.Append(
				lc.tick(tickX(lo), 0, lc.vlane/8),
				lc.tick(tickX(lo), lc.vlane*7/8, lc.vlane),
			)
		}
	}
	return g
}

func (lc *layoutContext) tick(x, y1, y2 float64) *scene.Element {
	return scene.Line(x, y1, x, y2)
}

// =============================================================================
// Labels
// =============================================================================

// segment is the part of a field that falls into one lane.
type segment struct {
	lsb, msb   int // absolute bits of the segment
	lsbm, msbm int
}

// clip returns the part of span inside lane.
func (lc *layoutContext) clip(s Span, lane int) (segment, bool) {
	seg := segment{
		lsb:  lane * lc.mod,
		msb:  (lane+1)*lc.mod - 1,
		lsbm: 0,
		msbm: lc.mod - 1,
	}
	startsHere := laneOf(s.LSB, lc.mod) == lane
	endsHere := laneOf(s.MSB, lc.mod) == lane
	if !startsHere && !endsHere && !(seg.lsb > s.LSB && seg.msb < s.MSB) {
		return segment{}, false
	}
	if startsHere {
		seg.lsb, seg.lsbm = s.LSB, s.LSBM
	}
	if endsHere {
		seg.msb, seg.msbm = s.MSB, s.MSBM
	}
	return seg, true
}

func (lc *layoutContext) labels(i int) *scene.Element {
	lane := lc.laneAt(i)
	step := lc.step
	compact := lc.opts.Compact

	numerals := scene.Group(scene.A("transform", scene.Translate(step/2, lc.fs)))
	names := scene.Group(scene.A("transform", scene.Translate(step/2, lc.vlane/2+lc.fs/2)))
	attrs := scene.Group(scene.A("transform", scene.Translate(step/2, lc.vlane)))
	blanks := scene.Group()

	for fi, f := range lc.fields {
		span := lc.acct.Spans[fi]
		if !span.Sized {
			continue
		}
		seg, ok := lc.clip(span, lane)
		if !ok {
			continue
		}
		msbPos, lsbPos := lc.pos(seg.msbm), lc.pos(seg.lsbm)
		width := step * float64(seg.msbm-seg.lsbm+1)

		if !compact {
			numerals.Append(lc.text(strconv.Itoa(seg.lsb), scene.A("x", step*float64(lsbPos))))
			if seg.lsbm != seg.msbm {
				numerals.Append(lc.text(strconv.Itoa(seg.msb), scene.A("x", step*float64(msbPos))))
			}
		}

		if f.Name != "" {
			names.Append(lc.name(f, float64(msbPos+lsbPos)/2*step, width))
		}

		if f.Name == "" || !f.Type.IsZero() {
			x0, _ := lc.bitEdges(seg.lsbm, seg.msbm)
			blanks.Append(scene.Rect(x0, lc.sw/2, width, lc.vlane-lc.sw/2,
				scene.A("fill", lc.color(f.Type)),
			))
		}

		if !compact && len(f.Attrs) > 0 {
			attrs.Append(lc.attrRows(f, span, seg)...)
		}
	}

	if compact && i == 0 {
		for col := 0; col < lc.mod; col++ {
			numerals.Append(lc.text(strconv.Itoa(lc.pos(col)), scene.A("x", step*float64(col))))
		}
	}

	body := []*scene.Element{blanks, names, attrs}
	inner := scene.Group()
	switch {
	case lc.opts.NumberDraw && (!compact || i == 0):
		shifted := scene.Group(scene.A("transform", scene.Translate(0, lc.numH)))
		shifted.Append(body...)
		inner.Append(numerals, shifted)
	default:
		inner.Append(body...)
	}
	return scene.Group(scene.A("text-anchor", "middle")).Append(inner)
}

// name renders a field name centered at x.
func (lc *layoutContext) name(f Field, x, avail float64) *scene.Element {
	attrs := []scene.Attr{
		scene.A("text-anchor", "middle"),
		scene.A("y", 6),
	}
	if f.Rotate != 0 {
		attrs = append(attrs, scene.A("transform", "rotate("+scene.Num(f.Rotate)+")"))
	}
	if f.Overline {
		attrs = append(attrs, scene.A("text-decoration", "overline"))
	}
	label := trimText(f.Name, avail, lc.opts.Trim)
	return scene.Group(scene.A("transform", scene.Translate(x, -6))).
		Append(lc.text(label, attrs...))
}

// attrRows renders the attribute rows of one field segment, stacked from
// the bottom rule downwards.
func (lc *layoutContext) attrRows(f Field, span Span, seg segment) []*scene.Element {
	step := lc.step
	msbPos, lsbPos := lc.pos(seg.msbm), lc.pos(seg.lsbm)
	center := float64(msbPos+lsbPos) / 2 * step

	rows := make([]*scene.Element, 0, len(f.Attrs))
	var offset float64
	for _, a := range f.Attrs {
		row := scene.Group(scene.A("transform", scene.Translate(0, offset)))
		h := attrRowHeight(a, lc.opts)
		switch {
		case a.IsBits():
			for k := 0; k <= seg.msb-seg.lsb; k++ {
				shift := k + seg.lsb - span.LSB
				digit := "0"
				if shift < 63 && (a.Value>>shift)&1 == 1 {
					digit = "1"
				}
				col := lsbPos - k
				if lc.opts.VFlip {
					col = lsbPos + k
				}
				row.Append(lc.text(digit, scene.A("x", step*float64(col)), scene.A("y", lc.fs)))
			}
		case a.IsRotated():
			cy := h / 2
			row.Append(lc.text(a.Text,
				scene.A("x", center),
				scene.A("y", cy),
				scene.A("text-anchor", "middle"),
				scene.A("dominant-baseline", "middle"),
				scene.A("transform", scene.Rotate(a.Angle, center, cy)),
			))
		default:
			row.Append(lc.text(a.Text, scene.A("x", center), scene.A("y", lc.fs)))
		}
		rows = append(rows, row)
		offset += h
	}
	return rows
}
