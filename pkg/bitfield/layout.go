package bitfield

import (
	"github.com/matzehuels/bitfield/pkg/scene"
)

// layoutContext holds everything derived once per render. Geometry
// helpers are pure functions of it; it never outlives a Render call.
type layoutContext struct {
	opts   Options
	fields []Field
	acct   Accounting

	mod   int // bits per lane
	lanes int
	total int

	step    float64 // pixel width of one bit
	fs      float64
	sw      float64
	numH    float64 // numeral row height, 0 when numerals are off
	attrH   float64 // attribute area height, 0 in compact mode
	vspace  float64 // effective lane pitch
	vlane   float64 // height of the lane cage
	legendH float64
	height  float64

	// overlay margins, filled by the label-line pass
	left, right float64
}

func newLayout(fields []Field, acct Accounting, opts Options) *layoutContext {
	lc := &layoutContext{
		opts:   opts,
		fields: fields,
		acct:   acct,
		mod:    opts.Bits,
		total:  acct.Total,
		step:   opts.HSpace / float64(opts.Bits),
		fs:     opts.FontSize,
		sw:     opts.StrokeWidth,
		vspace: opts.VSpace,
	}
	lc.lanes = opts.Lanes
	if lc.lanes == 0 {
		lc.lanes = max(acct.Lanes(opts.Bits), 1)
	}
	if opts.NumberDraw {
		lc.numH = 1.2 * lc.fs
	}
	if opts.Compact {
		lc.vlane = lc.vspace - lc.numH
	} else {
		lc.attrH = attrAreaHeight(fields, opts)
		lc.vlane = lc.vspace - lc.numH - lc.attrH
	}
	if minLane := 1.2 * lc.fs; lc.vlane < minLane {
		lc.vspace += minLane - lc.vlane
		lc.vlane = minLane
	}
	if len(opts.Legend) > 0 {
		lc.legendH = 1.2 * lc.fs
	}
	if opts.Compact {
		lc.height = lc.vlane*float64(lc.lanes-1) + lc.vspace + lc.sw/2
	} else {
		lc.height = lc.vspace*float64(lc.lanes) + lc.sw/2
	}
	lc.height += lc.legendH
	return lc
}

// attrAreaHeight is the tallest stack of attribute rows over all fields.
func attrAreaHeight(fields []Field, opts Options) float64 {
	var tallest float64
	for _, f := range fields {
		var h float64
		for _, a := range f.Attrs {
			h += attrRowHeight(a, opts)
		}
		tallest = max(tallest, h)
	}
	return tallest
}

func attrRowHeight(a Attr, opts Options) float64 {
	if !a.IsRotated() {
		return opts.FontSize
	}
	w := textWidth(a.Text, opts.charWidth())
	return max(rotatedExtent(w, opts.FontSize, a.Angle), opts.FontSize)
}

// =============================================================================
// Lane and row mapping
// =============================================================================

// laneAt returns the logical lane drawn in display row i. The mapping is
// its own inverse, so it also maps lanes to rows.
func (lc *layoutContext) laneAt(i int) int {
	if lc.opts.HFlip {
		return i
	}
	return lc.lanes - 1 - i
}

func (lc *layoutContext) rowOf(lane int) int { return lc.laneAt(lane) }

// rowY is the vertical offset of display row i.
func (lc *layoutContext) rowY(i int) float64 {
	var dy float64
	switch {
	case !lc.opts.Compact:
		dy = float64(i) * lc.vspace
	case i > 0:
		dy = float64(i-1)*lc.vlane + lc.vspace
	}
	return dy + lc.legendH
}

// cageOffset is the distance from the row origin to the top rule.
func (lc *layoutContext) cageOffset(i int) float64 {
	if !lc.opts.Compact || i == 0 {
		return lc.numH
	}
	return 0
}

// laneTop is the absolute y of the top rule of a logical lane.
func (lc *layoutContext) laneTop(lane int) float64 {
	i := lc.rowOf(lane)
	return lc.rowY(i) + lc.cageOffset(i)
}

// laneCenter is the absolute y of the vertical center of a lane cage.
func (lc *layoutContext) laneCenter(lane int) float64 {
	return lc.laneTop(lane) + lc.vlane/2
}

// =============================================================================
// Bit mapping
// =============================================================================

// pos maps an in-lane bit index to its column, counted from the left.
func (lc *layoutContext) pos(bitm int) int {
	if lc.opts.VFlip {
		return bitm
	}
	return lc.mod - 1 - bitm
}

// bitCenter is the x of the center of the column holding bit.
func (lc *layoutContext) bitCenter(bit int) float64 {
	return (float64(lc.pos(bit%lc.mod)) + 0.5) * lc.step
}

// bitEdges returns the left and right pixel edges of the in-lane bit range
// [lo, hi].
func (lc *layoutContext) bitEdges(lo, hi int) (x0, x1 float64) {
	a, b := lc.pos(lo), lc.pos(hi)
	return float64(min(a, b)) * lc.step, float64(max(a, b)+1) * lc.step
}

// text builds a text element with the diagram's font settings.
func (lc *layoutContext) text(s string, attrs ...scene.Attr) *scene.Element {
	base := []scene.Attr{
		scene.A("font-size", lc.fs),
		scene.A("font-family", lc.opts.FontFamily),
		scene.A("font-weight", lc.opts.FontWeight),
	}
	return textElement(s, 1.2*lc.fs, append(attrs, base...)...)
}

func (lc *layoutContext) color(k TypeKey) string {
	return TypeColor(k, lc.opts.Types)
}
