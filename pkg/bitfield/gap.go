package bitfield

import (
	"github.com/matzehuels/bitfield/pkg/scene"
)

// arrayGaps renders every array gap as a wedge over the lanes it crosses.
func (lc *layoutContext) arrayGaps() *scene.Element {
	g := scene.Group()
	for _, gr := range lc.acct.Gaps {
		g.Append(lc.arrayGap(lc.fields[gr.Index], gr))
	}
	return g
}

// mirrorX maps a logical x, measured with bit 0 at the left, to the
// drawn orientation.
func (lc *layoutContext) mirrorX(x float64) float64 {
	if lc.opts.VFlip {
		return x
	}
	return lc.opts.HSpace - x
}

// laneRange returns the logical x range of the gap inside lane.
func (lc *layoutContext) laneRange(gr GapRange, lane int) (lo, hi float64) {
	lo, hi = 0, lc.opts.HSpace
	if lane == laneOf(gr.Start, lc.mod) {
		lo = float64(gr.Start%lc.mod) * lc.step
	}
	if lane == laneOf(gr.End-1, lc.mod) && gr.End%lc.mod != 0 {
		hi = float64(gr.End%lc.mod) * lc.step
	}
	return lo, hi
}

func (lc *layoutContext) arrayGap(f Field, gr GapRange) *scene.Element {
	gap := f.Gap
	startLane := laneOf(gr.Start, lc.mod)
	endLane := laneOf(gr.End-1, lc.mod)

	stroke := "black"
	if !f.Type.IsZero() {
		stroke = lc.color(f.Type)
	}
	g := scene.Group(scene.A("stroke", stroke), scene.A("stroke-width", lc.sw))

	if !f.Type.IsZero() {
		fill := lc.color(f.Type)
		for lane := startLane; lane <= endLane && lane < lc.lanes; lane++ {
			lo, hi := lc.laneRange(gr, lane)
			top := lc.laneTop(lane)
			g.Append(lc.box(lo, hi, top, top+lc.vlane,
				scene.A("fill", fill),
				scene.A("stroke", "none"),
			))
		}
	}

	// the wedge runs from the start lane's outer edge to the end lane's
	// outer edge, whichever way the lanes are stacked
	yA, yB := lc.laneTop(startLane), lc.laneTop(endLane)+lc.vlane
	if lc.rowOf(startLane) > lc.rowOf(endLane) {
		yA, yB = lc.laneTop(startLane)+lc.vlane, lc.laneTop(endLane)
	}

	width := gap.Width
	if width <= 0 {
		width = lc.step / 2
	}
	margin := lc.step * 0.1
	startLo, _ := lc.laneRange(gr, startLane)
	_, endHi := lc.laneRange(gr, endLane)
	x1 := startLo + margin
	x2outer := endHi - margin
	x2 := x2outer - width

	fill := gap.Fill
	if fill == "" {
		fill = "#fff"
	}
	pts := []scene.Point{
		{X: lc.mirrorX(x1), Y: yA},
		{X: lc.mirrorX(x1 + width), Y: yA},
		{X: lc.mirrorX(x2outer), Y: yB},
		{X: lc.mirrorX(x2), Y: yB},
	}
	g.Append(
		scene.Polygon(pts, scene.A("fill", fill)),
		scene.Line(pts[0].X, yA, pts[3].X, yB),
		scene.Line(pts[1].X, yA, pts[2].X, yB),
	)

	if f.Name != "" {
		g.Append(lc.gapCaption(f, gr, x1, x2outer, yA, yB))
	}
	return g
}

// gapCaption centers the name in the wedge when the gap covers whole
// lanes, otherwise on the gap's part of its first lane.
func (lc *layoutContext) gapCaption(f Field, gr GapRange, x1, x2outer, yA, yB float64) *scene.Element {
	var x, y float64
	if (gr.End-gr.Start)%lc.mod == 0 {
		x = (x1 + x2outer) / 2
		y = (yA+yB)/2 + lc.fs/2
	} else {
		lane := laneOf(gr.Start, lc.mod)
		lo, hi := lc.laneRange(gr, lane)
		x = (lo + hi) / 2
		y = lc.laneCenter(lane) + lc.fs/2
	}
	color := f.Gap.FontColor
	if color == "" {
		color = "black"
	}
	return lc.text(f.Name,
		scene.A("x", lc.mirrorX(x)),
		scene.A("y", y),
		scene.A("text-anchor", "middle"),
		scene.A("fill", color),
		scene.A("stroke", "none"),
	)
}

// box is an axis-aligned polygon over the logical x range [lo, hi].
func (lc *layoutContext) box(lo, hi, top, bottom float64, attrs ...scene.Attr) *scene.Element {
	l, r := lc.mirrorX(lo), lc.mirrorX(hi)
	if l > r {
		l, r = r, l
	}
	return scene.Polygon([]scene.Point{
		{X: l, Y: top}, {X: r, Y: top}, {X: r, Y: bottom}, {X: l, Y: bottom},
	}, attrs...)
}
