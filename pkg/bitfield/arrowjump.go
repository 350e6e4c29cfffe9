package bitfield

import (
	"github.com/matzehuels/bitfield/pkg/errors"
	"github.com/matzehuels/bitfield/pkg/scene"
)

const (
	defaultArrowStroke = 3
	arrowChannel       = 12 // spacing of successive routing channels
)

// ArrowJump routes an arrow from Bit on StartLane to a target bit, jogging
// outside the canvas through each lane in Jumps.
type ArrowJump struct {
	Bit         int
	StartLane   int
	Jumps       []int
	EndBit      *int // target bit, defaults to Bit; values >= bits per lane are absolute
	EndLane     *int
	Side        Side // defaults to SideLeft
	StrokeWidth float64
}

// validate checks a against lanes lanes of bitsPerLane bits. A lanes of 0
// skips the lane range checks.
func (a ArrowJump) validate(lanes, bitsPerLane int) error {
	if a.Side != "" && !a.Side.valid() {
		return errors.New(errors.ErrCodeInvalidArrowJump, "unsupported layout %q (must be left or right)", string(a.Side))
	}
	if a.Bit < 0 {
		return errors.New(errors.ErrCodeInvalidArrowJump, "arrow_jump bit must not be negative, got %d", a.Bit)
	}
	if a.StrokeWidth < 0 {
		return errors.New(errors.ErrCodeInvalidArrowJump, "stroke_width must not be negative, got %v", a.StrokeWidth)
	}
	if a.EndBit != nil && *a.EndBit < 0 {
		return errors.New(errors.ErrCodeInvalidArrowJump, "end_bit must not be negative, got %d", *a.EndBit)
	}
	check := func(name string, lane int) error {
		if lane < 0 || (lanes > 0 && lane >= lanes) {
			return errors.New(errors.ErrCodeInvalidArrowJump, "%s %d out of range (%d lanes)", name, lane, lanes)
		}
		return nil
	}
	if err := check("start_line", a.StartLane); err != nil {
		return err
	}
	for _, j := range a.Jumps {
		if err := check("jump_to", j); err != nil {
			return err
		}
	}
	if a.EndLane != nil {
		if err := check("end_line", *a.EndLane); err != nil {
			return err
		}
	} else if a.EndBit != nil && bitsPerLane > 0 && *a.EndBit >= bitsPerLane {
		if lane := *a.EndBit / bitsPerLane; lanes > 0 && lane >= lanes {
			return errors.New(errors.ErrCodeInvalidArrowJump, "end_bit %d lies in lane %d (%d lanes)", *a.EndBit, lane, lanes)
		}
	}
	return nil
}

func (a ArrowJump) side() Side {
	if a.Side == "" {
		return SideLeft
	}
	return a.Side
}

func (a ArrowJump) stroke() float64 {
	if a.StrokeWidth > 0 {
		return a.StrokeWidth
	}
	return defaultArrowStroke
}

// target returns the bit and logical lane the arrow ends on.
func (a ArrowJump) target(bitsPerLane int) (bit, lane int) {
	bit = a.Bit
	if a.EndBit != nil {
		bit = *a.EndBit
	}
	switch {
	case a.EndLane != nil:
		lane = *a.EndLane
	case a.EndBit != nil && *a.EndBit >= bitsPerLane:
		lane = *a.EndBit / bitsPerLane
	case len(a.Jumps) > 0:
		lane = a.Jumps[len(a.Jumps)-1]
	default:
		lane = a.StartLane
	}
	return bit, lane
}

// route is an arrow jump with its assigned channel distance.
type route struct {
	ArrowJump
	channel float64 // distance of the vertical jogs from the canvas edge
}

// placeArrowJumps gives every arrow its own channel beyond the label-line
// brackets on its side.
func placeArrowJumps(jumps []ArrowJump, brackets []bracket) []route {
	base := map[Side]float64{
		SideLeft:  sideExtent(brackets, SideLeft),
		SideRight: sideExtent(brackets, SideRight),
	}
	routes := make([]route, 0, len(jumps))
	for _, a := range jumps {
		s := a.side()
		base[s] += arrowChannel
		routes = append(routes, route{ArrowJump: a, channel: base[s]})
	}
	return routes
}

// routeExtent is the outermost channel on side.
func routeExtent(routes []route, side Side) float64 {
	var ext float64
	for _, r := range routes {
		if r.side() == side {
			ext = max(ext, r.channel+r.stroke())
		}
	}
	return ext
}

// points computes the rectilinear path of r.
func (lc *layoutContext) points(r route) []scene.Point {
	side := r.side()
	outX := lc.edge(side) + side.dir()*r.channel

	cur := r.StartLane
	pts := []scene.Point{{X: lc.bitCenter(r.Bit), Y: lc.laneCenter(cur)}}
	outside := false
	jog := func(lane int) {
		if !outside {
			pts = append(pts, scene.Point{X: outX, Y: lc.laneCenter(cur)})
			outside = true
		}
		pts = append(pts, scene.Point{X: outX, Y: lc.laneCenter(lane)})
		cur = lane
	}
	for _, lane := range r.Jumps {
		jog(lane)
	}
	bit, lane := r.target(lc.mod)
	if lane != cur {
		jog(lane)
	}
	return append(pts, scene.Point{X: lc.bitCenter(bit), Y: lc.laneCenter(cur)})
}

func (lc *layoutContext) arrowJumps(routes []route) *scene.Element {
	g := scene.Group()
	for _, r := range routes {
		g.Append(scene.Polyline(lc.points(r),
			scene.A("fill", "none"),
			scene.A("stroke", "black"),
			scene.A("stroke-width", r.stroke()),
			scene.A("marker-end", "url(#arrow)"),
		))
	}
	return g
}
