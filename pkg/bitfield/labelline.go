package bitfield

import (
	"math"
	"strings"

	"github.com/matzehuels/bitfield/pkg/errors"
	"github.com/matzehuels/bitfield/pkg/scene"
)

// Bracket geometry in pixels.
const (
	bracketArm = 10 // length of the horizontal rules
	bracketGap = 8  // clearance between canvas, bracket and caption
)

// LabelLine is a bracket drawn outside the grid, spanning the logical
// lanes StartLane..EndLane with a caption.
type LabelLine struct {
	Text      string
	FontSize  float64
	StartLane int
	EndLane   int
	Side      Side
	Angle     *float64 // caption rotation; nil selects 90 on the right, -90 on the left
	Reserved  bool     // raise the top rule to clear the numeral row
}

func (l LabelLine) validate(lanes int) error {
	if strings.TrimSpace(l.Text) == "" {
		return errors.New(errors.ErrCodeInvalidLabelLine, "label_lines requires a caption")
	}
	if l.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidLabelLine, "font_size must be greater than 0, got %v", l.FontSize)
	}
	if l.StartLane < 0 || l.EndLane < 0 {
		return errors.New(errors.ErrCodeInvalidLabelLine, "start_line and end_line must not be negative")
	}
	if l.EndLane-l.StartLane+1 < 2 {
		return errors.New(errors.ErrCodeInvalidLabelLine, "label line must span at least 2 lanes, got %d..%d", l.StartLane, l.EndLane)
	}
	if lanes > 0 && l.EndLane >= lanes {
		return errors.New(errors.ErrCodeInvalidLabelLine, "end_line %d out of range (%d lanes)", l.EndLane, lanes)
	}
	if !l.Side.valid() {
		return errors.New(errors.ErrCodeInvalidLabelLine, "unsupported layout %q (must be left or right)", string(l.Side))
	}
	return nil
}

func (l LabelLine) angle() float64 {
	if l.Angle != nil {
		return *l.Angle
	}
	if l.Side == SideLeft {
		return -90
	}
	return 90
}

// extent is the horizontal space the rotated caption occupies.
func (l LabelLine) extent() float64 {
	lines := strings.Split(l.Text, "\n")
	w := textWidth(l.Text, 0.6*l.FontSize)
	h := float64(len(lines)) * 1.2 * l.FontSize
	rad := l.angle() * math.Pi / 180
	return math.Abs(w*math.Cos(rad)) + math.Abs(h*math.Sin(rad))
}

// margin is the distance a bracket occupies beyond its own offset.
func (l LabelLine) margin() float64 {
	return bracketArm + bracketGap + l.extent()
}

// bracket is a placed label line.
type bracket struct {
	LabelLine
	offset float64 // distance of the vertical rule from the canvas edge
}

// outer is the distance of the far caption edge from the canvas edge.
func (b bracket) outer() float64 { return b.offset + bracketGap + b.extent() }

// placeLabelLines assigns stacking offsets in input order. A bracket that
// shares a lane with an earlier bracket on the same side is pushed beyond
// it.
func placeLabelLines(lines []LabelLine) []bracket {
	placed := make([]bracket, 0, len(lines))
	for _, l := range lines {
		b := bracket{LabelLine: l, offset: bracketArm + bracketGap}
		for _, p := range placed {
			if p.Side != l.Side || !lanesOverlap(p.LabelLine, l) {
				continue
			}
			b.offset = max(b.offset, p.offset+p.margin()+bracketGap)
		}
		placed = append(placed, b)
	}
	return placed
}

func lanesOverlap(a, b LabelLine) bool {
	return a.StartLane <= b.EndLane && b.StartLane <= a.EndLane
}

// sideExtent is the widest bracket extent on one side.
func sideExtent(brackets []bracket, side Side) float64 {
	var ext float64
	for _, b := range brackets {
		if b.Side == side {
			ext = max(ext, b.outer())
		}
	}
	return ext
}

// edge is the x of the canvas edge on side.
func (lc *layoutContext) edge(side Side) float64 {
	if side == SideLeft {
		return 0
	}
	return lc.opts.HSpace
}

// laneSpan returns the top and bottom y of the lanes a..b.
func (lc *layoutContext) laneSpan(a, b int) (top, bottom float64) {
	ta, tb := lc.laneTop(a), lc.laneTop(b)
	return min(ta, tb), max(ta, tb) + lc.vlane
}

func (lc *layoutContext) labelLines(brackets []bracket) *scene.Element {
	g := scene.Group()
	for _, b := range brackets {
		g.Append(lc.bracket(b))
	}
	return g
}

func (lc *layoutContext) bracket(b bracket) *scene.Element {
	dir := b.Side.dir()
	edge := lc.edge(b.Side)
	top, bottom := lc.laneSpan(b.StartLane, b.EndLane)
	if b.Reserved {
		top -= 1.2 * lc.fs
	}
	inner := edge + dir*(b.offset-bracketArm)
	rule := edge + dir*b.offset

	lines := scene.Group(scene.A("stroke", "black"), scene.A("stroke-width", lc.sw))
	lines.Append(
		scene.Line(inner, top, rule, top),
		scene.Line(inner, bottom, rule, bottom),
		scene.Line(rule, top, rule, bottom).
			Set("marker-start", "url(#arrow)").
			Set("marker-end", "url(#arrow)"),
	)

	cx := edge + dir*(b.offset+bracketGap+b.extent()/2)
	cy := (top + bottom) / 2
	attrs := []scene.Attr{
		scene.A("x", cx),
		scene.A("y", cy),
		scene.A("font-size", b.FontSize),
		scene.A("font-family", lc.opts.FontFamily),
		scene.A("font-weight", lc.opts.FontWeight),
		scene.A("text-anchor", "middle"),
		scene.A("dominant-baseline", "middle"),
	}
	if a := b.angle(); a != 0 {
		attrs = append(attrs, scene.A("transform", scene.Rotate(a, cx, cy)))
	}
	caption := textElement(b.Text, 1.2*b.FontSize, attrs...)

	return scene.Group().Append(lines, caption)
}

// arrowMarker is the shared arrowhead referenced as url(#arrow).
func arrowMarker() *scene.Element {
	marker := scene.New(scene.TagMarker,
		scene.A("id", "arrow"),
		scene.A("viewBox", "0 0 10 10"),
		scene.A("refX", 10),
		scene.A("refY", 5),
		scene.A("markerWidth", 6),
		scene.A("markerHeight", 6),
		scene.A("orient", "auto-start-reverse"),
	)
	marker.Append(scene.New(scene.TagPath,
		scene.A("d", "M 0 0 L 10 5 L 0 10 z"),
		scene.A("fill", "black"),
	))
	return scene.New(scene.TagDefs).Append(marker)
}
