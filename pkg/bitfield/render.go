package bitfield

import (
	"slices"
	"strings"

	"github.com/matzehuels/bitfield/pkg/scene"
)

// Render lays out reg and returns the scene graph rooted at an svg
// element. Annotations carried by reg are drawn after those in opts.
// Neither reg nor opts is modified.
func Render(reg Register, opts Options) (*scene.Element, error) {
	opts.SetDefaults()
	opts.LabelLines = slices.Concat(opts.LabelLines, reg.LabelLines)
	opts.ArrowJumps = slices.Concat(opts.ArrowJumps, reg.ArrowJumps)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	acct, err := Account(reg.Fields, opts.Bits)
	if err != nil {
		return nil, err
	}
	lc := newLayout(reg.Fields, acct, opts)

	// lane ranges can only be checked once the lane count is known
	if opts.Lanes == 0 {
		probe := opts
		probe.Lanes = lc.lanes
		if err := probe.Validate(); err != nil {
			return nil, err
		}
	}

	brackets := placeLabelLines(opts.LabelLines)
	routes := placeArrowJumps(opts.ArrowJumps, brackets)
	lc.left = max(sideExtent(brackets, SideLeft), routeExtent(routes, SideLeft))
	lc.right = max(sideExtent(brackets, SideRight), routeExtent(routes, SideRight))

	width := opts.HSpace + lc.left + lc.right
	root := scene.New(scene.TagSVG,
		scene.A("width", width),
		scene.A("height", lc.height),
		scene.A("viewBox", viewBox(-lc.left, 0, width, lc.height)),
	)
	if len(brackets) > 0 || len(routes) > 0 {
		root.Append(arrowMarker())
	}
	if len(opts.Legend) > 0 {
		root.Append(lc.legend())
	}
	root.Append(lc.arrayGaps())
	for i := 0; i < lc.lanes; i++ {
		root.Append(lc.lane(i))
	}
	if len(brackets) > 0 {
		root.Append(lc.labelLines(brackets))
	}
	if len(routes) > 0 {
		root.Append(lc.arrowJumps(routes))
	}
	return root, nil
}

func viewBox(vals ...float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = scene.Num(v)
	}
	return strings.Join(parts, " ")
}
