package bitfield

import (
	"github.com/matzehuels/bitfield/pkg/scene"
)

const (
	legendSwatch      = 12
	legendSwatchPad   = 20
	legendNamePadding = 64
)

// legend draws a centered row of color swatches above the lanes.
func (lc *layoutContext) legend() *scene.Element {
	g := scene.Group(scene.A("transform", scene.Translate(0, lc.sw/2)))
	n := float64(len(lc.opts.Legend))
	x := lc.opts.HSpace/2 - n/2*(legendSwatchPad+legendNamePadding)
	for _, e := range lc.opts.Legend {
		g.Append(scene.Rect(x, 0, legendSwatch, legendSwatch,
			scene.A("fill", lc.color(e.Type)),
			scene.A("stroke", "#000"),
			scene.A("stroke-width", lc.sw),
		))
		x += legendSwatchPad
		g.Append(lc.text(e.Label, scene.A("x", x), scene.A("y", lc.fs/1.2)))
		x += legendNamePadding
	}
	return g
}
