// Package scene defines the abstract drawing tree produced by the bitfield
// renderer and the serializers that turn it into text.
//
// # Overview
//
// A scene is a tree of [Element] values. Each element has an SVG-style tag
// (line, polyline, polygon, rect, text, tspan, g, ...), an ordered list of
// presentation attributes and optional children or text content. The layout
// engine only ever builds these trees; it never formats markup itself.
//
// # Serialization
//
// [MarshalSVG] writes the tree as an SVG document:
//
//	root, _ := bitfield.Render(reg, opts)
//	svg := scene.MarshalSVG(root)
//
// [MarshalJSONML] writes the same tree as JsonML, i.e. nested arrays of the
// form ["tag", {attrs}, child...], which is convenient for tooling that
// post-processes diagrams.
//
// Both serializers are pure functions of the tree and safe to call
// concurrently on the same scene.
package scene
