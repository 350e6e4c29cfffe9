// Package pkg provides the libraries behind the bitfield diagram renderer.
//
// # Overview
//
// Bitfield draws register and packet layouts as lane diagrams: a register
// is a list of fields, each some number of bits wide, wrapped into lanes of
// a fixed bit width and drawn with bit numerals, names and attributes.
//
// # Architecture
//
// The typical data flow:
//
//	JSON / YAML / TOML document      compact text notation
//	         ↓                                ↓
//	   [descriptor] package           [notation] package
//	                   ↘            ↙
//	             [bitfield] package (layout → scene)
//	                        ↓
//	              [scene] package (SVG, JsonML)
//	                        ↓
//	             [render] package (PNG, PDF)
//
// [pipeline] ties the stages together behind a cache ([cache]) and is
// shared by the CLI and the HTTP server.
//
// # Quick Start
//
//	doc, err := descriptor.Decode(data, descriptor.FormatJSON)
//	if err != nil {
//	    return err
//	}
//	root, err := bitfield.Render(doc.Register, doc.Options)
//	if err != nil {
//	    return err
//	}
//	svg := scene.MarshalSVG(root)
//
// # Main Packages
//
// [bitfield] - Field accounting, lane layout, label lines, arrow jumps and
// the legend. Pure functions from a register and options to a scene.
//
// [descriptor] - Order-preserving decoding of JSON, YAML and TOML
// documents into registers and options.
//
// [notation] - A compact line-oriented text notation for registers.
//
// [scene] - The element tree produced by layout and its SVG and JsonML
// serializations.
//
// [render] - Raster and PDF conversion through rsvg-convert.
//
// [pipeline] - Decode, render and serialize with cached artifacts.
//
// [cache] - File, Redis and null artifact caches.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for render, cache and server events.
//
// [buildinfo] - Version information set at build time.
//
// [bitfield]: https://pkg.go.dev/github.com/matzehuels/bitfield/pkg/bitfield
// [descriptor]: https://pkg.go.dev/github.com/matzehuels/bitfield/pkg/descriptor
// [notation]: https://pkg.go.dev/github.com/matzehuels/bitfield/pkg/notation
// [scene]: https://pkg.go.dev/github.com/matzehuels/bitfield/pkg/scene
// [render]: https://pkg.go.dev/github.com/matzehuels/bitfield/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/bitfield/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/bitfield/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/bitfield/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/bitfield/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/bitfield/pkg/buildinfo
package pkg
