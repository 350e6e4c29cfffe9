// Package render converts SVG documents to PNG and PDF.
//
// Conversion shells out to rsvg-convert from librsvg:
//
//	svg := scene.MarshalSVG(root)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// When the binary is missing the functions return an UNSUPPORTED error
// that names the package to install.
package render
