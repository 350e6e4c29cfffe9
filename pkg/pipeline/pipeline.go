// Package pipeline turns register documents into rendered artifacts.
//
// This is the single path used by the CLI and the HTTP server, so both
// decode, validate, cache and serialize the same way.
//
// # Stages
//
//  1. Decode: parse a JSON, YAML or TOML descriptor, or the compact text
//     notation, into a register and options
//  2. Render: apply overrides and lay the register out as a scene
//  3. Serialize: write every requested format concurrently (SVG, JsonML,
//     PNG, PDF), serving cached artifacts where possible
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Request{
//	    Source:      data,
//	    InputFormat: pipeline.InputYAML,
//	    Formats:     []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/bitfield/pkg/bitfield"
	"github.com/matzehuels/bitfield/pkg/descriptor"
	"github.com/matzehuels/bitfield/pkg/errors"
	"github.com/matzehuels/bitfield/pkg/scene"
)

// =============================================================================
// Formats
// =============================================================================

// Output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// Input formats.
const (
	InputJSON = "json"
	InputYAML = "yaml"
	InputTOML = "toml"
	InputText = "text"
)

// DefaultScale is the PNG zoom factor.
const DefaultScale = 2.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ContentTypes maps output formats to MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatJSON: "application/json",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
}

// ValidateFormat checks that format is a supported output format.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list, dropping blanks and
// duplicates. An empty list means SVG.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return []string{FormatSVG}
	}
	return out
}

// ParseInputFormat normalizes an input format name.
func ParseInputFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt", "bf":
		return InputText, nil
	}
	f, err := descriptor.ParseFormat(s)
	if err != nil {
		return "", errors.New(errors.ErrCodeInvalidFormat, "invalid input format: %q (must be one of: json, yaml, toml, text)", s)
	}
	return string(f), nil
}

// InputFormatFromPath guesses the input format from a file extension.
func InputFormatFromPath(path string) (string, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "", false
	}
	f, err := ParseInputFormat(ext)
	if err != nil {
		return "", false
	}
	return f, true
}

// =============================================================================
// Overrides
// =============================================================================

// Overrides replace document options. Nil fields leave the document's
// value alone.
type Overrides struct {
	VSpace      *float64 `json:"vspace,omitempty"`
	HSpace      *float64 `json:"hspace,omitempty"`
	Bits        *int     `json:"bits,omitempty"`
	Lanes       *int     `json:"lanes,omitempty"`
	FontSize    *float64 `json:"fontsize,omitempty"`
	FontFamily  *string  `json:"fontfamily,omitempty"`
	FontWeight  *string  `json:"fontweight,omitempty"`
	StrokeWidth *float64 `json:"strokewidth,omitempty"`
	Trim        *float64 `json:"trim,omitempty"`
	Compact     *bool    `json:"compact,omitempty"`
	HFlip       *bool    `json:"hflip,omitempty"`
	VFlip       *bool    `json:"vflip,omitempty"`
	Uneven      *bool    `json:"uneven,omitempty"`
	GridDraw    *bool    `json:"grid_draw,omitempty"`
	NumberDraw  *bool    `json:"number_draw,omitempty"`
}

// Apply writes every set override into opts.
func (o Overrides) Apply(opts *bitfield.Options) {
	setFloat(&opts.VSpace, o.VSpace)
	setFloat(&opts.HSpace, o.HSpace)
	setFloat(&opts.FontSize, o.FontSize)
	setFloat(&opts.StrokeWidth, o.StrokeWidth)
	setFloat(&opts.Trim, o.Trim)
	if o.Bits != nil {
		opts.Bits = *o.Bits
	}
	if o.Lanes != nil {
		opts.Lanes = *o.Lanes
	}
	if o.FontFamily != nil {
		opts.FontFamily = *o.FontFamily
	}
	if o.FontWeight != nil {
		opts.FontWeight = *o.FontWeight
	}
	setBool(&opts.Compact, o.Compact)
	setBool(&opts.HFlip, o.HFlip)
	setBool(&opts.VFlip, o.VFlip)
	setBool(&opts.Uneven, o.Uneven)
	setBool(&opts.GridDraw, o.GridDraw)
	setBool(&opts.NumberDraw, o.NumberDraw)
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// =============================================================================
// Request / Result
// =============================================================================

// Request is one render job.
type Request struct {
	Source      []byte
	InputFormat string
	Formats     []string
	Overrides   Overrides
	Scale       float64 // PNG only
	Refresh     bool    // ignore cached artifacts
}

// SetDefaults fills empty fields.
func (r *Request) SetDefaults() {
	if r.InputFormat == "" {
		r.InputFormat = InputJSON
	}
	if len(r.Formats) == 0 {
		r.Formats = []string{FormatSVG}
	}
	if r.Scale == 0 {
		r.Scale = DefaultScale
	}
}

// Validate checks formats and scale.
func (r *Request) Validate() error {
	f, err := ParseInputFormat(r.InputFormat)
	if err != nil {
		return err
	}
	r.InputFormat = f
	if err := ValidateFormats(r.Formats); err != nil {
		return err
	}
	if r.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must not be negative, got %g", r.Scale)
	}
	return nil
}

// Result holds the rendered scene and its serializations.
type Result struct {
	Scene     *scene.Element
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats describe the rendered register.
type Stats struct {
	Fields     int
	Lanes      int
	TotalBits  int
	RenderTime time.Duration
}

// CacheInfo lists which formats came from the cache.
type CacheInfo struct {
	Hits []string
}

// AllHit reports whether every requested format was served from the cache.
func (c CacheInfo) AllHit(formats []string) bool {
	for _, f := range formats {
		if !slices.Contains(c.Hits, f) {
			return false
		}
	}
	return len(formats) > 0
}
