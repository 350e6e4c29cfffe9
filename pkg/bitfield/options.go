package bitfield

import (
	"github.com/matzehuels/bitfield/pkg/errors"
)

// Default layout values.
const (
	DefaultVSpace      = 80
	DefaultHSpace      = 640
	DefaultBits        = 32
	DefaultFontSize    = 14
	DefaultFontFamily  = "sans-serif"
	DefaultFontWeight  = "normal"
	DefaultStrokeWidth = 1
)

// Options configures a render. Lanes of 0 infers the lane count from the
// total bit width. Trim of 0 disables name trimming.
type Options struct {
	VSpace      float64 // pixel height of one lane including numerals and attributes
	HSpace      float64 // canvas width
	Bits        int     // bits per lane
	Lanes       int
	FontSize    float64
	FontFamily  string
	FontWeight  string
	Compact     bool
	HFlip       bool // draw lane 0 at the top
	VFlip       bool // draw bit 0 at the left
	Uneven      bool // shorten the last lane to the remaining bits
	GridDraw    bool // draw minor ticks inside fields
	NumberDraw  bool // draw bit numerals
	StrokeWidth float64
	Trim        float64 // average character width used to trim names

	Legend     []LegendEntry
	LabelLines []LabelLine
	ArrowJumps []ArrowJump
	Types      TypeTable
}

// DefaultOptions returns options with every value at its default.
func DefaultOptions() Options {
	return Options{
		VSpace:      DefaultVSpace,
		HSpace:      DefaultHSpace,
		Bits:        DefaultBits,
		FontSize:    DefaultFontSize,
		FontFamily:  DefaultFontFamily,
		FontWeight:  DefaultFontWeight,
		StrokeWidth: DefaultStrokeWidth,
		GridDraw:    true,
		NumberDraw:  true,
	}
}

// SetDefaults fills zero-valued font and stroke settings. Numeric bounds
// are left for Validate so that explicit bad values are reported.
func (o *Options) SetDefaults() {
	if o.FontFamily == "" {
		o.FontFamily = DefaultFontFamily
	}
	if o.FontWeight == "" {
		o.FontWeight = DefaultFontWeight
	}
	if o.StrokeWidth == 0 {
		o.StrokeWidth = DefaultStrokeWidth
	}
}

// Validate checks numeric bounds and every annotation record. Lane ranges
// of annotations are only checked against Lanes when it is set; Render
// repeats the check once the lane count is known.
func (o Options) Validate() error {
	if o.VSpace <= 19 {
		return errors.New(errors.ErrCodeInvalidConfig, "vspace must be greater than 19, got %v", o.VSpace)
	}
	if o.HSpace <= 39 {
		return errors.New(errors.ErrCodeInvalidConfig, "hspace must be greater than 39, got %v", o.HSpace)
	}
	if o.Lanes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "lanes must be greater than 0, got %d", o.Lanes)
	}
	if o.Bits <= 4 {
		return errors.New(errors.ErrCodeInvalidConfig, "bits must be greater than 4, got %d", o.Bits)
	}
	if o.FontSize <= 5 {
		return errors.New(errors.ErrCodeInvalidConfig, "fontsize must be greater than 5, got %v", o.FontSize)
	}
	if o.StrokeWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "strokewidth must be greater than 0, got %v", o.StrokeWidth)
	}
	if o.Trim < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "trim must not be negative, got %v", o.Trim)
	}
	for i, l := range o.LabelLines {
		if err := l.validate(o.Lanes); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "label_lines[%d]", i)
		}
	}
	for i, a := range o.ArrowJumps {
		if err := a.validate(o.Lanes, o.Bits); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "arrow_jumps[%d]", i)
		}
	}
	return nil
}

// charWidth is the approximate width of one character of body text.
func (o Options) charWidth() float64 {
	if o.Trim > 0 {
		return o.Trim
	}
	return 0.6 * o.FontSize
}
