package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bitfield/pkg/bitfield"
	"github.com/matzehuels/bitfield/pkg/pipeline"
)

// stdinName is the input name reported when reading from standard input.
const stdinName = "stdin"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file, base path for several formats, or "-" for stdout
	formats string // comma-separated output formats
	input   string // input format; guessed from the file extension when empty
	scale   float64
	refresh bool
	cache   cacheFlags
	layout  layoutFlags
}

// layoutFlags mirror bitfield.Options. Only flags the user sets become
// overrides; the rest leave the document's own config alone.
type layoutFlags struct {
	bits        int
	lanes       int
	vspace      float64
	hspace      float64
	fontSize    float64
	fontFamily  string
	fontWeight  string
	strokeWidth float64
	trim        float64
	compact     bool
	hflip       bool
	vflip       bool
	uneven      bool
	grid        bool
	numbers     bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	d := bitfield.DefaultOptions()
	fs := cmd.Flags()
	fs.IntVar(&f.bits, "bits", d.Bits, "bits per lane")
	fs.IntVar(&f.lanes, "lanes", 0, "number of lanes (derived from the register when unset)")
	fs.Float64Var(&f.vspace, "vspace", d.VSpace, "lane height")
	fs.Float64Var(&f.hspace, "hspace", d.HSpace, "diagram width")
	fs.Float64Var(&f.fontSize, "fontsize", d.FontSize, "font size")
	fs.StringVar(&f.fontFamily, "fontfamily", d.FontFamily, "font family")
	fs.StringVar(&f.fontWeight, "fontweight", d.FontWeight, "font weight")
	fs.Float64Var(&f.strokeWidth, "strokewidth", d.StrokeWidth, "outline stroke width")
	fs.Float64Var(&f.trim, "trim", 0, "truncate names wider than a field, in characters per bit")
	fs.BoolVar(&f.compact, "compact", false, "compact layout with a single numeral row")
	fs.BoolVar(&f.hflip, "hflip", false, "draw lane 0 at the top")
	fs.BoolVar(&f.vflip, "vflip", false, "draw bit 0 at the left")
	fs.BoolVar(&f.uneven, "uneven", false, "shorten the last lane to the remaining bits")
	fs.BoolVar(&f.grid, "grid", d.GridDraw, "draw minor ticks inside fields")
	fs.BoolVar(&f.numbers, "numbers", d.NumberDraw, "draw bit numerals")
}

// overrides returns the flags the user changed as pipeline overrides.
func (f *layoutFlags) overrides(cmd *cobra.Command) pipeline.Overrides {
	var o pipeline.Overrides
	changed := cmd.Flags().Changed
	if changed("bits") {
		o.Bits = &f.bits
	}
	if changed("lanes") {
		o.Lanes = &f.lanes
	}
	if changed("vspace") {
		o.VSpace = &f.vspace
	}
	if changed("hspace") {
		o.HSpace = &f.hspace
	}
	if changed("fontsize") {
		o.FontSize = &f.fontSize
	}
	if changed("fontfamily") {
		o.FontFamily = &f.fontFamily
	}
	if changed("fontweight") {
		o.FontWeight = &f.fontWeight
	}
	if changed("strokewidth") {
		o.StrokeWidth = &f.strokeWidth
	}
	if changed("trim") {
		o.Trim = &f.trim
	}
	if changed("compact") {
		o.Compact = &f.compact
	}
	if changed("hflip") {
		o.HFlip = &f.hflip
	}
	if changed("vflip") {
		o.VFlip = &f.vflip
	}
	if changed("uneven") {
		o.Uneven = &f.uneven
	}
	if changed("grid") {
		o.GridDraw = &f.grid
	}
	if changed("numbers") {
		o.NumberDraw = &f.numbers
	}
	return o
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a register description to SVG, JSON, PNG or PDF",
		Long: `Render a register description to one or more output formats.

The input is read from the named file, or from standard input when the file
is omitted or "-". Its format is taken from --input, then from the file
extension (.json, .yaml, .yml, .toml, .txt, .bf), and defaults to JSON.`,
		Example: `  bitfield render reg.json
  bitfield render reg.yaml -f svg,png -o out/reg
  bitfield render reg.txt --bits 16 --compact
  cat reg.json | bitfield render -o - > reg.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd, input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file (one format), base path (several formats) or "-" for stdout`)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json, png, pdf (comma-separated)")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "input format: json, yaml, toml, text (default from extension)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG zoom factor")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")
	opts.cache.register(cmd)
	opts.layout.register(cmd)

	return cmd
}

// runRender reads the input, runs the pipeline and writes every artifact.
func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	formats := pipeline.ParseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}
	inputFormat, err := resolveInputFormat(opts.input, input)
	if err != nil {
		return err
	}
	paths, err := outputPaths(opts.output, input, formats)
	if err != nil {
		return err
	}

	name := input
	var src []byte
	if input == "" || input == "-" {
		name = stdinName
		src, err = io.ReadAll(cmd.InOrStdin())
	} else {
		src, err = os.ReadFile(input)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	logger.Infof("Rendering %s (%s)", name, inputFormat)

	runner, err := c.newRunner(opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, pipeline.Request{
		Source:      src,
		InputFormat: inputFormat,
		Formats:     formats,
		Overrides:   opts.layout.overrides(cmd),
		Scale:       opts.scale,
		Refresh:     opts.refresh,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(formats)))

	for i, format := range formats {
		if err := writeOutput(ctx, cmd.OutOrStdout(), paths[i], result.Artifacts[format]); err != nil {
			return err
		}
	}

	// Status lines go to stdout and would corrupt piped output.
	if paths[0] == "-" {
		return nil
	}
	printSuccess("Rendered %s", name)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats, result.CacheInfo.AllHit(formats))
	return nil
}

// resolveInputFormat picks the input format from the flag, then the file
// extension, then JSON.
func resolveInputFormat(flag, input string) (string, error) {
	if flag != "" {
		return pipeline.ParseInputFormat(flag)
	}
	if f, ok := pipeline.InputFormatFromPath(input); ok {
		return f, nil
	}
	return pipeline.InputJSON, nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == "" || input == "-" {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths returns one destination per format. A single format with an
// explicit output is written there verbatim; reading stdin without -o
// writes a single format to stdout.
func outputPaths(output, input string, formats []string) ([]string, error) {
	fromStdin := input == "" || input == "-"
	toStdout := output == "-" || (output == "" && fromStdin && len(formats) == 1)
	if toStdout {
		if len(formats) > 1 {
			return nil, fmt.Errorf("cannot write %d formats to stdout", len(formats))
		}
		return []string{"-"}, nil
	}
	if len(formats) == 1 && output != "" {
		return []string{output}, nil
	}
	base := basePath(output, input)
	paths := make([]string, len(formats))
	for i, f := range formats {
		paths[i] = base + "." + f
		if paths[i] == input {
			return nil, fmt.Errorf("output %s would overwrite the input (use -o)", paths[i])
		}
	}
	return paths, nil
}

// writeOutput writes data to path, or to stdout for "-".
func writeOutput(ctx context.Context, stdout io.Writer, path string, data []byte) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	loggerFromContext(ctx).Debugf("Wrote %s (%d bytes)", path, len(data))
	return nil
}
