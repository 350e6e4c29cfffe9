package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/bitfield/pkg/bitfield"
	"github.com/matzehuels/bitfield/pkg/descriptor"
	"github.com/matzehuels/bitfield/pkg/notation"
	"github.com/matzehuels/bitfield/pkg/render"
	"github.com/matzehuels/bitfield/pkg/scene"
)

// Decode reads a source document. Text notation carries no options, so it
// starts from bitfield.DefaultOptions.
func Decode(src []byte, inputFormat string) (bitfield.Register, bitfield.Options, error) {
	if inputFormat == InputText {
		reg, err := notation.Parse(string(src))
		return reg, bitfield.DefaultOptions(), err
	}
	doc, err := descriptor.Decode(src, descriptor.Format(inputFormat))
	if err != nil {
		return bitfield.Register{}, bitfield.Options{}, err
	}
	return doc.Register, doc.Options, nil
}

// Serialize writes root in one output format.
func Serialize(ctx context.Context, format string, root *scene.Element, scale float64) ([]byte, error) {
	switch format {
	case FormatSVG:
		return scene.MarshalSVG(root), nil
	case FormatJSON:
		return scene.MarshalJSONML(root)
	case FormatPNG:
		return render.ToPNG(ctx, scene.MarshalSVG(root), scale)
	case FormatPDF:
		return render.ToPDF(ctx, scene.MarshalSVG(root))
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

// stats summarizes a register for logs and responses.
func stats(reg bitfield.Register, opts bitfield.Options) Stats {
	s := Stats{Fields: len(reg.Fields), Lanes: opts.Lanes}
	if acct, err := bitfield.Account(reg.Fields, opts.Bits); err == nil {
		s.TotalBits = acct.Total
		if s.Lanes == 0 {
			s.Lanes = max(acct.Lanes(opts.Bits), 1)
		}
	}
	return s
}
