package descriptor

import (
	"strconv"

	"github.com/matzehuels/bitfield/pkg/bitfield"
	"github.com/matzehuels/bitfield/pkg/errors"
)

var configKeys = keySet(
	"vspace", "hspace", "bits", "lanes", "fontsize", "fontfamily", "fontweight",
	"compact", "hflip", "vflip", "strokewidth", "trim", "uneven", "legend",
	"label_lines", "arrow_jumps", "grid_draw", "number_draw", "types",
)

// applyConfig overlays a config mapping onto opts. Unknown keys and
// values of the wrong kind are configuration errors.
func applyConfig(cfg *Node, opts *bitfield.Options) error {
	if cfg.Kind != KindMap {
		return errors.New(errors.ErrCodeInvalidConfig, "config must be a mapping, got %s", cfg.Kind)
	}
	if err := checkKeys(cfg, configKeys, "config"); err != nil {
		return err
	}
	r := record{n: cfg, code: errors.ErrCodeInvalidConfig, where: "config"}

	floats := []struct {
		key string
		dst *float64
	}{
		{"vspace", &opts.VSpace},
		{"hspace", &opts.HSpace},
		{"fontsize", &opts.FontSize},
		{"strokewidth", &opts.StrokeWidth},
		{"trim", &opts.Trim},
	}
	for _, f := range floats {
		v, ok, err := r.floatVal(f.key, false)
		if err != nil {
			return err
		}
		if ok {
			*f.dst = v
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"bits", &opts.Bits},
		{"lanes", &opts.Lanes},
	}
	for _, f := range ints {
		v, ok, err := r.intVal(f.key, false)
		if err != nil {
			return err
		}
		if ok {
			*f.dst = v
		}
	}
	if lanes, ok := cfg.Get("lanes"); ok && !lanes.IsNull() && opts.Lanes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "lanes must be greater than 0, got %d", opts.Lanes)
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"fontfamily", &opts.FontFamily},
		{"fontweight", &opts.FontWeight},
	}
	for _, f := range strs {
		v, ok, err := r.strVal(f.key, false)
		if err != nil {
			return err
		}
		if ok {
			*f.dst = v
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"compact", &opts.Compact},
		{"hflip", &opts.HFlip},
		{"vflip", &opts.VFlip},
		{"uneven", &opts.Uneven},
		{"grid_draw", &opts.GridDraw},
		{"number_draw", &opts.NumberDraw},
	}
	for _, f := range bools {
		v, ok, err := r.boolVal(f.key)
		if err != nil {
			return err
		}
		if ok {
			*f.dst = v
		}
	}

	if n, ok := cfg.Get("legend"); ok && !n.IsNull() {
		legend, err := convertLegend(n)
		if err != nil {
			return err
		}
		opts.Legend = legend
	}
	if n, ok := cfg.Get("types"); ok && !n.IsNull() {
		table, err := convertTypes(n)
		if err != nil {
			return err
		}
		opts.Types = table
	}
	if n, ok := cfg.Get("label_lines"); ok && !n.IsNull() {
		for i, item := range n.items() {
			l, err := convertLabelLine(item, "config.label_lines["+strconv.Itoa(i)+"]")
			if err != nil {
				return err
			}
			opts.LabelLines = append(opts.LabelLines, l)
		}
	}
	if n, ok := cfg.Get("arrow_jumps"); ok && !n.IsNull() {
		for i, item := range n.items() {
			a, err := convertArrowJump(item, "config.arrow_jumps["+strconv.Itoa(i)+"]")
			if err != nil {
				return err
			}
			opts.ArrowJumps = append(opts.ArrowJumps, a)
		}
	}
	return nil
}

// convertLegend reads a label to type-key mapping in document order.
func convertLegend(n *Node) ([]bitfield.LegendEntry, error) {
	if n.Kind != KindMap {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "config.legend must be a mapping, got %s", n.Kind)
	}
	legend := make([]bitfield.LegendEntry, 0, len(n.Keys))
	for i, label := range n.Keys {
		key, err := convertTypeKey(n.Vals[i], "config.legend."+label)
		if err != nil {
			return nil, err
		}
		legend = append(legend, bitfield.LegendEntry{Label: label, Type: key})
	}
	return legend, nil
}

// convertTypes reads the type override table. Each value is a color
// string or a record {color, label, value, alias|aliases}.
func convertTypes(n *Node) (bitfield.TypeTable, error) {
	if n.Kind != KindMap {
		return nil, errors.New(errors.ErrCodeInvalidType, "config.types must be a mapping, got %s", n.Kind)
	}
	table := make(bitfield.TypeTable, 0, len(n.Keys))
	for i, name := range n.Keys {
		v := n.Vals[i]
		where := "config.types." + name
		entry := bitfield.TypeEntry{Name: name}
		switch v.Kind {
		case KindString:
			entry.Color = v.Str
		case KindMap:
			if err := checkKeys(v, typeEntryKeys, where); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidType, err, "%s", where)
			}
			r := record{n: v, code: errors.ErrCodeInvalidType, where: where}
			var err error
			if entry.Color, _, err = r.strVal("color", true); err != nil {
				return nil, err
			}
			if entry.Label, _, err = r.strVal("label", false); err != nil {
				return nil, err
			}
			if entry.Value, _, err = r.strVal("value", false); err != nil {
				return nil, err
			}
			for _, key := range []string{"alias", "aliases"} {
				a, ok := v.Get(key)
				if !ok || a.IsNull() {
					continue
				}
				for _, item := range a.items() {
					s, ok := item.asScalarString()
					if !ok {
						return nil, r.fail(key, "a string or a list of strings", a)
					}
					entry.Aliases = append(entry.Aliases, s)
				}
			}
		default:
			return nil, errors.New(errors.ErrCodeInvalidType, "%s: must be a color string or a mapping, got %s", where, v.Kind)
		}
		table = append(table, entry)
	}
	return table, nil
}
