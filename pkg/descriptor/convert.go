package descriptor

import (
	"strconv"
	"strings"

	"github.com/matzehuels/bitfield/pkg/bitfield"
	"github.com/matzehuels/bitfield/pkg/errors"
)

// Recognized keys per record kind.
var (
	documentKeys  = keySet("payload", "config")
	fieldKeys     = keySet("name", "bits", "type", "attr", "rotate", "overline")
	gapKeys       = keySet("array", "name", "type", "gap_width", "gap_fill", "font_color", "hide_lines")
	labelLineKeys = keySet("label_lines", "font_size", "start_line", "end_line", "layout", "angle", "reserved")
	arrowJumpKeys = keySet("arrow_jump", "start_line", "jump_to", "jump_to_first", "jump_to_second",
		"end_bit", "end_line", "layout", "stroke_width")
	typeEntryKeys = keySet("color", "label", "value", "alias", "aliases")
)

func keySet(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// checkKeys rejects keys outside allowed.
func checkKeys(n *Node, allowed map[string]bool, where string) error {
	for _, k := range n.Keys {
		if !allowed[k] {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", where, k)
		}
	}
	return nil
}

// record wraps a mapping node with typed accessors that report errors
// under a fixed code.
type record struct {
	n     *Node
	code  errors.Code
	where string
}

func (r record) fail(key, want string, got *Node) error {
	return errors.New(r.code, "%s: %s must be %s, got %s", r.where, key, want, got.Kind)
}

func (r record) missing(key string) error {
	return errors.New(r.code, "%s: missing required key %q", r.where, key)
}

func (r record) intVal(key string, required bool) (int, bool, error) {
	v, ok := r.n.Get(key)
	if !ok || v.IsNull() {
		if required {
			return 0, false, r.missing(key)
		}
		return 0, false, nil
	}
	i, ok := v.asInt()
	if !ok {
		return 0, false, r.fail(key, "an integer", v)
	}
	return i, true, nil
}

func (r record) floatVal(key string, required bool) (float64, bool, error) {
	v, ok := r.n.Get(key)
	if !ok || v.IsNull() {
		if required {
			return 0, false, r.missing(key)
		}
		return 0, false, nil
	}
	f, ok := v.asFloat()
	if !ok {
		return 0, false, r.fail(key, "a number", v)
	}
	return f, true, nil
}

func (r record) strVal(key string, required bool) (string, bool, error) {
	v, ok := r.n.Get(key)
	if !ok || v.IsNull() {
		if required {
			return "", false, r.missing(key)
		}
		return "", false, nil
	}
	s, ok := v.asScalarString()
	if !ok {
		return "", false, r.fail(key, "a string", v)
	}
	return s, true, nil
}

func (r record) boolVal(key string) (bool, bool, error) {
	v, ok := r.n.Get(key)
	if !ok || v.IsNull() {
		return false, false, nil
	}
	if v.Kind != KindBool {
		return false, false, r.fail(key, "a boolean", v)
	}
	return v.Bool, true, nil
}

// =============================================================================
// Document
// =============================================================================

// FromNode converts a decoded document into a register and options. The
// document is either a bare list of entries or a mapping with "payload"
// and an optional "config".
func FromNode(root *Node) (*Document, error) {
	doc := &Document{Options: bitfield.DefaultOptions()}
	payload := root
	if root.Kind == KindMap {
		if err := checkKeys(root, documentKeys, "document"); err != nil {
			return nil, err
		}
		p, ok := root.Get("payload")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "document: missing \"payload\"")
		}
		payload = p
		if cfg, ok := root.Get("config"); ok && !cfg.IsNull() {
			if err := applyConfig(cfg, &doc.Options); err != nil {
				return nil, err
			}
		}
	}
	if payload.Kind != KindList {
		return nil, errors.New(errors.ErrCodeInvalidInput, "payload must be a list, got %s", payload.Kind)
	}

	for i, e := range payload.List {
		if err := doc.addEntry(i, e); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (d *Document) addEntry(i int, e *Node) error {
	where := "payload[" + strconv.Itoa(i) + "]"
	if e.Kind != KindMap {
		return errors.New(errors.ErrCodeInvalidField, "%s: entry must be a mapping, got %s", where, e.Kind)
	}
	switch {
	case e.Has("bits"):
		f, err := convertField(e, where)
		if err != nil {
			return err
		}
		d.Register.Fields = append(d.Register.Fields, f)
	case e.Has("array"):
		f, err := convertGap(e, where)
		if err != nil {
			return err
		}
		d.Register.Fields = append(d.Register.Fields, f)
	case e.Has("label_lines"):
		l, err := convertLabelLine(e, where)
		if err != nil {
			return err
		}
		d.Register.LabelLines = append(d.Register.LabelLines, l)
	case e.Has("arrow_jump"):
		a, err := convertArrowJump(e, where)
		if err != nil {
			return err
		}
		d.Register.ArrowJumps = append(d.Register.ArrowJumps, a)
	default:
		return errors.New(errors.ErrCodeInvalidField, "%s: entry needs one of bits, array, label_lines or arrow_jump", where)
	}
	return nil
}

// =============================================================================
// Fields
// =============================================================================

func convertField(n *Node, where string) (bitfield.Field, error) {
	if err := checkKeys(n, fieldKeys, where); err != nil {
		return bitfield.Field{}, err
	}
	r := record{n: n, code: errors.ErrCodeInvalidField, where: where}
	var f bitfield.Field
	var err error
	if f.Bits, _, err = r.intVal("bits", true); err != nil {
		return f, err
	}
	if f.Name, _, err = r.strVal("name", false); err != nil {
		return f, err
	}
	if f.Rotate, _, err = r.floatVal("rotate", false); err != nil {
		return f, err
	}
	if f.Overline, _, err = r.boolVal("overline"); err != nil {
		return f, err
	}
	if t, ok := n.Get("type"); ok {
		if f.Type, err = convertTypeKey(t, where); err != nil {
			return f, err
		}
	}
	if a, ok := n.Get("attr"); ok && !a.IsNull() {
		if f.Attrs, err = convertAttrs(a, where); err != nil {
			return f, err
		}
	}
	return f, nil
}

func convertGap(n *Node, where string) (bitfield.Field, error) {
	if err := checkKeys(n, gapKeys, where); err != nil {
		return bitfield.Field{}, err
	}
	r := record{n: n, code: errors.ErrCodeInvalidField, where: where}
	gap := &bitfield.Gap{}
	f := bitfield.Field{Gap: gap}

	arr, _ := n.Get("array")
	items := arr.items()
	if len(items) == 0 {
		return f, errors.New(errors.ErrCodeInvalidField, "%s: array must not be empty", where)
	}
	length, ok := items[len(items)-1].asInt()
	if !ok {
		return f, r.fail("array", "an integer or a list of integers", arr)
	}
	gap.Length = length

	var err error
	if f.Name, _, err = r.strVal("name", false); err != nil {
		return f, err
	}
	if gap.Width, _, err = r.floatVal("gap_width", false); err != nil {
		return f, err
	}
	if gap.Fill, _, err = r.strVal("gap_fill", false); err != nil {
		return f, err
	}
	if gap.FontColor, _, err = r.strVal("font_color", false); err != nil {
		return f, err
	}
	if gap.HideLines, _, err = r.boolVal("hide_lines"); err != nil {
		return f, err
	}
	if t, ok := n.Get("type"); ok {
		if f.Type, err = convertTypeKey(t, where); err != nil {
			return f, err
		}
	}
	return f, nil
}

// convertTypeKey accepts an integer, a string or an [r, g, b] triple.
func convertTypeKey(n *Node, where string) (bitfield.TypeKey, error) {
	switch n.Kind {
	case KindNull:
		return bitfield.NoType(), nil
	case KindInt:
		return bitfield.Numeric(int(n.Int)), nil
	case KindString:
		return bitfield.ParseTypeKey(n.Str), nil
	case KindList:
		if len(n.List) == 3 {
			var c [3]uint8
			valid := true
			for i, item := range n.List {
				v, ok := item.asInt()
				if !ok || v < 0 || v > 255 {
					valid = false
					break
				}
				c[i] = uint8(v)
			}
			if valid {
				return bitfield.RGB(c[0], c[1], c[2]), nil
			}
		}
	}
	return bitfield.TypeKey{}, errors.New(errors.ErrCodeInvalidType,
		"%s: type must be an integer, a string or [r, g, b] with components 0..255", where)
}

// convertAttrs accepts an integer, a string, a {text, rotate} mapping or
// a list of those.
func convertAttrs(n *Node, where string) ([]bitfield.Attr, error) {
	var (
		attrs   []bitfield.Attr
		rotated bool
	)
	for _, item := range n.items() {
		switch item.Kind {
		case KindInt:
			attrs = append(attrs, bitfield.BitsAttr(int(item.Int)))
		case KindString:
			attrs = append(attrs, bitfield.TextAttr(item.Str))
		case KindMap:
			if err := checkKeys(item, keySet("text", "rotate"), where+".attr"); err != nil {
				return nil, err
			}
			r := record{n: item, code: errors.ErrCodeInvalidField, where: where + ".attr"}
			text, _, err := r.strVal("text", true)
			if err != nil {
				return nil, err
			}
			angle, ok, err := r.floatVal("rotate", false)
			if err != nil {
				return nil, err
			}
			if ok && angle != 0 {
				if rotated {
					return nil, errors.New(errors.ErrCodeInvalidField, "%s: only one attr row may be rotated", where)
				}
				rotated = true
				attrs = append(attrs, bitfield.RotatedAttr(text, angle))
			} else {
				attrs = append(attrs, bitfield.TextAttr(text))
			}
		default:
			return nil, errors.New(errors.ErrCodeInvalidField, "%s: attr entries must be integers, strings or {text, rotate}, got %s", where, item.Kind)
		}
	}
	return attrs, nil
}

// =============================================================================
// Overlays
// =============================================================================

func convertLabelLine(n *Node, where string) (bitfield.LabelLine, error) {
	var l bitfield.LabelLine
	if n.Kind != KindMap {
		return l, errors.New(errors.ErrCodeInvalidLabelLine, "%s: label line must be a mapping, got %s", where, n.Kind)
	}
	if err := checkKeys(n, labelLineKeys, where); err != nil {
		return l, err
	}
	r := record{n: n, code: errors.ErrCodeInvalidLabelLine, where: where}
	var err error
	if l.Text, _, err = r.strVal("label_lines", true); err != nil {
		return l, err
	}
	if l.FontSize, _, err = r.floatVal("font_size", true); err != nil {
		return l, err
	}
	if l.StartLane, _, err = r.intVal("start_line", true); err != nil {
		return l, err
	}
	if l.EndLane, _, err = r.intVal("end_line", true); err != nil {
		return l, err
	}
	side, _, err := r.strVal("layout", true)
	if err != nil {
		return l, err
	}
	l.Side = bitfield.Side(strings.ToLower(side))
	angle, ok, err := r.floatVal("angle", false)
	if err != nil {
		return l, err
	}
	if ok {
		l.Angle = &angle
	}
	if l.Reserved, _, err = r.boolVal("reserved"); err != nil {
		return l, err
	}
	return l, nil
}

func convertArrowJump(n *Node, where string) (bitfield.ArrowJump, error) {
	var a bitfield.ArrowJump
	if n.Kind != KindMap {
		return a, errors.New(errors.ErrCodeInvalidArrowJump, "%s: arrow jump must be a mapping, got %s", where, n.Kind)
	}
	if err := checkKeys(n, arrowJumpKeys, where); err != nil {
		return a, err
	}
	r := record{n: n, code: errors.ErrCodeInvalidArrowJump, where: where}
	var err error
	if a.Bit, _, err = r.intVal("arrow_jump", true); err != nil {
		return a, err
	}
	if a.StartLane, _, err = r.intVal("start_line", true); err != nil {
		return a, err
	}

	if list, ok := n.Get("jump_to"); ok && !list.IsNull() {
		for _, item := range list.items() {
			lane, ok := item.asInt()
			if !ok {
				return a, r.fail("jump_to", "a list of integers", list)
			}
			a.Jumps = append(a.Jumps, lane)
		}
	} else {
		for _, key := range []string{"jump_to_first", "jump_to_second"} {
			lane, ok, err := r.intVal(key, false)
			if err != nil {
				return a, err
			}
			if ok {
				a.Jumps = append(a.Jumps, lane)
			}
		}
	}

	if bit, ok, err := r.intVal("end_bit", false); err != nil {
		return a, err
	} else if ok {
		a.EndBit = &bit
	}
	if lane, ok, err := r.intVal("end_line", false); err != nil {
		return a, err
	} else if ok {
		a.EndLane = &lane
	}
	side, ok, err := r.strVal("layout", false)
	if err != nil {
		return a, err
	}
	if ok {
		a.Side = bitfield.Side(strings.ToLower(side))
	}
	if a.StrokeWidth, _, err = r.floatVal("stroke_width", false); err != nil {
		return a, err
	}
	return a, nil
}

