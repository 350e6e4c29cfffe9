package scene

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Element tags produced by the renderer.
const (
	TagSVG      = "svg"
	TagGroup    = "g"
	TagLine     = "line"
	TagPolyline = "polyline"
	TagPolygon  = "polygon"
	TagRect     = "rect"
	TagText     = "text"
	TagTSpan    = "tspan"
	TagDefs     = "defs"
	TagMarker   = "marker"
	TagPath     = "path"
)

// Attr is a single presentation attribute. Value is a float64, int, bool or
// string; serializers format numbers through [Num].
type Attr struct {
	Name  string
	Value any
}

// A is shorthand for constructing an Attr.
func A(name string, value any) Attr { return Attr{Name: name, Value: value} }

// Element is one drawable node. Attributes keep insertion order so that
// serialized output is deterministic.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []*Element
	Text     string
}

// New creates an element with the given tag and attributes.
func New(tag string, attrs ...Attr) *Element {
	e := &Element{Tag: tag}
	for _, a := range attrs {
		e.Set(a.Name, a.Value)
	}
	return e
}

// Group creates a "g" container.
func Group(attrs ...Attr) *Element { return New(TagGroup, attrs...) }

// Line creates a line from (x1, y1) to (x2, y2).
func Line(x1, y1, x2, y2 float64) *Element {
	return New(TagLine, A("x1", x1), A("y1", y1), A("x2", x2), A("y2", y2))
}

// Rect creates a rectangle.
func Rect(x, y, w, h float64, attrs ...Attr) *Element {
	base := []Attr{A("x", x), A("y", y), A("width", w), A("height", h)}
	return New(TagRect, append(base, attrs...)...)
}

// Polygon creates a closed polygon through pts.
func Polygon(pts []Point, attrs ...Attr) *Element {
	return New(TagPolygon, append([]Attr{A("points", Points(pts))}, attrs...)...)
}

// Polyline creates an open polyline through pts.
func Polyline(pts []Point, attrs ...Attr) *Element {
	return New(TagPolyline, append([]Attr{A("points", Points(pts))}, attrs...)...)
}

// Text creates a text element holding a plain string.
func Text(s string, attrs ...Attr) *Element {
	e := New(TagText, attrs...)
	e.Text = s
	return e
}

// Set assigns an attribute, replacing an existing value in place.
func (e *Element) Set(name string, v any) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = v
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: v})
	return e
}

// Get returns the value of the named attribute.
func (e *Element) Get(name string) (any, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// Float returns a numeric attribute as float64.
func (e *Element) Float(name string) (float64, bool) {
	v, ok := e.Get(name)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// String returns an attribute formatted as it would be serialized.
func (e *Element) String(name string) string {
	v, ok := e.Get(name)
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// Append adds children, skipping nil elements.
func (e *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		if c != nil {
			e.Children = append(e.Children, c)
		}
	}
	return e
}

// Walk visits e and its descendants depth-first. Returning false from fn
// skips the children of the current element.
func (e *Element) Walk(fn func(*Element) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// FindAll returns every element in the tree for which match is true.
func (e *Element) FindAll(match func(*Element) bool) []*Element {
	var out []*Element
	e.Walk(func(n *Element) bool {
		if match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// ByTag returns a matcher for FindAll.
func ByTag(tag string) func(*Element) bool {
	return func(n *Element) bool { return n.Tag == tag }
}

// Content returns the concatenated text of e and its tspans.
func (e *Element) Content() string {
	var b strings.Builder
	b.WriteString(e.Text)
	for _, c := range e.Children {
		if c.Tag == TagTSpan {
			b.WriteString(c.Content())
		}
	}
	return b.String()
}

// Texts returns the content of every text element in the tree.
func (e *Element) Texts() []string {
	var out []string
	for _, t := range e.FindAll(ByTag(TagText)) {
		out = append(out, t.Content())
	}
	return out
}

// =============================================================================
// Geometry helpers
// =============================================================================

// Point is a 2-D coordinate.
type Point struct{ X, Y float64 }

// Points formats a point list as an SVG points attribute.
func Points(pts []Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = Num(p.X) + "," + Num(p.Y)
	}
	return strings.Join(parts, " ")
}

// ParsePoints is the inverse of Points.
func ParsePoints(s string) ([]Point, error) {
	var pts []Point
	for _, pair := range strings.Fields(s) {
		xs, ys, ok := strings.Cut(pair, ",")
		if !ok {
			return nil, fmt.Errorf("malformed point %q", pair)
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return nil, err
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return nil, err
		}
		pts = append(pts, Point{x, y})
	}
	return pts, nil
}

// Translate formats an SVG translate transform.
func Translate(x, y float64) string {
	return "translate(" + Num(x) + ", " + Num(y) + ")"
}

// Rotate formats an SVG rotate transform around (cx, cy).
func Rotate(angle, cx, cy float64) string {
	return "rotate(" + Num(angle) + ", " + Num(cx) + ", " + Num(cy) + ")"
}

// Num formats a coordinate with at most four decimals and no trailing zeros.
func Num(v float64) string {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		r = 0 // normalise -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// FormatValue renders an attribute value as text.
func FormatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return Num(x)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
