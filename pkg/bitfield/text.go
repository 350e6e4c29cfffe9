package bitfield

import (
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/bitfield/pkg/scene"
)

// trimText shortens s with an ellipsis so that its approximate width fits
// into avail. Only visible characters are counted and the cut never lands
// inside a markup tag. A charWidth of 0 disables trimming.
func trimText(s string, avail, charWidth float64) string {
	if charWidth <= 0 {
		return s
	}
	runs := parseMarkup(s)
	n := 0
	for _, r := range runs {
		n += utf8.RuneCountInString(r.text)
	}
	width := float64(n) * charWidth
	if width <= avail {
		return s
	}
	keep := max(n-int((width-avail)/charWidth)-3, 1)
	var b strings.Builder
	for _, r := range runs {
		if keep == 0 {
			break
		}
		text := []rune(r.text)
		if len(text) > keep {
			text = text[:keep]
		}
		keep -= len(text)
		for _, tag := range r.tags {
			b.WriteString("<" + tag + ">")
		}
		b.WriteString(string(text))
		for i := len(r.tags) - 1; i >= 0; i-- {
			b.WriteString("</" + r.tags[i] + ">")
		}
	}
	return b.String() + "..."
}

// textWidth approximates the rendered width of the longest line of s.
func textWidth(s string, charWidth float64) float64 {
	longest := 0
	for _, line := range strings.Split(s, "\n") {
		longest = max(longest, utf8.RuneCountInString(stripMarkup(line)))
	}
	return float64(longest) * charWidth
}

// rotatedExtent is the height of the bounding box of a text of width w
// and height h rotated by angle degrees.
func rotatedExtent(w, h, angle float64) float64 {
	rad := angle * math.Pi / 180
	return math.Abs(w*math.Sin(rad)) + math.Abs(h*math.Cos(rad))
}

// =============================================================================
// Markup
// =============================================================================

var markupStyles = map[string]scene.Attr{
	"b":   scene.A("font-weight", "bold"),
	"i":   scene.A("font-style", "italic"),
	"u":   scene.A("text-decoration", "underline"),
	"s":   scene.A("text-decoration", "line-through"),
	"o":   scene.A("text-decoration", "overline"),
	"sub": scene.A("baseline-shift", "sub"),
	"sup": scene.A("baseline-shift", "super"),
	"tt":  scene.A("font-family", "monospace"),
}

type run struct {
	text  string
	tags  []string
	attrs []scene.Attr
}

// parseMarkup splits a single line into styled runs. Unknown or
// unbalanced tags are kept as literal text.
func parseMarkup(line string) []run {
	var (
		runs  []run
		stack []string
		buf   strings.Builder
	)
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		r := run{text: buf.String(), tags: slices.Clone(stack)}
		for _, tag := range stack {
			r.attrs = append(r.attrs, markupStyles[tag])
		}
		runs = append(runs, r)
		buf.Reset()
	}
	for len(line) > 0 {
		if line[0] == '<' {
			if end := strings.IndexByte(line, '>'); end > 0 {
				tag := line[1:end]
				closing := strings.HasPrefix(tag, "/")
				name := strings.TrimPrefix(tag, "/")
				if _, ok := markupStyles[name]; ok {
					if !closing {
						flush()
						stack = append(stack, name)
						line = line[end+1:]
						continue
					}
					if len(stack) > 0 && stack[len(stack)-1] == name {
						flush()
						stack = stack[:len(stack)-1]
						line = line[end+1:]
						continue
					}
				}
			}
		}
		buf.WriteByte(line[0])
		line = line[1:]
	}
	flush()
	return runs
}

func stripMarkup(line string) string {
	var b strings.Builder
	for _, r := range parseMarkup(line) {
		b.WriteString(r.text)
	}
	return b.String()
}

// textElement builds a text node for s. Plain single-line text is stored
// directly; newlines become stacked tspans and markup becomes styled
// tspans.
func textElement(s string, lineHeight float64, attrs ...scene.Attr) *scene.Element {
	lines := strings.Split(s, "\n")
	if len(lines) == 1 {
		runs := parseMarkup(s)
		if len(runs) <= 1 && (len(runs) == 0 || len(runs[0].attrs) == 0) {
			return scene.Text(s, attrs...)
		}
		t := scene.New(scene.TagText, attrs...)
		t.Append(spans(runs)...)
		return t
	}

	t := scene.New(scene.TagText, attrs...)
	x := 0.0
	if v, ok := t.Float("x"); ok {
		x = v
	}
	for i, line := range lines {
		ln := scene.New(scene.TagTSpan, scene.A("x", x))
		if i == 0 {
			ln.Set("dy", -float64(len(lines)-1)*lineHeight/2)
		} else {
			ln.Set("dy", lineHeight)
		}
		runs := parseMarkup(line)
		if len(runs) == 1 && len(runs[0].attrs) == 0 {
			ln.Text = runs[0].text
		} else {
			ln.Append(spans(runs)...)
		}
		t.Append(ln)
	}
	return t
}

func spans(runs []run) []*scene.Element {
	out := make([]*scene.Element, 0, len(runs))
	for _, r := range runs {
		sp := scene.New(scene.TagTSpan, r.attrs...)
		sp.Text = r.text
		out = append(out, sp)
	}
	return out
}
