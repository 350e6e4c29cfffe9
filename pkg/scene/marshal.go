package scene

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strings"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// MarshalSVG serializes the tree rooted at root as an SVG document.
// The root is expected to be an "svg" element; the namespace attribute is
// added when missing.
func MarshalSVG(root *Element) []byte {
	var buf bytes.Buffer
	if root == nil {
		return nil
	}
	if root.Tag == TagSVG {
		if _, ok := root.Get("xmlns"); !ok {
			root = withNamespace(root)
		}
	}
	writeElement(&buf, root, 0)
	return buf.Bytes()
}

func withNamespace(e *Element) *Element {
	cp := *e
	cp.Attrs = append([]Attr{A("xmlns", svgNamespace)}, e.Attrs...)
	return &cp
}

func writeElement(buf *bytes.Buffer, e *Element, depth int) {
	indent := strings.Repeat("  ", depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(e.Tag)
	for _, a := range e.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		buf.WriteString(EscapeXML(FormatValue(a.Value)))
		buf.WriteByte('"')
	}

	if len(e.Children) == 0 && e.Text == "" {
		buf.WriteString("/>\n")
		return
	}
	buf.WriteByte('>')

	// text content and tspans stay on one line so whitespace is not rendered
	if e.Tag == TagText || e.Tag == TagTSpan {
		buf.WriteString(EscapeXML(e.Text))
		for _, c := range e.Children {
			writeInline(buf, c)
		}
		buf.WriteString("</" + e.Tag + ">\n")
		return
	}

	if e.Text != "" {
		buf.WriteString(EscapeXML(e.Text))
	}
	buf.WriteByte('\n')
	for _, c := range e.Children {
		writeElement(buf, c, depth+1)
	}
	buf.WriteString(indent)
	buf.WriteString("</" + e.Tag + ">\n")
}

func writeInline(buf *bytes.Buffer, e *Element) {
	buf.WriteByte('<')
	buf.WriteString(e.Tag)
	for _, a := range e.Attrs {
		buf.WriteString(" " + a.Name + `="` + EscapeXML(FormatValue(a.Value)) + `"`)
	}
	buf.WriteByte('>')
	buf.WriteString(EscapeXML(e.Text))
	for _, c := range e.Children {
		writeInline(buf, c)
	}
	buf.WriteString("</" + e.Tag + ">")
}

// EscapeXML escapes s for use in XML text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// MarshalJSONML serializes the tree as JsonML: ["tag", {attrs}, children...].
// Text content is emitted as a string child ahead of element children.
func MarshalJSONML(root *Element) ([]byte, error) {
	return json.MarshalIndent(toJSONML(root), "", "  ")
}

func toJSONML(e *Element) []any {
	attrs := make(map[string]any, len(e.Attrs))
	for _, a := range e.Attrs {
		switch v := a.Value.(type) {
		case float64:
			attrs[a.Name] = json.Number(Num(v))
		default:
			attrs[a.Name] = v
		}
	}
	node := []any{e.Tag, attrs}
	if e.Text != "" {
		node = append(node, e.Text)
	}
	for _, c := range e.Children {
		node = append(node, toJSONML(c))
	}
	return node
}
