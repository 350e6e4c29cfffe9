package notation

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/bitfield/pkg/bitfield"
	"github.com/matzehuels/bitfield/pkg/errors"
)

func TestParseFields(t *testing.T) {
	reg, err := Parse(`
# control register
field "IPO" 8 type 4 attr "RO" attr 11
field 7
field "MODE" 2 attr "mode" angle -90 rotate 45 overline
field "C" 3 type "#00ff00"
field "D" 3 type rgb(10, 20, 30)
`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []bitfield.Field{
		{Name: "IPO", Bits: 8, Type: bitfield.Numeric(4), Attrs: []bitfield.Attr{bitfield.TextAttr("RO"), bitfield.BitsAttr(11)}},
		{Bits: 7},
		{Name: "MODE", Bits: 2, Attrs: []bitfield.Attr{bitfield.RotatedAttr("mode", -90)}, Rotate: 45, Overline: true},
		{Name: "C", Bits: 3, Type: bitfield.Hex("#00ff00")},
		{Name: "D", Bits: 3, Type: bitfield.RGB(10, 20, 30)},
	}
	if !reflect.DeepEqual(reg.Fields, want) {
		t.Errorf("fields =\n%+v\nwant\n%+v", reg.Fields, want)
	}
}

func TestParseArray(t *testing.T) {
	reg, err := Parse(`array "payload" 16 type 2 width 0.5 fill "#eeeeee" color "red" hide`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(reg.Fields) != 1 {
		t.Fatalf("got %d fields, want 1", len(reg.Fields))
	}
	f := reg.Fields[0]
	want := bitfield.Gap{Length: 16, Width: 0.5, Fill: "#eeeeee", FontColor: "red", HideLines: true}
	if f.Name != "payload" || f.Type != bitfield.Numeric(2) || f.Gap == nil || *f.Gap != want {
		t.Errorf("array field = %+v gap %+v", f, f.Gap)
	}
}

func TestParseOverlays(t *testing.T) {
	reg, err := Parse(`
field 32
label "Header" lanes 0..2 right angle 0
label "Body" lanes 1..3 left size 10 reserved
arrow 5 lane 0 via 1 2 to 9 lane 3 left stroke 2
arrow 3 lane 1
`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(reg.LabelLines) != 2 {
		t.Fatalf("got %d label lines, want 2", len(reg.LabelLines))
	}
	hdr := reg.LabelLines[0]
	if hdr.Text != "Header" || hdr.StartLane != 0 || hdr.EndLane != 2 || hdr.Side != bitfield.SideRight {
		t.Errorf("label 0 = %+v", hdr)
	}
	if hdr.FontSize != DefaultLabelSize || hdr.Angle == nil || *hdr.Angle != 0 {
		t.Errorf("label 0 size/angle = %v/%v", hdr.FontSize, hdr.Angle)
	}
	body := reg.LabelLines[1]
	if body.FontSize != 10 || !body.Reserved || body.Angle != nil || body.Side != bitfield.SideLeft {
		t.Errorf("label 1 = %+v", body)
	}

	if len(reg.ArrowJumps) != 2 {
		t.Fatalf("got %d arrow jumps, want 2", len(reg.ArrowJumps))
	}
	a := reg.ArrowJumps[0]
	if a.Bit != 5 || a.StartLane != 0 || !reflect.DeepEqual(a.Jumps, []int{1, 2}) || a.Side != bitfield.SideLeft || a.StrokeWidth != 2 {
		t.Errorf("arrow 0 = %+v", a)
	}
	if a.EndBit == nil || *a.EndBit != 9 || a.EndLane == nil || *a.EndLane != 3 {
		t.Errorf("arrow 0 target = %v, %v", a.EndBit, a.EndLane)
	}
	b := reg.ArrowJumps[1]
	if b.EndBit != nil || b.EndLane != nil || b.Jumps != nil || b.Side != "" {
		t.Errorf("arrow 1 = %+v", b)
	}
}

func TestParseEmpty(t *testing.T) {
	reg, err := Parse("# nothing here\n\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(reg.Fields) != 0 || len(reg.LabelLines) != 0 || len(reg.ArrowJumps) != 0 {
		t.Errorf("Parse() = %+v, want empty register", reg)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
		pos  string
	}{
		{"unknown keyword", "field 4\nregister 8", errors.ErrCodeInvalidInput, "2:1"},
		{"missing width", `field "A"`, errors.ErrCodeInvalidInput, ""},
		{"bad side", `label "X" lanes 0..2 up`, errors.ErrCodeInvalidInput, ""},
		{"unterminated string", `field "A 4`, errors.ErrCodeInvalidInput, ""},
		{"rgb range", `field 4 type rgb(1, 2, 256)`, errors.ErrCodeInvalidType, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatal("Parse() error = nil")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse() error = %v, want code %s", err, tt.code)
			}
			if tt.pos != "" && !strings.Contains(err.Error(), tt.pos) {
				t.Errorf("Parse() error = %q, want position %s", err, tt.pos)
			}
		})
	}
}

func TestParseRenders(t *testing.T) {
	reg, err := Parse(`
field "IPO" 8
field 7
field "BRK" 5 type 4
array "data" 12
label "All" lanes 0..1 right
arrow 2 lane 0 to 20 right
`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	opts := bitfield.DefaultOptions()
	opts.Bits = 16
	if _, err := bitfield.Render(reg, opts); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
}
