package bitfield

import "testing"

func TestTypeColor(t *testing.T) {
	table := TypeTable{
		{Name: "gray", Color: "#D9D9D9", Label: "test"},
		{Name: "green", Color: "EBF1DE", Aliases: []string{"ok", "2"}},
		{Name: "named", Color: "red", Value: "0x1"},
	}

	tests := []struct {
		name  string
		key   TypeKey
		table TypeTable
		want  string
	}{
		{"no type", NoType(), table, DefaultColor},
		{"rgb triple", RGB(10, 20, 30), table, "rgb(10, 20, 30)"},
		{"override by name", Named("gray"), table, "#D9D9D9"},
		{"override by label", Named("test"), table, "#D9D9D9"},
		{"override by value", Named("0x1"), table, "red"},
		{"bare hex normalized", Named("ok"), table, "#EBF1DE"},
		{"alias beats palette", Numeric(2), table, "#EBF1DE"},
		{"palette", Numeric(2), nil, "rgb(255, 204, 204)"},
		{"palette outside range", Numeric(9), nil, DefaultColor},
		{"hex verbatim", Hex("#abcdef"), nil, "#abcdef"},
		{"unknown name", Named("other"), table, DefaultColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeColor(tt.key, tt.table); got != tt.want {
				t.Errorf("TypeColor(%v) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestTypeColorPalette(t *testing.T) {
	seen := map[string]bool{}
	for n := 2; n <= 7; n++ {
		c := TypeColor(Numeric(n), nil)
		if c == DefaultColor {
			t.Errorf("Numeric(%d) resolved to the default color", n)
		}
		if seen[c] {
			t.Errorf("Numeric(%d) = %q, duplicate palette color", n, c)
		}
		seen[c] = true
	}
}

func TestParseTypeKey(t *testing.T) {
	tests := []struct {
		in   string
		want TypeKey
	}{
		{"", NoType()},
		{"4", Numeric(4)},
		{"#a0b1c2", Hex("#a0b1c2")},
		{"#a0b1", Named("#a0b1")},
		{"status", Named("status")},
	}

	for _, tt := range tests {
		if got := ParseTypeKey(tt.in); got != tt.want {
			t.Errorf("ParseTypeKey(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestTypeKeyString(t *testing.T) {
	if got := Numeric(5).String(); got != "5" {
		t.Errorf("Numeric(5).String() = %q", got)
	}
	if got := NoType().String(); got != "" {
		t.Errorf("NoType().String() = %q", got)
	}
	if r, g, b, ok := RGB(1, 2, 3).RGBValues(); !ok || r != 1 || g != 2 || b != 3 {
		t.Errorf("RGBValues() = %d %d %d %v", r, g, b, ok)
	}
}
