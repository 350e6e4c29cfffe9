package bitfield

import (
	"reflect"
	"testing"

	"github.com/matzehuels/bitfield/pkg/errors"
)

func TestAccount(t *testing.T) {
	fields := []Field{
		{Name: "a", Bits: 8},
		{Name: "pad", Gap: &Gap{Length: 4, HideLines: true}},
		{Name: "b", Bits: 3},
	}
	orig := append([]Field(nil), fields...)

	acct, err := Account(fields, 8)
	if err != nil {
		t.Fatalf("Account() error = %v", err)
	}

	want := []Span{
		{LSB: 0, MSB: 7, LSBM: 0, MSBM: 7, Sized: true},
		{LSB: 8, MSB: 11},
		{LSB: 12, MSB: 14, LSBM: 4, MSBM: 6, Sized: true},
	}
	if !reflect.DeepEqual(acct.Spans, want) {
		t.Errorf("Spans = %+v, want %+v", acct.Spans, want)
	}
	if acct.Total != 15 {
		t.Errorf("Total = %d, want 15", acct.Total)
	}
	if got := acct.Lanes(8); got != 2 {
		t.Errorf("Lanes(8) = %d, want 2", got)
	}
	wantGaps := []GapRange{{Index: 1, Start: 8, End: 12, HideLines: true}}
	if !reflect.DeepEqual(acct.Gaps, wantGaps) {
		t.Errorf("Gaps = %+v, want %+v", acct.Gaps, wantGaps)
	}
	if !reflect.DeepEqual(fields, orig) {
		t.Error("Account modified its input")
	}
}

func TestAccountContiguous(t *testing.T) {
	fields := []Field{{Bits: 3}, {Bits: 17}, {Gap: &Gap{Length: 9}}, {Bits: 1}, {Bits: 32}}
	acct, err := Account(fields, 16)
	if err != nil {
		t.Fatalf("Account() error = %v", err)
	}

	sum, next := 0, 0
	for i, s := range acct.Spans {
		if s.LSB > s.MSB {
			t.Errorf("span %d: lsb %d > msb %d", i, s.LSB, s.MSB)
		}
		if s.LSB != next {
			t.Errorf("span %d: lsb = %d, want %d", i, s.LSB, next)
		}
		next = s.MSB + 1
		sum += fields[i].Width()
	}
	if acct.Total != sum {
		t.Errorf("Total = %d, want %d", acct.Total, sum)
	}
	if got, want := acct.Lanes(16), (sum+15)/16; got != want {
		t.Errorf("Lanes() = %d, want %d", got, want)
	}
}

func TestAccountErrors(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
		bits   int
		code   errors.Code
	}{
		{"zero bits", []Field{{Name: "x"}}, 8, errors.ErrCodeInvalidField},
		{"negative bits", []Field{{Bits: -2}}, 8, errors.ErrCodeInvalidField},
		{"empty gap", []Field{{Gap: &Gap{}}}, 8, errors.ErrCodeInvalidField},
		{"bits and gap", []Field{{Bits: 2, Gap: &Gap{Length: 4}}}, 8, errors.ErrCodeInvalidField},
		{"zero lane width", []Field{{Bits: 2}}, 0, errors.ErrCodeInvalidConfig},
		{"two rotated rows", []Field{{Bits: 4, Attrs: []Attr{RotatedAttr("a", 90), TextAttr("b"), RotatedAttr("c", -90)}}}, 8, errors.ErrCodeInvalidField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Account(tt.fields, tt.bits)
			if !errors.Is(err, tt.code) {
				t.Errorf("Account() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestHiddenBoundary(t *testing.T) {
	acct := Accounting{Gaps: []GapRange{
		{Start: 4, End: 10, HideLines: true},
		{Start: 20, End: 30},
	}}

	tests := []struct {
		boundary int
		want     bool
	}{
		{4, false},
		{5, true},
		{9, true},
		{10, false},
		{25, false},
	}
	for _, tt := range tests {
		if got := acct.hiddenBoundary(tt.boundary); got != tt.want {
			t.Errorf("hiddenBoundary(%d) = %v, want %v", tt.boundary, got, tt.want)
		}
	}
}
