package bitfield_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/bitfield/pkg/bitfield"
)

func ExampleRender() {
	reg := bitfield.Register{Fields: []bitfield.Field{
		{Name: "IPO", Bits: 8},
		{Name: "BRK", Bits: 8, Type: bitfield.Numeric(4)},
	}}
	opts := bitfield.DefaultOptions()
	opts.Bits = 16

	root, err := bitfield.Render(reg, opts)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(root.String("width"), root.String("height"))
	fmt.Println(strings.Join(root.Texts(), " "))
	// Output:
	// 640 80.5
	// 0 7 8 15 IPO BRK
}

func ExampleTypeColor() {
	table := bitfield.TypeTable{{Name: "status", Color: "EBF1DE"}}

	fmt.Println(bitfield.TypeColor(bitfield.Numeric(2), nil))
	fmt.Println(bitfield.TypeColor(bitfield.Named("status"), table))
	fmt.Println(bitfield.TypeColor(bitfield.RGB(10, 20, 30), nil))
	fmt.Println(bitfield.TypeColor(bitfield.Named("unknown"), table))
	// Output:
	// rgb(255, 204, 204)
	// #EBF1DE
	// rgb(10, 20, 30)
	// rgb(229, 229, 229)
}

func ExampleAccount() {
	fields := []bitfield.Field{
		{Name: "opcode", Bits: 7},
		{Name: "data", Gap: &bitfield.Gap{Length: 12}},
		{Name: "flag", Bits: 1},
	}
	acct, err := bitfield.Account(fields, 8)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for i, s := range acct.Spans {
		fmt.Printf("%s %d..%d\n", fields[i].Name, s.LSB, s.MSB)
	}
	fmt.Println("total", acct.Total, "lanes", acct.Lanes(8))
	// Output:
	// opcode 0..6
	// data 7..18
	// flag 19..19
	// total 20 lanes 3
}
