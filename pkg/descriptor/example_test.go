package descriptor_test

import (
	"fmt"

	"github.com/matzehuels/bitfield/pkg/descriptor"
)

func ExampleDecode() {
	src := `
payload:
  - {name: IPO, bits: 8, attr: RO}
  - {bits: 7}
  - {name: BRK, bits: 5, type: 4}
config:
  bits: 16
`
	doc, err := descriptor.Decode([]byte(src), descriptor.FormatYAML)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, f := range doc.Register.Fields {
		fmt.Printf("%q bits=%d type=%q\n", f.Name, f.Bits, f.Type)
	}
	fmt.Println("bits per lane:", doc.Options.Bits)
	// Output:
	// "IPO" bits=8 type=""
	// "" bits=7 type=""
	// "BRK" bits=5 type="4"
	// bits per lane: 16
}
