package notation

import "github.com/alecthomas/participle/v2/lexer"

// file is a whole notation document.
type file struct {
	Stmts []*stmt `@@*`
}

type stmt struct {
	Field *fieldStmt `  @@`
	Array *arrayStmt `| @@`
	Label *labelStmt `| @@`
	Arrow *arrowStmt `| @@`
}

// field "IPO" 8 type 4 attr "RO" attr 11
type fieldStmt struct {
	Pos  lexer.Position
	Name *string     `"field" @String?`
	Bits int         `@Int`
	Opts []*fieldOpt `@@*`
}

type fieldOpt struct {
	Type     *typeValue `  "type" @@`
	Attr     *attrValue `| "attr" @@`
	Rotate   *float64   `| "rotate" @(Float | Int)`
	Overline bool       `| @"overline"`
}

type typeValue struct {
	Pos lexer.Position
	RGB []int   `  "rgb" "(" @Int "," @Int "," @Int ")"`
	Num *int    `| @Int`
	Str *string `| @String`
}

type attrValue struct {
	Bits *int      `  @Int`
	Text *textAttr `| @@`
}

type textAttr struct {
	Text  string   `@String`
	Angle *float64 `( "angle" @(Float | Int) )?`
}

// array "payload" 16 type 2 width 0.5 fill "#eee" color "red" hide
type arrayStmt struct {
	Pos    lexer.Position
	Name   *string     `"array" @String?`
	Length int         `@Int`
	Opts   []*arrayOpt `@@*`
}

type arrayOpt struct {
	Type  *typeValue `  "type" @@`
	Width *float64   `| "width" @(Float | Int)`
	Fill  *string    `| "fill" @String`
	Color *string    `| "color" @String`
	Hide  bool       `| @"hide"`
}

// label "Header" lanes 0..2 right angle 0 size 10 reserved
type labelStmt struct {
	Pos   lexer.Position
	Text  string      `"label" @String`
	Start int         `"lanes" @Int Range`
	End   int         `@Int`
	Side  string      `@("left" | "right")`
	Opts  []*labelOpt `@@*`
}

type labelOpt struct {
	Angle    *float64 `  "angle" @(Float | Int)`
	Size     *float64 `| "size" @(Float | Int)`
	Reserved bool     `| @"reserved"`
}

// arrow 5 lane 0 via 1 2 to 9 lane 3 left stroke 2
type arrowStmt struct {
	Pos    lexer.Position
	Bit    int          `"arrow" @Int`
	Lane   int          `"lane" @Int`
	Via    []int        `( "via" @Int+ )?`
	To     *arrowTarget `@@?`
	Side   string       `@("left" | "right")?`
	Stroke *float64     `( "stroke" @(Float | Int) )?`
}

type arrowTarget struct {
	Bit  int  `"to" @Int`
	Lane *int `( "lane" @Int )?`
}
