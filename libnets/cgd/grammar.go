// Package cgd reads periodic net descriptions in the CGD format used by
// the Systre software and the RCSR net library.  Each CRYSTAL..END block
// yields one periodic structure, expanded to the full unit cell through
// the net's space group.
package cgd

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

type netFile struct {
	Nets []*netBlock `parser:"@@*"`
}

type netBlock struct {
	Records []*record `parser:"\"CRYSTAL\" @@* \"END\""`
}

type record struct {
	Name    *string    `parser:"  \"NAME\" @(Ident|Number)"`
	Group   *string    `parser:"| \"GROUP\" @Ident"`
	Cell    []float64  `parser:"| \"CELL\" @Number+"`
	Node    *nodeRec   `parser:"| \"NODE\" @@"`
	Edge    []float64  `parser:"| \"EDGE\" @Number+"`
	Comment *hashRec   `parser:"| \"#\" @@"`
	Other   *ignoreRec `parser:"| @@"`
}

type nodeRec struct {
	Label string    `parser:"@(Ident|Number)"`
	Coord int       `parser:"@Number"`
	Pos   []float64 `parser:"@Number+"`
}

// hashRec captures "#"-prefixed lines; only the EDGE_CENTER marker the
// RCSR files use for linear connectors is meaningful, the rest is comment.
type hashRec struct {
	Tag  string    `parser:"@Ident?"`
	Vals []float64 `parser:"@Number*"`
}

// ignoreRec swallows record types this reader has no use for
// (coordination sequences, vertex symbols, ...).
type ignoreRec struct {
	Key  string    `parser:"@!(\"CRYSTAL\"|\"END\"|\"NAME\"|\"GROUP\"|\"CELL\"|\"NODE\"|\"EDGE\"|\"#\")"`
	Vals []float64 `parser:"@Number*"`
}

var cgdLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `[-+]?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z][\w/:\-.]*`},
	{Name: "Hash", Pattern: `#`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

var parseNetFile = participle.MustBuild[netFile](
	participle.Lexer(cgdLexer),
	participle.Elide("Whitespace"),
)
