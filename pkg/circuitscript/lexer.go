package circuitscript

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes CircuitScript sources
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments run from # to end of line
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},

	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	// Numbers need a leading digit so that "R1.2" lexes as R1 . 2
	{Name: "Number", Pattern: `[-+]?[0-9]+(?:\.[0-9]+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[{}(),.:]`},
})
