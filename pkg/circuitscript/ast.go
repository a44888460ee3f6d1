package circuitscript

import "github.com/alecthomas/participle/v2/lexer"

// File is a parsed CircuitScript design
type File struct {
	Decls []*Decl `@@*`
}

// Decl is one top-level declaration
type Decl struct {
	Board     *BoardDecl     `  @@`
	Component *ComponentDecl `| @@`
	Place     *PlaceDecl     `| @@`
	Net       *NetDecl       `| @@`
}

// BoardDecl describes the board itself
// Example: board "blinky" { width 50 height 30 layers 2 }
type BoardDecl struct {
	Pos   lexer.Position
	Name  string       `"board" @(String | Ident) "{"`
	Props []*BoardProp `@@* "}"`
}

// BoardProp is one board property
type BoardProp struct {
	Width  *float64 `  "width" @Number`
	Height *float64 `| "height" @Number`
	Layers *int     `| "layers" @Number`
}

// ComponentDecl defines a part and its pins
// Example: component "R1" { package "0805" pin 1 A (passive) pin 2 B }
type ComponentDecl struct {
	Pos    lexer.Position
	Name   string            `"component" @(String | Ident) "{"`
	Fields []*ComponentField `@@* "}"`
}

// ComponentField is a component attribute or a pin
type ComponentField struct {
	Package      *string  `  "package" @(String | Ident | Number)`
	Manufacturer *string  `| "manufacturer" @(String | Ident)`
	MPN          *string  `| "mpn" @(String | Ident | Number)`
	Pin          *PinDecl `| @@`
}

// PinDecl declares a pin: number, name and an optional function
type PinDecl struct {
	Number   int    `"pin" @Number`
	Name     string `@(String | Ident | Number)`
	Function string `( "(" @(String | Ident) ")" )?`
}

// PlaceDecl places an instance of a component
// Example: place U1 : "ATmega328P" at (20, 15.5) rotate 90 bottom
type PlaceDecl struct {
	Pos       lexer.Position
	Ref       string  `"place" @(String | Ident)`
	Component string  `":" @(String | Ident)`
	X         float64 `"at" "(" @Number`
	Y         float64 `"," @Number ")"`
	Rotation  int     `( "rotate" @Number )?`
	Side      string  `@( "top" | "bottom" )?`
}

// NetDecl connects pins of placed instances
// Example: net GND { R1.2, U1.GND }
type NetDecl struct {
	Pos  lexer.Position
	Name string        `"net" @(String | Ident) "{"`
	Pins []*PinRefDecl `@@* "}"`
}

// PinRefDecl references a pin by number or by name
type PinRefDecl struct {
	Instance string `@(String | Ident)`
	Pin      string `"." @(String | Ident | Number) ","?`
}
