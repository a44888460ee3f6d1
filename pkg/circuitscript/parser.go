// Package circuitscript parses CircuitScript design files and loads them
// into a board model.
package circuitscript

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/participle/v2"

	"github.com/OpenTraceLab/OpenTraceCAM/pkg/board"
)

// Parser parses CircuitScript sources
type Parser struct {
	parser *participle.Parser[File]
}

// NewParser creates a new CircuitScript parser instance
func NewParser() (*Parser, error) {
	parser, err := participle.Build[File](
		participle.Lexer(Lexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

// Parse parses a design from a reader. filename is only used in error
// positions and may be empty.
func (p *Parser) Parse(filename string, r io.Reader) (*File, error) {
	file, err := p.parser.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return file, nil
}

// ParseString parses a design from a string
func (p *Parser) ParseString(input string) (*File, error) {
	file, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return file, nil
}

// ParseFile parses a design from a file path
func (p *Parser) ParseFile(filename string) (*File, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(filename, file)
}

// LoadFile parses filename and builds its board
func LoadFile(filename string) (*board.Board, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	f, err := p.ParseFile(filename)
	if err != nil {
		return nil, err
	}
	return f.Board()
}

// Board builds a board from the parsed declarations, in source order,
// through the board's append operations. Placements and net pins are not
// checked against components here; export resolves them by name.
func (f *File) Board() (*board.Board, error) {
	b := board.New()
	seenBoard := false

	for _, d := range f.Decls {
		switch {
		case d.Board != nil:
			if seenBoard {
				return nil, fmt.Errorf("%s: duplicate board declaration", d.Board.Pos)
			}
			seenBoard = true
			if err := applyBoard(b, d.Board); err != nil {
				return nil, err
			}

		case d.Component != nil:
			b.AddComponent(buildComponent(d.Component))

		case d.Place != nil:
			b.AddPlacement(buildPlacement(d.Place))

		case d.Net != nil:
			b.AddNet(buildNet(d.Net))
		}
	}

	return b, nil
}

func applyBoard(b *board.Board, decl *BoardDecl) error {
	b.Name = decl.Name
	for _, prop := range decl.Props {
		switch {
		case prop.Width != nil:
			if *prop.Width < 0 {
				return fmt.Errorf("%s: board width must not be negative", decl.Pos)
			}
			b.Width = *prop.Width
		case prop.Height != nil:
			if *prop.Height < 0 {
				return fmt.Errorf("%s: board height must not be negative", decl.Pos)
			}
			b.Height = *prop.Height
		case prop.Layers != nil:
			if *prop.Layers < 1 {
				return fmt.Errorf("%s: board needs at least one layer, got %d", decl.Pos, *prop.Layers)
			}
			b.Layers = *prop.Layers
		}
	}
	return nil
}

func buildComponent(decl *ComponentDecl) *board.Component {
	c := board.NewComponent(decl.Name)
	for _, field := range decl.Fields {
		switch {
		case field.Package != nil:
			c.Package = *field.Package
		case field.Manufacturer != nil:
			c.Manufacturer = *field.Manufacturer
		case field.MPN != nil:
			c.MPN = *field.MPN
		case field.Pin != nil:
			c.AddPin(board.Pin{
				Number:   field.Pin.Number,
				Name:     field.Pin.Name,
				Function: field.Pin.Function,
			})
		}
	}
	return c
}

func buildPlacement(decl *PlaceDecl) *board.Placement {
	p := board.NewPlacement()
	p.Ref = decl.Ref
	p.ComponentName = decl.Component
	p.Position = board.Point{X: decl.X, Y: decl.Y}
	p.Rotation = decl.Rotation
	p.TopSide = decl.Side != "bottom"
	return p
}

func buildNet(decl *NetDecl) *board.Net {
	n := board.NewNet(decl.Name)
	for _, ref := range decl.Pins {
		number := board.NoPinNumber
		if v, err := strconv.Atoi(ref.Pin); err == nil {
			number = v
		}
		n.AddConnection(board.PinReference{
			Instance:  ref.Instance,
			PinName:   ref.Pin,
			PinNumber: number,
		})
	}
	return n
}
