// Package sexp is a small streaming S-expression reader for KiCad files.
//
// Quoted strings are returned as single atoms with the quotes removed, so
// (title "Example Board") has two elements.
package sexp

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Node is an atom or a list
type Node interface {
	IsLeaf() bool
	String() string
}

// Atom is a symbol, number or string
type Atom string

func (a Atom) IsLeaf() bool   { return true }
func (a Atom) String() string { return string(a) }

// List is a parenthesised sequence of nodes
type List struct {
	Items []Node
	Line  int // Source line of the opening parenthesis
}

func (l *List) IsLeaf() bool { return false }

func (l *List) String() string {
	parts := make([]string, len(l.Items))
	for i, item := range l.Items {
		parts[i] = item.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Name returns the leading atom of the list, e.g. "at" for (at 1 2)
func (l *List) Name() string {
	if len(l.Items) == 0 {
		return ""
	}
	if a, ok := l.Items[0].(Atom); ok {
		return string(a)
	}
	return ""
}

// Find returns the first child list whose name is key
func (l *List) Find(key string) (*List, bool) {
	for _, item := range l.Items {
		if sub, ok := item.(*List); ok && sub.Name() == key {
			return sub, true
		}
	}
	return nil, false
}

// FindAll returns every child list whose name is key
func (l *List) FindAll(key string) []*List {
	var out []*List
	for _, item := range l.Items {
		if sub, ok := item.(*List); ok && sub.Name() == key {
			out = append(out, sub)
		}
	}
	return out
}

// Len returns the number of items, including the name
func (l *List) Len() int {
	return len(l.Items)
}

// Str returns the atom at index. Index 0 is the name.
func (l *List) Str(index int) (string, error) {
	if index < 0 || index >= len(l.Items) {
		return "", fmt.Errorf("line %d: (%s): index %d out of bounds (length %d)", l.Line, l.Name(), index, len(l.Items))
	}
	a, ok := l.Items[index].(Atom)
	if !ok {
		return "", fmt.Errorf("line %d: (%s): expected atom at index %d", l.Line, l.Name(), index)
	}
	return string(a), nil
}

// Float returns the atom at index parsed as a float
func (l *List) Float(index int) (float64, error) {
	s, err := l.Str(index)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: failed to parse float %q: %w", l.Line, s, err)
	}
	return v, nil
}

// Int returns the atom at index parsed as an int
func (l *List) Int(index int) (int, error) {
	s, err := l.Str(index)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("line %d: failed to parse int %q: %w", l.Line, s, err)
	}
	return v, nil
}

// Parse reads every top-level expression from r
func Parse(r io.Reader) ([]Node, error) {
	p := &parser{lex: newLexer(r)}
	return p.parseAll()
}

// ParseString reads every top-level expression from s
func ParseString(s string) ([]Node, error) {
	return Parse(strings.NewReader(s))
}

type parser struct {
	lex *lexer
}

func (p *parser) parseAll() ([]Node, error) {
	var out []Node
	for {
		tok, err := p.lex.next()
		if err != nil {
			return nil, err
		}
		if tok.typ == tokenEOF {
			return out, nil
		}
		node, err := p.parseNode(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
}

func (p *parser) parseNode(tok token) (Node, error) {
	switch tok.typ {
	case tokenOpen:
		return p.parseList(tok.line)
	case tokenAtom, tokenString:
		return Atom(tok.value), nil
	case tokenClose:
		return nil, fmt.Errorf("line %d: unexpected ')'", tok.line)
	}
	return nil, fmt.Errorf("line %d: unexpected end of input", tok.line)
}

func (p *parser) parseList(line int) (*List, error) {
	list := &List{Line: line}
	for {
		tok, err := p.lex.next()
		if err != nil {
			return nil, err
		}
		switch tok.typ {
		case tokenClose:
			return list, nil
		case tokenEOF:
			return nil, fmt.Errorf("line %d: unexpected end of input in list", line)
		}
		node, err := p.parseNode(tok)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, node)
	}
}
