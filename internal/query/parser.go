package query

import (
	"fmt"
)

// ParseError reports a query that could not be parsed.
type ParseError struct {
	Pos      int
	Fragment string
	Msg      string
}

func (e *ParseError) Error() string {
	if e.Fragment == "" {
		return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("parse error at position %d near %q: %s", e.Pos, e.Fragment, e.Msg)
}

const (
	keywordAnd = "AND"
	keywordOr  = "OR"
	keywordNot = "NOT"
)

// Parser parses search strings into ASTs.
//
// Grammar, loosest binding first:
//
//	query    := or*
//	or       := adjacent ("OR" adjacent)*
//	adjacent := and+
//	and      := not ("AND" not)*
//	not      := "NOT" not | atom
//	atom     := word | "quoted" | field | "(" query ")"
//	field    := name ":" (word | "quoted" | "(" (word | "quoted")* ")")
//
// Adjacency binds like AND, so "a b OR c" is "(a b) OR c".
type Parser struct {
	input string
	lexer *Lexer
	curr  Token
	peek  Token
}

// Parse parses a search string. An empty string yields an empty Toplevel.
func Parse(input string) (*Toplevel, error) {
	p := &Parser{input: input, lexer: NewLexer(input)}
	p.advance()
	p.advance()

	children, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if p.curr.Type != TokenEOF {
		return nil, p.errorf(p.curr, "unexpected %v", p.curr.Type)
	}
	return &Toplevel{Children: children}, nil
}

func (p *Parser) advance() {
	p.curr = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) errorf(tok Token, format string, args ...interface{}) error {
	if tok.Type == TokenError {
		return &ParseError{Pos: tok.Pos, Fragment: p.fragment(tok.Pos), Msg: tok.Value}
	}
	return &ParseError{Pos: tok.Pos, Fragment: p.fragment(tok.Pos), Msg: fmt.Sprintf(format, args...)}
}

// fragment returns a short excerpt of the input starting at pos.
func (p *Parser) fragment(pos int) string {
	const width = 20
	if pos >= len(p.input) {
		return ""
	}
	end := pos + width
	if end > len(p.input) {
		end = len(p.input)
	}
	return p.input[pos:end]
}

func (p *Parser) isKeyword(kw string) bool {
	return p.curr.Type == TokenWord && p.curr.Value == kw
}

func (p *Parser) atSequenceEnd() bool {
	return p.curr.Type == TokenEOF || p.curr.Type == TokenRParen
}

// parseSequence parses or-expressions until ')' or end of input.
func (p *Parser) parseSequence() ([]Node, error) {
	var nodes []Node
	for !p.atSequenceEnd() {
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node...)
	}
	return nodes, nil
}

// parseOr returns the adjacent expressions as a slice when no OR follows,
// so the caller's sequence absorbs them directly.
func (p *Parser) parseOr() ([]Node, error) {
	first, err := p.parseAdjacent()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword(keywordOr) {
		return first, nil
	}

	or := &Or{Children: []Node{wrapAdjacent(first)}}
	for p.isKeyword(keywordOr) {
		tok := p.curr
		p.advance()
		if p.atSequenceEnd() {
			return nil, p.errorf(tok, "OR without right operand")
		}
		next, err := p.parseAdjacent()
		if err != nil {
			return nil, err
		}
		or.Children = append(or.Children, wrapAdjacent(next))
	}
	return []Node{or}, nil
}

func wrapAdjacent(nodes []Node) Node {
	if len(nodes) == 1 {
		return nodes[0]
	}
	return &Group{Children: nodes}
}

// parseAdjacent parses and-expressions until OR, ')' or end of input and
// merges runs of bare words into a single Word.
func (p *Parser) parseAdjacent() ([]Node, error) {
	var nodes []Node
	for !p.atSequenceEnd() && !p.isKeyword(keywordOr) {
		node, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		if w, ok := node.(*Word); ok && len(nodes) > 0 {
			if prev, ok := nodes[len(nodes)-1].(*Word); ok {
				nodes[len(nodes)-1] = &Word{Token: prev.Token + " " + w.Token}
				continue
			}
		}
		nodes = append(nodes, node)
	}
	if len(nodes) == 0 {
		return nil, p.errorf(p.curr, "expected expression, got %v", p.curr.Type)
	}
	return nodes, nil
}

func (p *Parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword(keywordAnd) {
		return left, nil
	}

	and := &And{Children: []Node{left}}
	for p.isKeyword(keywordAnd) {
		tok := p.curr
		p.advance()
		if p.atSequenceEnd() {
			return nil, p.errorf(tok, "AND without right operand")
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		and.Children = append(and.Children, right)
	}
	return and, nil
}

func (p *Parser) parseNot() (Node, error) {
	if !p.isKeyword(keywordNot) {
		return p.parseAtom()
	}
	tok := p.curr
	p.advance()
	if p.atSequenceEnd() {
		return nil, p.errorf(tok, "NOT without operand")
	}
	child, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	return &Not{Children: []Node{child}}, nil
}

func (p *Parser) parseAtom() (Node, error) {
	tok := p.curr
	switch tok.Type {
	case TokenWord:
		if tok.Value == keywordAnd || tok.Value == keywordOr {
			return nil, p.errorf(tok, "unexpected %s", tok.Value)
		}
		p.advance()
		return &Word{Token: tok.Value}, nil

	case TokenQuoted:
		p.advance()
		return &Quotes{Token: tok.Value}, nil

	case TokenField:
		return p.parseField()

	case TokenLParen:
		p.advance()
		children, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		if p.curr.Type != TokenRParen {
			return nil, p.errorf(tok, "unclosed '('")
		}
		p.advance()
		if len(children) == 0 {
			return nil, p.errorf(tok, "empty group")
		}
		return &Group{Children: children}, nil

	default:
		return nil, p.errorf(tok, "unexpected %v", tok.Type)
	}
}

func (p *Parser) parseField() (Node, error) {
	nameTok := p.curr
	if nameTok.Value == "" {
		return nil, p.errorf(nameTok, "missing field name")
	}
	p.advance()

	valTok := p.curr
	if valTok.Spaced || valTok.Type == TokenEOF || valTok.Type == TokenRParen {
		return nil, p.errorf(nameTok, "missing value for field %q", nameTok.Value)
	}

	switch valTok.Type {
	case TokenWord:
		p.advance()
		return &Field{Name: nameTok.Value, Value: &Word{Token: valTok.Value}}, nil
	case TokenQuoted:
		p.advance()
		return &Field{Name: nameTok.Value, Value: &Quotes{Token: valTok.Value}}, nil
	case TokenLParen:
		p.advance()
		group := &Group{}
		for p.curr.Type == TokenWord || p.curr.Type == TokenQuoted {
			if p.curr.Type == TokenQuoted {
				group.Children = append(group.Children, &Quotes{Token: p.curr.Value})
			} else {
				group.Children = append(group.Children, &Word{Token: p.curr.Value})
			}
			p.advance()
		}
		if p.curr.Type != TokenRParen {
			return nil, p.errorf(valTok, "unclosed '(' in value of field %q", nameTok.Value)
		}
		p.advance()
		return &Field{Name: nameTok.Value, Value: group}, nil
	default:
		return nil, p.errorf(valTok, "invalid value for field %q", nameTok.Value)
	}
}
