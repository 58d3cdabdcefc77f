// Package asm turns assembly source into an execution-path graph: it
// tokenizes and validates the source, expands macro instructions
// through the isa catalog, and builds the binary tree of execution
// paths that the commitment layer hashes.
package asm

import (
	"fmt"
	"strings"

	"github.com/zkasm/zkasm/isa"
)

// Flow-control marker mnemonics. They structure the token stream and
// never expand to instructions.
const (
	markIf    = "if.true"
	markElse  = "else"
	markEndif = "endif"
)

// Token is one parsed source token: a mnemonic, its optional raw
// parameter text, and the 0-based token index used in error reports.
// Tokens exist only until expansion.
type Token struct {
	Name  string
	Param string
	Pos   int
}

// IsFlow reports whether the token is a flow-control marker rather than
// an instruction.
func (t Token) IsFlow() bool {
	return t.Name == markIf || t.Name == markElse || t.Name == markEndif
}

// openBlock tracks one unclosed if.true during validation.
type openBlock struct {
	pos     int  // token index of the if.true
	elsePos int  // token index of the else, once seen
	inFalse bool // else already seen
	body    bool // current side has at least one instruction
}

// Tokenize splits source into tokens and validates flow-control
// structure. It fails fast: the first error aborts with no partial
// result.
//
// Structural rules: else requires an open if.true with no prior else;
// endif requires an open if.true with a seen else; both branch bodies
// must contain at least one instruction; every if.true must be closed
// before end of source.
func Tokenize(source string) ([]Token, error) {
	fields := strings.Fields(source)
	tokens := make([]Token, 0, len(fields))

	var stack []openBlock
	for i, raw := range fields {
		tok, err := splitToken(raw, i)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)

		switch tok.Name {
		case markIf:
			// The construct itself is content for the enclosing side.
			if len(stack) > 0 {
				stack[len(stack)-1].body = true
			}
			stack = append(stack, openBlock{pos: i, elsePos: -1})
		case markElse:
			if len(stack) == 0 {
				return nil, &SyntaxError{Msg: "else without open if.true", Pos: i}
			}
			top := &stack[len(stack)-1]
			if top.inFalse {
				return nil, &SyntaxError{Msg: "duplicate else in if.true block", Pos: i}
			}
			if !top.body {
				return nil, &SyntaxError{Msg: "empty true branch", Pos: i}
			}
			top.inFalse = true
			top.elsePos = i
			top.body = false
		case markEndif:
			if len(stack) == 0 {
				return nil, &SyntaxError{Msg: "endif without open if.true", Pos: i}
			}
			top := stack[len(stack)-1]
			if !top.inFalse {
				return nil, &SyntaxError{Msg: "if.true block is missing its else branch", Pos: i}
			}
			if !top.body {
				return nil, &SyntaxError{Msg: "empty false branch", Pos: i}
			}
			stack = stack[:len(stack)-1]
		default:
			if !isa.Known(tok.Name) {
				return nil, &LexError{Name: tok.Name, Pos: i}
			}
			if len(stack) > 0 {
				stack[len(stack)-1].body = true
			}
		}
	}

	if len(stack) > 0 {
		return nil, &SyntaxError{
			Msg: "unterminated if.true block",
			Pos: stack[len(stack)-1].pos,
		}
	}
	return tokens, nil
}

// splitToken separates "name" or "name.parameter" forms. if.true is the
// one mnemonic that itself contains a dot.
func splitToken(raw string, pos int) (Token, error) {
	if raw == markIf {
		return Token{Name: raw, Pos: pos}, nil
	}
	name, param, found := strings.Cut(raw, ".")
	if !found {
		return Token{Name: raw, Pos: pos}, nil
	}
	if name == "" || param == "" {
		return Token{}, &SyntaxError{Msg: fmt.Sprintf("malformed token %q", raw), Pos: pos}
	}
	if name == markElse || name == markEndif {
		return Token{}, &SyntaxError{Msg: fmt.Sprintf("%q takes no parameter", name), Pos: pos}
	}
	return Token{Name: name, Param: param, Pos: pos}, nil
}
