package asm

import (
	"errors"
	"strconv"

	"github.com/zkasm/zkasm/field"
	"github.com/zkasm/zkasm/isa"
)

// expandToken rewrites one instruction token into its primitive
// sequence via the isa catalog. Flow markers never reach this point.
//
// push operands are parsed as field literals and reduced modulo the
// field prime; all other parameters are bounded unsigned integers,
// defaulted from the catalog when omitted.
func expandToken(tok Token) ([]isa.Instruction, error) {
	if tok.Name == "push" {
		if tok.Param == "" {
			return nil, &SyntaxError{Msg: "push requires a value", Pos: tok.Pos}
		}
		imm, err := field.FromDecimal(tok.Param)
		if err != nil {
			return nil, &SyntaxError{
				Msg: "invalid push literal " + strconv.Quote(tok.Param),
				Pos: tok.Pos,
			}
		}
		return []isa.Instruction{isa.PushOp(imm)}, nil
	}

	n := isa.DefaultParam(tok.Name)
	if tok.Param != "" {
		v, err := strconv.ParseUint(tok.Param, 10, 64)
		if err != nil {
			return nil, &SyntaxError{
				Msg: "invalid parameter " + strconv.Quote(tok.Param) + " for " + tok.Name,
				Pos: tok.Pos,
			}
		}
		n = v
	}

	seq, err := isa.Expand(tok.Name, n)
	if err != nil {
		var perr *isa.ParameterError
		if errors.As(err, &perr) {
			perr.Pos = tok.Pos
		}
		return nil, err
	}
	return seq, nil
}
