// Package isa defines the primitive operation set of the field VM and
// the assembly catalog that maps source mnemonics onto it.
//
// The catalog is the single source of truth for parameter defaults,
// parameter bounds, and macro expansion; no other package duplicates
// that validation.
package isa

import (
	"github.com/zkasm/zkasm/field"
)

// OpCode identifies a primitive VM operation. The byte value is part of
// the canonical leaf encoding hashed into program commitments.
type OpCode uint8

const (
	Noop   OpCode = 0x00
	Assert OpCode = 0x01

	Push  OpCode = 0x08
	Read  OpCode = 0x09
	Read2 OpCode = 0x0a

	Dup   OpCode = 0x10
	Dup2  OpCode = 0x11
	Dup4  OpCode = 0x12
	Pad2  OpCode = 0x13
	Drop  OpCode = 0x14
	Drop4 OpCode = 0x15
	Swap  OpCode = 0x18
	Swap2 OpCode = 0x19
	Swap4 OpCode = 0x1a
	Roll4 OpCode = 0x1b
	Roll8 OpCode = 0x1c

	Choose  OpCode = 0x20
	Choose2 OpCode = 0x21

	Add OpCode = 0x30
	Mul OpCode = 0x31
	Neg OpCode = 0x32
	Inv OpCode = 0x33
	Not OpCode = 0x34
	Eq  OpCode = 0x35
	Cmp OpCode = 0x36

	BinAcc OpCode = 0x38
	RescR  OpCode = 0x40
)

var opNames = map[OpCode]string{
	Noop: "noop", Assert: "assert",
	Push: "push", Read: "read", Read2: "read2",
	Dup: "dup", Dup2: "dup2", Dup4: "dup4", Pad2: "pad2",
	Drop: "drop", Drop4: "drop4",
	Swap: "swap", Swap2: "swap2", Swap4: "swap4",
	Roll4: "roll4", Roll8: "roll8",
	Choose: "choose", Choose2: "choose2",
	Add: "add", Mul: "mul", Neg: "neg", Inv: "inv",
	Not: "not", Eq: "eq", Cmp: "cmp",
	BinAcc: "binacc", RescR: "rescr",
}

// String returns the primitive's mnemonic.
func (op OpCode) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return "op?"
}

// EncodedSize is the fixed width of one instruction in the canonical
// leaf encoding: 1 opcode byte followed by a 16-byte little-endian
// immediate (zero when the operation carries none).
const EncodedSize = 17

// Instruction is one primitive VM operation, optionally carrying an
// immediate field element. Immutable once created. Cycles is the
// operation's cost in the fixed-step trace model, used for alignment
// bookkeeping and diagnostics.
type Instruction struct {
	Op     OpCode
	Imm    field.Element
	HasImm bool
	Cycles uint32
}

// op builds a plain single-cycle instruction.
func op(code OpCode) Instruction {
	return Instruction{Op: code, Cycles: 1}
}

// PushOp builds a push instruction carrying an immediate.
func PushOp(imm field.Element) Instruction {
	return Instruction{Op: Push, Imm: imm, HasImm: true, Cycles: 1}
}

// Encode appends the instruction's fixed-width form to dst.
func (in Instruction) Encode(dst []byte) []byte {
	dst = append(dst, byte(in.Op))
	imm := in.Imm.Bytes16()
	return append(dst, imm[:]...)
}

// String renders the instruction for listings and diagnostics.
func (in Instruction) String() string {
	if in.HasImm {
		return in.Op.String() + " " + in.Imm.String()
	}
	return in.Op.String()
}
