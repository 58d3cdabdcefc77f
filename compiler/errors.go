package compiler

import (
	"github.com/zkasm/zkasm/asm"
	"github.com/zkasm/zkasm/isa"
	"github.com/zkasm/zkasm/merkle"
)

// AssemblyError is satisfied by every structured compilation failure:
// lexical, syntactic, parameter, resource, and hash errors. Position
// is the 0-based source token index, or -1 when the failure has no
// source location (hash capability failures).
type AssemblyError interface {
	error
	Position() int
}

// Every stage error implements AssemblyError.
var (
	_ AssemblyError = (*asm.LexError)(nil)
	_ AssemblyError = (*asm.SyntaxError)(nil)
	_ AssemblyError = (*asm.ResourceError)(nil)
	_ AssemblyError = (*isa.ParameterError)(nil)
	_ AssemblyError = (*merkle.HashError)(nil)
)
