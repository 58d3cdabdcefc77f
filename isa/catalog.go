package isa

import (
	"fmt"
	"sort"
)

// hashRounds is the number of Rescue round operations in one full
// permutation of the VM's hash coprocessor.
const hashRounds = 10

// ParameterError reports an assembly parameter outside its opcode's
// declared bounds. Pos is the token index in the source, filled in by
// the assembler.
type ParameterError struct {
	Op    string
	Value uint64
	Min   uint64
	Max   uint64
	Pos   int
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("isa: parameter %d for %q out of range [%d, %d] (token %d)",
		e.Value, e.Op, e.Min, e.Max, e.Pos)
}

// Position returns the token index the error refers to.
func (e *ParameterError) Position() int { return e.Pos }

// macro is one catalog entry: parameter default and bounds plus the
// expansion into primitive operations. Primitives use an identity-like
// expansion with bounds [1,1].
type macro struct {
	def    uint64
	min    uint64
	max    uint64
	expand func(n uint64) []Instruction
}

func fixed(ops ...OpCode) func(uint64) []Instruction {
	return func(uint64) []Instruction {
		out := make([]Instruction, len(ops))
		for i, c := range ops {
			out[i] = op(c)
		}
		return out
	}
}

// padZeros pushes k zeros using Pad2 pairs, dropping the surplus when
// k is odd.
func padZeros(k uint64) []Instruction {
	var out []Instruction
	for i := uint64(0); i < (k+1)/2; i++ {
		out = append(out, op(Pad2))
	}
	if k%2 == 1 {
		out = append(out, op(Drop))
	}
	return out
}

func repeat(code OpCode, n uint64) []Instruction {
	out := make([]Instruction, n)
	for i := range out {
		out[i] = op(code)
	}
	return out
}

var catalog = map[string]macro{
	"noop":   {1, 1, 1, fixed(Noop)},
	"assert": {1, 1, 1, fixed(Assert)},

	"read": {1, 1, 2, func(n uint64) []Instruction {
		if n == 2 {
			return []Instruction{op(Read2)}
		}
		return []Instruction{op(Read)}
	}},

	"dup": {1, 1, 4, func(n uint64) []Instruction {
		switch n {
		case 1:
			return []Instruction{op(Dup)}
		case 2:
			return []Instruction{op(Dup2)}
		case 3:
			return []Instruction{op(Dup4), op(Roll4), op(Drop)}
		default:
			return []Instruction{op(Dup4)}
		}
	}},
	"pad": {1, 1, 8, padZeros},
	"pick": {1, 1, 3, func(n uint64) []Instruction {
		switch n {
		case 1:
			return []Instruction{op(Dup2), op(Drop)}
		case 2:
			return []Instruction{op(Dup4), op(Roll4), op(Drop)}
		default:
			return []Instruction{op(Dup4), op(Drop)}
		}
	}},
	"drop": {1, 1, 8, func(n uint64) []Instruction {
		out := repeat(Drop4, n/4)
		return append(out, repeat(Drop, n%4)...)
	}},
	"swap": {1, 1, 4, func(n uint64) []Instruction {
		switch n {
		case 1:
			return []Instruction{op(Swap)}
		case 2:
			return []Instruction{op(Swap2)}
		case 3:
			return []Instruction{op(Swap4), op(Roll4)}
		default:
			return []Instruction{op(Swap4)}
		}
	}},
	"roll4": {1, 1, 1, fixed(Roll4)},
	"roll8": {1, 1, 1, fixed(Roll8)},

	"choose": {1, 1, 2, func(n uint64) []Instruction {
		if n == 2 {
			return []Instruction{op(Choose2)}
		}
		return []Instruction{op(Choose)}
	}},

	"add": {1, 1, 1, fixed(Add)},
	"sub": {1, 1, 1, fixed(Neg, Add)},
	"mul": {1, 1, 1, fixed(Mul)},
	"div": {1, 1, 1, fixed(Inv, Mul)},
	"neg": {1, 1, 1, fixed(Neg)},
	"inv": {1, 1, 1, fixed(Inv)},
	"not": {1, 1, 1, fixed(Not)},
	"eq":  {1, 1, 1, fixed(Eq)},

	// gt/lt compare bit-by-bit; the parameter is the operand bit width.
	"gt": {4, 4, 128, func(n uint64) []Instruction {
		out := []Instruction{op(Dup2), op(Pad2)}
		out = append(out, repeat(Cmp, n)...)
		return append(out, op(Drop4), op(Drop))
	}},
	"lt": {4, 4, 128, func(n uint64) []Instruction {
		out := []Instruction{op(Dup2), op(Pad2)}
		out = append(out, repeat(Cmp, n)...)
		return append(out, op(Drop4), op(Drop), op(Not))
	}},
	// rc range-checks the top element against 2^n by binary
	// accumulation of its low n bits.
	"rc": {4, 4, 128, func(n uint64) []Instruction {
		out := []Instruction{op(Pad2)}
		out = append(out, repeat(BinAcc, n)...)
		return append(out, op(Drop), op(Eq), op(Assert))
	}},
	// hash absorbs the top n elements; the sponge rate is 4, so the
	// input is zero-padded to a full block before the permutation.
	"hash": {1, 1, 4, func(n uint64) []Instruction {
		out := padZeros(4 - n)
		out = append(out, repeat(RescR, hashRounds)...)
		return append(out, op(Drop), op(Drop))
	}},
	// mpath verifies a Merkle authentication path; the parameter is the
	// tree depth. Each level reads the sibling pair from the input tape,
	// orders it by the path bit, and runs one permutation.
	"mpath": {1, 1, 128, func(n uint64) []Instruction {
		var out []Instruction
		for i := uint64(0); i < n; i++ {
			out = append(out, op(Read2), op(Choose2))
			out = append(out, repeat(RescR, hashRounds)...)
		}
		return out
	}},
}

// Known reports whether name is a catalog mnemonic. The flow-control
// markers (if.true, else, endif) are not catalog entries; they never
// expand to instructions.
func Known(name string) bool {
	if name == "push" {
		return true
	}
	_, ok := catalog[name]
	return ok
}

// Mnemonics returns every catalog mnemonic in sorted order, push
// included. Used by tooling and assembler diagnostics.
func Mnemonics() []string {
	out := make([]string, 0, len(catalog)+1)
	for name := range catalog {
		out = append(out, name)
	}
	out = append(out, "push")
	sort.Strings(out)
	return out
}

// DefaultParam returns the parameter assumed when the source omits one.
func DefaultParam(name string) uint64 {
	if m, ok := catalog[name]; ok {
		return m.def
	}
	return 1
}

// Bounds returns the inclusive parameter range for a catalog mnemonic.
func Bounds(name string) (min, max uint64, ok bool) {
	m, found := catalog[name]
	if !found {
		return 0, 0, false
	}
	return m.min, m.max, true
}

// Expand rewrites mnemonic+parameter into the canonical primitive
// sequence, enforcing the catalog bounds. push is handled separately
// (PushOp) because its operand is a field literal, not a bounded
// integer.
func Expand(name string, n uint64) ([]Instruction, error) {
	m, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("isa: unknown mnemonic %q", name)
	}
	if n < m.min || n > m.max {
		return nil, &ParameterError{Op: name, Value: n, Min: m.min, Max: m.max}
	}
	return m.expand(n), nil
}
