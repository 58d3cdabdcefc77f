package compiler

import (
	"slices"

	"github.com/zkasm/zkasm/asm"
	"github.com/zkasm/zkasm/isa"
	"github.com/zkasm/zkasm/merkle"
)

// Program is the compiled artifact: the execution-path graph together
// with its Merkle commitment. It is immutable and exclusively owns its
// graph and tree; the external proving pipeline consumes it through
// the accessors below.
type Program struct {
	graph *asm.Graph
	tree  *merkle.Tree
}

// Root returns the program commitment digest.
func (p *Program) Root() merkle.Digest {
	return p.tree.Root()
}

// HashName returns the hash capability the commitment was built with.
func (p *Program) HashName() string {
	return p.tree.HashName()
}

// LeafCount returns the number of execution paths (2^k for k branch
// constructs).
func (p *Program) LeafCount() int {
	return p.graph.LeafCount()
}

// Depth returns the graph's branch depth.
func (p *Program) Depth() int {
	return p.graph.Depth()
}

// Leaf returns a copy of leaf i's complete linear instruction
// sequence, alignment padding included. Leaf indices follow the
// canonical left-to-right, true-branch-first order.
func (p *Program) Leaf(i int) []isa.Instruction {
	return slices.Clone(p.graph.Leaf(i))
}

// LeafDigest returns leaf i's digest under the program's hash scheme.
func (p *Program) LeafDigest(i int) merkle.Digest {
	return p.tree.LeafDigest(i)
}

// Proof returns the Merkle authentication path for leaf i: sibling
// digests ordered bottom-up.
func (p *Program) Proof(i int) ([]merkle.Digest, error) {
	return p.tree.Proof(i)
}

// Graph exposes the execution graph for inspection.
func (p *Program) Graph() *asm.Graph {
	return p.graph
}
