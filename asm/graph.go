package asm

import "github.com/zkasm/zkasm/isa"

// NodeKind discriminates the two execution-node variants.
type NodeKind uint8

const (
	// LeafNode holds one complete linear execution path.
	LeafNode NodeKind = iota
	// BranchNode forks into a true subtree and a false subtree.
	BranchNode
)

// Node is one execution-graph node in the arena. Leaves carry the full
// padded instruction sequence of their path; branches reference their
// children by arena index.
type Node struct {
	Kind  NodeKind
	Block []isa.Instruction
	True  int32
	False int32
}

// Graph is the binary tree of execution paths, stored as an arena of
// nodes referenced by index. leaves records arena indices of the
// leaves in canonical order: left-to-right, true branch first. That
// ordering defines Merkle leaf indices downstream and must never
// change.
type Graph struct {
	nodes  []Node
	root   int32
	leaves []int32
}

// Root returns the root node.
func (g *Graph) Root() *Node {
	return &g.nodes[g.root]
}

// Node returns the arena node at idx.
func (g *Graph) Node(idx int32) *Node {
	return &g.nodes[idx]
}

// LeafCount returns the number of execution paths. It is 2^k for a
// source with k branch constructs.
func (g *Graph) LeafCount() int {
	return len(g.leaves)
}

// Leaf returns leaf i's complete linear instruction sequence, alignment
// padding included, in canonical leaf order.
func (g *Graph) Leaf(i int) []isa.Instruction {
	return g.nodes[g.leaves[i]].Block
}

// LeafCycles returns the total cycle cost of leaf i's block.
func (g *Graph) LeafCycles(i int) uint64 {
	var total uint64
	for _, in := range g.Leaf(i) {
		total += uint64(in.Cycles)
	}
	return total
}

// Depth returns the number of branch levels above the deepest leaf.
// A straight-line program has depth 0.
func (g *Graph) Depth() int {
	type frame struct {
		idx   int32
		depth int
	}
	max := 0
	stack := []frame{{g.root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &g.nodes[f.idx]
		if n.Kind == LeafNode {
			if f.depth > max {
				max = f.depth
			}
			continue
		}
		stack = append(stack, frame{n.False, f.depth + 1}, frame{n.True, f.depth + 1})
	}
	return max
}
