package asm

import (
	"slices"

	"github.com/zkasm/zkasm/isa"
)

// Config tunes graph construction. Both knobs are deliberately
// configuration, not language-level constants.
type Config struct {
	// CycleAlign pads every leaf block with noops until its cycle count
	// is a multiple of this value, matching the fixed-step trace model.
	// Values below 2 disable padding.
	CycleAlign int

	// MaxPaths caps the execution-path count. Every branch construct
	// doubles the count, so the cap is enforced incrementally as
	// branches close, before the rest of the source is expanded.
	MaxPaths int
}

// DefaultConfig returns the builder defaults: 16-cycle block alignment
// and a 32768-path ceiling.
func DefaultConfig() Config {
	return Config{CycleAlign: 16, MaxPaths: 32768}
}

// seqItem is one element of the structural program sequence produced by
// the first builder pass: either a linear instruction run or a branch.
type seqItem struct {
	run    []isa.Instruction
	branch *branchSeq
}

// branchSeq holds the two sides of one if.true construct. index is the
// construct's position in source order (by if.true token); it selects
// the choice bit that decides this construct on a given path.
type branchSeq struct {
	index int
	t     []seqItem
	f     []seqItem
}

// scanFrame is one open if.true during the structural pass.
type scanFrame struct {
	index    int
	items    []seqItem
	cur      []isa.Instruction
	trueSide []seqItem
	inFalse  bool
}

func (f *scanFrame) flush() {
	if len(f.cur) > 0 {
		f.items = append(f.items, seqItem{run: f.cur})
		f.cur = nil
	}
}

// BuildGraph expands a validated token stream and assembles the binary
// execution-path graph. Tokens must come from Tokenize; structural
// errors are assumed caught there. Macro parameters are validated here
// through the catalog, and the path-count ceiling is enforced at every
// endif.
//
// The graph is the complete binary tree over the program's branch
// constructs in source order: level j decides construct j, so a source
// with k constructs always yields exactly 2^k leaves, however the
// constructs nest. A path that skips a construct (because an enclosing
// choice bypassed it) still occupies both subtrees at that construct's
// level, with identical contents. Uniform depth is what lets the
// commitment layer build a complete Merkle tree with no filler leaves.
//
// Both passes run on explicit stacks: branch nesting never grows the
// call stack.
func BuildGraph(tokens []Token, cfg Config) (*Graph, error) {
	items, branches, err := scan(tokens, cfg)
	if err != nil {
		return nil, err
	}
	return materialize(items, branches, cfg), nil
}

// scan expands instruction tokens and folds the stream into a
// structural sequence, doubling the running path count at each closed
// branch.
func scan(tokens []Token, cfg Config) ([]seqItem, int, error) {
	stack := []scanFrame{{}}
	branches := 0
	paths := 1

	for _, tok := range tokens {
		top := &stack[len(stack)-1]
		switch tok.Name {
		case markIf:
			top.flush()
			stack = append(stack, scanFrame{index: branches})
			branches++
		case markElse:
			top.flush()
			top.trueSide = top.items
			top.items = nil
			top.inFalse = true
		case markEndif:
			top.flush()
			closed := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			paths *= 2
			if cfg.MaxPaths > 0 && paths > cfg.MaxPaths {
				return nil, 0, &ResourceError{Paths: paths, Limit: cfg.MaxPaths, Pos: tok.Pos}
			}

			parent := &stack[len(stack)-1]
			parent.items = append(parent.items, seqItem{
				branch: &branchSeq{index: closed.index, t: closed.trueSide, f: closed.items},
			})
		default:
			seq, err := expandToken(tok)
			if err != nil {
				return nil, 0, err
			}
			top.cur = append(top.cur, seq...)
		}
	}

	top := &stack[0]
	top.flush()
	return top.items, branches, nil
}

// materialize builds the arena graph: all 2^k leaf paths in canonical
// order (leaf 0 takes every branch's true side; left-to-right order is
// true-branch-first), then the internal levels folded pairwise up to
// the root.
func materialize(items []seqItem, branches int, cfg Config) *Graph {
	g := &Graph{}
	total := 1 << branches

	for i := 0; i < total; i++ {
		block := flatten(items, uint64(i), branches)
		idx := int32(len(g.nodes))
		g.nodes = append(g.nodes, Node{
			Kind:  LeafNode,
			Block: padBlock(block, cfg.CycleAlign),
			True:  -1,
			False: -1,
		})
		g.leaves = append(g.leaves, idx)
	}

	level := slices.Clone(g.leaves)
	for len(level) > 1 {
		next := make([]int32, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			idx := int32(len(g.nodes))
			g.nodes = append(g.nodes, Node{Kind: BranchNode, True: level[i], False: level[i+1]})
			next = append(next, idx)
		}
		level = next
	}
	g.root = level[0]
	return g
}

// takesTrue reports whether leaf i follows the true side of branch
// construct j (0-based source order) in a program with k constructs.
// Construct 0 is the most significant choice bit; a clear bit means
// true, so leaf 0 is the all-true path and true subtrees sort first.
func takesTrue(i uint64, j, k int) bool {
	return (i>>(k-1-j))&1 == 0
}

// flatten walks the structural sequence with an explicit stack and
// collects the linear instruction path selected by leaf i's choices.
type flattenFrame struct {
	items []seqItem
	pos   int
}

func flatten(items []seqItem, i uint64, k int) []isa.Instruction {
	var out []isa.Instruction
	stack := []flattenFrame{{items: items}}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.pos == len(f.items) {
			stack = stack[:len(stack)-1]
			continue
		}
		it := f.items[f.pos]
		f.pos++
		if it.branch == nil {
			out = append(out, it.run...)
			continue
		}
		side := it.branch.t
		if !takesTrue(i, it.branch.index, k) {
			side = it.branch.f
		}
		stack = append(stack, flattenFrame{items: side})
	}
	return out
}

// padBlock appends noops until the block's cycle count is a multiple
// of align.
func padBlock(block []isa.Instruction, align int) []isa.Instruction {
	if align < 2 {
		return block
	}
	var cycles uint64
	for _, in := range block {
		cycles += uint64(in.Cycles)
	}
	for cycles%uint64(align) != 0 {
		block = append(block, isa.Instruction{Op: isa.Noop, Cycles: 1})
		cycles++
	}
	return block
}
