package merkle

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zkasm/zkasm/asm"
	"github.com/zkasm/zkasm/isa"
)

// Tree errors.
var (
	ErrBadLeafIndex = errors.New("merkle: leaf index out of range")
)

// EncodeBlock is the canonical leaf encoding: the ordered
// concatenation of each instruction's fixed-width form (opcode byte
// plus 16-byte little-endian immediate). Downstream verifiers must
// replicate it bit for bit, alignment padding included.
func EncodeBlock(block []isa.Instruction) []byte {
	out := make([]byte, 0, len(block)*isa.EncodedSize)
	for _, in := range block {
		out = in.Encode(out)
	}
	return out
}

// Tree is the Merkle tree over a program's execution paths. Leaf index
// i is the graph's canonical leaf i (left-to-right, true branch
// first). levels[0] holds the leaf digests; each higher level halves
// until the root. The graph guarantees a power-of-two leaf count, so
// no filler leaves are ever needed; a branch-free program is the
// degenerate one-node tree whose root equals its only leaf digest.
type Tree struct {
	hashName string
	levels   [][]Digest
}

// Build hashes every leaf of the graph with h and folds the digest
// levels. Leaves are hashed independently across min(parallelism,
// leaves) workers; ordering is load-bearing and preserved by indexed
// writes. parallelism < 2 hashes sequentially.
func Build(g *asm.Graph, h Hasher, parallelism int) (*Tree, error) {
	n := g.LeafCount()
	leaves := make([]Digest, n)

	if parallelism > n {
		parallelism = n
	}
	if parallelism > 1 {
		var wg sync.WaitGroup
		errs := make([]error, parallelism)
		for w := 0; w < parallelism; w++ {
			lo := w * n / parallelism
			hi := (w + 1) * n / parallelism
			wg.Add(1)
			go func(w, lo, hi int) {
				defer wg.Done()
				for i := lo; i < hi; i++ {
					d, err := safeSum(h, EncodeBlock(g.Leaf(i)))
					if err != nil {
						errs[w] = err
						return
					}
					leaves[i] = d
				}
			}(w, lo, hi)
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	} else {
		for i := 0; i < n; i++ {
			d, err := safeSum(h, EncodeBlock(g.Leaf(i)))
			if err != nil {
				return nil, err
			}
			leaves[i] = d
		}
	}

	t := &Tree{hashName: h.Name(), levels: [][]Digest{leaves}}
	cur := leaves
	for len(cur) > 1 {
		next := make([]Digest, len(cur)/2)
		for i := range next {
			d, err := safeSum(h, join(cur[2*i], cur[2*i+1]))
			if err != nil {
				return nil, err
			}
			next[i] = d
		}
		t.levels = append(t.levels, next)
		cur = next
	}
	return t, nil
}

// safeSum invokes the injected capability, converting error returns
// and panics into HashError.
func safeSum(h Hasher, data []byte) (d Digest, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &HashError{Hash: h.Name(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	d, err = h.Sum(data)
	if err != nil {
		err = &HashError{Hash: h.Name(), Err: err}
	}
	return d, err
}

func join(left, right Digest) []byte {
	out := make([]byte, 0, 64)
	out = append(out, left[:]...)
	return append(out, right[:]...)
}

// HashName returns the name of the capability that built the tree.
func (t *Tree) HashName() string { return t.hashName }

// Root returns the program commitment digest.
func (t *Tree) Root() Digest {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// LeafCount returns the number of leaf digests.
func (t *Tree) LeafCount() int {
	return len(t.levels[0])
}

// LeafDigest returns leaf i's digest.
func (t *Tree) LeafDigest(i int) Digest {
	return t.levels[0][i]
}

// Depth returns the number of levels below the root.
func (t *Tree) Depth() int {
	return len(t.levels) - 1
}

// Proof returns the sibling digest path for leaf i, ordered bottom-up.
// The proof is empty for a single-leaf tree.
func (t *Tree) Proof(i int) ([]Digest, error) {
	if i < 0 || i >= t.LeafCount() {
		return nil, fmt.Errorf("%w: %d of %d", ErrBadLeafIndex, i, t.LeafCount())
	}
	proof := make([]Digest, 0, t.Depth())
	idx := i
	for _, level := range t.levels[:len(t.levels)-1] {
		proof = append(proof, level[idx^1])
		idx >>= 1
	}
	return proof, nil
}

// Verify checks a leaf digest against a root using the sibling path
// produced by Proof, replicating the index-bit ordering convention.
func Verify(root Digest, index int, leaf Digest, siblings []Digest, h Hasher) (bool, error) {
	cur := leaf
	idx := index
	for _, sib := range siblings {
		var err error
		if idx&1 == 0 {
			cur, err = safeSum(h, join(cur, sib))
		} else {
			cur, err = safeSum(h, join(sib, cur))
		}
		if err != nil {
			return false, err
		}
		idx >>= 1
	}
	return cur == root, nil
}
