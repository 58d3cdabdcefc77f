package merkle

import (
	"errors"
	"testing"

	"github.com/zkasm/zkasm/asm"
)

func buildGraph(t *testing.T, source string) *asm.Graph {
	t.Helper()
	toks, err := asm.Tokenize(source)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	g, err := asm.BuildGraph(toks, asm.DefaultConfig())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return g
}

func TestSingleLeafRootEqualsLeafDigest(t *testing.T) {
	g := buildGraph(t, "push.3 push.5 add")
	h := Blake2b()
	tree, err := Build(g, h, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.LeafCount() != 1 {
		t.Fatalf("expected 1 leaf, got %d", tree.LeafCount())
	}
	want, err := h.Sum(EncodeBlock(g.Leaf(0)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Root() != want {
		t.Fatalf("root should equal the only leaf digest")
	}
	if tree.Depth() != 0 {
		t.Fatalf("expected depth 0, got %d", tree.Depth())
	}

	proof, err := tree.Proof(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(proof) != 0 {
		t.Fatalf("single-leaf proof should be empty, got %d siblings", len(proof))
	}
}

func TestTwoLeafRoot(t *testing.T) {
	g := buildGraph(t, "if.true push.1 else push.0 endif")
	h := Blake2b()
	tree, err := Build(g, h, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d0, _ := h.Sum(EncodeBlock(g.Leaf(0)))
	d1, _ := h.Sum(EncodeBlock(g.Leaf(1)))
	want, _ := h.Sum(join(d0, d1))
	if tree.Root() != want {
		t.Fatalf("root should be h(leaf0 || leaf1)")
	}
	if tree.LeafDigest(0) != d0 || tree.LeafDigest(1) != d1 {
		t.Fatalf("leaf digests out of order")
	}
}

func TestProofVerifyRoundTrip(t *testing.T) {
	src := "push.7 if.true push.1 else push.0 endif if.true add else mul endif"
	g := buildGraph(t, src)
	h := Sha3()
	tree, err := Build(g, h, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.LeafCount() != 4 {
		t.Fatalf("expected 4 leaves, got %d", tree.LeafCount())
	}
	for i := 0; i < tree.LeafCount(); i++ {
		proof, err := tree.Proof(i)
		if err != nil {
			t.Fatalf("proof %d: %v", i, err)
		}
		if len(proof) != 2 {
			t.Fatalf("proof %d: expected 2 siblings, got %d", i, len(proof))
		}
		ok, err := Verify(tree.Root(), i, tree.LeafDigest(i), proof, h)
		if err != nil {
			t.Fatalf("verify %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("proof %d should verify", i)
		}
		// A proof for leaf i must not verify at a different index.
		ok, err = Verify(tree.Root(), i^1, tree.LeafDigest(i), proof, h)
		if err != nil {
			t.Fatalf("verify %d: %v", i, err)
		}
		if ok {
			t.Fatalf("proof %d should fail at wrong index", i)
		}
	}
}

func TestProofBadIndex(t *testing.T) {
	g := buildGraph(t, "push.1")
	tree, err := Build(g, Blake2b(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tree.Proof(-1); !errors.Is(err, ErrBadLeafIndex) {
		t.Fatalf("expected ErrBadLeafIndex, got %v", err)
	}
	if _, err := tree.Proof(1); !errors.Is(err, ErrBadLeafIndex) {
		t.Fatalf("expected ErrBadLeafIndex, got %v", err)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	// Three branches: 8 leaves, enough to split across workers.
	src := "if.true push.1 else push.0 endif " +
		"if.true push.2 else push.3 endif " +
		"if.true push.4 else push.5 endif"
	g := buildGraph(t, src)
	h := Blake2b()

	seq, err := Build(g, h, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	par, err := Build(g, h, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seq.Root() != par.Root() {
		t.Fatalf("parallel build changed the root")
	}
	for i := 0; i < seq.LeafCount(); i++ {
		if seq.LeafDigest(i) != par.LeafDigest(i) {
			t.Fatalf("leaf %d digest differs between builds", i)
		}
	}
}

func TestHashSchemesDiffer(t *testing.T) {
	g := buildGraph(t, "push.3 push.5 add")
	b, err := Build(g, Blake2b(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := Build(g, Sha3(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	k, err := Build(g, Keccak(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Root() == s.Root() || b.Root() == k.Root() || s.Root() == k.Root() {
		t.Fatalf("distinct schemes should give distinct roots")
	}
}

type failingHasher struct{ err error }

func (failingHasher) Name() string { return "failing" }
func (f failingHasher) Sum([]byte) (Digest, error) {
	return Digest{}, f.err
}

type panickingHasher struct{}

func (panickingHasher) Name() string { return "panicking" }
func (panickingHasher) Sum([]byte) (Digest, error) {
	panic("boom")
}

func TestHasherErrorPropagates(t *testing.T) {
	g := buildGraph(t, "push.1")
	cause := errors.New("hardware fault")
	_, err := Build(g, failingHasher{err: cause}, 1)
	var herr *HashError
	if !errors.As(err, &herr) {
		t.Fatalf("expected HashError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause should be preserved, got %v", err)
	}
	if herr.Hash != "failing" {
		t.Fatalf("wrong hash name: %q", herr.Hash)
	}
}

func TestHasherPanicBecomesError(t *testing.T) {
	g := buildGraph(t, "if.true push.1 else push.0 endif")
	for _, parallelism := range []int{1, 2} {
		_, err := Build(g, panickingHasher{}, parallelism)
		var herr *HashError
		if !errors.As(err, &herr) {
			t.Fatalf("parallelism %d: expected HashError, got %v", parallelism, err)
		}
	}
}

func TestNewByName(t *testing.T) {
	for _, name := range []string{"blake2b", "blake2b-256", "sha3", "sha3-256", "keccak", "keccak256"} {
		h, err := New(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if h == nil {
			t.Fatalf("%s: nil hasher", name)
		}
	}
	if _, err := New("md5"); err == nil {
		t.Fatalf("md5 should be rejected")
	}
}

func TestEncodeBlockWidth(t *testing.T) {
	g := buildGraph(t, "push.3 push.5 add")
	block := g.Leaf(0)
	enc := EncodeBlock(block)
	if len(enc) != len(block)*17 {
		t.Fatalf("expected %d bytes, got %d", len(block)*17, len(enc))
	}
}
