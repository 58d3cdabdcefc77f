package field

import (
	"math/big"
	"testing"
)

func TestModulusValue(t *testing.T) {
	// p = 2^128 - 45*2^40 + 1.
	want := new(big.Int).Lsh(big.NewInt(1), 128)
	adj := new(big.Int).Lsh(big.NewInt(45), 40)
	want.Sub(want, adj)
	want.Add(want, big.NewInt(1))
	if Modulus().Cmp(want) != 0 {
		t.Fatalf("modulus mismatch: got %s, want %s", Modulus(), want)
	}
}

func TestFromDecimalReduces(t *testing.T) {
	e, err := FromDecimal(ModulusDecimal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.IsZero() {
		t.Fatalf("p mod p should be zero, got %s", e)
	}

	// p + 5 wraps to 5, never rejected.
	big5 := new(big.Int).Add(Modulus(), big.NewInt(5))
	e, err = FromDecimal(big5.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.Equal(FromUint64(5)) {
		t.Fatalf("expected 5, got %s", e)
	}
}

func TestFromDecimalRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "abc", "-1", "12x"} {
		if _, err := FromDecimal(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestAddWraps(t *testing.T) {
	pm1, err := FromDecimal(new(big.Int).Sub(Modulus(), big.NewInt(1)).String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := pm1.Add(FromUint64(1)); !got.IsZero() {
		t.Fatalf("(p-1)+1 should wrap to zero, got %s", got)
	}
	if got := pm1.Add(FromUint64(3)); !got.Equal(FromUint64(2)) {
		t.Fatalf("(p-1)+3 should wrap to 2, got %s", got)
	}
}

func TestSubBorrows(t *testing.T) {
	got := FromUint64(2).Sub(FromUint64(5))
	want, err := FromDecimal(new(big.Int).Sub(Modulus(), big.NewInt(3)).String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("2-5 should be p-3, got %s", got)
	}
}

func TestMul(t *testing.T) {
	if got := FromUint64(6).Mul(FromUint64(7)); !got.Equal(FromUint64(42)) {
		t.Fatalf("expected 42, got %s", got)
	}
	// (p-1)^2 mod p = 1.
	pm1, _ := FromDecimal(new(big.Int).Sub(Modulus(), big.NewInt(1)).String())
	if got := pm1.Mul(pm1); !got.Equal(One()) {
		t.Fatalf("(p-1)^2 should be 1, got %s", got)
	}
}

func TestBytes16LittleEndian(t *testing.T) {
	b := FromUint64(0x0102).Bytes16()
	if b[0] != 0x02 || b[1] != 0x01 {
		t.Fatalf("expected little-endian low bytes, got %x", b)
	}
	for i := 2; i < 16; i++ {
		if b[i] != 0 {
			t.Fatalf("byte %d should be zero, got %x", i, b[i])
		}
	}
}
